package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func TestNewInterruptHandler(t *testing.T) {
	tests := []struct {
		writer io.Writer
		name   string
	}{
		{name: "with custom writer", writer: &bytes.Buffer{}},
		{name: "with nil writer", writer: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewInterruptHandler(tt.writer)
			assert.NotNil(t, handler)
			assert.NotNil(t, handler.writer)
			assert.False(t, handler.WasInterrupted())
		})
	}
}

func TestInterruptCancelsOnce(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	ctx := handler.HandleInterrupts(context.Background(), "Loading the dashboard")
	select {
	case <-ctx.Done():
		t.Fatal("context canceled before any interrupt")
	default:
	}

	handler.Interrupt()
	handler.Interrupt()

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not canceled after interrupt")
	}
	assert.True(t, handler.WasInterrupted())
	assert.Equal(t, 1, strings.Count(output.String(), "Loading the dashboard interrupted."))
	assert.Contains(t, output.String(), "Nothing was saved locally")
}

func TestInterruptWithoutHandling(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	handler.Interrupt()
	assert.True(t, handler.WasInterrupted())
	assert.Contains(t, output.String(), "Request interrupted.")
}

func TestPrompter(t *testing.T) {
	t.Run("reads trimmed lines in order", func(t *testing.T) {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader("  ada@hospital.org \nsecret"), &out)

		email, err := p.Ask(context.Background(), "Email")
		require.NoError(t, err)
		password, err := p.Ask(context.Background(), "Password")
		require.NoError(t, err)

		assert.Equal(t, "ada@hospital.org", email)
		assert.Equal(t, "secret", password)
		assert.Contains(t, out.String(), "Email: ")
	})

	t.Run("end of input", func(t *testing.T) {
		p := NewPrompter(strings.NewReader(""), nil)
		_, err := p.ReadLine(context.Background())
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("canceled context", func(t *testing.T) {
		r, w := io.Pipe()
		defer func() {
			_ = w.Close()
		}()
		p := NewPrompter(r, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := p.ReadLine(ctx)
		assert.ErrorIs(t, err, ErrInputCancelled)
	})

	t.Run("nil reader panics", func(t *testing.T) {
		assert.Panics(t, func() { NewPrompter(nil, nil) })
	})
}

func TestFormatters(t *testing.T) {
	assert.Contains(t, FormatSuccess("Booked"), SuccessIcon+" Booked")
	assert.Contains(t, FormatError("Failed"), ErrorIcon+" Failed")
	assert.Contains(t, FormatTitle("Finance"), "Finance")
	assert.Contains(t, FormatPrompt("Email"), "Email: ")

	box := RenderBox("Summary", "Income $10.00")
	assert.Contains(t, box, "Summary")
	assert.Contains(t, box, "Income $10.00")
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"Name", "Qty"},
		[][]string{{"Aspirin", "3"}, {"Insulin", "12"}},
	)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[1], "Aspirin")
	assert.Contains(t, lines[2], "Insulin")
}

func TestNewProgress(t *testing.T) {
	out := &syncBuffer{}
	bar := NewProgress(out, 2, "Loading")

	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Add(1))
	assert.True(t, bar.IsFinished())
}
