package components

import (
	"strings"

	"github.com/Veraticus/carepoint/internal/tui/themes"
	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field describes one text input of a form.
type field struct {
	label       string
	placeholder string
	limit       int
	password    bool
}

// form is a column of text inputs followed by extra focus stops that the owning page
// draws itself, such as a role or time-slot selector.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
	extra  int
}

func newForm(extra int, fields ...field) form {
	f := form{extra: extra}
	for _, fd := range fields {
		ti := textinput.New()
		ti.Placeholder = fd.placeholder
		ti.CharLimit = fd.limit
		if ti.CharLimit == 0 {
			ti.CharLimit = 100
		}
		if fd.password {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		ti.Cursor.SetMode(cursor.CursorStatic)
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, ti)
	}
	f.focusOn(0)
	return f
}

func (f *form) stops() int {
	return len(f.inputs) + f.extra
}

func (f *form) focusOn(i int) {
	n := f.stops()
	if n == 0 {
		return
	}
	f.focus = ((i % n) + n) % n
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
}

func (f *form) next() { f.focusOn(f.focus + 1) }

func (f *form) prev() { f.focusOn(f.focus - 1) }

// onInput reports whether a text input, rather than an extra stop, has focus.
func (f form) onInput() bool {
	return f.focus < len(f.inputs)
}

// update forwards msg to the focused input.
func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	if !f.onInput() {
		return f, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f form) value(i int) string {
	return f.inputs[i].Value()
}

func (f *form) setValue(i int, s string) {
	f.inputs[i].SetValue(s)
}

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.focusOn(0)
}

func (f form) view(theme themes.Theme) string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := theme.Subtitle.Render(f.labels[i])
		if i == f.focus {
			label = theme.Bold.Render(f.labels[i])
		}
		b.WriteString(label)
		b.WriteString("\n")
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// selector renders a horizontal choice list, marking the chosen option.
func selector(theme themes.Theme, options []string, chosen int, focused bool) string {
	parts := make([]string, len(options))
	for i, opt := range options {
		switch {
		case i == chosen && focused:
			parts[i] = theme.Selected.Render(" " + opt + " ")
		case i == chosen:
			parts[i] = theme.Highlighted.Render(" " + opt + " ")
		default:
			parts[i] = theme.Faint.Render(" " + opt + " ")
		}
	}
	return strings.Join(parts, " ")
}
