package viewmodel

import (
	"testing"
	"time"

	"github.com/Veraticus/carepoint/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func medicine(name string, expiry time.Time) model.Medicine {
	return model.Medicine{ID: name, Name: name, ExpiryDate: expiry}
}

func names(meds []model.Medicine) []string {
	out := []string{}
	for _, m := range meds {
		out = append(out, m.Name)
	}
	return out
}

func TestExpiringSoon(t *testing.T) {
	now := time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, offset) }

	tests := []struct {
		name  string
		items []model.Medicine
		want  []string
		days  int
	}{
		{
			name:  "29 in, 31 out",
			items: []model.Medicine{medicine("soon", day(29)), medicine("later", day(31))},
			days:  30,
			want:  []string{"soon"},
		},
		{
			name:  "window edge is inclusive",
			items: []model.Medicine{medicine("edge", time.Date(2026, 11, 14, 23, 59, 0, 0, time.UTC))},
			days:  30,
			want:  []string{"edge"},
		},
		{
			name: "today counts even if earlier in the day",
			items: []model.Medicine{
				medicine("this morning", time.Date(2026, 10, 15, 1, 0, 0, 0, time.UTC)),
			},
			days: 30,
			want: []string{"this morning"},
		},
		{
			name:  "already expired is excluded",
			items: []model.Medicine{medicine("yesterday", day(-1)), medicine("next week", day(7))},
			days:  30,
			want:  []string{"next week"},
		},
		{
			name: "sorted soonest first",
			items: []model.Medicine{
				medicine("c", day(20)),
				medicine("a", day(2)),
				medicine("b", day(10)),
			},
			days: 30,
			want: []string{"a", "b", "c"},
		},
		{
			name:  "empty",
			items: nil,
			days:  30,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(ExpiringSoon(tt.items, tt.days, now))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ExpiringSoon() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExpiryLabel(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		expiry time.Time
		name   string
		want   string
	}{
		{name: "today", expiry: time.Date(2026, 10, 15, 23, 0, 0, 0, time.UTC), want: "expires today"},
		{name: "tomorrow", expiry: now.AddDate(0, 0, 1), want: "expires 1 day from now"},
		{name: "three days ago", expiry: now.AddDate(0, 0, -3), want: "expired 3 days ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpiryLabel(tt.expiry, now))
		})
	}
}

func TestExpiringBannerTitle(t *testing.T) {
	assert.Empty(t, ExpiringBannerTitle(0))
	assert.Equal(t, "1 medicine is expiring this month:", ExpiringBannerTitle(1))
	assert.Equal(t, "4 medicines are expiring this month:", ExpiringBannerTitle(4))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "Paracet...", TruncateString("Paracetamol 500mg", 10))
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "a b c", SanitizeForDisplay("a\n b\x00\tc"))
	assert.Equal(t, "██░░", Bar(2, 4))
	assert.Equal(t, "████", Bar(9, 4))
	assert.Equal(t, "", Bar(1, 0))
	assert.Equal(t, "-", FormatDate(time.Time{}))
	assert.Equal(t, "Thu Oct 15 2026", FormatDateLong(time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "medicines", Plural(2, "medicine", "medicines"))
}
