package viewmodel

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
)

// Expirer is anything with an expiry date.
type Expirer interface {
	ExpiresOn() time.Time
}

// DefaultExpiringDays is the expiry window used when none is configured.
const DefaultExpiringDays = 30

// ExpiringSoon returns the items whose expiry falls on a calendar day between today and
// today+withinDays, both inclusive, soonest first. Items that have already expired are
// left out. Days are taken in now's location.
func ExpiringSoon[T Expirer](items []T, withinDays int, now time.Time) []T {
	today := startOfDay(now, now.Location())
	last := today.AddDate(0, 0, withinDays)

	out := []T{}
	for _, item := range items {
		day := startOfDay(item.ExpiresOn(), now.Location())
		if day.Before(today) || day.After(last) {
			continue
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ExpiresOn().Before(out[j].ExpiresOn())
	})
	return out
}

// ExpiryLabel describes an expiry date relative to now, such as "expires today",
// "expires 3 weeks from now" or "expired 2 days ago".
func ExpiryLabel(expiry, now time.Time) string {
	day := startOfDay(expiry, now.Location())
	today := startOfDay(now, now.Location())

	switch {
	case day.Equal(today):
		return "expires today"
	case day.Before(today):
		return "expired " + humanize.RelTime(day, today, "ago", "from now")
	default:
		return "expires " + humanize.RelTime(day, today, "ago", "from now")
	}
}

// ExpiringBannerTitle is the headline of the expiring-medicines banner. It is empty
// when nothing is expiring, which hides the banner.
func ExpiringBannerTitle(count int) string {
	switch {
	case count <= 0:
		return ""
	case count == 1:
		return "1 medicine is expiring this month:"
	default:
		return fmt.Sprintf("%d medicines are expiring this month:", count)
	}
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
