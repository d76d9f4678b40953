package model

import (
	"net/url"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for filters and bookings.
const DateLayout = "2006-01-02"

// FilterCriteria narrows a medicine search. Present criteria combine as AND.
type FilterCriteria struct {
	StartDate *time.Time
	Name      string
	Category  string
}

// IsEmpty reports whether no criterion is set.
func (f FilterCriteria) IsEmpty() bool {
	return strings.TrimSpace(f.Name) == "" &&
		strings.TrimSpace(f.Category) == "" &&
		f.StartDate == nil
}

// Values builds query parameters, omitting empty criteria.
func (f FilterCriteria) Values() url.Values {
	v := url.Values{}
	if name := strings.TrimSpace(f.Name); name != "" {
		v.Set("name", name)
	}
	if category := strings.TrimSpace(f.Category); category != "" {
		v.Set("category", category)
	}
	if f.StartDate != nil {
		v.Set("startDate", f.StartDate.Format(DateLayout))
	}
	return v
}

// ParseDate parses a calendar date, treating blank input as absent.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
