// Package dates turns the date strings found in report text into calendar dates.
package dates

import (
	"strings"
	"time"
)

// CanonicalLayout is the rendering used for every normalized date.
const CanonicalLayout = "2006/01/02"

// DefaultLayouts is used when a Normalizer is built without layouts.
var DefaultLayouts = []string{
	"2006/1/2",
	"2006-1-2",
	"2006.1.2",
	"2006年1月2日",
	"Jan 2, 2006",
	"Jan. 2, 2006",
	"Jan 2,2006",
	"January 2, 2006",
	"2-Jan-2006",
	"2-January-2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Normalizer tries a fixed, ordered list of layouts.
type Normalizer struct {
	layouts []string
}

func NewNormalizer(layouts []string) *Normalizer {
	if len(layouts) == 0 {
		layouts = DefaultLayouts
	}
	out := make([]string, len(layouts))
	copy(out, layouts)
	return &Normalizer{layouts: out}
}

// Normalize returns the date for the first layout that parses raw, as midnight UTC.
// ok is false when no layout matches; that is not an error.
func (n *Normalizer) Normalize(raw string) (time.Time, bool) {
	s := strings.Join(strings.Fields(raw), " ")
	s = strings.TrimRight(s, ",;")
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range n.layouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// Format renders t in CanonicalLayout; the zero time renders as "".
func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(CanonicalLayout)
}
