package timewindow

import (
	"time"
)

// Filter names accepted by Resolve. Anything else falls back to weekly.
const (
	FilterToday   = "today"
	FilterDaily   = "daily"
	FilterWeekly  = "weekly"
	FilterMonthly = "monthly"
	FilterYearly  = "yearly"
)

// Bucket is one sub-interval of a resolved window. Membership is the
// half-open interval [Start, End).
type Bucket struct {
	Label string
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside [Start, End).
func (b Bucket) Contains(t time.Time) bool {
	return !t.Before(b.Start) && t.Before(b.End)
}

// Window is a resolved time filter: the [Start, End) range records are
// selected from, plus the ordered bucket axis that series align to.
// Buckets tile [Start, last bucket end) with no gaps or overlaps; the tail
// bucket may extend past End, which only means it is still filling.
type Window struct {
	Filter  string
	Start   time.Time
	End     time.Time
	Buckets []Bucket
}

// Contains reports whether t falls inside the record-selection range [Start, End).
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Labels returns the ordered bucket labels.
func (w Window) Labels() []string {
	labels := make([]string, len(w.Buckets))
	for i, b := range w.Buckets {
		labels[i] = b.Label
	}
	return labels
}

// BucketIndex returns the index of the bucket containing t, or -1.
func (w Window) BucketIndex(t time.Time) int {
	for i, b := range w.Buckets {
		if b.Contains(t) {
			return i
		}
	}
	return -1
}

// Resolve maps a symbolic time filter to a concrete window in now's
// location. today and daily both get 24 hourly buckets (today starts at
// midnight, daily runs 24h back from now); weekly gets 7 day buckets from
// midnight of today-6; monthly gets 15 two-day buckets over 30 days;
// yearly gets 12 calendar-month buckets. An unrecognized filter name
// resolves to weekly, never an error.
func Resolve(filter string, now time.Time) Window {
	switch filter {
	case FilterToday:
		start := midnight(now)
		return Window{
			Filter:  FilterToday,
			Start:   start,
			End:     now,
			Buckets: hourly(start, 24),
		}
	case FilterDaily:
		start := now.Add(-24 * time.Hour)
		return Window{
			Filter:  FilterDaily,
			Start:   start,
			End:     now,
			Buckets: hourly(start, 24),
		}
	case FilterMonthly:
		start := midnight(now).AddDate(0, 0, -29)
		return Window{
			Filter:  FilterMonthly,
			Start:   start,
			End:     now,
			Buckets: spans(start, 15, 2),
		}
	case FilterYearly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -11, 0)
		return Window{
			Filter:  FilterYearly,
			Start:   start,
			End:     now,
			Buckets: monthly(start, 12),
		}
	default:
		// Unknown filter names degrade to the weekly view.
		return weeklyWindow(now)
	}
}

func weeklyWindow(now time.Time) Window {
	start := midnight(now).AddDate(0, 0, -6)
	return Window{
		Filter:  FilterWeekly,
		Start:   start,
		End:     now,
		Buckets: daily(start, 7),
	}
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func hourly(start time.Time, n int) []Bucket {
	buckets := make([]Bucket, n)
	for i := range buckets {
		s := start.Add(time.Duration(i) * time.Hour)
		buckets[i] = Bucket{
			Label: s.Format("15:04"),
			Start: s,
			End:   s.Add(time.Hour),
		}
	}
	return buckets
}

func daily(start time.Time, n int) []Bucket {
	buckets := make([]Bucket, n)
	for i := range buckets {
		s := start.AddDate(0, 0, i)
		buckets[i] = Bucket{
			Label: s.Format("Jan 02"),
			Start: s,
			End:   s.AddDate(0, 0, 1),
		}
	}
	return buckets
}

// spans builds n consecutive buckets of width days each.
func spans(start time.Time, n, width int) []Bucket {
	buckets := make([]Bucket, n)
	for i := range buckets {
		s := start.AddDate(0, 0, i*width)
		e := s.AddDate(0, 0, width)
		buckets[i] = Bucket{
			Label: s.Format("Jan 02") + " - " + e.AddDate(0, 0, -1).Format("Jan 02"),
			Start: s,
			End:   e,
		}
	}
	return buckets
}

func monthly(start time.Time, n int) []Bucket {
	buckets := make([]Bucket, n)
	for i := range buckets {
		s := start.AddDate(0, i, 0)
		buckets[i] = Bucket{
			Label: s.Format("Jan 2006"),
			Start: s,
			End:   s.AddDate(0, 1, 0),
		}
	}
	return buckets
}
