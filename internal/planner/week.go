package planner

import "time"

// DateLayout is the ISO date format used everywhere plan items carry dates.
const DateLayout = "2006-01-02"

// WeekStart returns the most recent occurrence of the chosen start-of-week
// day on or before t, at midnight local time. weekStartsOn follows
// time.Weekday numbering: Sunday (0) or Monday (1).
func WeekStart(t time.Time, weekStartsOn time.Weekday) time.Time {
	day := int(t.Weekday())
	start := int(weekStartsOn)

	diff := day - start
	if day < start {
		diff = day + 7 - start
	}

	t = t.AddDate(0, 0, -diff)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekDays returns the 7 consecutive calendar dates starting at start.
func WeekDays(start time.Time) []time.Time {
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// AddWeeks shifts a date by whole weeks; used when paging the planner view.
func AddWeeks(t time.Time, weeks int) time.Time {
	return t.AddDate(0, 0, weeks*7)
}

// Window is an inclusive ISO date range fetched in one round trip.
type Window struct {
	FromISO string `json:"fromISO"`
	ToISO   string `json:"toISO"`
}

// ThreeWeekWindow bounds a single fetch that covers the previous, current and
// next week around the anchor, so paging one week in either direction needs
// no further round trips. The window is [anchor-7, anchor+13]: one week back,
// the remainder of the anchor's own week, and a full next week.
func ThreeWeekWindow(anchor time.Time) Window {
	from := anchor.AddDate(0, 0, -7)
	to := anchor.AddDate(0, 0, 6+7)
	return Window{
		FromISO: from.Format(DateLayout),
		ToISO:   to.Format(DateLayout),
	}
}
