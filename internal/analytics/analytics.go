// Package analytics derives aggregate views from a task list.
//
// Every function is pure and recomputes from the slice it is given; nothing
// is cached between calls.
package analytics

import (
	"time"

	"taskdeck/internal/service"
)

// TrendDays is the length of the completion trend window.
const TrendDays = 7

// StatusCounts maps every status to its task count.
type StatusCounts map[service.Status]int

// PriorityCounts maps every priority level to its task count.
type PriorityCounts map[service.Priority]int

// DayCount is one bucket of the completion trend.
type DayCount struct {
	Day       time.Time `json:"day" yaml:"day"` // start of the day
	Label     string    `json:"label" yaml:"label"`
	Completed int       `json:"completed" yaml:"completed"`
}

// Summary bundles the analytics shown next to the board.
type Summary struct {
	Total    int            `json:"total" yaml:"total"`
	Status   StatusCounts   `json:"status" yaml:"status"`
	Priority PriorityCounts `json:"priority" yaml:"priority"`
	Trend    []DayCount     `json:"trend" yaml:"trend"`
}

// CountStatus counts tasks per status. All three statuses are present in the
// result, possibly zero. Tasks with an unknown status are not counted.
func CountStatus(tasks []service.Task) StatusCounts {
	counts := StatusCounts{}
	for _, s := range service.Statuses {
		counts[s] = 0
	}
	for _, t := range tasks {
		if t.Status.Valid() {
			counts[t.Status]++
		}
	}
	return counts
}

// CountPriority counts tasks per priority level. Out-of-range priorities are
// dropped silently.
func CountPriority(tasks []service.Task) PriorityCounts {
	counts := PriorityCounts{}
	for _, p := range service.Priorities {
		counts[p] = 0
	}
	for _, t := range tasks {
		if t.Priority.Valid() {
			counts[t.Priority]++
		}
	}
	return counts
}

// CompletionTrend counts DONE tasks per day for the TrendDays calendar days
// ending on now's day, oldest first. A task lands in the bucket whose
// [00:00:00.000, 23:59:59.999] window, in now's location, contains its
// UpdatedAt; tasks updated outside the window are ignored.
func CompletionTrend(tasks []service.Task, now time.Time) []DayCount {
	loc := now.Location()
	today := service.StartOfDay(now)

	trend := make([]DayCount, TrendDays)
	for i := range trend {
		day := today.AddDate(0, 0, i-(TrendDays-1))
		trend[i] = DayCount{Day: day, Label: day.Format("01/02")}
	}

	for _, t := range tasks {
		if t.Status != service.StatusDone || t.UpdatedAt.IsZero() {
			continue
		}
		updated := t.UpdatedAt.In(loc)
		for i := range trend {
			start := trend[i].Day
			end := service.EndOfDay(start)
			if !updated.Before(start) && !updated.After(end) {
				trend[i].Completed++
				break
			}
		}
	}
	return trend
}

// Summarize computes every aggregate for tasks as of now.
func Summarize(tasks []service.Task, now time.Time) Summary {
	return Summary{
		Total:    len(tasks),
		Status:   CountStatus(tasks),
		Priority: CountPriority(tasks),
		Trend:    CompletionTrend(tasks, now),
	}
}

// Sum returns the sum of all buckets.
func (c StatusCounts) Sum() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Sum returns the sum of all buckets.
func (c PriorityCounts) Sum() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// CompletionRate returns the share of DONE tasks in [0, 1]; 0 for no tasks.
func (s Summary) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Status[service.StatusDone]) / float64(s.Total)
}
