package store

import (
	"fmt"
	"strings"

	"taskdeck/internal/service"
)

// Filter restricts which tasks a view shows.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter parses a filter name. The empty string means all.
func ParseFilter(s string) (Filter, error) {
	switch Filter(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterPending:
		return FilterPending, nil
	case FilterCompleted:
		return FilterCompleted, nil
	}
	return "", fmt.Errorf("invalid filter: %s", s)
}

// Match reports whether t passes the filter.
func (f Filter) Match(t service.Task) bool {
	switch f {
	case FilterPending:
		return t.Status != service.StatusDone
	case FilterCompleted:
		return t.Status == service.StatusDone
	}
	return true
}

// Apply returns the tasks that pass the filter, in order.
func (f Filter) Apply(tasks []service.Task) []service.Task {
	var out []service.Task
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}
