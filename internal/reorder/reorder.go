// Package reorder resolves drag-and-drop moves against an ordered task list.
//
// A move names a task, the group it was dragged from and the group and index
// it was dropped on. Groups are status columns ("TODO", "IN_PROGRESS",
// "DONE") or the empty string for the flat list view, where every task is a
// member. Indices count members of the group in list order; they are trusted
// as supplied and never reconciled against Task.Position.
package reorder

import (
	"taskdeck/internal/service"
)

// AllGroup is the group of the flat list view.
const AllGroup = ""

// Location is a group and an index within it.
type Location struct {
	Group string
	Index int
}

// DropEvent is the completion of a drag gesture.
// A nil Destination means the drag was cancelled.
type DropEvent struct {
	TaskID      int64
	Source      Location
	Destination *Location
}

// Kind distinguishes moves that only reorder from moves that change status.
type Kind int

const (
	SameGroup Kind = iota + 1
	CrossGroup
)

func (k Kind) String() string {
	switch k {
	case SameGroup:
		return "same-group"
	case CrossGroup:
		return "cross-group"
	}
	return "none"
}

// Plan describes how a drop event changes the list.
type Plan struct {
	Kind        Kind
	Task        service.Task
	Destination Location

	// NewStatus is set for cross-group moves.
	NewStatus service.Status
}

// Resolve turns a drop event into a plan.
// It returns false when nothing should happen: the drag was cancelled, the
// task is not in tasks, or the destination group is not a status.
func Resolve(tasks []service.Task, ev DropEvent) (Plan, bool) {
	if ev.Destination == nil {
		return Plan{}, false
	}
	i := IndexOf(tasks, ev.TaskID)
	if i < 0 {
		return Plan{}, false
	}
	task := tasks[i]
	dst := *ev.Destination

	if dst.Group == AllGroup {
		return Plan{Kind: SameGroup, Task: task, Destination: dst}, true
	}

	// The task's current status decides whether the move crosses columns;
	// the event's source group is only what the UI believed at drag start.
	status, ok := service.ParseStatus(dst.Group)
	if !ok {
		return Plan{}, false
	}
	dst.Group = string(status)
	if status == task.Status {
		return Plan{Kind: SameGroup, Task: task, Destination: dst}, true
	}
	return Plan{Kind: CrossGroup, Task: task, Destination: dst, NewStatus: status}, true
}

// Splice returns a new list with task removed (by ID) and reinserted so that
// it is the index-th member of group. Out-of-range indices clamp to the
// group's bounds. tasks is never modified.
func Splice(tasks []service.Task, task service.Task, group string, index int) []service.Task {
	out := make([]service.Task, 0, len(tasks)+1)
	for _, t := range tasks {
		if t.ID != task.ID {
			out = append(out, t)
		}
	}

	if index < 0 {
		index = 0
	}

	// Find the list position of the index-th group member; inserting there
	// puts task right before it. Past the last member, insert right after it.
	seen := 0
	last := -1
	at := -1
	for i, t := range out {
		if !InGroup(t, group) {
			continue
		}
		if seen == index {
			at = i
			break
		}
		seen++
		last = i
	}
	if at < 0 {
		if last >= 0 {
			at = last + 1
		} else {
			at = len(out)
		}
	}

	out = append(out, service.Task{})
	copy(out[at+1:], out[at:])
	out[at] = task
	return out
}

// InGroup reports whether t belongs to group.
func InGroup(t service.Task, group string) bool {
	return group == AllGroup || string(t.Status) == group
}

// Members returns the tasks of group in list order.
func Members(tasks []service.Task, group string) []service.Task {
	var out []service.Task
	for _, t := range tasks {
		if InGroup(t, group) {
			out = append(out, t)
		}
	}
	return out
}

// GroupIndex returns the index of id among the members of group, or -1.
func GroupIndex(tasks []service.Task, group string, id int64) int {
	n := 0
	for _, t := range tasks {
		if !InGroup(t, group) {
			continue
		}
		if t.ID == id {
			return n
		}
		n++
	}
	return -1
}

// IndexOf returns the list index of id, or -1.
func IndexOf(tasks []service.Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
