// Package service defines the backend-agnostic interface for task and article operations.
package service

import (
	"strings"
	"time"
)

// Status is the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "TODO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// Statuses lists every valid status in column order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// Valid reports whether s is one of the three defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Next returns the status that follows s in the fixed cycle
// TODO -> IN_PROGRESS -> DONE -> TODO. Unknown values map to TODO.
func (s Status) Next() Status {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	default:
		return StatusTodo
	}
}

// Label returns the human-readable column title.
func (s Status) Label() string {
	switch s {
	case StatusTodo:
		return "To do"
	case StatusInProgress:
		return "In progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// ParseStatus parses a status name (case-insensitive).
// Accepts the wire names plus "todo", "doing", "in-progress" and "done".
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todo", "to-do":
		return StatusTodo, true
	case "in_progress", "in-progress", "inprogress", "doing":
		return StatusInProgress, true
	case "done", "completed":
		return StatusDone, true
	}
	return "", false
}

// Priority is a task's urgency level.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// Priorities lists every valid priority, lowest first.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the three defined levels.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "low"
	case PriorityMedium:
		return "medium"
	case PriorityHigh:
		return "high"
	}
	return "unknown"
}

// ParsePriority parses "low", "medium", "high" or the digits 1-3.
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "low", "l":
		return PriorityLow, true
	case "2", "medium", "med", "m":
		return PriorityMedium, true
	case "3", "high", "h":
		return PriorityHigh, true
	}
	return 0, false
}

// Task represents a single task item.
type Task struct {
	ID          int64      `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Status      Status     `json:"status" yaml:"status"`
	DueDate     *time.Time `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"updated_at"`
	Position    int        `json:"position" yaml:"position"`
	Tags        []string   `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// TaskDraft is a task submission before the backend assigns an ID.
type TaskDraft struct {
	Title       string
	Description string
	Priority    Priority   // zero means medium
	Status      Status     // empty means TODO
	DueDate     *time.Time // nil means end of the current day
	Tags        []string
}

// Normalize returns a copy of d with defaults applied relative to now.
func (d TaskDraft) Normalize(now time.Time) TaskDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	if !d.Priority.Valid() {
		d.Priority = PriorityMedium
	}
	if !d.Status.Valid() {
		d.Status = StatusTodo
	}
	if d.DueDate == nil {
		due := EndOfDay(now)
		d.DueDate = &due
	}
	d.Tags = NormalizeTags(d.Tags)
	return d
}

// TaskPatch is a partial task update. Only non-nil fields are sent.
type TaskPatch struct {
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
	DueDate     *time.Time
	Tags        *[]string
}

// Empty reports whether the patch carries no fields.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Priority == nil &&
		p.Status == nil && p.DueDate == nil && p.Tags == nil
}

// Article is a blog-style article.
type Article struct {
	ID        int64     `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
	Tags      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Views     int       `json:"views" yaml:"views"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// ArticleDraft is an article submission.
type ArticleDraft struct {
	Title    string
	Content  string
	Summary  string
	Category string
	Tags     []string
}

// ArticlePatch is a partial article update.
type ArticlePatch struct {
	Title    *string
	Content  *string
	Summary  *string
	Category *string
	Tags     *[]string
}

// EndOfDay returns 23:59:59.999 of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// StartOfDay returns 00:00:00.000 of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// NormalizeTags trims every tag and drops empty ones, keeping order.
func NormalizeTags(tags []string) []string {
	var out []string
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SplitTags parses a comma-separated tag string.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return NormalizeTags(strings.Split(s, ","))
}

// JoinTags renders tags as comma-separated text.
func JoinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), ",")
}
