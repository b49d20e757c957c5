// Package store holds the session's authoritative task list.
//
// The store applies every mutation only after the backend confirms it, by
// replacing entries by ID; entries are never modified in place. Same-group
// reorders are the one optimistic path. If persisting the new position
// fails, only the moved task goes back to its previous index; changes that
// landed while the reorder was in flight are kept. The mutex guards the
// list, never a network call, so overlapping operations resolve in the
// order their responses arrive.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"taskdeck/internal/reorder"
	"taskdeck/internal/service"
)

// ErrTitleRequired is returned when a draft has an empty title.
var ErrTitleRequired = errors.New("title required")

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for draft defaults.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the store's logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// WithPositionSync controls whether same-group reorders are persisted with
// ReorderTask. Enabled by default.
func WithPositionSync(enabled bool) Option {
	return func(s *Store) {
		s.positionSync = enabled
	}
}

// Store is the single owner of the in-memory task list.
type Store struct {
	svc          service.Service
	log          zerolog.Logger
	now          func() time.Time
	positionSync bool

	mu        sync.RWMutex
	tasks     []service.Task
	loaded    bool
	observers []func([]service.Task)
}

// New creates an empty store backed by svc. Call Load to populate it.
func New(svc service.Service, opts ...Option) *Store {
	s := &Store{
		svc:          svc,
		log:          zerolog.Nop(),
		now:          time.Now,
		positionSync: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Observe registers fn to be called with a snapshot after every change.
func (s *Store) Observe(fn func([]service.Task)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
}

// Tasks returns a snapshot of the list.
func (s *Store) Tasks() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.tasks)
}

// Loaded reports whether a Load has succeeded.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Get returns the task with the given ID.
func (s *Store) Get(id int64) (service.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := reorder.IndexOf(s.tasks, id); i >= 0 {
		return s.tasks[i], true
	}
	return service.Task{}, false
}

// Load replaces the list with the backend's. On failure the previous list is
// kept.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.svc.ListTasks(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load tasks")
		return fmt.Errorf("load tasks: %w", err)
	}

	// At most one entry per ID; the first occurrence wins. Statuses are
	// normalized and tasks with an unknown status are left out.
	seen := make(map[int64]bool, len(tasks))
	list := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if seen[t.ID] {
			s.log.Warn().Int64("task_id", t.ID).Msg("duplicate task in backend response")
			continue
		}
		status, ok := service.ParseStatus(string(t.Status))
		if !ok {
			s.log.Warn().Int64("task_id", t.ID).Str("status", string(t.Status)).Msg("task with unknown status in backend response")
			continue
		}
		t.Status = status
		seen[t.ID] = true
		list = append(list, t)
	}

	s.mu.Lock()
	s.tasks = list
	s.loaded = true
	s.mu.Unlock()

	s.log.Debug().Int("count", len(list)).Msg("loaded tasks")
	s.notify()
	return nil
}

// Create submits draft and appends the created task.
// Unset fields default to medium priority, TODO and a due date at the end of
// the current day.
func (s *Store) Create(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return service.Task{}, ErrTitleRequired
	}
	draft = draft.Normalize(s.now())

	created, err := s.svc.CreateTask(ctx, draft)
	if err != nil {
		s.log.Error().Err(err).Str("title", draft.Title).Msg("failed to create task")
		return service.Task{}, fmt.Errorf("create task: %w", err)
	}

	s.apply(func(tasks []service.Task) []service.Task {
		if i := reorder.IndexOf(tasks, created.ID); i >= 0 {
			tasks[i] = created
			return tasks
		}
		return append(tasks, created)
	})

	s.log.Debug().Int64("task_id", created.ID).Msg("created task")
	return created, nil
}

// Update sends patch for id and replaces the local entry with the backend's
// representation. On failure the local entry is kept.
func (s *Store) Update(ctx context.Context, id int64, patch service.TaskPatch) (service.Task, error) {
	current, ok := s.Get(id)
	if !ok {
		return service.Task{}, service.NotFound("update task", id)
	}
	if patch.Empty() {
		return current, nil
	}

	updated, err := s.svc.UpdateTask(ctx, id, patch)
	if err != nil {
		s.log.Error().Err(err).Int64("task_id", id).Msg("failed to update task")
		return service.Task{}, fmt.Errorf("update task %d: %w", id, err)
	}

	s.apply(func(tasks []service.Task) []service.Task {
		if i := reorder.IndexOf(tasks, id); i >= 0 {
			tasks[i] = updated
		}
		return tasks
	})
	return updated, nil
}

// Delete removes id once the backend confirms.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, ok := s.Get(id); !ok {
		return service.NotFound("delete task", id)
	}

	if err := s.svc.DeleteTask(ctx, id); err != nil {
		s.log.Error().Err(err).Int64("task_id", id).Msg("failed to delete task")
		return fmt.Errorf("delete task %d: %w", id, err)
	}

	s.apply(func(tasks []service.Task) []service.Task {
		if i := reorder.IndexOf(tasks, id); i >= 0 {
			tasks = append(tasks[:i], tasks[i+1:]...)
		}
		return tasks
	})
	return nil
}

// ToggleStatus advances id to the next status in the cycle.
func (s *Store) ToggleStatus(ctx context.Context, id int64) (service.Task, error) {
	current, ok := s.Get(id)
	if !ok {
		return service.Task{}, service.NotFound("toggle status", id)
	}
	next := current.Status.Next()
	return s.Update(ctx, id, service.TaskPatch{Status: &next})
}

// Move applies a drop event. It reports whether the list changed.
//
// Same-group moves splice locally and then persist the new position; if
// that fails the task is put back at its previous index. Cross-group moves update the status
// first and splice the backend's representation in only on success, so a
// failure leaves the list as it was.
func (s *Store) Move(ctx context.Context, ev reorder.DropEvent) (bool, error) {
	before := s.Tasks()
	plan, ok := reorder.Resolve(before, ev)
	if !ok {
		return false, nil
	}

	switch plan.Kind {
	case reorder.SameGroup:
		pos := -1
		s.apply(func(tasks []service.Task) []service.Task {
			i := reorder.IndexOf(tasks, plan.Task.ID)
			if i < 0 {
				return tasks
			}
			tasks = reorder.Splice(tasks, tasks[i], plan.Destination.Group, plan.Destination.Index)
			pos = reorder.IndexOf(tasks, plan.Task.ID)
			return tasks
		})
		if pos < 0 {
			return false, nil
		}

		if !s.positionSync {
			return true, nil
		}
		if err := s.svc.ReorderTask(ctx, plan.Task.ID, pos); err != nil {
			s.log.Error().Err(err).Int64("task_id", plan.Task.ID).Int("position", pos).Msg("failed to persist position")
			s.restore(plan.Task.ID, reorder.IndexOf(before, plan.Task.ID))
			return false, fmt.Errorf("reorder task %d: %w", plan.Task.ID, err)
		}
		return true, nil

	case reorder.CrossGroup:
		updated, err := s.svc.UpdateTask(ctx, plan.Task.ID, service.TaskPatch{Status: &plan.NewStatus})
		if err != nil {
			s.log.Error().Err(err).Int64("task_id", plan.Task.ID).Str("status", string(plan.NewStatus)).Msg("failed to move task")
			return false, fmt.Errorf("move task %d: %w", plan.Task.ID, err)
		}

		moved := false
		s.apply(func(tasks []service.Task) []service.Task {
			if reorder.IndexOf(tasks, plan.Task.ID) < 0 {
				// Deleted while the update was in flight.
				return tasks
			}
			moved = true
			return reorder.Splice(tasks, updated, plan.Destination.Group, plan.Destination.Index)
		})
		return moved, nil
	}
	return false, nil
}

// Filtered returns the snapshot restricted by f.
func (s *Store) Filtered(f Filter) []service.Task {
	return f.Apply(s.Tasks())
}

// apply runs fn on a private copy of the list under the lock and installs
// the result.
func (s *Store) apply(fn func([]service.Task) []service.Task) {
	s.mu.Lock()
	s.tasks = fn(clone(s.tasks))
	s.mu.Unlock()
	s.notify()
}

// restore puts id back at index of the whole list, keeping its current
// representation.
func (s *Store) restore(id int64, index int) {
	s.apply(func(tasks []service.Task) []service.Task {
		i := reorder.IndexOf(tasks, id)
		if i < 0 {
			return tasks
		}
		return reorder.Splice(tasks, tasks[i], reorder.AllGroup, index)
	})
}

func (s *Store) notify() {
	s.mu.RLock()
	observers := append([]func([]service.Task){}, s.observers...)
	snapshot := clone(s.tasks)
	s.mu.RUnlock()

	for _, fn := range observers {
		fn(snapshot)
	}
}

func clone(tasks []service.Task) []service.Task {
	if tasks == nil {
		return nil
	}
	out := make([]service.Task, len(tasks))
	copy(out, tasks)
	return out
}
