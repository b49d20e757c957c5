// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"taskdeck/internal/service"
)

// ErrBackend is a generic injected backend failure.
var ErrBackend = &service.Error{Kind: service.KindStatus, Op: "fake", Status: 500, Err: errors.New("internal server error")}

// FakeService is an in-memory implementation of service.Service for testing.
// It mirrors the backend: IDs are assigned sequentially, tasks are listed by
// position and updates bump UpdatedAt.
type FakeService struct {
	mu       sync.RWMutex
	tasks    []service.Task
	articles []service.Article
	nextID   int64

	// Now is the backend clock. Defaults to time.Now.
	Now func() time.Time

	// Error injection for testing
	ListTasksErr     error
	CreateTaskErr    error
	UpdateTaskErr    map[int64]error // task ID -> error
	DeleteTaskErr    error
	ReorderTaskErr   error
	ListArticlesErr  error
	GetArticleErr    error
	CreateArticleErr error
	UpdateArticleErr error
	DeleteArticleErr error

	// Calls records method names in call order.
	Calls []string

	// LastDraft and LastPatch record the most recent submissions.
	LastDraft service.TaskDraft
	LastPatch service.TaskPatch
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		nextID:        1,
		Now:           time.Now,
		UpdateTaskErr: make(map[int64]error),
	}
}

// AddTask seeds a task. Zero ID, priority and position get defaults.
func (f *FakeService) AddTask(t service.Task) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == 0 {
		t.ID = f.nextID
	}
	if t.ID >= f.nextID {
		f.nextID = t.ID + 1
	}
	if t.Priority == 0 {
		t.Priority = service.PriorityMedium
	}
	if t.Status == "" {
		t.Status = service.StatusTodo
	}
	if t.Position == 0 {
		t.Position = len(f.tasks)
	}
	f.tasks = append(f.tasks, t)
	return t
}

// AddArticle seeds an article.
func (f *FakeService) AddArticle(a service.Article) service.Article {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == 0 {
		a.ID = f.nextID
	}
	if a.ID >= f.nextID {
		f.nextID = a.ID + 1
	}
	f.articles = append(f.articles, a)
	return a
}

// Task returns the backend's copy of a task.
func (f *FakeService) Task(id int64) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// CallCount returns how many times method was called.
func (f *FakeService) CallCount(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.Calls {
		if c == method {
			n++
		}
	}
	return n
}

func (f *FakeService) record(method string) {
	f.Calls = append(f.Calls, method)
}

func (f *FakeService) notFound(op string, id int64) error {
	return service.NotFound(op, id)
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTasks")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}

	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	sort.SliceStable(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, draft service.TaskDraft) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTask")
	f.LastDraft = draft
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}

	now := f.Now()
	t := service.Task{
		ID:          f.nextID,
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
		Status:      draft.Status,
		DueDate:     draft.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
		Position:    len(f.tasks),
		Tags:        draft.Tags,
	}
	if t.Priority == 0 {
		t.Priority = service.PriorityMedium
	}
	if t.Status == "" {
		t.Status = service.StatusTodo
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, patch service.TaskPatch) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask")
	f.LastPatch = patch
	if err, ok := f.UpdateTaskErr[id]; ok && err != nil {
		return service.Task{}, err
	}

	for i, t := range f.tasks {
		if t.ID != id {
			continue
		}
		if patch.Title != nil {
			t.Title = *patch.Title
		}
		if patch.Description != nil {
			t.Description = *patch.Description
		}
		if patch.Priority != nil {
			t.Priority = *patch.Priority
		}
		if patch.Status != nil {
			t.Status = *patch.Status
		}
		if patch.DueDate != nil {
			due := *patch.DueDate
			t.DueDate = &due
		}
		if patch.Tags != nil {
			t.Tags = *patch.Tags
		}
		t.UpdatedAt = f.Now()
		f.tasks[i] = t
		return t, nil
	}
	return service.Task{}, f.notFound("update task", id)
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return f.notFound("delete task", id)
}

// ReorderTask implements service.Service. Positions between the old and new
// slot shift by one, as the backend does.
func (f *FakeService) ReorderTask(ctx context.Context, id int64, newPosition int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ReorderTask")
	if f.ReorderTaskErr != nil {
		return f.ReorderTaskErr
	}

	idx := -1
	for i, t := range f.tasks {
		if t.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return f.notFound("reorder task", id)
	}

	old := f.tasks[idx].Position
	for i, t := range f.tasks {
		switch {
		case newPosition > old && t.Position > old && t.Position <= newPosition:
			f.tasks[i].Position--
		case newPosition < old && t.Position >= newPosition && t.Position < old:
			f.tasks[i].Position++
		}
	}
	f.tasks[idx].Position = newPosition
	return nil
}

// ListArticles implements service.Service.
func (f *FakeService) ListArticles(ctx context.Context, skip, limit int) ([]service.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListArticles")
	if f.ListArticlesErr != nil {
		return nil, f.ListArticlesErr
	}

	if skip >= len(f.articles) {
		return nil, nil
	}
	end := skip + limit
	if end > len(f.articles) {
		end = len(f.articles)
	}
	result := make([]service.Article, end-skip)
	copy(result, f.articles[skip:end])
	return result, nil
}

// GetArticle implements service.Service. Each read bumps the view counter.
func (f *FakeService) GetArticle(ctx context.Context, id int64) (service.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("GetArticle")
	if f.GetArticleErr != nil {
		return service.Article{}, f.GetArticleErr
	}

	for i, a := range f.articles {
		if a.ID == id {
			f.articles[i].Views++
			return f.articles[i], nil
		}
	}
	return service.Article{}, f.notFound("get article", id)
}

// CreateArticle implements service.Service.
func (f *FakeService) CreateArticle(ctx context.Context, draft service.ArticleDraft) (service.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateArticle")
	if f.CreateArticleErr != nil {
		return service.Article{}, f.CreateArticleErr
	}

	now := f.Now()
	a := service.Article{
		ID:        f.nextID,
		Title:     draft.Title,
		Content:   draft.Content,
		Summary:   draft.Summary,
		Category:  draft.Category,
		Tags:      draft.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.nextID++
	f.articles = append(f.articles, a)
	return a, nil
}

// UpdateArticle implements service.Service.
func (f *FakeService) UpdateArticle(ctx context.Context, id int64, patch service.ArticlePatch) (service.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateArticle")
	if f.UpdateArticleErr != nil {
		return service.Article{}, f.UpdateArticleErr
	}

	for i, a := range f.articles {
		if a.ID != id {
			continue
		}
		if patch.Title != nil {
			a.Title = *patch.Title
		}
		if patch.Content != nil {
			a.Content = *patch.Content
		}
		if patch.Summary != nil {
			a.Summary = *patch.Summary
		}
		if patch.Category != nil {
			a.Category = *patch.Category
		}
		if patch.Tags != nil {
			a.Tags = *patch.Tags
		}
		a.UpdatedAt = f.Now()
		f.articles[i] = a
		return a, nil
	}
	return service.Article{}, f.notFound("update article", id)
}

// DeleteArticle implements service.Service.
func (f *FakeService) DeleteArticle(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteArticle")
	if f.DeleteArticleErr != nil {
		return f.DeleteArticleErr
	}

	for i, a := range f.articles {
		if a.ID == id {
			f.articles = append(f.articles[:i], f.articles[i+1:]...)
			return nil
		}
	}
	return f.notFound("delete article", id)
}
