// Package service defines the backend-agnostic interface for task and article operations.
package service

import "context"

// Service defines the interface for backend operations.
// All REST calls go through this interface; the store and commands never
// speak HTTP directly.
type Service interface {
	// ListTasks returns every task in backend order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask submits a draft and returns the created task with its
	// server-assigned ID.
	CreateTask(ctx context.Context, draft TaskDraft) (Task, error)

	// UpdateTask applies a partial update and returns the server's
	// representation. Fields absent from the patch are preserved.
	UpdateTask(ctx context.Context, id int64, patch TaskPatch) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id int64) error

	// ReorderTask persists a task's position.
	ReorderTask(ctx context.Context, id int64, newPosition int) error

	// ListArticles returns a page of articles.
	ListArticles(ctx context.Context, skip, limit int) ([]Article, error)

	// GetArticle returns a single article.
	GetArticle(ctx context.Context, id int64) (Article, error)

	// CreateArticle creates an article.
	CreateArticle(ctx context.Context, draft ArticleDraft) (Article, error)

	// UpdateArticle applies a partial update to an article.
	UpdateArticle(ctx context.Context, id int64, patch ArticlePatch) (Article, error)

	// DeleteArticle deletes an article.
	DeleteArticle(ctx context.Context, id int64) error
}
