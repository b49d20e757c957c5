package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"taskdeck/internal/service"
)

// wireTime is an ISO-8601 timestamp. Timestamps without a zone are read as
// local time, matching how the backend stores naive datetimes.
type wireTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (t *wireTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp: %q", s)
}

func (t wireTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}

func newWireTime(t *time.Time) *wireTime {
	if t == nil {
		return nil
	}
	return &wireTime{Time: *t}
}

// wireTags accepts either a comma-separated string or a list of strings.
// Tags always go out as comma-joined text.
type wireTags []string

func (w *wireTags) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*w = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*w = service.SplitTags(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags: expected string or list of strings")
	}
	*w = service.NormalizeTags(list)
	return nil
}

// wireStatus accepts the status names and aliases ParseStatus knows and
// rejects anything else.
type wireStatus service.Status

func (w *wireStatus) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	st, ok := service.ParseStatus(s)
	if !ok {
		return fmt.Errorf("invalid status: %q", s)
	}
	*w = wireStatus(st)
	return nil
}

func joinTags(tags *[]string) *string {
	if tags == nil {
		return nil
	}
	s := service.JoinTags(*tags)
	return &s
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type taskResponse struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    int        `json:"priority"`
	Status      wireStatus `json:"status"`
	DueDate     *wireTime  `json:"due_date"`
	CreatedAt   wireTime   `json:"created_at"`
	UpdatedAt   wireTime   `json:"updated_at"`
	Position    int        `json:"position"`
	Tags        wireTags   `json:"tags"`
}

func (r taskResponse) toTask() service.Task {
	t := service.Task{
		ID:        r.ID,
		Title:     r.Title,
		Priority:  service.Priority(r.Priority),
		Status:    service.Status(r.Status),
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
		Position:  r.Position,
		Tags:      []string(r.Tags),
	}
	if r.Description != nil {
		t.Description = *r.Description
	}
	if r.DueDate != nil && !r.DueDate.IsZero() {
		due := r.DueDate.Time
		t.DueDate = &due
	}
	return t
}

type taskCreateRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Priority    int       `json:"priority,omitempty"`
	Status      string    `json:"status,omitempty"`
	DueDate     *wireTime `json:"due_date,omitempty"`
	Tags        *string   `json:"tags,omitempty"`
}

func newTaskCreateRequest(d service.TaskDraft) taskCreateRequest {
	req := taskCreateRequest{
		Title:       d.Title,
		Description: optString(d.Description),
		Priority:    int(d.Priority),
		Status:      string(d.Status),
		DueDate:     newWireTime(d.DueDate),
	}
	if len(d.Tags) > 0 {
		req.Tags = joinTags(&d.Tags)
	}
	return req
}

type taskUpdateRequest struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Priority    *int      `json:"priority,omitempty"`
	Status      *string   `json:"status,omitempty"`
	DueDate     *wireTime `json:"due_date,omitempty"`
	Tags        *string   `json:"tags,omitempty"`
}

func newTaskUpdateRequest(p service.TaskPatch) taskUpdateRequest {
	req := taskUpdateRequest{
		Title:       p.Title,
		Description: p.Description,
		DueDate:     newWireTime(p.DueDate),
		Tags:        joinTags(p.Tags),
	}
	if p.Priority != nil {
		v := int(*p.Priority)
		req.Priority = &v
	}
	if p.Status != nil {
		v := string(*p.Status)
		req.Status = &v
	}
	return req
}

type reorderRequest struct {
	TaskID      int64 `json:"task_id"`
	NewPosition int   `json:"new_position"`
}

type articleResponse struct {
	ID        int64    `json:"id"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Summary   *string  `json:"summary"`
	Category  *string  `json:"category"`
	Tags      wireTags `json:"tags"`
	Views     int      `json:"views"`
	CreatedAt wireTime `json:"created_at"`
	UpdatedAt wireTime `json:"updated_at"`
}

func (r articleResponse) toArticle() service.Article {
	a := service.Article{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Tags:      []string(r.Tags),
		Views:     r.Views,
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
	if r.Summary != nil {
		a.Summary = *r.Summary
	}
	if r.Category != nil {
		a.Category = *r.Category
	}
	return a
}

type articleCreateRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Summary  *string `json:"summary,omitempty"`
	Category *string `json:"category,omitempty"`
	Tags     *string `json:"tags,omitempty"`
}

func newArticleCreateRequest(d service.ArticleDraft) articleCreateRequest {
	req := articleCreateRequest{
		Title:    d.Title,
		Content:  d.Content,
		Summary:  optString(d.Summary),
		Category: optString(d.Category),
	}
	if len(d.Tags) > 0 {
		req.Tags = joinTags(&d.Tags)
	}
	return req
}

type articleUpdateRequest struct {
	Title    *string `json:"title,omitempty"`
	Content  *string `json:"content,omitempty"`
	Summary  *string `json:"summary,omitempty"`
	Category *string `json:"category,omitempty"`
	Tags     *string `json:"tags,omitempty"`
}

func newArticleUpdateRequest(p service.ArticlePatch) articleUpdateRequest {
	return articleUpdateRequest{
		Title:    p.Title,
		Content:  p.Content,
		Summary:  p.Summary,
		Category: p.Category,
		Tags:     joinTags(p.Tags),
	}
}
