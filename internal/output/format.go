// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/service"
)

const (
	// ListSeparator is the separator line for list sections.
	ListSeparator = "------------"

	// DateLayout is the layout used for due dates.
	DateLayout = "2006-01-02"
)

// FormatTask formats a task line for the list command.
// Format: "{ID:>4}  {STATUS:<11}  {PRIORITY:<6}  {TITLE}[  due {DATE}][  [{TAGS}]]\n"
func FormatTask(w io.Writer, task service.Task) {
	var b strings.Builder
	fmt.Fprintf(&b, "%4d  %-11s  %-6s  %s", task.ID, task.Status, task.Priority, normalizeTitle(task.Title))
	if task.DueDate != nil {
		fmt.Fprintf(&b, "  due %s", task.DueDate.Format(DateLayout))
	}
	if len(task.Tags) > 0 {
		fmt.Fprintf(&b, "  [%s]", strings.Join(task.Tags, ", "))
	}
	fmt.Fprintln(w, b.String())
}

// FormatTaskDetail prints every field of a task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "id:          %d\n", task.ID)
	fmt.Fprintf(w, "title:       %s\n", normalizeTitle(task.Title))
	fmt.Fprintf(w, "status:      %s\n", task.Status)
	fmt.Fprintf(w, "priority:    %s\n", task.Priority)
	if task.DueDate != nil {
		fmt.Fprintf(w, "due:         %s\n", task.DueDate.Format(DateLayout))
	}
	if len(task.Tags) > 0 {
		fmt.Fprintf(w, "tags:        %s\n", strings.Join(task.Tags, ", "))
	}
	if task.Description != "" {
		fmt.Fprintf(w, "description: %s\n", singleLine(task.Description))
	}
}

// FormatSectionHeader formats a section header such as a status group.
func FormatSectionHeader(w io.Writer, title string) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintln(w, normalizeTitle(title))
	fmt.Fprintln(w, ListSeparator)
}

// FormatArticle formats an article line for the articles command.
// Format: "{ID:>4}  {TITLE}  ({VIEWS} views)\n"
func FormatArticle(w io.Writer, article service.Article) {
	line := fmt.Sprintf("%4d  %s  (%d views)", article.ID, normalizeTitle(article.Title), article.Views)
	if article.Category != "" {
		line += "  " + article.Category
	}
	fmt.Fprintln(w, line)
}

// FormatArticleDetail prints an article header followed by its content.
func FormatArticleDetail(w io.Writer, article service.Article) {
	fmt.Fprintln(w, normalizeTitle(article.Title))
	fmt.Fprintln(w, ListSeparator)
	if article.Summary != "" {
		fmt.Fprintln(w, singleLine(article.Summary))
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, strings.TrimRight(article.Content, "\n"))
	fmt.Fprintln(w, ListSeparator)

	meta := []string{fmt.Sprintf("%d views", article.Views)}
	if article.Category != "" {
		meta = append(meta, article.Category)
	}
	if len(article.Tags) > 0 {
		meta = append(meta, strings.Join(article.Tags, ", "))
	}
	if !article.CreatedAt.IsZero() {
		meta = append(meta, article.CreatedAt.Format(DateLayout))
	}
	fmt.Fprintln(w, strings.Join(meta, " · "))
}

// normalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = singleLine(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func singleLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
