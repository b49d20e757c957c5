package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskdeck/internal/analytics"
	"taskdeck/internal/reorder"
	"taskdeck/internal/service"
)

const (
	minColumnWidth = 20
	trendBarWidth  = 20
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	cardStyle = lipgloss.NewStyle().
			Padding(0, 0, 1, 0)
	selectedCardStyle = lipgloss.NewStyle().
				Bold(true).
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#5B8DEF")).
				Padding(0, 1)
)

var priorityColors = map[service.Priority]lipgloss.Color{
	service.PriorityLow:    lipgloss.Color("#6BCB77"),
	service.PriorityMedium: lipgloss.Color("#FFD93D"),
	service.PriorityHigh:   lipgloss.Color("#FF6B6B"),
}

// BoardOptions controls board rendering.
type BoardOptions struct {
	// Width is the total width available; zero picks a compact default.
	Width int

	// Selected highlights the task with this ID; zero selects nothing.
	Selected int64
}

// RenderBoard renders tasks as three status columns in list order.
func RenderBoard(tasks []service.Task, opts BoardOptions) string {
	colWidth := minColumnWidth + 8
	if opts.Width > 0 {
		colWidth = max(minColumnWidth, opts.Width/len(service.Statuses)-4)
	}

	columns := make([]string, 0, len(service.Statuses))
	for _, status := range service.Statuses {
		members := reorder.Members(tasks, string(status))
		columns = append(columns, renderColumn(status, members, colWidth, opts.Selected))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderColumn(status service.Status, tasks []service.Task, width int, selected int64) string {
	lines := []string{headerStyle.Render(fmt.Sprintf("%s (%d)", status.Label(), len(tasks)))}
	if len(tasks) == 0 {
		lines = append(lines, mutedStyle.Render("No tasks"))
	}
	for _, t := range tasks {
		lines = append(lines, renderCard(t, width, t.ID == selected))
	}
	return columnStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func renderCard(t service.Task, width int, selected bool) string {
	priority := lipgloss.NewStyle().Foreground(priorityColors[t.Priority]).Render(t.Priority.String())
	meta := []string{priority}
	if t.DueDate != nil {
		meta = append(meta, "due "+t.DueDate.Format(DateLayout))
	}
	body := fmt.Sprintf("#%d %s\n%s", t.ID, normalizeTitle(t.Title), strings.Join(meta, " · "))
	if len(t.Tags) > 0 {
		body += "\n" + mutedStyle.Render(strings.Join(t.Tags, ", "))
	}

	if selected {
		return selectedCardStyle.Width(max(minColumnWidth-4, width-4)).Render(body)
	}
	return cardStyle.Width(width - 2).Render(body)
}

// RenderStats renders the analytics summary: totals, status and priority
// distributions and the completion trend as horizontal bars.
func RenderStats(s analytics.Summary) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render("Overview"))
	fmt.Fprintf(&b, "\nTotal: %d   Completed: %d   Rate: %.0f%%\n\n",
		s.Total, s.Status[service.StatusDone], s.CompletionRate()*100)

	b.WriteString(headerStyle.Render("Status"))
	b.WriteString("\n")
	for _, status := range service.Statuses {
		fmt.Fprintf(&b, "  %-12s %d\n", status.Label(), s.Status[status])
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Priority"))
	b.WriteString("\n")
	for _, p := range service.Priorities {
		fmt.Fprintf(&b, "  %-12s %d\n", p, s.Priority[p])
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render(fmt.Sprintf("Completed (last %d days)", len(s.Trend))))
	b.WriteString("\n")
	peak := 0
	for _, d := range s.Trend {
		peak = max(peak, d.Completed)
	}
	for _, d := range s.Trend {
		fmt.Fprintf(&b, "  %s %s %d\n", d.Label, bar(d.Completed, peak), d.Completed)
	}
	return b.String()
}

func bar(n, peak int) string {
	if peak == 0 || n == 0 {
		return mutedStyle.Render("·")
	}
	width := max(1, n*trendBarWidth/peak)
	return lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77")).Render(strings.Repeat("█", width))
}

// RenderSummaryLine renders a one-line analytics footer.
func RenderSummaryLine(s analytics.Summary) string {
	return mutedStyle.Render(fmt.Sprintf("%d tasks · %d todo · %d in progress · %d done · %.0f%% complete",
		s.Total, s.Status[service.StatusTodo], s.Status[service.StatusInProgress], s.Status[service.StatusDone],
		s.CompletionRate()*100))
}
