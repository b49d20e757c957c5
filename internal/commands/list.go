package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskdeck` (no args) and `taskdeck list`.
type ListCmd struct {
	filter   string
	format   string
	byStatus bool
}

// SetFilter sets the filter (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "taskdeck list [--filter all|pending|completed] [--by-status] [--format text|json|yaml]"
}
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "all", "")
	fs.StringVar(&c.filter, "f", "all", "")
	fs.StringVar(&c.format, "format", "text", "")
	fs.BoolVar(&c.byStatus, "by-status", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, "unexpected argument: %s", args[0])
	}
	filter, err := store.ParseFilter(c.filter)
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	format, err := output.ParseFormat(c.format)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	s, err := loadStore(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}
	tasks := s.Filtered(filter)

	if format != output.FormatText {
		if tasks == nil {
			tasks = []service.Task{}
		}
		if err := output.Encode(out, format, tasks); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}

	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	if !c.byStatus {
		for _, t := range tasks {
			output.FormatTask(out, t)
		}
		return exitcode.Success
	}

	for _, status := range service.Statuses {
		var section []service.Task
		for _, t := range tasks {
			if t.Status == status {
				section = append(section, t)
			}
		}
		if len(section) == 0 {
			continue
		}
		output.FormatSectionHeader(out, status.Label())
		for _, t := range section {
			output.FormatTask(out, t)
		}
	}
	return exitcode.Success
}
