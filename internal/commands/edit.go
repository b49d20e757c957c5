package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
	"taskdeck/internal/store"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. Only flags given on the command
// line are sent.
type EditCmd struct {
	title    optString
	desc     optString
	priority optString
	status   optString
	due      optString
	tags     optString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return []string{"update"} }
func (c *EditCmd) Synopsis() string  { return "Change task fields" }
func (c *EditCmd) Usage() string {
	return "taskdeck edit [--title <text>] [--desc <text>] [--priority <p>] [--status <s>] [--due YYYY-MM-DD] [--tags a,b] <id>"
}
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.Var(&c.title, "title", "")
	fs.Var(&c.desc, "desc", "")
	fs.Var(&c.desc, "d", "")
	fs.Var(&c.priority, "priority", "")
	fs.Var(&c.priority, "p", "")
	fs.Var(&c.status, "status", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.tags, "tags", "")
	fs.Var(&c.tags, "t", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	patch, err := c.patch()
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if patch.Empty() {
		return usageError(errOut, "nothing to change")
	}

	s, err := loadStore(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}
	task, err := s.Update(ctx, id, patch)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}

func (c *EditCmd) patch() (service.TaskPatch, error) {
	var p service.TaskPatch

	if v := c.title.ptr(); v != nil {
		title := strings.TrimSpace(*v)
		if title == "" {
			return p, store.ErrTitleRequired
		}
		p.Title = &title
	}
	p.Description = c.desc.ptr()
	if v := c.priority.ptr(); v != nil {
		pr, ok := service.ParsePriority(*v)
		if !ok {
			return p, fmt.Errorf("invalid priority: %s", *v)
		}
		p.Priority = &pr
	}
	if v := c.status.ptr(); v != nil {
		st, ok := service.ParseStatus(*v)
		if !ok {
			return p, fmt.Errorf("invalid status: %s", *v)
		}
		p.Status = &st
	}
	if v := c.due.ptr(); v != nil {
		due, err := parseDue(*v)
		if err != nil {
			return p, err
		}
		p.DueDate = due
	}
	if v := c.tags.ptr(); v != nil {
		tags := service.SplitTags(*v)
		p.Tags = &tags
	}
	return p, nil
}
