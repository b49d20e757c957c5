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
)

func init() {
	Register(&AddCmd{})
	Register(&CreateCmd{})
}

// taskFlags are the fields shared by add and create.
type taskFlags struct {
	desc     string
	priority string
	status   string
	due      string
	tags     string
}

func (f *taskFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.desc, "desc", "", "")
	fs.StringVar(&f.desc, "d", "", "")
	fs.StringVar(&f.priority, "priority", "", "")
	fs.StringVar(&f.priority, "p", "", "")
	fs.StringVar(&f.status, "status", "", "")
	fs.StringVar(&f.due, "due", "", "")
	fs.StringVar(&f.tags, "tags", "", "")
	fs.StringVar(&f.tags, "t", "", "")
}

// draft builds a task draft from the flags and title words.
func (f *taskFlags) draft(args []string) (service.TaskDraft, error) {
	d := service.TaskDraft{
		Title:       strings.Join(args, " "),
		Description: f.desc,
		Tags:        service.SplitTags(f.tags),
	}
	if f.priority != "" {
		p, ok := service.ParsePriority(f.priority)
		if !ok {
			return d, fmt.Errorf("invalid priority: %s", f.priority)
		}
		d.Priority = p
	}
	if f.status != "" {
		st, ok := service.ParseStatus(f.status)
		if !ok {
			return d, fmt.Errorf("invalid status: %s", f.status)
		}
		d.Status = st
	}
	if f.due != "" {
		due, err := parseDue(f.due)
		if err != nil {
			return d, err
		}
		d.DueDate = due
	}
	return d, nil
}

// AddCmd implements the add command.
type AddCmd struct {
	flags taskFlags
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return nil }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "taskdeck add [--desc <text>] [--priority low|medium|high] [--status <status>] [--due YYYY-MM-DD] [--tags a,b] <title...>"
}
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, &c.flags, args, out, errOut)
}

// CreateCmd is an alias for AddCmd.
type CreateCmd struct {
	flags taskFlags
}

func (c *CreateCmd) Name() string      { return "create" }
func (c *CreateCmd) Aliases() []string { return nil }
func (c *CreateCmd) Synopsis() string  { return "Create a task (alias for add)" }
func (c *CreateCmd) Usage() string {
	return "taskdeck create [--desc <text>] [--priority low|medium|high] [--status <status>] [--due YYYY-MM-DD] [--tags a,b] <title...>"
}
func (c *CreateCmd) NeedsBackend() bool { return true }

func (c *CreateCmd) RegisterFlags(fs *flag.FlagSet) {
	c.flags.register(fs)
}

func (c *CreateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	return runAdd(ctx, cfg, svc, &c.flags, args, out, errOut)
}

// runAdd is the shared implementation for add and create commands.
func runAdd(ctx context.Context, cfg *config.Config, svc service.Service, flags *taskFlags, args []string, out, errOut io.Writer) int {
	if strings.TrimSpace(strings.Join(args, " ")) == "" {
		return usageError(errOut, "title required")
	}

	draft, err := flags.draft(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	s := newStore(ctx, cfg, svc)
	task, err := s.Create(ctx, draft)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
