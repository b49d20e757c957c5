package commands

import (
	"context"
	"flag"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd advances a task to the next status: TODO, IN_PROGRESS, DONE, TODO.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return nil }
func (c *ToggleCmd) Synopsis() string   { return "Advance a task to its next status" }
func (c *ToggleCmd) Usage() string      { return "taskdeck toggle <id>" }
func (c *ToggleCmd) NeedsBackend() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	s, err := loadStore(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}
	task, err := s.ToggleStatus(ctx, id)
	if err != nil {
		return fail(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
