package commands

import (
	"context"
	"flag"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "taskdeck rm <id>" }
func (c *RmCmd) NeedsBackend() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	s, err := loadStore(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}
	if err := s.Delete(ctx, id); err != nil {
		return fail(errOut, err)
	}
	return ok(cfg, out)
}
