package commands

import (
	"context"
	"flag"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/service"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"complete"} }
func (c *DoneCmd) Synopsis() string   { return "Mark a task done" }
func (c *DoneCmd) Usage() string      { return "taskdeck done <id>" }
func (c *DoneCmd) NeedsBackend() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	s, err := loadStore(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}

	done := service.StatusDone
	if _, err := s.Update(ctx, id, service.TaskPatch{Status: &done}); err != nil {
		return fail(errOut, err)
	}
	return ok(cfg, out)
}
