package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/reorder"
	"taskdeck/internal/service"
)

func init() {
	Register(&MoveCmd{})
}

// MoveCmd implements the move command: the command-line form of dragging
// a card. Without --to the index counts the whole list; with --to it
// counts the tasks of that status column.
type MoveCmd struct {
	to    string
	index int
}

func (c *MoveCmd) Name() string       { return "move" }
func (c *MoveCmd) Aliases() []string  { return []string{"mv"} }
func (c *MoveCmd) Synopsis() string   { return "Reorder a task or move it to another status" }
func (c *MoveCmd) Usage() string      { return "taskdeck move [--to TODO|IN_PROGRESS|DONE] --index <n> <id>" }
func (c *MoveCmd) NeedsBackend() bool { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.to, "to", "", "")
	fs.IntVar(&c.index, "index", -1, "")
	fs.IntVar(&c.index, "i", -1, "")
}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return usageError(errOut, "%v", err)
	}
	if c.index < 0 {
		return usageError(errOut, "--index required")
	}

	group := reorder.AllGroup
	if c.to != "" {
		status, ok := service.ParseStatus(c.to)
		if !ok {
			return usageError(errOut, "invalid status: %s", c.to)
		}
		group = string(status)
	}

	s, err := loadStore(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}
	task, found := s.Get(id)
	if !found {
		return fail(errOut, service.NotFound("move task", id))
	}

	source := reorder.AllGroup
	if group != reorder.AllGroup {
		source = string(task.Status)
	}
	ev := reorder.DropEvent{
		TaskID:      id,
		Source:      reorder.Location{Group: source, Index: reorder.GroupIndex(s.Tasks(), source, id)},
		Destination: &reorder.Location{Group: group, Index: c.index},
	}

	moved, err := s.Move(ctx, ev)
	if err != nil {
		return fail(errOut, err)
	}
	if !moved {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no change")
		}
		return exitcode.Success
	}
	return ok(cfg, out)
}
