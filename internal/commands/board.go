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
	"taskdeck/internal/tui"
)

func init() {
	Register(&BoardCmd{})
}

// BoardCmd renders the kanban board, or runs it interactively.
type BoardCmd struct {
	interactive bool
	width       int
}

func (c *BoardCmd) Name() string       { return "board" }
func (c *BoardCmd) Aliases() []string  { return nil }
func (c *BoardCmd) Synopsis() string   { return "Show tasks as a three-column board" }
func (c *BoardCmd) Usage() string      { return "taskdeck board [--interactive] [--width <n>]" }
func (c *BoardCmd) NeedsBackend() bool { return true }

func (c *BoardCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.interactive, "interactive", false, "")
	fs.BoolVar(&c.interactive, "i", false, "")
	fs.IntVar(&c.width, "width", 0, "")
}

func (c *BoardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	s := newStore(ctx, cfg, svc)

	if c.interactive {
		if err := tui.Run(ctx, tui.New(ctx, s)); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}

	if err := s.Load(ctx); err != nil {
		return fail(errOut, err)
	}
	fmt.Fprintln(out, output.RenderBoard(s.Tasks(), output.BoardOptions{Width: c.width}))
	return exitcode.Success
}
