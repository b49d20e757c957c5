package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"taskdeck/internal/analytics"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func init() {
	Register(&StatsCmd{})
}

// StatsCmd prints status and priority distributions and the completion trend.
type StatsCmd struct {
	format string
	now    func() time.Time
}

// SetClock sets the clock (for testing).
func (c *StatsCmd) SetClock(now func() time.Time) {
	c.now = now
}

func (c *StatsCmd) Name() string       { return "stats" }
func (c *StatsCmd) Aliases() []string  { return []string{"analytics"} }
func (c *StatsCmd) Synopsis() string   { return "Show task analytics" }
func (c *StatsCmd) Usage() string      { return "taskdeck stats [--format text|json|yaml]" }
func (c *StatsCmd) NeedsBackend() bool { return true }

func (c *StatsCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "text", "")
}

func (c *StatsCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	format, err := output.ParseFormat(c.format)
	if err != nil {
		return usageError(errOut, "%v", err)
	}

	s, err := loadStore(ctx, cfg, svc)
	if err != nil {
		return fail(errOut, err)
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	summary := analytics.Summarize(s.Tasks(), now())

	if format != output.FormatText {
		if err := output.Encode(out, format, summary); err != nil {
			return fail(errOut, err)
		}
		return exitcode.Success
	}
	fmt.Fprint(out, output.RenderStats(summary))
	return exitcode.Success
}
