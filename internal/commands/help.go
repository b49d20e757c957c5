package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskdeck help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  taskdeck                                           List all tasks
  taskdeck list [--filter all|pending|completed] [--by-status] [--format text|json|yaml]
  taskdeck add [--desc <text>] [--priority <p>] [--status <s>] [--due YYYY-MM-DD] [--tags a,b] <title...>
  taskdeck create ...                                Same as add
  taskdeck edit [--title <text>] [--desc <text>] [--priority <p>] [--status <s>] [--due YYYY-MM-DD] [--tags a,b] <id>
  taskdeck toggle <id>                               TODO -> IN_PROGRESS -> DONE -> TODO
  taskdeck done <id>
  taskdeck rm <id>
  taskdeck move [--to TODO|IN_PROGRESS|DONE] --index <n> <id>
  taskdeck board [--interactive] [--width <n>]
  taskdeck stats [--format text|json|yaml]
  taskdeck articles [--page <n>] [--limit <n>] [--format text|json|yaml]
  taskdeck article [--html] [--format text|json|yaml] <id>
  taskdeck article-add (--content <md> | --file <path>) [--summary <text>] [--category <name>] [--tags a,b] <title...>
  taskdeck article-edit [--title <text>] [--content <md> | --file <path>] [--summary <text>] [--category <name>] [--tags a,b] <id>
  taskdeck article-rm <id>
  taskdeck login [--port <n>]
  taskdeck logout
  taskdeck help
  taskdeck version

Flags go before positional arguments.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TASKDECK_API_URL, TASKDECK_TIMEOUT, TASKDECK_ENV, TASKDECK_LOG_LEVEL,
  TASKDECK_LOCAL_ORDER, TASKDECK_OAUTH_SCOPES, TASKDECK_ARTICLE_PAGE_SIZE
`
