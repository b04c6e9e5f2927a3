package stat

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/lsst-dm/prodstatus/pkg/report"
	"github.com/lsst-dm/prodstatus/pkg/stats/butler"
)

type ButlerCommand struct {
	logger *log.Logger
}

func NewButler(l *log.Logger) *ButlerCommand {
	return &ButlerCommand{logger: l}
}

func (*ButlerCommand) Name() string { return "get-butler-stat" }

func (*ButlerCommand) Synopsis() string {
	return "aggregate task timing from metadata files and print a table"
}

func (*ButlerCommand) Usage() string {
	return `get-butler-stat METADATA_DIR:
	Walk the task-metadata YAML files under METADATA_DIR, aggregate
	CPU time and resident set size per task, and print the result
	in Jira markup.

`
}

func (*ButlerCommand) SetFlags(*flag.FlagSet) {}

func (c *ButlerCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() != 1 {
		c.logger.Println("METADATA_DIR is required")
		return subcommands.ExitUsageError
	}

	stats, err := butler.CollectDir(fs.Arg(0))
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}
	if len(stats) == 0 {
		c.logger.Printf("no metadata files under %s", fs.Arg(0))
		return subcommands.ExitFailure
	}

	fmt.Fprintln(os.Stdout, report.RenderButlerStats(stats))
	return subcommands.ExitSuccess
}
