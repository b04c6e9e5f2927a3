// Package stat holds the prodstat subcommands that scrape processing
// statistics and print them as Jira-markup tables.
package stat

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/lsst-dm/prodstatus/pkg/report"
	"github.com/lsst-dm/prodstatus/pkg/stats/panda"
	"github.com/lsst-dm/prodstatus/pkg/utils/retry"
)

type PandaCommand struct {
	logger *log.Logger

	baseURL  string
	attempts int
	wait     time.Duration
}

func NewPanda(l *log.Logger) *PandaCommand {
	return &PandaCommand{logger: l}
}

func (*PandaCommand) Name() string { return "get-panda-stat" }

func (*PandaCommand) Synopsis() string {
	return "scrape PanDA workflow progress and print a status table"
}

func (*PandaCommand) Usage() string {
	return `get-panda-stat [flags...] SEARCH:
	Fetch the PanDA workflow progress listing, keep workflows whose
	name contains SEARCH, and print their status in Jira markup.

`
}

func (c *PandaCommand) SetFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.baseURL, "base-url", panda.DefaultBaseURL, "PanDA monitor endpoint")
	fs.IntVar(&c.attempts, "attempts", 3, "attempts per query")
	fs.DurationVar(&c.wait, "wait", 2*time.Second, "wait between attempts")
}

func (c *PandaCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() != 1 {
		c.logger.Println("SEARCH is required")
		return subcommands.ExitUsageError
	}

	scraper := &panda.Scraper{
		BaseURL:  c.baseURL,
		Attempts: c.attempts,
		Backoff:  retry.StaticBackoff(c.wait),
	}
	workflows, err := scraper.FindWorkflows(ctx, fs.Arg(0))
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}
	if len(workflows) == 0 {
		c.logger.Printf("no workflows match %q", fs.Arg(0))
		return subcommands.ExitFailure
	}

	fmt.Fprintln(os.Stdout, report.RenderPandaSummaries(panda.Summarize(workflows)))
	return subcommands.ExitSuccess
}
