// Package report holds the prodstat subcommand that posts a campaign
// status table into a Jira issue description.
package report

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/lsst-dm/prodstatus/cmd/prodstat/subcommands/common"
	"github.com/lsst-dm/prodstatus/pkg/campaign"
	"github.com/lsst-dm/prodstatus/pkg/report"
)

type Command struct {
	logger  *log.Logger
	profile common.ProfileFlags
	dryRun  bool
}

func New(l *log.Logger) *Command {
	return &Command{logger: l}
}

func (*Command) Name() string { return "report-to-jira" }

func (*Command) Synopsis() string {
	return "render a campaign status table into a Jira issue description"
}

func (*Command) Usage() string {
	return `report-to-jira [flags...] TICKET DIR NAME:
	Load the campaign NAME from under DIR, render its status table
	in Jira markup, and replace the description of TICKET with it.

`
}

func (c *Command) SetFlags(fs *flag.FlagSet) {
	c.profile.Register(fs)
	fs.BoolVar(&c.dryRun, "dry-run", false, "print the table instead of updating the issue")
}

func (c *Command) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() != 3 {
		c.logger.Println("TICKET, DIR and NAME are required")
		return subcommands.ExitUsageError
	}
	ticket, dir, name := fs.Arg(0), fs.Arg(1), fs.Arg(2)

	camp, err := campaign.FromFiles(dir, name)
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}
	table := report.RenderCampaign(camp)

	if c.dryRun {
		fmt.Fprintln(os.Stdout, table)
		return subcommands.ExitSuccess
	}

	client, _, err := c.profile.Client()
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}
	if err := client.UpdateDescription(ctx, ticket, table); err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}

	c.logger.Printf("updated description of %s", ticket)
	return subcommands.ExitSuccess
}
