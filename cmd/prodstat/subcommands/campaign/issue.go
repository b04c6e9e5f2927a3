package campaign

import (
	"context"
	"flag"
	"log"

	"github.com/google/subcommands"

	"github.com/lsst-dm/prodstatus/cmd/prodstat/subcommands/common"
	"github.com/lsst-dm/prodstatus/pkg/campaign"
)

type IssueCommand struct {
	logger *log.Logger

	profile   common.ProfileFlags
	issue     string
	replace   bool
	noCascade bool
}

func NewIssue(l *log.Logger) *IssueCommand {
	return &IssueCommand{logger: l}
}

func (*IssueCommand) Name() string { return "issue-campaign" }

func (*IssueCommand) Synopsis() string {
	return "persist a campaign tree into linked Jira issues"
}

func (*IssueCommand) Usage() string {
	return `issue-campaign [flags...] DIR NAME:
	Load the campaign NAME from under DIR, write it into Jira
	(children first, so every reference names an existing ticket),
	and record the ticket keys back into the files under DIR.

`
}

func (c *IssueCommand) SetFlags(fs *flag.FlagSet) {
	c.profile.Register(fs)
	fs.StringVar(&c.issue, "issue", "", "existing campaign issue to write into")
	fs.BoolVar(&c.replace, "replace", false, "replace same-named attachments")
	fs.BoolVar(&c.noCascade, "no-cascade", false, "do not persist steps and workflows")
}

func (c *IssueCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() != 2 {
		c.logger.Println("DIR and NAME are required")
		return subcommands.ExitUsageError
	}
	dir, name := fs.Arg(0), fs.Arg(1)

	client, _, err := c.profile.Client()
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}

	camp, err := campaign.FromFiles(dir, name)
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}

	key, err := camp.ToJira(ctx, c.logger, client, c.issue, c.replace, !c.noCascade)
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}

	// record the captured ticket keys on disk
	if err := camp.ToFiles(dir); err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}

	c.logger.Printf("campaign %s tracked by %s", camp.Name, key)
	return subcommands.ExitSuccess
}
