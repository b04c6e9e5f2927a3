package campaign

import (
	"context"
	"flag"
	"log"

	"github.com/google/subcommands"

	"github.com/lsst-dm/prodstatus/cmd/prodstat/subcommands/common"
	"github.com/lsst-dm/prodstatus/pkg/campaign"
)

type LoadCommand struct {
	logger  *log.Logger
	profile common.ProfileFlags
}

func NewLoad(l *log.Logger) *LoadCommand {
	return &LoadCommand{logger: l}
}

func (*LoadCommand) Name() string { return "load-campaign" }

func (*LoadCommand) Synopsis() string {
	return "reconstruct a campaign tree from its Jira issues"
}

func (*LoadCommand) Usage() string {
	return `load-campaign [flags...] TICKET OUT_DIR:
	Load the campaign tracked by TICKET (and every step and
	workflow its tree references) from Jira, and write the tree
	under OUT_DIR.

`
}

func (c *LoadCommand) SetFlags(fs *flag.FlagSet) {
	c.profile.Register(fs)
}

func (c *LoadCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() != 2 {
		c.logger.Println("TICKET and OUT_DIR are required")
		return subcommands.ExitUsageError
	}
	ticket, outDir := fs.Arg(0), fs.Arg(1)

	client, _, err := c.profile.Client()
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}

	camp, err := campaign.FromJira(ctx, c.logger, client, ticket)
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}
	if err := camp.ToFiles(outDir); err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}

	c.logger.Printf("campaign %s written under %s", camp.Name, outDir)
	return subcommands.ExitSuccess
}
