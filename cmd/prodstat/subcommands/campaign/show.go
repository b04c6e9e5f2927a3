package campaign

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/lsst-dm/prodstatus/pkg/campaign"
)

type ShowCommand struct {
	logger *log.Logger
}

func NewShow(l *log.Logger) *ShowCommand {
	return &ShowCommand{logger: l}
}

func (*ShowCommand) Name() string { return "show-campaign" }

func (*ShowCommand) Synopsis() string {
	return "print the steps and workflows of a campaign stored on disk"
}

func (*ShowCommand) Usage() string {
	return `show-campaign DIR NAME:
	Load the campaign NAME from under DIR and print its tree.

`
}

func (*ShowCommand) SetFlags(*flag.FlagSet) {}

func (c *ShowCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() != 2 {
		c.logger.Println("DIR and NAME are required")
		return subcommands.ExitUsageError
	}

	camp, err := campaign.FromFiles(fs.Arg(0), fs.Arg(1))
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stdout, "campaign: %s", camp.Name)
	if camp.TrackingTicket != "" {
		fmt.Fprintf(os.Stdout, " (%s)", camp.TrackingTicket)
	}
	fmt.Fprintln(os.Stdout)
	if camp.Exposures != nil {
		fmt.Fprintf(os.Stdout, "exposures: %d\n", len(camp.Exposures))
	}
	for _, s := range camp.Steps {
		fmt.Fprintf(os.Stdout, "step: %s", s.Name)
		if s.TrackingTicket != "" {
			fmt.Fprintf(os.Stdout, " (%s)", s.TrackingTicket)
		}
		fmt.Fprintln(os.Stdout)
		for _, w := range s.Workflows {
			fmt.Fprintf(os.Stdout, "  workflow: %s band=%s", w.Name, w.Band)
			if w.Exposures != nil {
				fmt.Fprintf(os.Stdout, " exposures=%d", len(w.Exposures))
			}
			if w.TrackingTicket != "" {
				fmt.Fprintf(os.Stdout, " (%s)", w.TrackingTicket)
			}
			fmt.Fprintln(os.Stdout)
		}
	}
	return subcommands.ExitSuccess
}
