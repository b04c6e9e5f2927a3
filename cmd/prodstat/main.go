// prodstat manages LSST Data Release Production campaigns: it fans
// campaign definitions out into step and workflow trees, persists
// them to directories or linked Jira issues, and reports processing
// status back into Jira.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path"

	"github.com/google/subcommands"

	subcampaign "github.com/lsst-dm/prodstatus/cmd/prodstat/subcommands/campaign"
	subreport "github.com/lsst-dm/prodstatus/cmd/prodstat/subcommands/report"
	substat "github.com/lsst-dm/prodstatus/cmd/prodstat/subcommands/stat"
)

func main() {
	name := path.Base(os.Args[0])
	logger := log.Default()
	logger.SetPrefix(fmt.Sprintf("[%s] ", name))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(subcampaign.NewCreate(logger), "campaign")
	subcommands.Register(subcampaign.NewShow(logger), "campaign")
	subcommands.Register(subcampaign.NewIssue(logger), "campaign")
	subcommands.Register(subcampaign.NewLoad(logger), "campaign")
	subcommands.Register(subreport.New(logger), "reporting")
	subcommands.Register(substat.NewPanda(logger), "reporting")
	subcommands.Register(substat.NewButler(logger), "reporting")

	flag.Parse()
	os.Exit(int(subcommands.Execute(ctx)))
}
