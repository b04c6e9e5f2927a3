// Package campaign holds the prodstat subcommands that build, show
// and persist campaign trees.
package campaign

import (
	"context"
	"flag"
	"log"

	"github.com/google/subcommands"

	"github.com/lsst-dm/prodstatus/pkg/campaign"
)

type CreateCommand struct {
	logger    *log.Logger
	keepEmpty bool
}

func NewCreate(l *log.Logger) *CreateCommand {
	return &CreateCommand{logger: l}
}

func (*CreateCommand) Name() string { return "create-campaign" }

func (*CreateCommand) Synopsis() string {
	return "build a campaign tree from a definition file and write it to a directory"
}

func (*CreateCommand) Usage() string {
	return `create-campaign [flags...] DEFINITION_FILE OUT_DIR:
	Load a campaign definition (name, BPS configuration, exposure
	list, step policies), fan it out into steps and workflows, and
	write the resulting tree under OUT_DIR.

`
}

func (c *CreateCommand) SetFlags(fs *flag.FlagSet) {
	fs.BoolVar(
		&c.keepEmpty, "keep-empty", false,
		"keep workflows whose exposure subset came out empty",
	)
}

func (c *CreateCommand) Execute(ctx context.Context, fs *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if fs.NArg() != 2 {
		c.logger.Println("DEFINITION_FILE and OUT_DIR are required")
		return subcommands.ExitUsageError
	}
	definition, outDir := fs.Arg(0), fs.Arg(1)

	camp, err := campaign.NewFromSpecFile(definition, !c.keepEmpty)
	if err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}
	if err := camp.ToFiles(outDir); err != nil {
		c.logger.Println(err)
		return subcommands.ExitFailure
	}

	nWorkflows := 0
	for _, s := range camp.Steps {
		nWorkflows += len(s.Workflows)
	}
	c.logger.Printf(
		"campaign %s: %d steps, %d workflows written under %s",
		camp.Name, len(camp.Steps), nWorkflows, outDir,
	)
	return subcommands.ExitSuccess
}
