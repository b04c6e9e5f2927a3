// Package step groups workflows into a named phase of a campaign and
// owns the policy by which they were split.
package step

import (
	"github.com/lsst-dm/prodstatus/pkg/bpsconfig"
	"github.com/lsst-dm/prodstatus/pkg/exposures"
	"github.com/lsst-dm/prodstatus/pkg/workflow"
)

const (
	// FileSpec is the step specification filename inside a persisted
	// step directory (and as a Jira attachment).
	FileSpec = "step.yaml"

	// FileExposures is the step's exposure list filename.
	FileExposures = "explist.csv"

	// WorkflowsDir is the subdirectory holding the step's workflows.
	WorkflowsDir = "workflows"
)

// StepSpec is a named group of workflows plus the split policy that
// produced them.
//
// When SplitBands is set every workflow's band is a single letter of
// the band alphabet; when ExposureGroups is set sibling workflows
// cover disjoint contiguous exposure-id ranges.
type StepSpec struct {
	Name string

	SplitBands     bool
	ExposureGroups *workflow.GroupPolicy

	Workflows []workflow.WorkflowSpec

	// Exposures is the step's own exposure subset, when known.
	Exposures exposures.Set

	TrackingTicket string
}

// GenerateNew builds a step and its workflows from a base
// configuration: one monolithic workflow specialized for the step,
// band-split and exposure-group-split as requested.
//
// The output equals the step's slice of workflow.CreateMany run with
// the same policy.
func GenerateNew(
	name string,
	base *bpsconfig.Config,
	splitBands bool,
	groups *workflow.GroupPolicy,
	exps exposures.Set,
	baseName string,
	dropEmpty bool,
) (StepSpec, error) {
	workflows, err := workflow.CreateMany(
		base,
		[]workflow.StepPolicy{{Name: name, SplitBands: splitBands, ExposureGroups: groups}},
		exps,
		baseName,
		dropEmpty,
	)
	if err != nil {
		return StepSpec{}, err
	}
	return StepSpec{
		Name:           name,
		SplitBands:     splitBands,
		ExposureGroups: groups,
		Workflows:      workflows,
		Exposures:      exps,
	}, nil
}
