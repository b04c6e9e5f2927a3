package workflow

import (
	"fmt"

	"github.com/lsst-dm/prodstatus/pkg/bpsconfig"
	"github.com/lsst-dm/prodstatus/pkg/exposures"
)

// StepPolicy names one step and says how its workflows are split.
type StepPolicy struct {
	Name string `yaml:"name"`

	// SplitBands asks for one workflow per letter of the band alphabet.
	SplitBands bool `yaml:"split_bands"`

	// ExposureGroups, when set, further splits each workflow into
	// exposure-id groups.
	ExposureGroups *GroupPolicy `yaml:"exposure_groups,omitempty"`
}

// CreateMany fans a base configuration out into workflows for a whole
// campaign.
//
// One monolithic workflow per step is built first, carrying the full
// exposure set and a pipeline selector specialized with "#{step}".
// Each is then band-split and exposure-group-split as its policy
// requests. Output order is step order, then band order, then group
// order; workflows never cross step boundaries.
//
// When dropEmpty is true, workflows whose exposure subset came out
// empty are removed. Workflows with no exposure set at all are kept.
func CreateMany(
	base *bpsconfig.Config,
	policies []StepPolicy,
	exps exposures.Set,
	baseName string,
	dropEmpty bool,
) ([]WorkflowSpec, error) {

	// one workflow per step, covering everything in it
	stepWorkflows := make([]WorkflowSpec, 0, len(policies))
	for _, policy := range policies {
		config := base.Copy()
		if pipeline, ok := config.GetString("pipelineYaml"); ok {
			config.SetString(fmt.Sprintf("%s#%s", pipeline, policy.Name), "pipelineYaml")
		}
		stepWorkflows = append(stepWorkflows, WorkflowSpec{
			BaseConfig: config,
			Name:       fmt.Sprintf("%s_%s", baseName, policy.Name),
			StepName:   policy.Name,
			Band:       "all",
			Exposures:  exps,
		})
	}

	byPolicy := map[string]StepPolicy{}
	for _, policy := range policies {
		byPolicy[policy.Name] = policy
	}

	// split by band where requested
	bandWorkflows := []WorkflowSpec{}
	for _, w := range stepWorkflows {
		if byPolicy[w.StepName].SplitBands {
			bandWorkflows = append(bandWorkflows, w.SplitByBand(DefaultBands)...)
		} else {
			bandWorkflows = append(bandWorkflows, w)
		}
	}

	// split by exposure group where requested
	split := []WorkflowSpec{}
	for _, w := range bandWorkflows {
		groups := byPolicy[w.StepName].ExposureGroups
		if groups == nil {
			split = append(split, w)
			continue
		}
		children, err := w.SplitByExposure(groups.GroupSize, groups.SkipGroups, groups.NumGroups)
		if err != nil {
			return nil, err
		}
		split = append(split, children...)
	}

	if !dropEmpty {
		return split, nil
	}
	kept := make([]WorkflowSpec, 0, len(split))
	for _, w := range split {
		if w.Exposures != nil && len(w.Exposures) == 0 {
			continue
		}
		kept = append(kept, w)
	}
	return kept, nil
}
