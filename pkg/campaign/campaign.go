// Package campaign is the top of the processing hierarchy: a named
// collection of steps plus the base configuration and the master
// exposure set.
package campaign

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/lsst-dm/prodstatus/pkg/bpsconfig"
	"github.com/lsst-dm/prodstatus/pkg/exposures"
	"github.com/lsst-dm/prodstatus/pkg/step"
	"github.com/lsst-dm/prodstatus/pkg/workflow"
)

const (
	// FileSpec is the campaign specification filename inside a
	// persisted campaign directory (and as a Jira attachment).
	FileSpec = "campaign.yaml"

	// FileBPSConfig is the campaign's base BPS configuration filename.
	FileBPSConfig = "bps_config.yaml"

	// FileExposures is the master exposure list filename.
	FileExposures = "explist.csv"

	// StepsDir is the subdirectory holding the campaign's steps.
	StepsDir = "steps"
)

// CampaignSpec owns the whole tree: steps own workflows, nothing owns
// a campaign.
type CampaignSpec struct {
	Name       string
	BaseConfig *bpsconfig.Config
	Steps      []step.StepSpec

	// Exposures is the master exposure set, when known.
	Exposures exposures.Set

	TrackingTicket string
}

// SpecFile is the campaign definition a user writes: where the base
// configuration and exposure list live, and the ordered step
// policies to fan out over.
type SpecFile struct {
	Name      string                `yaml:"name"`
	BPSConfig string                `yaml:"bps_config"`
	Exposures string                `yaml:"exposures,omitempty"`
	Steps     []workflow.StepPolicy `yaml:"steps"`
}

// NewFromSpecFile loads a campaign definition and runs the fan-out:
// the base configuration is copied per step, exposures are
// partitioned per each step's policy, and the resulting workflows are
// grouped into steps.
//
// Relative paths inside the definition resolve against its directory.
func NewFromSpecFile(path string, dropEmpty bool) (CampaignSpec, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return CampaignSpec{}, err
	}
	var spec SpecFile
	if err := yaml.Unmarshal(buf, &spec); err != nil {
		return CampaignSpec{}, fmt.Errorf(
			"%w: campaign definition %s: %s", workflow.ErrParse, path, err,
		)
	}

	base := filepath.Dir(path)
	resolve := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	config, err := bpsconfig.Load(resolve(spec.BPSConfig))
	if err != nil {
		return CampaignSpec{}, err
	}

	var exps exposures.Set
	if spec.Exposures != "" {
		exps, err = exposures.Load(resolve(spec.Exposures))
		if err != nil {
			return CampaignSpec{}, err
		}
	}

	c := CampaignSpec{
		Name:       spec.Name,
		BaseConfig: config,
		Exposures:  exps,
	}
	for _, policy := range spec.Steps {
		s, err := step.GenerateNew(
			policy.Name,
			config,
			policy.SplitBands,
			policy.ExposureGroups,
			exps,
			c.Name,
			dropEmpty,
		)
		if err != nil {
			return CampaignSpec{}, err
		}
		c.Steps = append(c.Steps, s)
	}

	return c, nil
}
