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

type childRef struct {
	Name           string `yaml:"name"`
	TrackingTicket string `yaml:"tracking_ticket,omitempty"`
}

// specFile is the on-disk shape of campaign.yaml.
type specFile struct {
	Name           string     `yaml:"name"`
	TrackingTicket string     `yaml:"tracking_ticket,omitempty"`
	Steps          []childRef `yaml:"steps"`
}

func (c *CampaignSpec) specFile() specFile {
	spec := specFile{
		Name:           c.Name,
		TrackingTicket: c.TrackingTicket,
		Steps:          []childRef{},
	}
	for _, s := range c.Steps {
		spec.Steps = append(spec.Steps, childRef{
			Name: s.Name, TrackingTicket: s.TrackingTicket,
		})
	}
	return spec
}

// ToFiles writes the campaign into dir/{name}: campaign.yaml, the
// base BPS configuration, the master exposure list when known, and
// each step under steps/.
//
// A failed call can leave a partially written tree behind; nothing is
// rolled back.
func (c *CampaignSpec) ToFiles(dir string) error {
	dir = filepath.Join(dir, c.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	buf, err := yaml.Marshal(c.specFile())
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, FileSpec), buf, 0644); err != nil {
		return err
	}

	if err := c.BaseConfig.Save(filepath.Join(dir, FileBPSConfig)); err != nil {
		return err
	}

	if c.Exposures != nil {
		if err := c.Exposures.Save(filepath.Join(dir, FileExposures)); err != nil {
			return err
		}
	}

	stepsDir := filepath.Join(dir, StepsDir)
	if err := os.MkdirAll(stepsDir, 0755); err != nil {
		return err
	}
	for i := range c.Steps {
		if err := c.Steps[i].ToFiles(stepsDir); err != nil {
			return err
		}
	}
	return nil
}

// FromFiles loads a campaign from dir/{name}, the layout ToFiles
// writes. Every step the specification declares must be present.
func FromFiles(dir string, name string) (CampaignSpec, error) {
	dir = filepath.Join(dir, name)

	buf, err := os.ReadFile(filepath.Join(dir, FileSpec))
	if err != nil {
		if os.IsNotExist(err) {
			return CampaignSpec{}, fmt.Errorf(
				"%w: campaign %s has no %s", workflow.ErrNotFound, name, FileSpec,
			)
		}
		return CampaignSpec{}, err
	}
	var spec specFile
	if err := yaml.Unmarshal(buf, &spec); err != nil {
		return CampaignSpec{}, fmt.Errorf(
			"%w: %s of %s: %s", workflow.ErrParse, FileSpec, name, err,
		)
	}

	config, err := bpsconfig.Load(filepath.Join(dir, FileBPSConfig))
	if err != nil {
		if os.IsNotExist(err) {
			return CampaignSpec{}, fmt.Errorf(
				"%w: campaign %s has no %s", workflow.ErrNotFound, name, FileBPSConfig,
			)
		}
		return CampaignSpec{}, err
	}

	c := CampaignSpec{
		Name:           spec.Name,
		BaseConfig:     config,
		TrackingTicket: spec.TrackingTicket,
	}

	explistPath := filepath.Join(dir, FileExposures)
	if _, err := os.Stat(explistPath); err == nil {
		exps, err := exposures.Load(explistPath)
		if err != nil {
			return CampaignSpec{}, err
		}
		c.Exposures = exps
	}

	stepsDir := filepath.Join(dir, StepsDir)
	for _, ref := range spec.Steps {
		s, err := step.FromFiles(stepsDir, ref.Name)
		if err != nil {
			return CampaignSpec{}, err
		}
		if s.TrackingTicket == "" {
			s.TrackingTicket = ref.TrackingTicket
		}
		c.Steps = append(c.Steps, s)
	}

	return c, nil
}
