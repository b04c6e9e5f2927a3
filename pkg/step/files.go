package step

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/lsst-dm/prodstatus/pkg/exposures"
	"github.com/lsst-dm/prodstatus/pkg/workflow"
)

// childRef is how a step's specification refers to a workflow: name
// and tracking ticket only, never the full body.
type childRef struct {
	Name           string `yaml:"name"`
	TrackingTicket string `yaml:"tracking_ticket,omitempty"`
}

// specFile is the on-disk shape of step.yaml.
type specFile struct {
	Name           string                `yaml:"name"`
	SplitBands     bool                  `yaml:"split_bands"`
	ExposureGroups *workflow.GroupPolicy `yaml:"exposure_groups,omitempty"`
	TrackingTicket string                `yaml:"tracking_ticket,omitempty"`
	Workflows      []childRef            `yaml:"workflows"`
}

func (s *StepSpec) specFile() specFile {
	spec := specFile{
		Name:           s.Name,
		SplitBands:     s.SplitBands,
		ExposureGroups: s.ExposureGroups,
		TrackingTicket: s.TrackingTicket,
		Workflows:      []childRef{},
	}
	for _, w := range s.Workflows {
		spec.Workflows = append(spec.Workflows, childRef{
			Name: w.Name, TrackingTicket: w.TrackingTicket,
		})
	}
	return spec
}

// ToFiles writes the step into dir/{name}: step.yaml, the exposure
// list when known, and each workflow under workflows/.
//
// A failed call can leave a partially written tree behind; nothing is
// rolled back.
func (s *StepSpec) ToFiles(dir string) error {
	dir = filepath.Join(dir, s.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	buf, err := yaml.Marshal(s.specFile())
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, FileSpec), buf, 0644); err != nil {
		return err
	}

	if s.Exposures != nil {
		if err := s.Exposures.Save(filepath.Join(dir, FileExposures)); err != nil {
			return err
		}
	}

	workflowsDir := filepath.Join(dir, WorkflowsDir)
	if err := os.MkdirAll(workflowsDir, 0755); err != nil {
		return err
	}
	for i := range s.Workflows {
		if err := s.Workflows[i].ToFiles(workflowsDir); err != nil {
			return err
		}
	}
	return nil
}

// FromFiles loads a step from dir/{name}, the layout ToFiles writes.
// Every workflow the specification declares must be present.
func FromFiles(dir string, name string) (StepSpec, error) {
	dir = filepath.Join(dir, name)

	buf, err := os.ReadFile(filepath.Join(dir, FileSpec))
	if err != nil {
		if os.IsNotExist(err) {
			return StepSpec{}, fmt.Errorf(
				"%w: step %s has no %s", workflow.ErrNotFound, name, FileSpec,
			)
		}
		return StepSpec{}, err
	}
	var spec specFile
	if err := yaml.Unmarshal(buf, &spec); err != nil {
		return StepSpec{}, fmt.Errorf(
			"%w: %s of %s: %s", workflow.ErrParse, FileSpec, name, err,
		)
	}

	s := StepSpec{
		Name:           spec.Name,
		SplitBands:     spec.SplitBands,
		ExposureGroups: spec.ExposureGroups,
		TrackingTicket: spec.TrackingTicket,
	}

	explistPath := filepath.Join(dir, FileExposures)
	if _, err := os.Stat(explistPath); err == nil {
		exps, err := exposures.Load(explistPath)
		if err != nil {
			return StepSpec{}, err
		}
		s.Exposures = exps
	}

	workflowsDir := filepath.Join(dir, WorkflowsDir)
	for _, ref := range spec.Workflows {
		w, err := workflow.FromFiles(workflowsDir, ref.Name)
		if err != nil {
			return StepSpec{}, err
		}
		if w.TrackingTicket == "" {
			w.TrackingTicket = ref.TrackingTicket
		}
		s.Workflows = append(s.Workflows, w)
	}

	return s, nil
}
