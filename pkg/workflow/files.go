package workflow

import (
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"

	"github.com/lsst-dm/prodstatus/pkg/bpsconfig"
	"github.com/lsst-dm/prodstatus/pkg/exposures"
)

// specFile is the on-disk shape of workflow.yaml.
type specFile struct {
	Name           string `yaml:"name"`
	Step           string `yaml:"step,omitempty"`
	Band           string `yaml:"band"`
	TrackingTicket string `yaml:"tracking_ticket,omitempty"`
}

func (w *WorkflowSpec) specFile() specFile {
	return specFile{
		Name:           w.Name,
		Step:           w.StepName,
		Band:           w.Band,
		TrackingTicket: w.TrackingTicket,
	}
}

// ToFiles writes the workflow into dir/{name}: the BPS configuration,
// the workflow specification, and (when known) the exposure list.
//
// A failed call can leave a partially written directory behind;
// nothing is rolled back.
func (w *WorkflowSpec) ToFiles(dir string) error {
	dir = filepath.Join(dir, w.Name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	if err := w.BaseConfig.Save(filepath.Join(dir, FileBPSConfig)); err != nil {
		return err
	}

	buf, err := yaml.Marshal(w.specFile())
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, FileSpec), buf, 0644); err != nil {
		return err
	}

	if w.Exposures != nil {
		if err := w.Exposures.Save(filepath.Join(dir, FileExposures)); err != nil {
			return err
		}
	}
	return nil
}

// FromFiles loads a workflow from dir/{name}, the layout ToFiles
// writes.
func FromFiles(dir string, name string) (WorkflowSpec, error) {
	dir = filepath.Join(dir, name)

	buf, err := os.ReadFile(filepath.Join(dir, FileSpec))
	if err != nil {
		if os.IsNotExist(err) {
			return WorkflowSpec{}, fmt.Errorf(
				"%w: workflow %s has no %s", ErrNotFound, name, FileSpec,
			)
		}
		return WorkflowSpec{}, err
	}
	var spec specFile
	if err := yaml.Unmarshal(buf, &spec); err != nil {
		return WorkflowSpec{}, fmt.Errorf("%w: %s of %s: %s", ErrParse, FileSpec, name, err)
	}

	config, err := bpsconfig.Load(filepath.Join(dir, FileBPSConfig))
	if err != nil {
		if os.IsNotExist(err) {
			return WorkflowSpec{}, fmt.Errorf(
				"%w: workflow %s has no %s", ErrNotFound, name, FileBPSConfig,
			)
		}
		return WorkflowSpec{}, err
	}

	w := WorkflowSpec{
		BaseConfig:     config,
		Name:           spec.Name,
		StepName:       spec.Step,
		Band:           spec.Band,
		TrackingTicket: spec.TrackingTicket,
	}
	if w.Band == "" {
		w.Band = "all"
	}

	explistPath := filepath.Join(dir, FileExposures)
	if _, err := os.Stat(explistPath); err == nil {
		exps, err := exposures.Load(explistPath)
		if err != nil {
			return WorkflowSpec{}, err
		}
		w.Exposures = exps
	}

	return w, nil
}
