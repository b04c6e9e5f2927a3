package workflow_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/lsst-dm/prodstatus/pkg/utils/try"
	"github.com/lsst-dm/prodstatus/pkg/workflow"
)

func TestFileRoundTrip(t *testing.T) {
	theory := func(build func(t *testing.T) workflow.WorkflowSpec) func(*testing.T) {
		return func(t *testing.T) {
			w := build(t)
			dir := t.TempDir()
			if err := w.ToFiles(dir); err != nil {
				t.Fatal(err)
			}

			got := try.To(workflow.FromFiles(dir, w.Name)).OrFatal(t)

			if got.Name != w.Name || got.StepName != w.StepName || got.Band != w.Band {
				t.Errorf("identity: got %+v, want %+v", got, w)
			}
			if got.TrackingTicket != w.TrackingTicket {
				t.Errorf("ticket: got %q, want %q", got.TrackingTicket, w.TrackingTicket)
			}
			if !got.BaseConfig.Equal(w.BaseConfig) {
				t.Error("configuration differs after round trip")
			}
			if w.Exposures == nil {
				if got.Exposures != nil {
					t.Errorf("exposures: got %v, want none", got.Exposures)
				}
			} else if !got.Exposures.Equal(w.Exposures) {
				t.Errorf("exposures: got %v, want %v", got.Exposures, w.Exposures)
			}
		}
	}

	t.Run("a workflow with exposures survives a round trip", theory(
		func(t *testing.T) workflow.WorkflowSpec {
			w := workflow.New(baseConfig(t), "c1_step1_g")
			w.StepName = "step1"
			w.Band = "g"
			w.Exposures = sampleExposures().FilterByBand("g")
			w.TrackingTicket = "DRP-42"
			return w
		},
	))

	t.Run("a workflow without exposures survives a round trip", theory(
		func(t *testing.T) workflow.WorkflowSpec {
			w := workflow.New(baseConfig(t), "c1_step1")
			w.StepName = "step1"
			return w
		},
	))
}

func TestFromFiles(t *testing.T) {
	t.Run("a missing workflow directory is ErrNotFound", func(t *testing.T) {
		_, err := workflow.FromFiles(t.TempDir(), "no_such_workflow")
		if !errors.Is(err, workflow.ErrNotFound) {
			t.Errorf("got error %v, want ErrNotFound", err)
		}
	})

	t.Run("a missing BPS configuration is ErrNotFound", func(t *testing.T) {
		dir := t.TempDir()
		w := workflow.New(baseConfig(t), "c1_step1")
		if err := w.ToFiles(dir); err != nil {
			t.Fatal(err)
		}
		if err := os.Remove(filepath.Join(dir, "c1_step1", workflow.FileBPSConfig)); err != nil {
			t.Fatal(err)
		}

		_, err := workflow.FromFiles(dir, "c1_step1")
		if !errors.Is(err, workflow.ErrNotFound) {
			t.Errorf("got error %v, want ErrNotFound", err)
		}
	})

	t.Run("a broken specification is ErrParse", func(t *testing.T) {
		dir := t.TempDir()
		wdir := filepath.Join(dir, "c1_step1")
		if err := os.MkdirAll(wdir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(
			filepath.Join(wdir, workflow.FileSpec), []byte("{ not yaml"), 0644,
		); err != nil {
			t.Fatal(err)
		}

		_, err := workflow.FromFiles(dir, "c1_step1")
		if !errors.Is(err, workflow.ErrParse) {
			t.Errorf("got error %v, want ErrParse", err)
		}
	})

	t.Run("an empty band defaults to all", func(t *testing.T) {
		dir := t.TempDir()
		wdir := filepath.Join(dir, "w1")
		if err := os.MkdirAll(wdir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(
			filepath.Join(wdir, workflow.FileSpec), []byte("name: w1\n"), 0644,
		); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(
			filepath.Join(wdir, workflow.FileBPSConfig), []byte("pipelineYaml: DRP.yaml\n"), 0644,
		); err != nil {
			t.Fatal(err)
		}

		got := try.To(workflow.FromFiles(dir, "w1")).OrFatal(t)
		if got.Band != "all" {
			t.Errorf("band: got %q, want all", got.Band)
		}
	})
}
