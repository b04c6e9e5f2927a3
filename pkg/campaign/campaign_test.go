package campaign_test

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/lsst-dm/prodstatus/pkg/campaign"
	"github.com/lsst-dm/prodstatus/pkg/jira/mock"
	"github.com/lsst-dm/prodstatus/pkg/step"
	"github.com/lsst-dm/prodstatus/pkg/utils/cmp"
	"github.com/lsst-dm/prodstatus/pkg/utils/try"
	"github.com/lsst-dm/prodstatus/pkg/workflow"
)

func writeDefinition(t *testing.T, definition string) string {
	t.Helper()
	dir := t.TempDir()

	if err := os.WriteFile(filepath.Join(dir, "bps_config.yaml"), []byte(`
pipelineYaml: DRP.yaml
payload:
  dataQuery: "instrument = 'LSSTCam'"
`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "explist.csv"), []byte(
		"g 1\ng 3\nr 4\ng 5\ni 10\ni 11\nr 12\n",
	), 0644); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "campaign_def.yaml")
	if err := os.WriteFile(path, []byte(definition), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func stepNames(steps []step.StepSpec) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.Name)
	}
	return out
}

func workflowNames(ws []workflow.WorkflowSpec) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Name)
	}
	return out
}

func TestNewFromSpecFile(t *testing.T) {
	t.Run("it fans a definition out into steps and workflows", func(t *testing.T) {
		path := writeDefinition(t, `
name: c1
bps_config: bps_config.yaml
exposures: explist.csv
steps:
  - name: step1
    split_bands: true
  - name: step2
    split_bands: false
    exposure_groups:
      group_size: 3
`)
		c := try.To(campaign.NewFromSpecFile(path, true)).OrFatal(t)

		if c.Name != "c1" {
			t.Errorf("name: got %q", c.Name)
		}
		if !cmp.SliceEq(stepNames(c.Steps), []string{"step1", "step2"}) {
			t.Fatalf("steps: got %v", stepNames(c.Steps))
		}
		if !cmp.SliceEq(workflowNames(c.Steps[0].Workflows), []string{
			"c1_step1_g", "c1_step1_r", "c1_step1_i",
		}) {
			t.Errorf("step1 workflows: got %v", workflowNames(c.Steps[0].Workflows))
		}
		if !cmp.SliceEq(workflowNames(c.Steps[1].Workflows), []string{
			"c1_step2_1", "c1_step2_2", "c1_step2_3",
		}) {
			t.Errorf("step2 workflows: got %v", workflowNames(c.Steps[1].Workflows))
		}
		if len(c.Exposures) != 7 {
			t.Errorf("master exposures: got %d rows", len(c.Exposures))
		}
	})

	t.Run("a definition without exposures builds exposure-less steps", func(t *testing.T) {
		path := writeDefinition(t, `
name: c1
bps_config: bps_config.yaml
steps:
  - name: step1
    split_bands: true
`)
		c := try.To(campaign.NewFromSpecFile(path, true)).OrFatal(t)
		if c.Exposures != nil {
			t.Errorf("exposures: got %v, want none", c.Exposures)
		}
		// no set known, so nothing is dropped
		if len(c.Steps[0].Workflows) != 6 {
			t.Errorf("got %d workflows, want all 6 bands", len(c.Steps[0].Workflows))
		}
	})

	t.Run("an exposure split without exposures fails the fan-out", func(t *testing.T) {
		path := writeDefinition(t, `
name: c1
bps_config: bps_config.yaml
steps:
  - name: step1
    exposure_groups:
      group_size: 2
`)
		_, err := campaign.NewFromSpecFile(path, false)
		if !errors.Is(err, workflow.ErrNoExposures) {
			t.Errorf("got error %v, want ErrNoExposures", err)
		}
	})

	t.Run("a broken definition is ErrParse", func(t *testing.T) {
		path := writeDefinition(t, "{ not yaml")
		_, err := campaign.NewFromSpecFile(path, false)
		if !errors.Is(err, workflow.ErrParse) {
			t.Errorf("got error %v, want ErrParse", err)
		}
	})
}

func TestCampaignFileRoundTrip(t *testing.T) {
	t.Run("the whole tree survives a round trip", func(t *testing.T) {
		path := writeDefinition(t, `
name: c1
bps_config: bps_config.yaml
exposures: explist.csv
steps:
  - name: step1
    split_bands: true
  - name: step2
`)
		c := try.To(campaign.NewFromSpecFile(path, true)).OrFatal(t)
		c.TrackingTicket = "DRP-1"

		dir := t.TempDir()
		if err := c.ToFiles(dir); err != nil {
			t.Fatal(err)
		}

		got := try.To(campaign.FromFiles(dir, "c1")).OrFatal(t)

		if got.Name != c.Name || got.TrackingTicket != "DRP-1" {
			t.Errorf("identity: got %+v", got)
		}
		if !got.BaseConfig.Equal(c.BaseConfig) {
			t.Error("base configuration differs after round trip")
		}
		if !got.Exposures.Equal(c.Exposures) {
			t.Errorf("exposures: got %v", got.Exposures)
		}
		if !cmp.SliceEq(stepNames(got.Steps), stepNames(c.Steps)) {
			t.Fatalf("steps: got %v", stepNames(got.Steps))
		}
		for i := range got.Steps {
			if !cmp.SliceEq(
				workflowNames(got.Steps[i].Workflows),
				workflowNames(c.Steps[i].Workflows),
			) {
				t.Errorf("step %s workflows: got %v",
					got.Steps[i].Name, workflowNames(got.Steps[i].Workflows))
			}
		}
	})

	t.Run("a missing campaign directory is ErrNotFound", func(t *testing.T) {
		_, err := campaign.FromFiles(t.TempDir(), "no_such_campaign")
		if !errors.Is(err, workflow.ErrNotFound) {
			t.Errorf("got error %v, want ErrNotFound", err)
		}
	})
}

func TestCampaignJira(t *testing.T) {
	ctx := context.Background()
	quiet := log.New(io.Discard, "", 0)

	t.Run("cascade persists the whole tree and it loads back", func(t *testing.T) {
		path := writeDefinition(t, `
name: c1
bps_config: bps_config.yaml
exposures: explist.csv
steps:
  - name: step1
    split_bands: true
  - name: step2
`)
		c := try.To(campaign.NewFromSpecFile(path, true)).OrFatal(t)
		store := mock.NewInMemory()

		key := try.To(c.ToJira(ctx, quiet, store, "", false, true)).OrFatal(t)

		// 1 campaign + 2 steps + (3 band workflows + 1 monolithic)
		if len(store.Issues) != 7 {
			t.Errorf("got %d issues, want 7", len(store.Issues))
		}
		for _, s := range c.Steps {
			if s.TrackingTicket == "" {
				t.Errorf("step %s has no ticket after cascade", s.Name)
			}
			for _, w := range s.Workflows {
				if w.TrackingTicket == "" {
					t.Errorf("workflow %s has no ticket after cascade", w.Name)
				}
			}
		}

		got := try.To(campaign.FromJira(ctx, quiet, store, key)).OrFatal(t)
		if !cmp.SliceEq(stepNames(got.Steps), stepNames(c.Steps)) {
			t.Fatalf("steps: got %v", stepNames(got.Steps))
		}
		for i := range got.Steps {
			if !cmp.SliceEq(
				workflowNames(got.Steps[i].Workflows),
				workflowNames(c.Steps[i].Workflows),
			) {
				t.Errorf("step %s workflows: got %v",
					got.Steps[i].Name, workflowNames(got.Steps[i].Workflows))
			}
		}
		if !got.Exposures.Equal(c.Exposures) {
			t.Errorf("exposures: got %v", got.Exposures)
		}
	})

	t.Run("without cascade only the campaign issue is written", func(t *testing.T) {
		path := writeDefinition(t, `
name: c1
bps_config: bps_config.yaml
steps:
  - name: step1
`)
		c := try.To(campaign.NewFromSpecFile(path, false)).OrFatal(t)
		store := mock.NewInMemory()

		_ = try.To(c.ToJira(ctx, quiet, store, "", false, false)).OrFatal(t)
		if len(store.Issues) != 1 {
			t.Errorf("got %d issues, want 1", len(store.Issues))
		}
	})

	t.Run("a second cascade with replace reuses every ticket", func(t *testing.T) {
		path := writeDefinition(t, `
name: c1
bps_config: bps_config.yaml
exposures: explist.csv
steps:
  - name: step1
    split_bands: true
`)
		c := try.To(campaign.NewFromSpecFile(path, true)).OrFatal(t)
		store := mock.NewInMemory()

		first := try.To(c.ToJira(ctx, quiet, store, "", false, true)).OrFatal(t)
		countAfterFirst := len(store.Issues)

		second := try.To(c.ToJira(ctx, quiet, store, "", true, true)).OrFatal(t)
		if first != second {
			t.Errorf("campaign ticket changed: %s then %s", first, second)
		}
		if len(store.Issues) != countAfterFirst {
			t.Errorf("issue count grew from %d to %d", countAfterFirst, len(store.Issues))
		}
	})
}
