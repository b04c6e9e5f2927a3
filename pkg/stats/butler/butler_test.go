package butler_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lsst-dm/prodstatus/pkg/stats/butler"
	"github.com/lsst-dm/prodstatus/pkg/utils/cmp"
	"github.com/lsst-dm/prodstatus/pkg/utils/try"
)

func TestParseMetadata(t *testing.T) {
	t.Run("it takes the maximum over all methods", func(t *testing.T) {
		md := try.To(butler.ParseMetadata(strings.NewReader(`
quantum:
  prepUtc: "2024-01-01T10:00:00.000"
  startUtc: "2024-01-01T10:00:01.000"
  prepEndCpuTime: 12.5
  endMaxResidentSetSize: 3000000
runQuantum:
  endCpuTime: 250.0
  endMaxResidentSetSize: 4194304
`))).OrFatal(t)

		if md.CPUTime != 250.0 {
			t.Errorf("cpu time: got %f, want 250", md.CPUTime)
		}
		if md.MaxRSS != 4194304 {
			t.Errorf("max rss: got %f, want 4194304", md.MaxRSS)
		}
		if md.Start != "2024-01-01 10:00:01.000" {
			t.Errorf("start: got %q", md.Start)
		}
	})

	t.Run("a document without timing keys yields zeroes", func(t *testing.T) {
		md := try.To(butler.ParseMetadata(strings.NewReader(
			"quantum:\n  somethingElse: 1\n",
		))).OrFatal(t)
		if md.CPUTime != 0 || md.MaxRSS != 0 || md.Start != "" {
			t.Errorf("got %+v, want zeroes", md)
		}
	})

	t.Run("broken YAML is an error", func(t *testing.T) {
		if _, err := butler.ParseMetadata(strings.NewReader("{ not yaml")); err == nil {
			t.Error("no error for broken YAML")
		}
	})
}

func writeMetadata(t *testing.T, root string, parts []string, cpu float64, rss float64, start string) {
	t.Helper()
	path := filepath.Join(append([]string{root}, parts...)...)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	content := fmt.Sprintf(
		"runQuantum:\n  endCpuTime: %g\n  endMaxResidentSetSize: %g\n", cpu, rss,
	)
	if start != "" {
		content += fmt.Sprintf("  startUtc: %q\n", start)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCollectDir(t *testing.T) {
	t.Run("it aggregates metadata files per leading task directory", func(t *testing.T) {
		root := t.TempDir()
		writeMetadata(t, root, []string{"isr", "a", "q1.yaml"}, 3600, 2097152, "2024-01-01 10:00:00")
		writeMetadata(t, root, []string{"isr", "a", "q2.yaml"}, 7200, 4194304, "2024-01-01 09:00:00")
		writeMetadata(t, root, []string{"calibrate", "q3.yaml"}, 1800, 1048576, "2024-01-01 11:00:00")

		stats := try.To(butler.CollectDir(root)).OrFatal(t)

		if !cmp.SliceEq(butler.TaskNames(stats), []string{"calibrate", "isr"}) {
			t.Fatalf("tasks: got %v", butler.TaskNames(stats))
		}

		isr := stats["isr"]
		if isr.NQuanta != 2 {
			t.Errorf("isr quanta: got %d, want 2", isr.NQuanta)
		}
		if isr.CPUPerQuantum != 5400 {
			t.Errorf("isr cpu per quantum: got %f, want 5400", isr.CPUPerQuantum)
		}
		if isr.CPUHours != 3.0 {
			t.Errorf("isr cpu hours: got %f, want 3", isr.CPUHours)
		}
		if isr.MaxRSSGB != 4.0 {
			t.Errorf("isr max rss: got %f, want 4", isr.MaxRSSGB)
		}
		if isr.Start != "2024-01-01 09:00:00" {
			t.Errorf("isr start: got %q", isr.Start)
		}

		calibrate := stats["calibrate"]
		if calibrate.NQuanta != 1 || calibrate.CPUHours != 0.5 {
			t.Errorf("calibrate: got %+v", calibrate)
		}
	})

	t.Run("an empty tree yields no statistics", func(t *testing.T) {
		stats := try.To(butler.CollectDir(t.TempDir())).OrFatal(t)
		if len(stats) != 0 {
			t.Errorf("got %v, want nothing", stats)
		}
	})
}
