package bpsconfig_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/lsst-dm/prodstatus/pkg/bpsconfig"
	"github.com/lsst-dm/prodstatus/pkg/utils/try"
)

func TestParse(t *testing.T) {
	t.Run("it reads nested mappings", func(t *testing.T) {
		conf := try.To(bpsconfig.Parse([]byte(`
pipelineYaml: "${DRP_PIPE_DIR}/pipelines/DRP.yaml"
payload:
  dataQuery: "instrument = 'LSSTCam'"
  butlerConfig: /repo/main
`))).OrFatal(t)

		got, ok := conf.GetString("payload", "dataQuery")
		if !ok || got != "instrument = 'LSSTCam'" {
			t.Errorf("payload.dataQuery: got (%q, %v)", got, ok)
		}
	})

	t.Run("it rejects non-YAML input", func(t *testing.T) {
		_, err := bpsconfig.Parse([]byte("{ not yaml"))
		if !errors.Is(err, bpsconfig.ErrParse) {
			t.Errorf("got error %v, want ErrParse", err)
		}
	})
}

func TestGetSetString(t *testing.T) {
	t.Run("GetString misses on absent paths and non-strings", func(t *testing.T) {
		conf := try.To(bpsconfig.Parse([]byte("payload:\n  count: 42\n"))).OrFatal(t)

		if _, ok := conf.GetString("payload", "missing"); ok {
			t.Error("absent leaf should miss")
		}
		if _, ok := conf.GetString("payload", "count"); ok {
			t.Error("integer leaf should miss")
		}
		if _, ok := conf.GetString("payload", "count", "deeper"); ok {
			t.Error("path through a scalar should miss")
		}
	})

	t.Run("SetString creates intermediate mappings", func(t *testing.T) {
		conf := bpsconfig.New(nil)
		conf.SetString("value", "a", "b", "c")
		got, ok := conf.GetString("a", "b", "c")
		if !ok || got != "value" {
			t.Errorf("a.b.c: got (%q, %v)", got, ok)
		}
	})
}

func TestCopy(t *testing.T) {
	t.Run("mutating a copy leaves the original alone", func(t *testing.T) {
		orig := try.To(bpsconfig.Parse([]byte(
			"payload:\n  dataQuery: \"exposure > 0\"\n",
		))).OrFatal(t)

		copied := orig.Copy()
		copied.SetString("exposure > 100", "payload", "dataQuery")

		got, _ := orig.GetString("payload", "dataQuery")
		if got != "exposure > 0" {
			t.Errorf("original was mutated: %q", got)
		}
		if orig.Equal(copied) {
			t.Error("copy should differ after mutation")
		}
	})
}

func TestRoundTrip(t *testing.T) {
	t.Run("dump then parse reproduces the values", func(t *testing.T) {
		conf := try.To(bpsconfig.Parse([]byte(`
pipelineYaml: DRP.yaml
payload:
  dataQuery: "band == 'g'"
  inCollection: LSSTCam/raw/all
extraQgraphOptions: "--skip-existing"
`))).OrFatal(t)

		buf := new(bytes.Buffer)
		if err := conf.Dump(buf); err != nil {
			t.Fatal(err)
		}
		reloaded := try.To(bpsconfig.Parse(buf.Bytes())).OrFatal(t)
		if !reloaded.Equal(conf) {
			t.Errorf("round trip: got %v, want %v", reloaded, conf)
		}
	})

	t.Run("save then load reproduces the values", func(t *testing.T) {
		conf := bpsconfig.New(map[string]any{"campaign": "DRP-2024"})
		path := filepath.Join(t.TempDir(), "bps_config.yaml")
		if err := conf.Save(path); err != nil {
			t.Fatal(err)
		}
		reloaded := try.To(bpsconfig.Load(path)).OrFatal(t)
		if !reloaded.Equal(conf) {
			t.Error("round trip should preserve values")
		}
	})
}
