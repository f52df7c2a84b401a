package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/procsim/procsim/sim"
)

func writeProfile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoadHardwareProfile_ParsesPresets(t *testing.T) {
	path := writeProfile(t, `
active: fast
presets:
  - name: fast
    processor_msec: 1
  - name: slow
    processor_msec: 100
`)
	hp, err := LoadHardwareProfile(path)
	if err != nil {
		t.Fatalf("LoadHardwareProfile: %v", err)
	}
	if len(hp.Presets) != 2 || hp.Active != "fast" {
		t.Fatalf("unexpected profile: %+v", hp)
	}
}

func TestHardwareProfile_Apply_OverridesOnlyNonZeroFields(t *testing.T) {
	hp := &HardwareProfile{
		Active: "fast",
		Presets: []Preset{
			{Name: "fast", ProcessorCycleMsec: 1},
		},
	}
	cfg := &sim.Config{ProcessorCycleMsec: 10, MonitorCycleMsec: 20}

	if err := hp.Apply(cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.ProcessorCycleMsec != 1 {
		t.Errorf("ProcessorCycleMsec = %v, want 1", cfg.ProcessorCycleMsec)
	}
	if cfg.MonitorCycleMsec != 20 {
		t.Errorf("MonitorCycleMsec = %v, want unchanged 20", cfg.MonitorCycleMsec)
	}
}

func TestHardwareProfile_Apply_UnknownActive_Errors(t *testing.T) {
	hp := &HardwareProfile{Active: "nope", Presets: []Preset{{Name: "fast"}}}
	if err := hp.Apply(&sim.Config{}); err == nil {
		t.Error("expected error for unknown active preset")
	}
}

func TestHardwareProfile_Apply_SinglePresetNoActive_Applies(t *testing.T) {
	hp := &HardwareProfile{Presets: []Preset{{Name: "only", MemoryCycleMsec: 5}}}
	cfg := &sim.Config{}
	if err := hp.Apply(cfg); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if cfg.MemoryCycleMsec != 5 {
		t.Errorf("MemoryCycleMsec = %v, want 5", cfg.MemoryCycleMsec)
	}
}
