// HardwareProfile is a named set of device cycle-time overrides, letting a
// user swap in a slower/faster hardware preset without editing the config
// file's cycle times by hand.

package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/procsim/procsim/sim"
)

// HardwareProfile holds a set of named device timing presets loaded from a
// YAML file, plus which preset is active.
type HardwareProfile struct {
	Presets []Preset `yaml:"presets"`
	Active  string   `yaml:"active"`
}

// Preset overrides one or more of the config file's per-device cycle-time
// coefficients (msec per cycle). Zero-valued fields leave the config file's
// value unchanged.
type Preset struct {
	Name               string  `yaml:"name"`
	ProcessorCycleMsec float64 `yaml:"processor_msec"`
	MonitorCycleMsec   float64 `yaml:"monitor_msec"`
	HardDriveCycleMsec float64 `yaml:"hard_drive_msec"`
	PrinterCycleMsec   float64 `yaml:"printer_msec"`
	KeyboardCycleMsec  float64 `yaml:"keyboard_msec"`
	MemoryCycleMsec    float64 `yaml:"memory_msec"`
}

// LoadHardwareProfile reads and parses a hardware profile YAML file.
func LoadHardwareProfile(path string) (*HardwareProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("hardware profile: %w", err)
	}
	var hp HardwareProfile
	if err := yaml.Unmarshal(data, &hp); err != nil {
		return nil, fmt.Errorf("hardware profile: %w", err)
	}
	return &hp, nil
}

// Apply overrides cfg's cycle-time fields with the active preset's non-zero
// values. Returns an error if Active names a preset that isn't defined.
func (hp *HardwareProfile) Apply(cfg *sim.Config) error {
	if hp.Active == "" {
		if len(hp.Presets) == 1 {
			return applyPreset(cfg, hp.Presets[0])
		}
		return fmt.Errorf("hardware profile: no active preset selected and %d presets defined", len(hp.Presets))
	}
	for _, p := range hp.Presets {
		if p.Name == hp.Active {
			return applyPreset(cfg, p)
		}
	}
	return fmt.Errorf("hardware profile: unknown preset %q", hp.Active)
}

func applyPreset(cfg *sim.Config, p Preset) error {
	if p.ProcessorCycleMsec != 0 {
		cfg.ProcessorCycleMsec = p.ProcessorCycleMsec
	}
	if p.MonitorCycleMsec != 0 {
		cfg.MonitorCycleMsec = p.MonitorCycleMsec
	}
	if p.HardDriveCycleMsec != 0 {
		cfg.HardDriveCycleMsec = p.HardDriveCycleMsec
	}
	if p.PrinterCycleMsec != 0 {
		cfg.PrinterCycleMsec = p.PrinterCycleMsec
	}
	if p.KeyboardCycleMsec != 0 {
		cfg.KeyboardCycleMsec = p.KeyboardCycleMsec
	}
	if p.MemoryCycleMsec != 0 {
		cfg.MemoryCycleMsec = p.MemoryCycleMsec
	}
	return nil
}
