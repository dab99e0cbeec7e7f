package scenario

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ToolsProfile names the external executables the pipeline delegates to.
// Relative launcher paths are resolved against the scenario root at
// invocation time.
type ToolsProfile struct {
	OD2Trips           string `yaml:"od2trips" validate:"required"`
	DuaRouter          string `yaml:"duarouter" validate:"required"`
	TrafficSim         string `yaml:"traffic_sim" validate:"required"`
	NetworkSimLauncher string `yaml:"network_sim_launcher" validate:"required"`
}

// RunProfile carries run bounds that are usually fine at their defaults.
type RunProfile struct {
	ToolTimeoutS int  `yaml:"tool_timeout_s" validate:"gte=0"` // 0 = unbounded
	KeepScratch  bool `yaml:"keep_scratch"`
}

// Profile is the full profile YAML structure. All top-level sections must
// be listed to satisfy KnownFields(true) strict parsing.
type Profile struct {
	Version string       `yaml:"version"`
	Tools   ToolsProfile `yaml:"tools"`
	Run     RunProfile   `yaml:"run"`
}

// DefaultProfile returns the built-in tool set matching a standard SUMO
// plus Artery checkout, with the launcher script two levels above the
// scenario tree.
func DefaultProfile() *Profile {
	return &Profile{
		Version: "1",
		Tools: ToolsProfile{
			OD2Trips:           "od2trips",
			DuaRouter:          "duarouter",
			TrafficSim:         "sumo-gui",
			NetworkSimLauncher: "../../build/run_artery.sh",
		},
	}
}

// LoadProfile reads a profile YAML on top of the built-in defaults.
// Strict parsing: unrecognized keys (typos) are rejected.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	profile := DefaultProfile()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(profile); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if err := specValidator.Struct(profile); err != nil {
		return nil, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return profile, nil
}

// ToolTimeout returns the per-invocation bound as a duration.
func (p *Profile) ToolTimeout() time.Duration {
	return time.Duration(p.Run.ToolTimeoutS) * time.Second
}
