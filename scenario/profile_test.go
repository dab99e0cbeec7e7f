package scenario

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}
	return path
}

func TestDefaultProfile(t *testing.T) {
	profile := DefaultProfile()
	assert.Equal(t, "od2trips", profile.Tools.OD2Trips)
	assert.Equal(t, "duarouter", profile.Tools.DuaRouter)
	assert.Equal(t, "sumo-gui", profile.Tools.TrafficSim)
	assert.Equal(t, "../../build/run_artery.sh", profile.Tools.NetworkSimLauncher)
	assert.Equal(t, time.Duration(0), profile.ToolTimeout())
	assert.False(t, profile.Run.KeepScratch)
}

func TestLoadProfile_OverridesOnTopOfDefaults(t *testing.T) {
	path := writeProfile(t, `
tools:
  traffic_sim: sumo
run:
  tool_timeout_s: 120
  keep_scratch: true
`)

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, "sumo", profile.Tools.TrafficSim)
	assert.Equal(t, "od2trips", profile.Tools.OD2Trips, "untouched tools keep their defaults")
	assert.Equal(t, 2*time.Minute, profile.ToolTimeout())
	assert.True(t, profile.Run.KeepScratch)
}

func TestLoadProfile_UnknownKeyRejected(t *testing.T) {
	path := writeProfile(t, `
tools:
  od2tripz: somewhere
`)

	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "od2tripz")
}

func TestLoadProfile_EmptyToolRejected(t *testing.T) {
	path := writeProfile(t, `
tools:
  duarouter: ""
`)

	_, err := LoadProfile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DuaRouter")
}

func TestLoadProfile_NegativeTimeoutRejected(t *testing.T) {
	path := writeProfile(t, `
run:
  tool_timeout_s: -5
`)

	_, err := LoadProfile(path)
	require.Error(t, err)
}

func TestLoadProfile_MissingFile(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
