// Package testutil provides shared test infrastructure for the scenario
// pipeline: an on-disk scenario tree fixture, a recording tool runner and
// small file helpers used across the scenario packages.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/v2x-cosim/v2x-cosim/scenario"
)

// Fixture values shared by the scenario tree builder. The projection
// places the net in UTM zone 32, matching the nets the pipeline is run
// against.
const (
	NetFileName    = "test.net.xml"
	TrafficProfile = "rush_hour"

	NetFileXML = `<?xml version="1.0" encoding="UTF-8"?>
<net version="1.16" junctionCornerDetail="5">
    <location netOffset="-534000.00,-5806000.00" convBoundary="0.00,0.00,5200.00,4800.00" origBoundary="9.470000,52.380000,9.560000,52.440000" projParameter="+proj=utm +zone=32 +ellps=WGS84 +datum=WGS84 +units=m +no_defs"/>
</net>
`

	VTypeTemplateXML = `<additional>
    <vType id="5" vClass="passenger" tau="1.0" sigma="0.5" speedDev="0.1"/>
    <vType id="9" vClass="truck" tau="1.0" sigma="0.5" speedDev="0.05"/>
</additional>
`

	DemandSourceCSV = `from;to;num
101;202;100
202;101;200
`

	RSUConfigCSV = `rsuID;lon;lat
rsu0;9,50;52,42
rsu1;9,52;52,40
`

	DetectorConfigCSV = `detectorID;lane;pos
d0;e1_0;10,5
`
)

// NewSpec returns a valid scenario row most pipeline tests start from.
func NewSpec() *scenario.ScenarioSpec {
	return &scenario.ScenarioSpec{
		ID:                 "S001",
		Network:            NetFileName,
		TrafficProfile:     TrafficProfile,
		Obstruction:        false,
		Duration:           2 * time.Hour,
		CongestionSequence: "ab",
		V2XRate:            0.25,
		ReactionTime:       1.6,
		Repeats:            3,
		TrafficLights:      true,
	}
}

// ScenarioTree locates a fixture scenario layout on disk.
type ScenarioTree struct {
	Root       string
	ResultsDir string
}

// BuildScenarioTree lays out the shared scenario inputs for spec under a
// temp directory: net, polygon, vehicle-type template, GUI view, traffic
// tables and placement files. Generated directories (routes, config,
// results) are left to the pipeline.
func BuildScenarioTree(t *testing.T, spec *scenario.ScenarioSpec) *ScenarioTree {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "artery", "scenarios", "dave")
	netDir := filepath.Join(root, "sumo", "net")
	additionalDir := filepath.Join(root, "sumo", "additional")
	trafficDir := filepath.Join(root, "sumo", "traffic", spec.TrafficProfile)

	WriteFile(t, filepath.Join(netDir, spec.Network), NetFileXML)
	WriteFile(t, filepath.Join(netDir, scenario.PolygonFileName),
		"<additional>\n    <poly id=\"building_1\" shape=\"0.00,0.00 10.00,0.00 10.00,10.00\"/>\n</additional>\n")
	WriteFile(t, filepath.Join(additionalDir, scenario.VTypeTemplateName), VTypeTemplateXML)
	WriteFile(t, filepath.Join(additionalDir, scenario.GUIViewFileName),
		"<viewsettings>\n    <scheme name=\"real world\"/>\n</viewsettings>\n")
	WriteFile(t, filepath.Join(trafficDir, scenario.TAZFileName),
		"<tazs>\n    <taz id=\"taz_1\" edges=\"e1 e2\"/>\n</tazs>\n")
	WriteFile(t, filepath.Join(trafficDir, "odm_miv.csv"), DemandSourceCSV)
	WriteFile(t, filepath.Join(trafficDir, "odm_sv.csv"), DemandSourceCSV)
	WriteFile(t, filepath.Join(trafficDir, scenario.ObstructionTripName),
		"<routes>\n    <trip id=\"obstruction_0\" depart=\"0.00\" from=\"e1\" to=\"e2\"/>\n</routes>\n")
	WriteFile(t, filepath.Join(trafficDir, scenario.RSUConfigName), RSUConfigCSV)
	WriteFile(t, filepath.Join(trafficDir, scenario.DetectorConfigName), DetectorConfigCSV)

	return &ScenarioTree{
		Root:       root,
		ResultsDir: filepath.Join(base, "results"),
	}
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// ReadFile returns the content of path, failing the test when absent.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

// ToolCall records one delegated tool invocation.
type ToolCall struct {
	Dir  string
	Tool string
	Args []string
}

// FakeRunner stands in for the external conversion and simulation tools.
// It records every invocation and returns Err when set. Safe for
// concurrent use.
type FakeRunner struct {
	mu    sync.Mutex
	calls []ToolCall

	Err error
}

// Run implements scenario.ToolRunner.
func (r *FakeRunner) Run(_ context.Context, dir, tool string, args ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, ToolCall{Dir: dir, Tool: tool, Args: args})
	return r.Err
}

// Calls returns the recorded invocations in order.
func (r *FakeRunner) Calls() []ToolCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ToolCall, len(r.calls))
	copy(out, r.calls)
	return out
}
