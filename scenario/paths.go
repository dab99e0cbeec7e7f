package scenario

import (
	"fmt"
	"path/filepath"
)

// Shared artifact names inside the scenario tree. These are fixed by the
// surrounding simulation setup, not per-scenario values.
const (
	PolygonFileName     = "map.poly.add.xml"
	TAZFileName         = "taz.xml"
	VTypeTemplateName   = "vtypes.add.xml"
	GUIViewFileName     = "view.add.xml"
	ObstructionTripName = "obstruction.trips.xml"
	RSUConfigName       = "rsu_config.csv"
	DetectorConfigName  = "detector_config.csv"
	FCDOutputName       = "fcd.out.xml"
	EdgeDumpOutputName  = "edge_dump.out.xml"
)

// ArtifactPathSet is the resolved file tree one scenario works in: shared
// inputs, scenario-scoped scratch artifacts and result destinations.
// Computed once at pipeline construction and shared read-only by all
// stages; every embedded path is absolute once Root is.
type ArtifactPathSet struct {
	Root string // scenario root, e.g. <artery>/scenarios/<name>

	SumoDir       string // Root/sumo
	NetDir        string // Root/sumo/net
	AdditionalDir string // Root/sumo/additional
	TrafficDir    string // Root/sumo/traffic/<profile>
	RoutesDir     string // Root/sumo/routes/<id>, generated per scenario
	ConfigDir     string // Root/sumo/config

	NetFile          string
	PolygonFile      string
	TAZFile          string
	VTypeTemplate    string
	GUIViewFile      string
	ObstructionTrips string
	RSUConfig        string
	DetectorConfig   string

	// Scenario-scoped generated artifacts (the scratch set).
	VTypeFile        string // AdditionalDir/<id>_vtypes.add.xml
	AdditionalFile   string // AdditionalDir/<id>_additional.add.xml
	TrafficSimConfig string // ConfigDir/<id>.sumocfg
	ObstructionRoute string // RoutesDir/<id>_od_routes.rou.xml
	ServicesFile     string // Root/<id>_services.xml
	NetworkSimConfig string // Root/<id>_omnetpp.ini

	ResultsDir       string // <results base>/<id>
	ResultsSumoDir   string
	ResultsOmnetDir  string
	ResultsAppDir    string
	ResultsConfigDir string
	FCDOutput        string
	EdgeDumpOutput   string

	scenarioID string
}

// NewArtifactPathSet resolves the full path set for one scenario. root
// anchors the scenario tree; resultsRel locates the results base either
// relative to root (the usual layout climbs out of the scenario tree, e.g.
// "../../../results") or as an absolute path.
func NewArtifactPathSet(root, resultsRel string, spec *ScenarioSpec) *ArtifactPathSet {
	p := &ArtifactPathSet{Root: filepath.Clean(root), scenarioID: spec.ID}

	p.SumoDir = filepath.Join(p.Root, "sumo")
	p.NetDir = filepath.Join(p.SumoDir, "net")
	p.AdditionalDir = filepath.Join(p.SumoDir, "additional")
	p.TrafficDir = filepath.Join(p.SumoDir, "traffic", spec.TrafficProfile)
	p.RoutesDir = filepath.Join(p.SumoDir, "routes", spec.ID)
	p.ConfigDir = filepath.Join(p.SumoDir, "config")

	p.NetFile = filepath.Join(p.NetDir, spec.Network)
	p.PolygonFile = filepath.Join(p.NetDir, PolygonFileName)
	p.TAZFile = filepath.Join(p.TrafficDir, TAZFileName)
	p.VTypeTemplate = filepath.Join(p.AdditionalDir, VTypeTemplateName)
	p.GUIViewFile = filepath.Join(p.AdditionalDir, GUIViewFileName)
	p.ObstructionTrips = filepath.Join(p.TrafficDir, ObstructionTripName)
	p.RSUConfig = filepath.Join(p.TrafficDir, RSUConfigName)
	p.DetectorConfig = filepath.Join(p.TrafficDir, DetectorConfigName)

	p.VTypeFile = filepath.Join(p.AdditionalDir, spec.ID+"_"+VTypeTemplateName)
	p.AdditionalFile = filepath.Join(p.AdditionalDir, spec.ID+"_additional.add.xml")
	p.TrafficSimConfig = filepath.Join(p.ConfigDir, spec.ID+".sumocfg")
	p.ObstructionRoute = filepath.Join(p.RoutesDir, spec.ID+"_od_routes.rou.xml")
	p.ServicesFile = filepath.Join(p.Root, spec.ID+"_services.xml")
	p.NetworkSimConfig = filepath.Join(p.Root, spec.ID+"_omnetpp.ini")

	resultsBase := resultsRel
	if !filepath.IsAbs(resultsBase) {
		resultsBase = filepath.Join(p.Root, resultsRel)
	}
	p.ResultsDir = filepath.Join(resultsBase, spec.ID)
	p.ResultsSumoDir = filepath.Join(p.ResultsDir, "sumo")
	p.ResultsOmnetDir = filepath.Join(p.ResultsDir, "omnet")
	p.ResultsAppDir = filepath.Join(p.ResultsDir, "app")
	p.ResultsConfigDir = filepath.Join(p.ResultsDir, "config")
	p.FCDOutput = filepath.Join(p.ResultsSumoDir, FCDOutputName)
	p.EdgeDumpOutput = filepath.Join(p.ResultsSumoDir, EdgeDumpOutputName)

	return p
}

// ScenarioID returns the id the path set was built for.
func (p *ArtifactPathSet) ScenarioID() string { return p.scenarioID }

// DemandMatrixPath returns the output path for one (class, segment) demand
// matrix. The name embeds scenario id, class, segment index and congestion
// code, which keeps every emission within a scenario unique.
func (p *ArtifactPathSet) DemandMatrixPath(class VehicleClass, seg TimeSegment) string {
	name := fmt.Sprintf("%s_odm_%s_%d_qsv_%s.od", p.scenarioID, class.Name, seg.Index, string(seg.Code))
	return filepath.Join(p.RoutesDir, name)
}

// DemandSourcePath returns the per-class demand source table consumed by
// matrix emission.
func (p *ArtifactPathSet) DemandSourcePath(class VehicleClass) string {
	return filepath.Join(p.TrafficDir, "odm_"+class.Name+".csv")
}

// TripFilePath returns the trip-file output path for one vehicle class.
func (p *ArtifactPathSet) TripFilePath(class VehicleClass) string {
	return filepath.Join(p.RoutesDir, fmt.Sprintf("%s_trip_%s.odtrips.xml", p.scenarioID, class.Name))
}

// NetworkSimConfigName returns the bare network-sim config file name. The
// launcher is invoked from Root with this relative name.
func (p *ArtifactPathSet) NetworkSimConfigName() string {
	return filepath.Base(p.NetworkSimConfig)
}

// SimRelative rewrites an artifact path relative to the traffic simulator's
// own working directory: relative to the sumo tree, prefixed with one
// parent step. Both simulator configs embed references in this form.
func (p *ArtifactPathSet) SimRelative(path string) (string, error) {
	rel, err := filepath.Rel(p.SumoDir, path)
	if err != nil {
		return "", fmt.Errorf("relativizing %s against %s: %w", path, p.SumoDir, err)
	}
	return filepath.Join("..", rel), nil
}

// RootRelative rewrites an artifact path relative to the scenario root, the
// network simulator's working directory.
func (p *ArtifactPathSet) RootRelative(path string) (string, error) {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return "", fmt.Errorf("relativizing %s against %s: %w", path, p.Root, err)
	}
	return rel, nil
}

// ScratchPaths lists the scenario-scoped generated artifacts, exactly the
// set scratch cleanup removes. Shared templates and archived copies are
// never part of it.
func (p *ArtifactPathSet) ScratchPaths() []string {
	return []string{
		p.VTypeFile,
		p.TrafficSimConfig,
		p.NetworkSimConfig,
		p.ServicesFile,
		p.RoutesDir,
		p.AdditionalFile,
	}
}
