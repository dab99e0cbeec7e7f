package scenario

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pathSpec() *ScenarioSpec {
	return &ScenarioSpec{
		ID:                 "S42",
		Network:            "city.net.xml",
		TrafficProfile:     "rush_hour",
		Duration:           2 * time.Hour,
		CongestionSequence: "ab",
		V2XRate:            0.25,
		ReactionTime:       1.6,
		Repeats:            3,
	}
}

func TestNewArtifactPathSet_Layout(t *testing.T) {
	paths := NewArtifactPathSet("/sims/artery/scenarios/dave", "../../../results", pathSpec())

	assert.Equal(t, "/sims/artery/scenarios/dave", paths.Root)
	assert.Equal(t, "/sims/artery/scenarios/dave/sumo/net/city.net.xml", paths.NetFile)
	assert.Equal(t, "/sims/artery/scenarios/dave/sumo/traffic/rush_hour/taz.xml", paths.TAZFile)
	assert.Equal(t, "/sims/artery/scenarios/dave/sumo/routes/S42", paths.RoutesDir)
	assert.Equal(t, "/sims/artery/scenarios/dave/sumo/additional/S42_vtypes.add.xml", paths.VTypeFile)
	assert.Equal(t, "/sims/artery/scenarios/dave/sumo/config/S42.sumocfg", paths.TrafficSimConfig)
	assert.Equal(t, "/sims/artery/scenarios/dave/S42_services.xml", paths.ServicesFile)
	assert.Equal(t, "/sims/artery/scenarios/dave/S42_omnetpp.ini", paths.NetworkSimConfig)

	// The usual results layout climbs out of the scenario tree.
	assert.Equal(t, "/sims/results/S42", paths.ResultsDir)
	assert.Equal(t, "/sims/results/S42/sumo/fcd.out.xml", paths.FCDOutput)
	assert.Equal(t, "/sims/results/S42/sumo/edge_dump.out.xml", paths.EdgeDumpOutput)
}

func TestNewArtifactPathSet_AbsoluteResultsBase(t *testing.T) {
	paths := NewArtifactPathSet("/sims/dave", "/var/results", pathSpec())
	assert.Equal(t, "/var/results/S42", paths.ResultsDir)
}

func TestArtifactPathSet_DemandAndTripNames(t *testing.T) {
	paths := NewArtifactPathSet("/sims/dave", "/var/results", pathSpec())
	miv := VehicleClasses()[0]

	seg := TimeSegment{Index: 1, Code: 'b', Factor: 0.425, Start: time.Hour, Duration: time.Hour}
	assert.Equal(t, "/sims/dave/sumo/routes/S42/S42_odm_miv_1_qsv_b.od", paths.DemandMatrixPath(miv, seg))
	assert.Equal(t, "/sims/dave/sumo/traffic/rush_hour/odm_miv.csv", paths.DemandSourcePath(miv))
	assert.Equal(t, "/sims/dave/sumo/routes/S42/S42_trip_miv.odtrips.xml", paths.TripFilePath(miv))
}

func TestArtifactPathSet_SimRelative(t *testing.T) {
	paths := NewArtifactPathSet("/sims/artery/scenarios/dave", "../../../results", pathSpec())

	rel, err := paths.SimRelative(paths.NetFile)
	require.NoError(t, err)
	assert.Equal(t, "../net/city.net.xml", rel)

	rel, err = paths.SimRelative(paths.VTypeFile)
	require.NoError(t, err)
	assert.Equal(t, "../additional/S42_vtypes.add.xml", rel)

	// Result outputs climb from the config dir all the way out of the
	// simulation checkout.
	rel, err = paths.SimRelative(paths.FCDOutput)
	require.NoError(t, err)
	assert.Equal(t, "../../../../../results/S42/sumo/fcd.out.xml", rel)
}

func TestArtifactPathSet_RootRelative(t *testing.T) {
	paths := NewArtifactPathSet("/sims/artery/scenarios/dave", "../../../results", pathSpec())

	rel, err := paths.RootRelative(paths.ResultsOmnetDir)
	require.NoError(t, err)
	assert.Equal(t, "../../../results/S42/omnet", rel)
}

func TestArtifactPathSet_ScratchSetIsExact(t *testing.T) {
	paths := NewArtifactPathSet("/sims/dave", "../results", pathSpec())

	scratch := paths.ScratchPaths()
	require.Len(t, scratch, 6)
	assert.Equal(t, []string{
		paths.VTypeFile,
		paths.TrafficSimConfig,
		paths.NetworkSimConfig,
		paths.ServicesFile,
		paths.RoutesDir,
		paths.AdditionalFile,
	}, scratch)

	// Shared inputs and archived outputs stay out of the scratch set.
	for _, keep := range []string{paths.VTypeTemplate, paths.TAZFile, paths.NetFile, paths.ResultsDir} {
		assert.NotContains(t, scratch, keep)
	}
}

func TestArtifactPathSet_NetworkSimConfigName(t *testing.T) {
	paths := NewArtifactPathSet("/sims/dave", "../results", pathSpec())
	assert.Equal(t, "S42_omnetpp.ini", paths.NetworkSimConfigName())
	assert.Equal(t, "S42", paths.ScenarioID())
	assert.Equal(t, filepath.Join(paths.Root, "S42_omnetpp.ini"), paths.NetworkSimConfig)
}
