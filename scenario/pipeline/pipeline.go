// Package pipeline drives a single scenario from parsed batch row to
// finished artifact tree: directory setup, config archival, traffic and
// network artifact preparation, optional simulator launch and scratch
// cleanup. The stages run strictly in order; a failing stage stops the
// scenario and leaves its scratch files behind for inspection.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/v2x-cosim/v2x-cosim/scenario"
	"github.com/v2x-cosim/v2x-cosim/scenario/routes"
	"github.com/v2x-cosim/v2x-cosim/scenario/simconf"
	"github.com/v2x-cosim/v2x-cosim/scenario/sumonet"
)

// Stage identifies how far a pipeline has progressed.
type Stage int

const (
	StageConstructed Stage = iota
	StageDirectoriesEnsured
	StageConfigsArchived
	StageTrafficPrepared
	StageNetworkPrepared
	StageSimulated
	StageCleaned
)

var stageNames = map[Stage]string{
	StageConstructed:        "constructed",
	StageDirectoriesEnsured: "directories-ensured",
	StageConfigsArchived:    "configs-archived",
	StageTrafficPrepared:    "traffic-prepared",
	StageNetworkPrepared:    "network-prepared",
	StageSimulated:          "simulated",
	StageCleaned:            "cleaned",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Options are the per-scenario toggles shared across a batch.
type Options struct {
	// RunTraffic launches the traffic simulator standalone after
	// preparation. RunNetwork launches the coupled network simulation,
	// which drives the traffic side itself and therefore wins when both
	// are set.
	RunTraffic bool
	RunNetwork bool

	// KeepScratch skips the final cleanup stage.
	KeepScratch bool

	// StrictVehicleTypes rejects a vehicle-type template without the
	// reaction-time marker instead of copying it unchanged.
	StrictVehicleTypes bool

	// Seed is the scenario's partitioned seed, driving the repeat seed
	// draw for the network simulator.
	Seed uint64
}

// Pipeline prepares and optionally runs one scenario.
type Pipeline struct {
	spec   *scenario.ScenarioSpec
	paths  *scenario.ArtifactPathSet
	tools  scenario.ToolsProfile
	runner scenario.ToolRunner
	opts   Options

	stage      Stage
	network    *sumonet.Network
	routeFiles []string
}

// New assembles a pipeline. Input existence is checked when Run starts,
// not here.
func New(spec *scenario.ScenarioSpec, paths *scenario.ArtifactPathSet, tools scenario.ToolsProfile, runner scenario.ToolRunner, opts Options) *Pipeline {
	return &Pipeline{
		spec:   spec,
		paths:  paths,
		tools:  tools,
		runner: runner,
		opts:   opts,
		stage:  StageConstructed,
	}
}

// Stage returns the last completed stage.
func (p *Pipeline) Stage() Stage { return p.stage }

// Paths returns the resolved artifact tree the pipeline works in.
func (p *Pipeline) Paths() *scenario.ArtifactPathSet { return p.paths }

// Run executes all stages in order. The first failing stage aborts the
// scenario; scratch artifacts are then left in place.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.ensureDirectories(); err != nil {
		return err
	}
	p.stage = StageDirectoriesEnsured

	if err := p.checkInputs(); err != nil {
		return err
	}

	if err := p.archiveConfigs(); err != nil {
		return err
	}
	p.stage = StageConfigsArchived

	if err := p.prepareTraffic(ctx); err != nil {
		return err
	}
	p.stage = StageTrafficPrepared

	if err := p.prepareNetwork(); err != nil {
		return err
	}
	p.stage = StageNetworkPrepared

	if p.opts.RunNetwork || p.opts.RunTraffic {
		if err := p.launch(ctx); err != nil {
			return err
		}
		p.stage = StageSimulated
	}

	if !p.opts.KeepScratch {
		if err := p.removeScratch(); err != nil {
			return err
		}
		p.stage = StageCleaned
	}
	return nil
}

// ensureDirectories creates the generated parts of the scenario tree and
// the per-scenario results tree.
func (p *Pipeline) ensureDirectories() error {
	dirs := []string{
		p.paths.RoutesDir,
		p.paths.ConfigDir,
		p.paths.ResultsSumoDir,
		p.paths.ResultsOmnetDir,
		p.paths.ResultsAppDir,
		p.paths.ResultsConfigDir,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// checkInputs verifies the shared parts of the scenario tree before any
// stage writes into it.
func (p *Pipeline) checkInputs() error {
	for _, path := range []string{
		p.paths.Root,
		p.paths.SumoDir,
		p.paths.AdditionalDir,
		p.paths.TrafficDir,
		p.paths.NetFile,
	} {
		if err := scenario.RequireArtifact(path); err != nil {
			return err
		}
	}
	return nil
}

// prepareTraffic builds every artifact the traffic simulator consumes:
// the measurement definition, the vehicle-type copy, demand matrices and
// route files, and finally the run config referencing them all.
func (p *Pipeline) prepareTraffic(ctx context.Context) error {
	if err := simconf.WriteAdditionalFile(p.paths); err != nil {
		return err
	}
	if err := simconf.CustomizeVehicleTypes(p.paths.VTypeTemplate, p.paths.VTypeFile, p.spec.ReactionTime, p.opts.StrictVehicleTypes); err != nil {
		return err
	}

	segments, err := scenario.Segments(p.spec)
	if err != nil {
		return err
	}
	stager := routes.Stager{Runner: p.runner, Paths: p.paths, Tools: p.tools}
	p.routeFiles, err = stager.BuildAll(ctx, p.spec, segments)
	if err != nil {
		return err
	}

	return simconf.WriteTrafficSimConfig(p.paths, p.spec, p.routeFiles)
}

// prepareNetwork builds the service definition and the network-sim run
// config, placing every roadside unit into the net's planar frame.
func (p *Pipeline) prepareNetwork() error {
	if err := simconf.WriteServicesFile(p.paths.ServicesFile, p.spec.V2XRate); err != nil {
		return err
	}

	net, err := p.loadNetwork()
	if err != nil {
		return err
	}
	nodes, err := simconf.LoadInfrastructureNodes(p.paths.RSUConfig)
	if err != nil {
		return err
	}
	placed, err := simconf.PlaceNodes(net, nodes)
	if err != nil {
		return err
	}

	seeds, err := simconf.DrawRepeatSeeds(p.spec.Repeats, simconf.RepeatSeedSource(p.opts.Seed))
	if err != nil {
		return err
	}
	return simconf.WriteNetworkSimConfig(p.paths, p.spec, placed, seeds)
}

// loadNetwork parses the net file once and caches it.
func (p *Pipeline) loadNetwork() (*sumonet.Network, error) {
	if p.network != nil {
		return p.network, nil
	}
	net, err := sumonet.LoadNetwork(p.paths.NetFile)
	if err != nil {
		return nil, err
	}
	p.network = net
	return net, nil
}

// launch invokes the requested simulator. The coupled network run starts
// from the scenario root and references the ini by bare name; the
// standalone traffic run gets the full config path.
func (p *Pipeline) launch(ctx context.Context) error {
	if p.opts.RunNetwork {
		return p.runner.Run(ctx, p.paths.Root, p.tools.NetworkSimLauncher,
			"-u", "Cmdenv", "-f", p.paths.NetworkSimConfigName())
	}
	return p.runner.Run(ctx, p.paths.Root, p.tools.TrafficSim,
		"-c", p.paths.TrafficSimConfig, "-X", "never")
}
