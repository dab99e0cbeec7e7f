// Package routes stages the external demand-to-trip and trip-to-route
// conversions and collects the resulting route-file references.
package routes

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/v2x-cosim/v2x-cosim/scenario"
	"github.com/v2x-cosim/v2x-cosim/scenario/demand"
)

// Stager sequences the conversions for one scenario. Every external call
// goes through the ToolRunner, so a non-zero exit aborts the pipeline
// instead of leaving a missing route file behind.
type Stager struct {
	Runner scenario.ToolRunner
	Paths  *scenario.ArtifactPathSet
	Tools  scenario.ToolsProfile
}

// BuildClassRoutes concatenates a class's per-segment demand matrices into
// one demand-to-trip conversion producing a single trip file. Flows carry
// the class prefix; the departure lane follows the class policy.
func (s *Stager) BuildClassRoutes(ctx context.Context, class scenario.VehicleClass, artifacts []demand.Artifact) (string, error) {
	if len(artifacts) == 0 {
		return "", fmt.Errorf("no demand matrices for class %s", class.Name)
	}
	odFiles := make([]string, len(artifacts))
	for i, a := range artifacts {
		odFiles[i] = a.Path
	}
	tripFile := s.Paths.TripFilePath(class)
	args := []string{
		"-n", s.Paths.TAZFile,
		"-X", "never",
		"-d", strings.Join(odFiles, ","),
		"--flow-output", tripFile,
		"--prefix", class.Name + "_",
		"--departlane", class.DepartLane,
	}
	if err := s.Runner.Run(ctx, "", s.Tools.OD2Trips, args...); err != nil {
		return "", fmt.Errorf("converting %s demand to trips: %w", class.Name, err)
	}
	return tripFile, nil
}

// BuildObstructionRoute converts the scripted obstruction trip file into a
// route file referencing the scenario's vehicle-type copy. The trip file
// is maintained by hand and must already exist.
func (s *Stager) BuildObstructionRoute(ctx context.Context) (string, error) {
	if err := scenario.RequireArtifact(s.Paths.ObstructionTrips); err != nil {
		return "", err
	}
	args := []string{
		"-n", s.Paths.NetFile,
		"-X", "never",
		"--route-files", s.Paths.ObstructionTrips,
		"--additional-files", s.Paths.VTypeFile,
		"-o", s.Paths.ObstructionRoute,
	}
	if err := s.Runner.Run(ctx, "", s.Tools.DuaRouter, args...); err != nil {
		return "", fmt.Errorf("routing obstruction trips: %w", err)
	}
	return s.Paths.ObstructionRoute, nil
}

// BuildAll emits demand matrices and stages routes for every vehicle class
// in registry order, then appends the obstruction route when the scenario
// asks for one. The returned list is consumed verbatim as the traffic
// simulator's route-file list.
func (s *Stager) BuildAll(ctx context.Context, spec *scenario.ScenarioSpec, segments []scenario.TimeSegment) ([]string, error) {
	var routeFiles []string
	for _, class := range scenario.VehicleClasses() {
		artifacts, err := demand.EmitClass(s.Paths, class, segments)
		if err != nil {
			return nil, err
		}
		logrus.Debugf("[%s] emitted %d demand matrices for class %s", spec.ID, len(artifacts), class.Name)
		tripFile, err := s.BuildClassRoutes(ctx, class, artifacts)
		if err != nil {
			return nil, err
		}
		routeFiles = append(routeFiles, tripFile)
	}
	if spec.Obstruction {
		routeFile, err := s.BuildObstructionRoute(ctx)
		if err != nil {
			return nil, err
		}
		routeFiles = append(routeFiles, routeFile)
	}
	return routeFiles, nil
}
