// Package scenario holds the data model and shared plumbing of the
// co-simulation scenario compiler.
//
// # Reading Guide
//
// Start with these three files to understand the compilation flow:
//   - spec.go: ScenarioSpec, the vehicle-class registry, and the congestion table
//   - segments.go: partitioning a scenario's duration into demand time segments
//   - paths.go: ArtifactPathSet, the resolved file tree one scenario works in
//
// # Architecture
//
// The scenario package defines the model; the stages live in sub-packages:
//   - scenario/sumonet/: net-file geometry and the geodetic-to-planar transform
//   - scenario/demand/: origin-destination matrix emission per time segment
//   - scenario/routes/: external demand-to-trip and trip-to-route staging
//   - scenario/simconf/: traffic-sim, network-sim, service and vtype documents
//   - scenario/pipeline/: the per-scenario state machine and the batch fan-out
//
// External processes are reached only through the ToolRunner interface in
// toolchain.go, so every stage stays testable without simulator binaries.
//
// # Errors
//
// All failure modes surface as one of the typed errors in errors.go
// (SchemaError, InvalidScenarioError, ArtifactNotFoundError,
// ExternalToolError), matchable with errors.As. Library code never logs
// fatally; that is reserved for cmd/.
package scenario
