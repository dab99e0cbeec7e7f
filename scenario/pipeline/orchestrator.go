package pipeline

import (
	"context"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/v2x-cosim/v2x-cosim/scenario"
)

// BatchConfig holds everything RunBatch needs beyond the scenario rows.
type BatchConfig struct {
	ScenarioRoot string
	ResultsDir   string
	Tools        scenario.ToolsProfile
	Runner       scenario.ToolRunner
	Seeds        *scenario.PartitionedSeeds

	// Workers caps concurrent scenarios; zero means one per CPU.
	Workers int

	// Run carries the per-scenario toggles; the Seed field is overwritten
	// per scenario from the partitioned batch seed.
	Run Options
}

// Outcome records one scenario's result within a batch.
type Outcome struct {
	ScenarioID string
	Err        error
	Elapsed    time.Duration
}

// BatchReport summarizes a batch run.
type BatchReport struct {
	Outcomes []Outcome
	Prepared int
	Failed   int
}

// RunBatch prepares every scenario concurrently, one pipeline per row.
// Scenarios are isolated: a failing scenario is recorded in the report
// and never stops its siblings. The returned error covers batch-level
// problems only.
func RunBatch(ctx context.Context, specs []*scenario.ScenarioSpec, cfg BatchConfig) (*BatchReport, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	outcomes := make([]Outcome, len(specs))

	var group errgroup.Group
	group.SetLimit(workers)
	for i, spec := range specs {
		group.Go(func() error {
			opts := cfg.Run
			opts.Seed = cfg.Seeds.ForScenario(spec.ID)

			paths := scenario.NewArtifactPathSet(cfg.ScenarioRoot, cfg.ResultsDir, spec)
			pl := New(spec, paths, cfg.Tools, cfg.Runner, opts)

			logrus.Infof("[%s] starting scenario", spec.ID)
			start := time.Now()
			err := pl.Run(ctx)
			elapsed := time.Since(start)

			if err != nil {
				logrus.Errorf("[%s] failed at stage %s: %v", spec.ID, pl.Stage(), err)
			} else {
				logrus.Infof("[%s] done in %s", spec.ID, elapsed.Round(time.Millisecond))
			}
			outcomes[i] = Outcome{ScenarioID: spec.ID, Err: err, Elapsed: elapsed}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	report := &BatchReport{Outcomes: outcomes}
	for _, outcome := range outcomes {
		if outcome.Err != nil {
			report.Failed++
		} else {
			report.Prepared++
		}
	}
	return report, nil
}
