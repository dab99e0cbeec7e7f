package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/v2x-cosim/v2x-cosim/scenario"
	"github.com/v2x-cosim/v2x-cosim/scenario/pipeline"
)

var (
	batchFile    string // Path to the scenario batch file
	scenarioRoot string // Root of the scenario tree
	resultsDir   string // Results base, relative to the scenario root or absolute
	profilePath  string // Optional tools profile YAML
	batchSeed    int64  // Master seed for per-scenario seed partitioning
	jobs         int    // Concurrent scenarios
	toolTimeout  int    // Per-tool timeout in seconds, overriding the profile

	runTraffic   bool // Launch the traffic simulator standalone after preparation
	runNetwork   bool // Launch the coupled network simulation after preparation
	keepScratch  bool // Skip scratch cleanup
	strictVTypes bool // Reject vehicle-type templates without the tau marker
)

// runCmd compiles every scenario in the batch and optionally launches the
// requested simulator per scenario.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compile all scenarios of a batch file",
	Run: func(cmd *cobra.Command, args []string) {
		configureLogging()

		if err := scenario.CheckToolchainEnv(); err != nil {
			logrus.Fatalf("Toolchain check failed: %v", err)
		}

		profile := loadProfile(profilePath)
		if toolTimeout > 0 {
			profile.Run.ToolTimeoutS = toolTimeout
		}

		specs, err := scenario.LoadBatch(batchFile)
		if err != nil {
			logrus.Fatalf("Batch rejected: %v", err)
		}
		logrus.Infof("Loaded %d scenario(s) from %s", len(specs), batchFile)

		// Without a simulator launch the scratch artifacts are the product
		// of the run, so cleanup would delete the only output.
		prepareOnly := !runTraffic && !runNetwork

		key := scenario.NewBatchKey(batchSeed)
		cfg := pipeline.BatchConfig{
			ScenarioRoot: scenarioRoot,
			ResultsDir:   resultsDir,
			Tools:        profile.Tools,
			Runner:       &scenario.ExecToolRunner{Timeout: profile.ToolTimeout()},
			Seeds:        scenario.NewPartitionedSeeds(key),
			Workers:      jobs,
			Run: pipeline.Options{
				RunTraffic:         runTraffic,
				RunNetwork:         runNetwork,
				KeepScratch:        prepareOnly || keepScratch || profile.Run.KeepScratch,
				StrictVehicleTypes: strictVTypes,
			},
		}

		report, err := pipeline.RunBatch(cmd.Context(), specs, cfg)
		if err != nil {
			logrus.Fatalf("Batch run failed: %v", err)
		}
		logrus.Infof("Batch done: %d prepared, %d failed (batch key %d)",
			report.Prepared, report.Failed, key)
		if report.Failed > 0 {
			logrus.Fatalf("%d scenario(s) failed", report.Failed)
		}
	},
}

// loadProfile reads the tools profile, falling back to the built-in
// defaults when no path is given.
func loadProfile(path string) *scenario.Profile {
	if path == "" {
		return scenario.DefaultProfile()
	}
	profile, err := scenario.LoadProfile(path)
	if err != nil {
		logrus.Fatalf("Profile rejected: %v", err)
	}
	return profile
}

func init() {
	runCmd.Flags().StringVar(&batchFile, "batch", "", "Path to the scenario batch file (';'-separated)")
	runCmd.Flags().StringVar(&scenarioRoot, "scenario-root", "../artery/scenarios/dave", "Root of the scenario tree")
	runCmd.Flags().StringVar(&resultsDir, "results", "../../../results", "Results base, relative to the scenario root or absolute")
	runCmd.Flags().StringVar(&profilePath, "profile", "", "Tools profile YAML (built-in defaults when omitted)")
	runCmd.Flags().Int64Var(&batchSeed, "seed", 0, "Master seed for repeat-seed draws (0 = time-derived)")
	runCmd.Flags().IntVar(&jobs, "jobs", 0, "Concurrent scenarios (0 = one per CPU)")
	runCmd.Flags().IntVar(&toolTimeout, "tool-timeout", 0, "Per-tool timeout in seconds (0 = profile value)")
	runCmd.Flags().BoolVar(&runTraffic, "run-traffic", false, "Launch the traffic simulator standalone after preparation")
	runCmd.Flags().BoolVar(&runNetwork, "run-network", false, "Launch the coupled network simulation after preparation")
	runCmd.Flags().BoolVar(&keepScratch, "keep-scratch", false, "Keep the generated scratch artifacts after the run")
	runCmd.Flags().BoolVar(&strictVTypes, "strict-vtypes", false, "Reject vehicle-type templates without the tau marker")
	_ = runCmd.MarkFlagRequired("batch")
	runCmd.MarkFlagsMutuallyExclusive("run-traffic", "run-network")

	rootCmd.AddCommand(runCmd)
}
