package simconf

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/v2x-cosim/v2x-cosim/scenario"
)

// Network-sim seeds are drawn from [1, maxRepeatSeed] without replacement,
// so every repeat run of a scenario gets a distinct stream.
const maxRepeatSeed = 9998

// DrawRepeatSeeds returns n distinct seeds for the network simulator's
// repeat runs, deterministic for a given source.
func DrawRepeatSeeds(n int, src rand.Source) ([]int, error) {
	if n < 1 {
		return nil, &scenario.InvalidScenarioError{Field: "Repeats",
			Reason: fmt.Sprintf("need at least one repeat, got %d", n)}
	}
	if n > maxRepeatSeed {
		return nil, &scenario.InvalidScenarioError{Field: "Repeats",
			Reason: fmt.Sprintf("cannot draw %d distinct seeds from [1, %d]", n, maxRepeatSeed)}
	}

	idxs := make([]int, n)
	sampleuv.WithoutReplacement(idxs, maxRepeatSeed, src)

	seeds := make([]int, n)
	for i, idx := range idxs {
		seeds[i] = idx + 1
	}
	return seeds, nil
}

// RepeatSeedSource derives the rand source for a scenario's seed draw from
// its partitioned batch seed.
func RepeatSeedSource(scenarioSeed uint64) rand.Source {
	return rand.NewPCG(scenarioSeed, scenarioSeed)
}
