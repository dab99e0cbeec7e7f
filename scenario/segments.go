package scenario

import (
	"fmt"
	"time"
)

// TimeSegment is one equal slice of a scenario's duration, carrying the
// congestion code that governs demand intensity during that slice.
// Segments are derived on demand from a ScenarioSpec and never persisted.
type TimeSegment struct {
	Index    int
	Code     byte
	Factor   float64       // intensity multiplier, mean of the code's bounds
	Start    time.Duration // offset from the start-of-day reference
	Duration time.Duration
}

// End returns the exclusive upper bound of the segment window.
func (s TimeSegment) End() time.Duration {
	return s.Start + s.Duration
}

// Segments partitions [0, spec.Duration) into one segment per congestion
// code: equal length, contiguous, non-overlapping, in sequence order.
// An unknown code fails with *InvalidScenarioError before any segment is
// returned, so callers can rely on never writing partial artifact sets.
func Segments(spec *ScenarioSpec) ([]TimeSegment, error) {
	n := len(spec.CongestionSequence)
	if n == 0 {
		return nil, &InvalidScenarioError{
			ScenarioID: spec.ID,
			Field:      "CongestionSequence",
			Reason:     "sequence is empty",
		}
	}
	segDur := spec.Duration / time.Duration(n)
	out := make([]TimeSegment, 0, n)
	for i := 0; i < n; i++ {
		code := spec.CongestionSequence[i]
		factor, ok := CongestionFactor(code)
		if !ok {
			return nil, &InvalidScenarioError{
				ScenarioID: spec.ID,
				Field:      "CongestionSequence",
				Reason: fmt.Sprintf("unknown congestion code %q at position %d; known codes: %s",
					string(code), i, KnownCongestionCodes()),
			}
		}
		out = append(out, TimeSegment{
			Index:    i,
			Code:     code,
			Factor:   factor,
			Start:    segDur * time.Duration(i),
			Duration: segDur,
		})
	}
	return out, nil
}
