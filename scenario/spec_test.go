package scenario

import (
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// === Congestion table ===

func TestCongestionFactor_MeanOfBounds(t *testing.T) {
	tests := []struct {
		code byte
		want float64
	}{
		{'a', 0.15},
		{'b', 0.425},
		{'c', 0.65},
		{'d', 0.825},
		{'e', 0.95},
		{'f', 1.075},
		{'g', 1.00},
		{'h', 0.10},
		{'s', 1.00},
		{'z', 1.60},
		{'1', 1.70},
		{'3', 1.90},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			got, ok := CongestionFactor(tt.code)
			if !ok {
				t.Fatalf("CongestionFactor(%q) unknown, want %v", string(tt.code), tt.want)
			}
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestCongestionFactor_UnknownCode(t *testing.T) {
	for _, code := range []byte{'0', '4', 'A', '?', ' '} {
		if _, ok := CongestionFactor(code); ok {
			t.Errorf("CongestionFactor(%q) = known, want unknown", string(code))
		}
	}
}

func TestCongestionBounds_GradedLevelsSpanRanges(t *testing.T) {
	b, ok := CongestionBounds('c')
	assert.True(t, ok)
	assert.Equal(t, [2]float64{0.55, 0.75}, b)
}

func TestKnownCongestionCodes_SortedAndComplete(t *testing.T) {
	codes := KnownCongestionCodes()
	assert.Len(t, codes, 29)
	assert.True(t, sort.SliceIsSorted([]byte(codes), func(i, j int) bool {
		return codes[i] < codes[j]
	}))
	// Digits sort before letters.
	assert.Equal(t, byte('1'), codes[0])
	assert.Contains(t, codes, "abcdef")
}

// === Vehicle class registry ===

func TestVehicleClasses_OrderAndPolicies(t *testing.T) {
	classes := VehicleClasses()
	if len(classes) != 2 {
		t.Fatalf("got %d classes, want 2", len(classes))
	}
	assert.Equal(t, VehicleClass{Name: "miv", TypeCode: 5, DepartLane: DepartLaneBest}, classes[0])
	assert.Equal(t, VehicleClass{Name: "sv", TypeCode: 9, DepartLane: DepartLaneFirst}, classes[1])
}

func TestVehicleClasses_ReturnsCopy(t *testing.T) {
	classes := VehicleClasses()
	classes[0].Name = "mutated"
	assert.Equal(t, "miv", VehicleClasses()[0].Name)
}

// === Spec validation ===

func validSpec() *ScenarioSpec {
	return &ScenarioSpec{
		ID:                 "B1",
		Network:            "city.net.xml",
		TrafficProfile:     "rush_hour",
		Duration:           2 * time.Hour,
		CongestionSequence: "ab",
		V2XRate:            0.25,
		ReactionTime:       1.6,
		Repeats:            3,
	}
}

func TestScenarioSpecValidate_Valid(t *testing.T) {
	assert.NoError(t, validSpec().Validate())
}

func TestScenarioSpecValidate_FieldConstraints(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScenarioSpec)
		field  string
	}{
		{"missing id", func(s *ScenarioSpec) { s.ID = "" }, "ID"},
		{"missing network", func(s *ScenarioSpec) { s.Network = "" }, "Network"},
		{"zero duration", func(s *ScenarioSpec) { s.Duration = 0 }, "Duration"},
		{"rate above one", func(s *ScenarioSpec) { s.V2XRate = 1.5 }, "V2XRate"},
		{"negative rate", func(s *ScenarioSpec) { s.V2XRate = -0.1 }, "V2XRate"},
		{"zero reaction time", func(s *ScenarioSpec) { s.ReactionTime = 0 }, "ReactionTime"},
		{"zero repeats", func(s *ScenarioSpec) { s.Repeats = 0 }, "Repeats"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(spec)
			err := spec.Validate()

			var invalid *InvalidScenarioError
			if !errors.As(err, &invalid) {
				t.Fatalf("got %v, want *InvalidScenarioError", err)
			}
			assert.Equal(t, tt.field, invalid.Field)
		})
	}
}

func TestScenarioSpecValidate_UnknownCongestionCode(t *testing.T) {
	spec := validSpec()
	spec.CongestionSequence = "aXb"
	err := spec.Validate()

	var invalid *InvalidScenarioError
	if !errors.As(err, &invalid) {
		t.Fatalf("got %v, want *InvalidScenarioError", err)
	}
	assert.Equal(t, "CongestionSequence", invalid.Field)
	assert.Contains(t, invalid.Reason, `"X"`)
	assert.Contains(t, invalid.Reason, "position 1")
}
