package scenario

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
)

// Departure-lane policies understood by the demand-to-trip converter.
// The assignment is keyed by vehicle class, not by scenario: heavy vehicles
// always enter on the rightmost lane, everything else lets the simulator pick.
const (
	DepartLaneBest  = "best"
	DepartLaneFirst = "first"
)

// VehicleClass describes one simulated traffic class: its name (used as a
// file prefix and demand-source key), its numeric vehicle-type code in the
// vtype definitions, and its departure-lane policy.
type VehicleClass struct {
	Name       string
	TypeCode   int
	DepartLane string
}

// vehicleClasses is the ordered class registry. Order matters: demand, trip
// and route artifacts are produced and referenced in exactly this order.
var vehicleClasses = []VehicleClass{
	{Name: "miv", TypeCode: 5, DepartLane: DepartLaneBest},
	{Name: "sv", TypeCode: 9, DepartLane: DepartLaneFirst},
}

// VehicleClasses returns the ordered vehicle-class registry.
func VehicleClasses() []VehicleClass {
	out := make([]VehicleClass, len(vehicleClasses))
	copy(out, vehicleClasses)
	return out
}

// congestionTable maps a single-character congestion-level code to the
// fractional utilization range [lower, upper] it stands for. Codes a-f are
// the graded levels of the underlying quality-of-service scheme; g-z and 1-3
// pin exact utilization points for calibration sweeps.
var congestionTable = map[byte][2]float64{
	'a': {0.00, 0.30},
	'b': {0.30, 0.55},
	'c': {0.55, 0.75},
	'd': {0.75, 0.90},
	'e': {0.90, 1.00},
	'f': {1.00, 1.15},
	'g': {1.00, 1.00},
	'h': {0.10, 0.10},
	'i': {0.20, 0.20},
	'j': {0.30, 0.30},
	'k': {0.40, 0.40},
	'l': {0.50, 0.50},
	'm': {0.60, 0.60},
	'n': {0.70, 0.70},
	'o': {0.80, 0.80},
	'p': {0.85, 0.85},
	'q': {0.90, 0.90},
	'r': {0.95, 0.95},
	's': {1.00, 1.00},
	't': {1.05, 1.05},
	'u': {1.10, 1.10},
	'v': {1.20, 1.20},
	'w': {1.30, 1.30},
	'x': {1.40, 1.40},
	'y': {1.50, 1.50},
	'z': {1.60, 1.60},
	'1': {1.70, 1.70},
	'2': {1.80, 1.80},
	'3': {1.90, 1.90},
}

// CongestionBounds returns the [lower, upper] utilization range for a
// congestion code, and whether the code is known.
func CongestionBounds(code byte) ([2]float64, bool) {
	b, ok := congestionTable[code]
	return b, ok
}

// CongestionFactor returns the traffic-intensity multiplier for a congestion
// code: the arithmetic mean of the code's bounds.
func CongestionFactor(code byte) (float64, bool) {
	b, ok := congestionTable[code]
	if !ok {
		return 0, false
	}
	return (b[0] + b[1]) / 2, true
}

// KnownCongestionCodes returns all table codes in sorted order, for error
// messages and the dry-run listing.
func KnownCongestionCodes() string {
	codes := make([]byte, 0, len(congestionTable))
	for c := range congestionTable {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return string(codes)
}

// ScenarioSpec identifies one scenario: a single row of the batch file.
// Instances are never mutated after construction and are owned by exactly
// one pipeline.
type ScenarioSpec struct {
	ID                 string        `validate:"required"` // scenario identifier, scopes every generated artifact
	Network            string        `validate:"required"` // net-file name under sumo/net
	TrafficProfile     string        `validate:"required"` // demand-profile directory under sumo/traffic
	Obstruction        bool          // route the scripted obstruction vehicle
	Duration           time.Duration `validate:"gt=0"` // total simulated time
	CongestionSequence string        `validate:"required"` // one congestion code per time segment
	V2XRate            float64       `validate:"gte=0,lte=1"` // equipment penetration rate
	ReactionTime       float64       `validate:"gt=0"` // driver reaction-time headway (vtype tau)
	Repeats            int           `validate:"gte=1"` // network-sim repetitions per traffic trace
	TrafficLights      bool          // false turns all traffic lights off
}

var specValidator = validator.New()

// Validate checks every enumerable constraint of the scenario, including
// that each congestion code appears in the table. Returns
// *InvalidScenarioError naming the offending field and value.
func (s *ScenarioSpec) Validate() error {
	if err := specValidator.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return &InvalidScenarioError{
				ScenarioID: s.ID,
				Field:      fe.Field(),
				Reason:     fmt.Sprintf("value %v violates constraint %q", fe.Value(), fe.Tag()),
			}
		}
		return fmt.Errorf("validating scenario %q: %w", s.ID, err)
	}
	for i := 0; i < len(s.CongestionSequence); i++ {
		code := s.CongestionSequence[i]
		if _, ok := congestionTable[code]; !ok {
			return &InvalidScenarioError{
				ScenarioID: s.ID,
				Field:      "CongestionSequence",
				Reason: fmt.Sprintf("unknown congestion code %q at position %d; known codes: %s",
					string(code), i, KnownCongestionCodes()),
			}
		}
	}
	return nil
}
