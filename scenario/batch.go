package scenario

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// batchColumns is the batch file contract: names and order are fixed.
// The German headers are the established on-disk interface of the existing
// scenario batch files and stay as-is.
var batchColumns = []string{
	"SzenarioID",
	"Netz",
	"Verkehr",
	"Hindernis",
	"Simulationsdauer",
	"QSV Abfolge",
	"V2X-Rate",
	"tau",
	"Anzahl Wiederholungen",
	"LSA",
}

// BatchColumns returns the expected batch header in order.
func BatchColumns() []string {
	out := make([]string, len(batchColumns))
	copy(out, batchColumns)
	return out
}

// ParseCommaFloat parses a float that may use a decimal comma, the number
// format of the spreadsheet tools the batch and placement tables come from.
func ParseCommaFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.Replace(strings.TrimSpace(s), ",", ".", 1), 64)
}

// LoadBatch reads the scenario batch file: one ScenarioSpec per row,
// ';'-separated, header matching BatchColumns exactly. Any schema or
// coercion failure rejects the whole batch before a single scenario runs.
func LoadBatch(path string) ([]*ScenarioSpec, error) {
	if err := RequireArtifact(path); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening batch file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	reader := csv.NewReader(file)
	reader.Comma = ';'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading batch header from %s: %w", path, err)
	}
	if !columnsMatch(header, batchColumns) {
		return nil, &SchemaError{Path: path, Expected: batchColumns, Got: header}
	}

	var specs []*ScenarioSpec
	rowIdx := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("batch %s row %d: %w", path, rowIdx, err)
		}
		spec, err := parseBatchRow(record)
		if err != nil {
			return nil, fmt.Errorf("batch %s row %d: %w", path, rowIdx, err)
		}
		if err := spec.Validate(); err != nil {
			return nil, fmt.Errorf("batch %s row %d: %w", path, rowIdx, err)
		}
		specs = append(specs, spec)
		rowIdx++
	}

	if len(specs) == 0 {
		return nil, fmt.Errorf("empty batch: no scenario rows in %s", path)
	}
	return specs, nil
}

// columnsMatch reports whether got equals want in content and order.
func columnsMatch(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(got[i]) != want[i] {
			return false
		}
	}
	return true
}

func parseBatchRow(record []string) (*ScenarioSpec, error) {
	id := strings.TrimSpace(record[0])

	obstruction, err := parseBoolFlag(record[3])
	if err != nil {
		return nil, &InvalidScenarioError{ScenarioID: id, Field: "Hindernis", Reason: err.Error()}
	}
	durSeconds, err := strconv.Atoi(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, &InvalidScenarioError{ScenarioID: id, Field: "Simulationsdauer",
			Reason: fmt.Sprintf("expected integer seconds, got %q", record[4])}
	}
	v2xRate, err := ParseCommaFloat(record[6])
	if err != nil {
		return nil, &InvalidScenarioError{ScenarioID: id, Field: "V2X-Rate",
			Reason: fmt.Sprintf("expected number, got %q", record[6])}
	}
	tau, err := ParseCommaFloat(record[7])
	if err != nil {
		return nil, &InvalidScenarioError{ScenarioID: id, Field: "tau",
			Reason: fmt.Sprintf("expected number, got %q", record[7])}
	}
	repeats, err := strconv.Atoi(strings.TrimSpace(record[8]))
	if err != nil {
		return nil, &InvalidScenarioError{ScenarioID: id, Field: "Anzahl Wiederholungen",
			Reason: fmt.Sprintf("expected integer, got %q", record[8])}
	}
	useTLS, err := parseBoolFlag(record[9])
	if err != nil {
		return nil, &InvalidScenarioError{ScenarioID: id, Field: "LSA", Reason: err.Error()}
	}

	return &ScenarioSpec{
		ID:                 id,
		Network:            strings.TrimSpace(record[1]),
		TrafficProfile:     strings.TrimSpace(record[2]),
		Obstruction:        obstruction,
		Duration:           time.Duration(durSeconds) * time.Second,
		CongestionSequence: strings.TrimSpace(record[5]),
		V2XRate:            v2xRate,
		ReactionTime:       tau,
		Repeats:            repeats,
		TrafficLights:      useTLS,
	}, nil
}

// parseBoolFlag interprets the batch file's 0/1 flag columns.
func parseBoolFlag(s string) (bool, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("expected 0 or 1, got %q", s)
	}
	return n != 0, nil
}
