// Package demand turns a scenario's congestion sequence into the
// time-sliced origin-destination matrices the demand-to-trip converter
// consumes.
package demand

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/v2x-cosim/v2x-cosim/scenario"
)

// CanonicalPeriod is the reference window the demand source tables are
// scaled for: every base count means vehicles per hour.
const CanonicalPeriod = time.Hour

// formatMarker identifies the O-format origin-destination matrix dialect.
const formatMarker = "$OM;D2"

// sourceColumns is the demand source table contract.
var sourceColumns = []string{"from", "to", "num"}

// Pair is one origin-destination row of a source table.
type Pair struct {
	From string
	To   string
	Num  float64
}

// SourceMatrix is a loaded per-class demand source table.
type SourceMatrix struct {
	Path  string
	Pairs []Pair
}

// Artifact records one emitted demand matrix and the parameters that
// produced it.
type Artifact struct {
	Path    string
	Class   scenario.VehicleClass
	Segment scenario.TimeSegment
}

// LoadSourceMatrix reads a per-class demand source table: ';'-separated,
// header exactly from;to;num. Missing file yields
// *scenario.ArtifactNotFoundError so the pipeline aborts before any
// partial matrix set exists for the class.
func LoadSourceMatrix(path string) (*SourceMatrix, error) {
	if err := scenario.RequireArtifact(path); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening demand source %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	reader := csv.NewReader(file)
	reader.Comma = ';'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading demand source header from %s: %w", path, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) != len(sourceColumns) || header[0] != sourceColumns[0] ||
		header[1] != sourceColumns[1] || header[2] != sourceColumns[2] {
		return nil, &scenario.SchemaError{Path: path, Expected: sourceColumns, Got: header}
	}

	src := &SourceMatrix{Path: path}
	rowIdx := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("demand source %s row %d: %w", path, rowIdx, err)
		}
		num, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("demand source %s row %d: invalid count %q", path, rowIdx, record[2])
		}
		src.Pairs = append(src.Pairs, Pair{
			From: strings.TrimSpace(record[0]),
			To:   strings.TrimSpace(record[1]),
			Num:  num,
		})
		rowIdx++
	}
	return src, nil
}

// EmitMatrix writes the demand matrix for one (class, segment) pair.
// Counts scale linearly with the segment's share of the canonical period
// and truncate to integers; the header carries the vehicle type, the
// HH.MM clock window and the segment's intensity factor.
func EmitMatrix(src *SourceMatrix, seg scenario.TimeSegment, class scenario.VehicleClass, outPath string) (*Artifact, error) {
	timeFactor := seg.Duration.Seconds() / CanonicalPeriod.Seconds()

	file, err := os.Create(outPath)
	if err != nil {
		return nil, fmt.Errorf("creating demand matrix %s: %w", outPath, err)
	}
	w := bufio.NewWriter(file)

	fmt.Fprintf(w, "%s\n", formatMarker)
	fmt.Fprintf(w, "*vehicle type\n%d\n", class.TypeCode)
	fmt.Fprintf(w, "*from-time to-time\n%s\t%s\n", ClockStamp(seg.Start), ClockStamp(seg.End()))
	fmt.Fprintf(w, "*factor\n%.2f\n\n", seg.Factor)
	for _, p := range src.Pairs {
		fmt.Fprintf(w, "\t %s \t %s \t %d\n", p.From, p.To, int(p.Num*timeFactor))
	}

	if err := w.Flush(); err != nil {
		file.Close() //nolint:errcheck // flush already failed
		return nil, fmt.Errorf("writing demand matrix %s: %w", outPath, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("closing demand matrix %s: %w", outPath, err)
	}
	return &Artifact{Path: outPath, Class: class, Segment: seg}, nil
}

// EmitClass loads the class's source table and writes one matrix per
// segment into the scenario's route directory.
func EmitClass(paths *scenario.ArtifactPathSet, class scenario.VehicleClass, segments []scenario.TimeSegment) ([]Artifact, error) {
	src, err := LoadSourceMatrix(paths.DemandSourcePath(class))
	if err != nil {
		return nil, err
	}
	artifacts := make([]Artifact, 0, len(segments))
	for _, seg := range segments {
		art, err := EmitMatrix(src, seg, class, paths.DemandMatrixPath(class, seg))
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, *art)
	}
	return artifacts, nil
}

// ClockStamp formats a day offset as HH.MM, wrapping at 24 hours.
func ClockStamp(d time.Duration) string {
	total := int(d / time.Minute)
	return fmt.Sprintf("%02d.%02d", (total/60)%24, total%60)
}
