package demand

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v2x-cosim/v2x-cosim/scenario"
)

func writeSource(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "odm_miv.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write demand source: %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func mivClass(t *testing.T) scenario.VehicleClass {
	t.Helper()
	class := scenario.VehicleClasses()[0]
	require.Equal(t, "miv", class.Name)
	return class
}

// === Source loading ===

func TestLoadSourceMatrix_ParsesRows(t *testing.T) {
	path := writeSource(t, "from;to;num\n101;202;100\n202;101;200.5\n")

	src, err := LoadSourceMatrix(path)
	require.NoError(t, err)

	assert.Equal(t, path, src.Path)
	assert.Equal(t, []Pair{
		{From: "101", To: "202", Num: 100},
		{From: "202", To: "101", Num: 200.5},
	}, src.Pairs)
}

func TestLoadSourceMatrix_TrimsWhitespace(t *testing.T) {
	path := writeSource(t, " from ; to ; num \n 101 ; 202 ; 50 \n")

	src, err := LoadSourceMatrix(path)
	require.NoError(t, err)

	assert.Equal(t, []Pair{{From: "101", To: "202", Num: 50}}, src.Pairs)
}

func TestLoadSourceMatrix_SchemaMismatch(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"wrong column names", "start;dest;count"},
		{"too few columns", "from;to"},
		{"reordered columns", "to;from;num"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSource(t, tt.header+"\n101;202;100\n")

			_, err := LoadSourceMatrix(path)

			var schemaErr *scenario.SchemaError
			require.True(t, errors.As(err, &schemaErr), "got %v, want *scenario.SchemaError", err)
			assert.Equal(t, []string{"from", "to", "num"}, schemaErr.Expected)
			assert.Equal(t, path, schemaErr.Path)
		})
	}
}

func TestLoadSourceMatrix_MissingFile(t *testing.T) {
	_, err := LoadSourceMatrix(filepath.Join(t.TempDir(), "absent.csv"))

	var notFound *scenario.ArtifactNotFoundError
	assert.True(t, errors.As(err, &notFound), "got %v, want *scenario.ArtifactNotFoundError", err)
}

func TestLoadSourceMatrix_InvalidCount(t *testing.T) {
	path := writeSource(t, "from;to;num\n101;202;abc\n")

	_, err := LoadSourceMatrix(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 0")
	assert.Contains(t, err.Error(), "invalid count")
}

// === Matrix emission ===

func TestEmitMatrix_Content(t *testing.T) {
	src := &SourceMatrix{Pairs: []Pair{
		{From: "A", To: "B", Num: 100},
		{From: "B", To: "A", Num: 200},
	}}
	seg := scenario.TimeSegment{Index: 0, Code: 'a', Factor: 0.15, Start: 0, Duration: time.Hour}
	outPath := filepath.Join(t.TempDir(), "out.od")

	art, err := EmitMatrix(src, seg, mivClass(t), outPath)
	require.NoError(t, err)

	want := "$OM;D2\n" +
		"*vehicle type\n5\n" +
		"*from-time to-time\n00.00\t01.00\n" +
		"*factor\n0.15\n\n" +
		"\t A \t B \t 100\n" +
		"\t B \t A \t 200\n"
	assert.Equal(t, want, readFile(t, outPath))
	assert.Equal(t, outPath, art.Path)
	assert.Equal(t, seg, art.Segment)
	assert.Equal(t, "miv", art.Class.Name)
}

func TestEmitMatrix_ScalesCountsToWindow(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		num      float64
		want     int
	}{
		{"half window truncates", 30 * time.Minute, 101, 50},
		{"double window scales up", 2 * time.Hour, 100, 200},
		{"fractional count truncates toward zero", time.Hour, 99.9, 99},
		{"small count can vanish", time.Minute, 30, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &SourceMatrix{Pairs: []Pair{{From: "O", To: "D", Num: tt.num}}}
			seg := scenario.TimeSegment{Index: 0, Code: 'c', Factor: 0.65, Start: 0, Duration: tt.duration}
			outPath := filepath.Join(t.TempDir(), "out.od")

			_, err := EmitMatrix(src, seg, mivClass(t), outPath)
			require.NoError(t, err)

			assert.Contains(t, readFile(t, outPath), fmt.Sprintf("\t O \t D \t %d\n", tt.want))
		})
	}
}

func TestEmitMatrix_WindowFollowsSegmentOffset(t *testing.T) {
	src := &SourceMatrix{Pairs: []Pair{{From: "O", To: "D", Num: 10}}}
	seg := scenario.TimeSegment{Index: 1, Code: 'c', Factor: 0.65, Start: time.Hour, Duration: 30 * time.Minute}
	outPath := filepath.Join(t.TempDir(), "out.od")

	_, err := EmitMatrix(src, seg, mivClass(t), outPath)
	require.NoError(t, err)

	content := readFile(t, outPath)
	assert.Contains(t, content, "*from-time to-time\n01.00\t01.30\n")
	assert.Contains(t, content, "*factor\n0.65\n")
}

// === Per-class emission ===

func TestEmitClass_WritesOneMatrixPerSegment(t *testing.T) {
	spec := &scenario.ScenarioSpec{
		ID:                 "S001",
		Network:            "test.net.xml",
		TrafficProfile:     "rush_hour",
		Duration:           2 * time.Hour,
		CongestionSequence: "ac",
	}
	paths := scenario.NewArtifactPathSet(t.TempDir(), "../results", spec)
	require.NoError(t, os.MkdirAll(paths.TrafficDir, 0o755))
	require.NoError(t, os.MkdirAll(paths.RoutesDir, 0o755))
	class := mivClass(t)
	require.NoError(t, os.WriteFile(paths.DemandSourcePath(class), []byte("from;to;num\n101;202;100\n"), 0o644))

	segments, err := scenario.Segments(spec)
	require.NoError(t, err)

	artifacts, err := EmitClass(paths, class, segments)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	first := readFile(t, paths.DemandMatrixPath(class, segments[0]))
	assert.Contains(t, first, "*from-time to-time\n00.00\t01.00\n")
	assert.Contains(t, first, "*factor\n0.15\n")
	assert.Contains(t, first, "\t 101 \t 202 \t 100\n")

	second := readFile(t, paths.DemandMatrixPath(class, segments[1]))
	assert.Contains(t, second, "*from-time to-time\n01.00\t02.00\n")
	assert.Contains(t, second, "*factor\n0.65\n")

	for i, art := range artifacts {
		assert.Equal(t, paths.DemandMatrixPath(class, segments[i]), art.Path)
	}
}

func TestEmitClass_MissingSourceAborts(t *testing.T) {
	spec := &scenario.ScenarioSpec{
		ID:                 "S001",
		TrafficProfile:     "rush_hour",
		Duration:           time.Hour,
		CongestionSequence: "a",
	}
	paths := scenario.NewArtifactPathSet(t.TempDir(), "../results", spec)
	require.NoError(t, os.MkdirAll(paths.RoutesDir, 0o755))

	segments, err := scenario.Segments(spec)
	require.NoError(t, err)

	artifacts, err := EmitClass(paths, mivClass(t), segments)

	var notFound *scenario.ArtifactNotFoundError
	require.True(t, errors.As(err, &notFound), "got %v, want *scenario.ArtifactNotFoundError", err)
	assert.Nil(t, artifacts)

	entries, err := os.ReadDir(paths.RoutesDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial matrices may be written")
}

// === Clock formatting ===

func TestClockStamp(t *testing.T) {
	tests := []struct {
		offset time.Duration
		want   string
	}{
		{0, "00.00"},
		{30 * time.Second, "00.00"},
		{90 * time.Minute, "01.30"},
		{time.Hour, "01.00"},
		{7*time.Hour + 45*time.Minute, "07.45"},
		{24 * time.Hour, "00.00"},
		{25 * time.Hour, "01.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClockStamp(tt.offset), "offset %s", tt.offset)
	}
}
