package pipeline

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/v2x-cosim/v2x-cosim/scenario"
)

// archiveConfigs snapshots everything needed to rerun or audit the
// scenario into the results config directory: the scenario row itself,
// the roadside-unit placement and the detector layout.
func (p *Pipeline) archiveConfigs() error {
	if err := p.writeRunConfig(); err != nil {
		return err
	}
	for _, src := range []string{p.paths.RSUConfig, p.paths.DetectorConfig} {
		if err := copyFile(src, filepath.Join(p.paths.ResultsConfigDir, filepath.Base(src))); err != nil {
			return err
		}
	}
	return nil
}

// writeRunConfig archives the scenario row in batch-file form: the full
// header plus one data row, loadable by the same parser.
func (p *Pipeline) writeRunConfig() error {
	path := filepath.Join(p.paths.ResultsConfigDir, "sim_config.csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	writer := csv.NewWriter(file)
	writer.Comma = ';'

	spec := p.spec
	row := []string{
		spec.ID,
		spec.Network,
		spec.TrafficProfile,
		formatBoolFlag(spec.Obstruction),
		strconv.Itoa(int(spec.Duration.Seconds())),
		spec.CongestionSequence,
		strconv.FormatFloat(spec.V2XRate, 'f', -1, 64),
		strconv.FormatFloat(spec.ReactionTime, 'f', -1, 64),
		strconv.Itoa(spec.Repeats),
		formatBoolFlag(spec.TrafficLights),
	}
	if err := writer.Write(scenario.BatchColumns()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return file.Close()
}

// formatBoolFlag renders a flag in the batch file's 0/1 form.
func formatBoolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// copyFile copies a required input to dst, failing when the source is
// absent.
func copyFile(src, dst string) error {
	if err := scenario.RequireArtifact(src); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close() //nolint:errcheck // read-only file

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck // already failing
		return fmt.Errorf("copying %s to %s: %w", src, dst, err)
	}
	return out.Close()
}
