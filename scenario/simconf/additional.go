package simconf

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/v2x-cosim/v2x-cosim/scenario"
)

// WriteAdditionalFile emits the aggregated edge measurement definition. The
// dump covers every modelled vehicle class and skips edges no vehicle
// touched during an interval.
func WriteAdditionalFile(paths *scenario.ArtifactPathSet) error {
	relDump, err := paths.SimRelative(paths.EdgeDumpOutput)
	if err != nil {
		return err
	}

	codes := make([]string, 0, len(scenario.VehicleClasses()))
	for _, class := range scenario.VehicleClasses() {
		codes = append(codes, strconv.Itoa(class.TypeCode))
	}

	doc := etree.NewDocument()
	additional := doc.CreateElement("additional")
	edgeData := additional.CreateElement("edgeData")
	edgeData.CreateAttr("id", "measurement")
	edgeData.CreateAttr("freq", formatSeconds(sumoEdgeDumpInterval))
	edgeData.CreateAttr("vTypes", strings.Join(codes, " "))
	edgeData.CreateAttr("file", relDump)
	edgeData.CreateAttr("excludeEmpty", "true")

	doc.IndentTabs()
	if err := doc.WriteToFile(paths.AdditionalFile); err != nil {
		return fmt.Errorf("writing additional file %s: %w", paths.AdditionalFile, err)
	}
	return nil
}
