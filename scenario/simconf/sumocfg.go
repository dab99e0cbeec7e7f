// Package simconf assembles the declarative configuration documents both
// simulators consume: the traffic-sim run config, the edge-dump additional
// file, the scenario vehicle-type copy, the service config and the
// network-sim ini. Markup is built as document trees and serialized once.
package simconf

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/v2x-cosim/v2x-cosim/scenario"
)

// Traffic-simulator constants, fixed per process.
const (
	sumoStepLength        = 100 * time.Millisecond
	sumoActionStepLength  = 1000 * time.Millisecond
	sumoFCDOutputInterval = 100 * time.Millisecond
	sumoEdgeDumpInterval  = 60 * time.Second
	sumoMaxDepartDelay    = 1 * time.Second

	// TrafficSimSeed is pinned: repeated network-sim runs must replay an
	// identical traffic trace, so only the network stack varies its seeds.
	TrafficSimSeed = 23424
)

// dayStart is the clock offset scenarios begin at.
const dayStart time.Duration = 0

// WriteTrafficSimConfig emits the traffic simulator's run configuration,
// cross-referencing every artifact produced by the earlier stages. All
// embedded paths are relative to the simulator root; routeFiles keeps the
// order the route stage produced.
func WriteTrafficSimConfig(paths *scenario.ArtifactPathSet, spec *scenario.ScenarioSpec, routeFiles []string) error {
	relNet, err := paths.SimRelative(paths.NetFile)
	if err != nil {
		return err
	}
	relRoutes := make([]string, len(routeFiles))
	for i, rf := range routeFiles {
		if relRoutes[i], err = paths.SimRelative(rf); err != nil {
			return err
		}
	}
	relVTypes, err := paths.SimRelative(paths.VTypeFile)
	if err != nil {
		return err
	}
	relTAZ, err := paths.SimRelative(paths.TAZFile)
	if err != nil {
		return err
	}
	relPoly, err := paths.SimRelative(paths.PolygonFile)
	if err != nil {
		return err
	}
	relAdditional, err := paths.SimRelative(paths.AdditionalFile)
	if err != nil {
		return err
	}
	relFCD, err := paths.SimRelative(paths.FCDOutput)
	if err != nil {
		return err
	}
	relView, err := paths.SimRelative(paths.GUIViewFile)
	if err != nil {
		return err
	}

	begin := int(dayStart.Seconds())
	end := begin + int(spec.Duration.Seconds())

	doc := etree.NewDocument()
	config := doc.CreateElement("configuration")

	input := config.CreateElement("input")
	addValue(input, "net-file", relNet)
	addValue(input, "route-files", strings.Join(relRoutes, ", "))
	addValue(input, "additional-files", strings.Join([]string{relVTypes, relTAZ, relPoly, relAdditional}, ", "))
	addValue(input, "seed", strconv.Itoa(TrafficSimSeed))

	output := config.CreateElement("output")
	addValue(output, "fcd-output", relFCD)
	addValue(output, "device.fcd.period", formatSeconds(sumoFCDOutputInterval))

	timing := config.CreateElement("time")
	addValue(timing, "begin", strconv.Itoa(begin))
	addValue(timing, "end", strconv.Itoa(end))
	addValue(timing, "step-length", formatSeconds(sumoStepLength))

	processing := config.CreateElement("processing")
	addValue(processing, "default.action-step-length", formatSeconds(sumoActionStepLength))
	addValue(processing, "time-to-teleport", "-1")
	addValue(processing, "tls.all-off", strconv.FormatBool(!spec.TrafficLights))
	addValue(processing, "max-depart-delay", formatSeconds(sumoMaxDepartDelay))

	guiOnly := config.CreateElement("gui_only")
	addValue(guiOnly, "gui-settings-file", relView)

	doc.IndentTabs()
	if err := doc.WriteToFile(paths.TrafficSimConfig); err != nil {
		return fmt.Errorf("writing traffic-sim config %s: %w", paths.TrafficSimConfig, err)
	}
	return nil
}

// addValue appends a <name value="..."/> child, the traffic simulator's
// option syntax.
func addValue(parent *etree.Element, name, value string) {
	el := parent.CreateElement(name)
	el.CreateAttr("value", value)
}

// formatSeconds renders a duration as plain seconds without a unit suffix.
// Whole seconds keep one decimal place, so 60s becomes "60.0" and 100ms
// becomes "0.1", matching the established artifact format.
func formatSeconds(d time.Duration) string {
	s := d.Seconds()
	if s == math.Trunc(s) {
		return strconv.FormatFloat(s, 'f', 1, 64)
	}
	return strconv.FormatFloat(s, 'f', -1, 64)
}
