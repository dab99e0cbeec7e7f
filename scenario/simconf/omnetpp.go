package simconf

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/v2x-cosim/v2x-cosim/scenario"
)

// Network-simulator constants shared by every scenario.
const (
	// CommunicationRange is the CAM transmission radius in meters, common
	// to all roadside units and vehicle radios.
	CommunicationRange = 600

	networkName        = "artery.envmod.World"
	middlewareDatetime = `"2021-01-08 12:00:00"`
	vehicleTypesDoc    = `xmldoc("vehicles.xml")`
	rsuServicesDoc     = `xmldoc("services-rsu.xml")`
)

func init() {
	// The network simulator's ini dialect keeps keys unaligned.
	ini.PrettyFormat = false
	ini.PrettyEqual = true
}

// WriteNetworkSimConfig emits the network simulator's run configuration.
// nodes must already be placed (see PlaceNodes); seeds is the repeat seed
// list driving the equipment draw of the V2X stack. Paths embedded in the
// document are relative to the scenario root, matching the simulator's
// working directory.
func WriteNetworkSimConfig(paths *scenario.ArtifactPathSet, spec *scenario.ScenarioSpec, nodes []InfrastructureNode, seeds []int) error {
	relOmnet, err := paths.RootRelative(paths.ResultsOmnetDir)
	if err != nil {
		return err
	}

	seedList := make([]string, len(seeds))
	for i, s := range seeds {
		seedList[i] = strconv.Itoa(s)
	}

	cfg := ini.Empty()
	general, err := cfg.NewSection("General")
	if err != nil {
		return fmt.Errorf("composing network-sim config: %w", err)
	}
	set := func(key, value string) {
		if err == nil {
			_, err = general.NewKey(key, value)
		}
	}

	set("network", networkName)
	set("sim-time-limit", fmt.Sprintf("%ds", int(spec.Duration.Seconds())))
	set("debug-on-errors", "true")
	set("print-undisposed", "true")
	set("cmdenv-express-mode", "true")
	set("**.scalar-recording", "false")
	set("**.vector-recording", "false")
	set("**.middleware.datetime", middlewareDatetime)
	set("*.traci.core.version", "-1")
	set("*.traci.launcher.typename", `"PosixLauncher"`)
	set("*.traci.launcher.sumocfg", fmt.Sprintf("%q", "sumo/config/"+filepath.Base(paths.TrafficSimConfig)))
	set("num-rngs", "2")
	set("*.traci.mapper.rng-0", "1")
	set("seed-1-mt", fmt.Sprintf("${seed=%s}", strings.Join(seedList, ", ")))
	set("*.traci.mapper.typename", `"traci.MultiTypeModuleMapper"`)
	set("*.traci.mapper.vehicleTypes", vehicleTypesDoc)
	set("*.numRoadSideUnits", strconv.Itoa(len(nodes)))
	set("*.rsu[*].middleware.services", rsuServicesDoc)
	set("*.rsu[*].middleware.RsuCa.reception.result-recording-modes", "all")

	for i, node := range nodes {
		set(fmt.Sprintf("*.rsu[%d].mobility.initialZ", i), "0m")
		set(fmt.Sprintf("*.rsu[%d].mobility.initialX", i), fmt.Sprintf("%.2fm", node.X))
		set(fmt.Sprintf("*.rsu[%d].mobility.initialY", i), fmt.Sprintf("%.2fm", node.Y))
		set(fmt.Sprintf("*.rsu[%d].middleware.RsuCALog.outputDirectory", i),
			fmt.Sprintf("%q", filepath.ToSlash(filepath.Join(relOmnet, node.ID))+"_"))
	}

	set("*.radioMedium.rangeFilter", `"communicationRange"`)
	set("*.node[*].wlan[*].typename", `"VanetNic"`)
	set("*.node[*].wlan[*].radio.channelNumber", "180")
	set("*.node[*].wlan[*].radio.carrierFrequency", "5.9 GHz")
	set("*.node[*].wlan[*].radio.transmitter.communicationRange", fmt.Sprintf("%dm", CommunicationRange))
	set("*.node[*].middleware.updateInterval", "0.1s")
	set("*.node[*].middleware.services", fmt.Sprintf("xmldoc(%q)", filepath.Base(paths.ServicesFile)))
	if err != nil {
		return fmt.Errorf("composing network-sim config: %w", err)
	}

	if err := cfg.SaveTo(paths.NetworkSimConfig); err != nil {
		return fmt.Errorf("writing network-sim config %s: %w", paths.NetworkSimConfig, err)
	}
	return nil
}
