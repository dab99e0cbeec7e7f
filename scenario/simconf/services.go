package simconf

import (
	"fmt"

	"github.com/beevik/etree"
)

// Service configuration constants for the cooperative awareness stack.
const (
	caServiceType   = "artery.application.CaService"
	caListenerPort  = 2001
	penetrationFmt  = "%.4f"
	serviceFileHead = `version="1.0" encoding="UTF-8"`
)

// WriteServicesFile emits the middleware service definition wiring the
// cooperative awareness service to every equipped vehicle. rate is the
// V2X penetration in [0, 1].
func WriteServicesFile(path string, rate float64) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", serviceFileHead)

	services := doc.CreateElement("services")
	service := services.CreateElement("service")
	service.CreateAttr("type", caServiceType)

	listener := service.CreateElement("listener")
	listener.CreateAttr("port", fmt.Sprintf("%d", caListenerPort))

	filters := service.CreateElement("filters")
	penetration := filters.CreateElement("penetration")
	penetration.CreateAttr("rate", fmt.Sprintf(penetrationFmt, rate))

	doc.IndentTabs()
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("writing services file %s: %w", path, err)
	}
	return nil
}
