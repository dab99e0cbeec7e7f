package simconf

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/v2x-cosim/v2x-cosim/scenario"
)

// reactionTimeMarker is the tau attribute value the shared vehicle-type
// template carries for every type it defines.
const reactionTimeMarker = `tau="1.0"`

// CustomizeVehicleTypes copies the shared vehicle-type template to dst,
// rewriting the template's reaction-time marker to the scenario's value.
// The template itself is never modified. When strict is set, a template
// without the marker is a schema violation; otherwise the copy is written
// unchanged.
func CustomizeVehicleTypes(template, dst string, reactionTime float64, strict bool) error {
	if err := scenario.RequireArtifact(template); err != nil {
		return err
	}
	raw, err := os.ReadFile(template)
	if err != nil {
		return fmt.Errorf("reading vehicle-type template %s: %w", template, err)
	}
	content := string(raw)

	if !strings.Contains(content, reactionTimeMarker) {
		if strict {
			return &scenario.SchemaError{
				Path:     template,
				Expected: []string{reactionTimeMarker},
			}
		}
	} else {
		tau := strconv.FormatFloat(reactionTime, 'f', -1, 64)
		content = strings.ReplaceAll(content, reactionTimeMarker, fmt.Sprintf(`tau=%q`, tau))
	}

	if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing vehicle types %s: %w", dst, err)
	}
	return nil
}
