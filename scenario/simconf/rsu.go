package simconf

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/v2x-cosim/v2x-cosim/scenario"
	"github.com/v2x-cosim/v2x-cosim/scenario/sumonet"
)

// rsuColumns is the header contract of the roadside-unit placement table.
var rsuColumns = []string{"rsuID", "lon", "lat"}

// InfrastructureNode is one roadside unit. Lon and Lat come from the
// placement table; X and Y are filled in by PlaceNodes.
type InfrastructureNode struct {
	ID  string
	Lon float64
	Lat float64
	X   float64
	Y   float64
}

// LoadInfrastructureNodes reads the roadside-unit placement table:
// ';'-separated, header matching rsuColumns exactly, coordinates possibly
// using decimal commas.
func LoadInfrastructureNodes(path string) ([]InfrastructureNode, error) {
	if err := scenario.RequireArtifact(path); err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening placement table %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only file

	reader := csv.NewReader(file)
	reader.Comma = ';'

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading placement header from %s: %w", path, err)
	}
	if !headerMatches(header, rsuColumns) {
		return nil, &scenario.SchemaError{Path: path, Expected: rsuColumns, Got: header}
	}

	var nodes []InfrastructureNode
	rowIdx := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("placement table %s row %d: %w", path, rowIdx, err)
		}
		lon, err := scenario.ParseCommaFloat(record[1])
		if err != nil {
			return nil, fmt.Errorf("placement table %s row %d: bad longitude %q", path, rowIdx, record[1])
		}
		lat, err := scenario.ParseCommaFloat(record[2])
		if err != nil {
			return nil, fmt.Errorf("placement table %s row %d: bad latitude %q", path, rowIdx, record[2])
		}
		nodes = append(nodes, InfrastructureNode{
			ID:  strings.TrimSpace(record[0]),
			Lon: lon,
			Lat: lat,
		})
		rowIdx++
	}
	return nodes, nil
}

// PlaceNodes projects every node's geographic position into the network's
// local planar frame and returns the placed copies. The input slice is not
// modified.
func PlaceNodes(net *sumonet.Network, nodes []InfrastructureNode) ([]InfrastructureNode, error) {
	placed := make([]InfrastructureNode, len(nodes))
	for i, node := range nodes {
		x, y, err := net.ToLocalPlanar(node.Lon, node.Lat)
		if err != nil {
			return nil, fmt.Errorf("placing node %s: %w", node.ID, err)
		}
		node.X, node.Y = x, y
		placed[i] = node
	}
	return placed, nil
}

// headerMatches reports whether got equals want in content and order.
func headerMatches(got, want []string) bool {
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
