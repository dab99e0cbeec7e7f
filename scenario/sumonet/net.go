// Package sumonet reads the geometry header of a traffic-simulator network
// file and converts geodetic coordinates into the planar frame the network
// simulator places its infrastructure in.
package sumonet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// ProjectionError reports a failed geodetic transform: an unloadable
// network description, an unsupported projection, or a point outside the
// projection's valid domain.
type ProjectionError struct {
	Net    string
	Reason string
	Err    error
}

func (e *ProjectionError) Error() string {
	if e.Net != "" {
		return fmt.Sprintf("projection: %s: %s", e.Net, e.Reason)
	}
	return "projection: " + e.Reason
}

func (e *ProjectionError) Unwrap() error { return e.Err }

// Boundary is the converted network bounding box in local coordinates.
type Boundary struct {
	XMin, YMin, XMax, YMax float64
}

// Network is the geometry header of a net file: the converted bounding box,
// the offset applied during network conversion, and the projection pinned
// at conversion time. Read-only after load.
type Network struct {
	Path       string
	Boundary   Boundary
	OffsetX    float64
	OffsetY    float64
	Projection string // raw proj string, e.g. "+proj=utm +zone=32 +ellps=WGS84 ..."

	zone  int
	south bool
}

// LoadNetwork parses the location element of a net file. The projection
// must be pinned to a UTM zone; net files converted without a geodetic
// projection cannot place geodetic infrastructure and are rejected.
func LoadNetwork(path string) (*Network, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, &ProjectionError{Net: path, Reason: "cannot load network description", Err: err}
	}
	root := doc.Root()
	if root == nil {
		return nil, &ProjectionError{Net: path, Reason: "net file is empty"}
	}
	loc := root.SelectElement("location")
	if loc == nil {
		return nil, &ProjectionError{Net: path, Reason: "net file has no location element"}
	}

	bounds, err := splitFloats(loc.SelectAttrValue("convBoundary", ""), 4)
	if err != nil {
		return nil, &ProjectionError{Net: path, Reason: fmt.Sprintf("bad convBoundary: %v", err)}
	}
	offset, err := splitFloats(loc.SelectAttrValue("netOffset", ""), 2)
	if err != nil {
		return nil, &ProjectionError{Net: path, Reason: fmt.Sprintf("bad netOffset: %v", err)}
	}

	net := &Network{
		Path:       path,
		Boundary:   Boundary{XMin: bounds[0], YMin: bounds[1], XMax: bounds[2], YMax: bounds[3]},
		OffsetX:    offset[0],
		OffsetY:    offset[1],
		Projection: loc.SelectAttrValue("projParameter", ""),
	}
	if err := net.parseProjection(); err != nil {
		return nil, err
	}
	return net, nil
}

// parseProjection extracts the UTM zone and hemisphere from the proj
// string. "!" and "-" mark nets converted without geodetic reference.
func (n *Network) parseProjection() error {
	fields := strings.Fields(n.Projection)
	isUTM := false
	n.zone = 0
	n.south = false
	for _, f := range fields {
		switch {
		case f == "+proj=utm":
			isUTM = true
		case strings.HasPrefix(f, "+zone="):
			z, err := strconv.Atoi(strings.TrimPrefix(f, "+zone="))
			if err != nil {
				return &ProjectionError{Net: n.Path, Reason: fmt.Sprintf("bad UTM zone in projParameter %q", n.Projection)}
			}
			n.zone = z
		case f == "+south":
			n.south = true
		}
	}
	if !isUTM || n.zone < 1 || n.zone > 60 {
		return &ProjectionError{Net: n.Path,
			Reason: fmt.Sprintf("unsupported projection %q; need +proj=utm with a valid +zone", n.Projection)}
	}
	return nil
}

// Zone returns the pinned UTM zone.
func (n *Network) Zone() int { return n.zone }

func splitFloats(s string, want int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d comma-separated values, got %q", want, s)
	}
	out := make([]float64, want)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d of %q is not a number", i, s)
		}
		out[i] = v
	}
	return out, nil
}
