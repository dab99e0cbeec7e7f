package sumonet

import (
	"fmt"
	"math"
)

// WGS84 ellipsoid and transverse-Mercator constants.
const (
	wgs84A           = 6378137.0
	wgs84F           = 1 / 298.257223563
	utmScale         = 0.9996
	utmFalseEasting  = 500000.0
	utmFalseNorthing = 10000000.0

	// The series projection is defined for latitudes between 80S and 84N;
	// points further than maxMeridianDist from the zone's central meridian
	// are outside the zone's usable domain.
	minLat          = -80.0
	maxLat          = 84.0
	maxMeridianDist = 9.0
)

// RawProjected projects geodetic lon/lat onto the network's pinned UTM
// zone, returning raw easting/northing in meters. The zone comes from the
// net file, never from the coordinate: re-deriving it per point would
// silently shift placements near zone borders.
func (n *Network) RawProjected(lon, lat float64) (float64, float64, error) {
	if math.IsNaN(lon) || math.IsInf(lon, 0) || math.IsNaN(lat) || math.IsInf(lat, 0) {
		return 0, 0, &ProjectionError{Net: n.Path,
			Reason: fmt.Sprintf("non-finite coordinate (%v, %v)", lon, lat)}
	}
	if lat < minLat || lat > maxLat {
		return 0, 0, &ProjectionError{Net: n.Path,
			Reason: fmt.Sprintf("latitude %v outside projection domain [%v, %v]", lat, minLat, maxLat)}
	}
	centralMeridian := float64(n.zone*6 - 183)
	if d := math.Abs(lon - centralMeridian); d > maxMeridianDist {
		return 0, 0, &ProjectionError{Net: n.Path,
			Reason: fmt.Sprintf("longitude %v is %.1f degrees from zone %d central meridian, outside projection domain", lon, d, n.zone)}
	}

	phi := lat * math.Pi / 180
	dLambda := (lon - centralMeridian) * math.Pi / 180

	e2 := wgs84F * (2 - wgs84F)
	e4 := e2 * e2
	e6 := e4 * e2
	ep2 := e2 / (1 - e2)

	sinPhi := math.Sin(phi)
	cosPhi := math.Cos(phi)
	tanPhi := math.Tan(phi)

	nu := wgs84A / math.Sqrt(1-e2*sinPhi*sinPhi)
	t := tanPhi * tanPhi
	c := ep2 * cosPhi * cosPhi
	a := cosPhi * dLambda

	// Meridional arc length from the equator.
	m := wgs84A * ((1-e2/4-3*e4/64-5*e6/256)*phi -
		(3*e2/8+3*e4/32+45*e6/1024)*math.Sin(2*phi) +
		(15*e4/256+45*e6/1024)*math.Sin(4*phi) -
		(35*e6/3072)*math.Sin(6*phi))

	easting := utmScale*nu*(a+(1-t+c)*a*a*a/6+
		(5-18*t+t*t+72*c-58*ep2)*math.Pow(a, 5)/120) + utmFalseEasting
	northing := utmScale * (m + nu*tanPhi*(a*a/2+
		(5-t+9*c+4*c*c)*math.Pow(a, 4)/24+
		(61-58*t+t*t+600*c-330*ep2)*math.Pow(a, 6)/720))
	if n.south {
		northing += utmFalseNorthing
	}
	return easting, northing, nil
}

// ToLocalPlanar converts geodetic coordinates into the network simulator's
// planar frame. The horizontal axis anchors at the bounding box minimum;
// the vertical axis flips against the maximum because the two simulators
// disagree on the Y direction.
func (n *Network) ToLocalPlanar(lon, lat float64) (float64, float64, error) {
	xs, ys, err := n.RawProjected(lon, lat)
	if err != nil {
		return 0, 0, err
	}
	x := xs - n.Boundary.XMin + n.OffsetX
	y := -(ys - n.Boundary.YMax + n.OffsetY)
	return x, y, nil
}
