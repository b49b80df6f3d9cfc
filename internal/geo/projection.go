package geo

// Geographic (SIRGAS 2000 / WGS84 lon-lat) to EPSG:5880, SIRGAS 2000 / Brazil
// Polyconic, on the GRS80 ellipsoid. Parcel areas are measured in this CRS.

import "math"

const (
	polyFalseEasting  = 5000000.0
	polyFalseNorthing = 10000000.0
	polyLon0Deg       = -54.0 // central meridian
	polyLat0Deg       = 0.0   // latitude of origin

	grs80SemiMajor  = 6378137.0
	grs80Flattening = 1 / 298.257222101
)

var (
	e2 float64 // eccentricity squared
	m0 float64 // meridional distance at the latitude of origin

	// meridional arc series coefficients
	mc0, mc2, mc4, mc6 float64
)

func init() {
	e2 = 2*grs80Flattening - grs80Flattening*grs80Flattening
	e4 := e2 * e2
	e6 := e4 * e2

	mc0 = 1 - e2/4 - 3*e4/64 - 5*e6/256
	mc2 = 3*e2/8 + 3*e4/32 + 45*e6/1024
	mc4 = 15*e4/256 + 45*e6/1024
	mc6 = 35 * e6 / 3072

	m0 = meridionalDistance(polyLat0Deg * math.Pi / 180)
}

// meridionalDistance is the arc length along the meridian from the equator to phi (radians).
func meridionalDistance(phi float64) float64 {
	return grs80SemiMajor * (mc0*phi - mc2*math.Sin(2*phi) + mc4*math.Sin(4*phi) - mc6*math.Sin(6*phi))
}

// ToPolyconic converts longitude/latitude in decimal degrees to Brazil
// Polyconic easting/northing in metres.
func ToPolyconic(lonDeg, latDeg float64) (x, y float64) {
	phi := latDeg * math.Pi / 180
	dLambda := (lonDeg - polyLon0Deg) * math.Pi / 180

	if phi == 0 {
		return grs80SemiMajor*dLambda + polyFalseEasting, -m0 + polyFalseNorthing
	}

	sinPhi := math.Sin(phi)
	n := grs80SemiMajor / math.Sqrt(1-e2*sinPhi*sinPhi)
	cotPhi := 1 / math.Tan(phi)
	e := dLambda * sinPhi

	x = n*cotPhi*math.Sin(e) + polyFalseEasting
	y = meridionalDistance(phi) - m0 + n*cotPhi*(1-math.Cos(e)) + polyFalseNorthing
	return x, y
}
