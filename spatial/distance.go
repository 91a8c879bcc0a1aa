// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
	"github.com/jftuga/geodist"
	"github.com/tidwall/geodesic"
)

// MeanEarthRadiusKm is the IUGG mean radius used by the spherical method.
const MeanEarthRadiusKm = 6371.0088

// Method names a distance formula.
type Method string

const (
	// Geodesic solves the inverse geodesic problem on the WGS-84 ellipsoid
	// with Karney's algorithm. It is accurate to nanometres for every pair
	// of points, antipodal ones included.
	Geodesic Method = "geodesic"
	// Vincenty uses Vincenty's iterative formula on the WGS-84 ellipsoid.
	// Pairs where it does not converge (nearly antipodal points) are
	// measured with Geodesic instead and reported as such.
	Vincenty Method = "vincenty"
	// Spherical is the great-circle distance on a sphere of MeanEarthRadiusKm.
	// Expect up to 0.5% deviation from the ellipsoidal result.
	Spherical Method = "spherical"
)

// ParseMethod maps a name to a Method. The empty string selects Geodesic.
func ParseMethod(name string) (Method, error) {
	switch Method(name) {
	case "", Geodesic:
		return Geodesic, nil
	case Vincenty:
		return Vincenty, nil
	case Spherical:
		return Spherical, nil
	default:
		return "", fmt.Errorf("unknown distance method %q (want %q, %q or %q)", name, Geodesic, Vincenty, Spherical)
	}
}

// DistanceResult is the distance between two coordinates, at full precision.
type DistanceResult struct {
	Kilometers float64 `json:"kilometers"`
	// Method is the formula that produced Kilometers.
	Method Method `json:"method"`
}

// Calculator computes distances with a single, fixed method so that results
// stay reproducible across calls.
type Calculator struct {
	method Method
}

// NewCalculator returns a Calculator for method.
func NewCalculator(method Method) (*Calculator, error) {
	m, err := ParseMethod(string(method))
	if err != nil {
		return nil, err
	}

	return &Calculator{method: m}, nil
}

// Method returns the formula used by the calculator.
func (c *Calculator) Method() Method {
	return c.method
}

// Distance returns the distance between a and b in kilometers. Every pair of
// valid coordinates has one, and Distance(a, b) and Distance(b, a) are
// bit-for-bit equal.
func (c *Calculator) Distance(a, b Coordinate) DistanceResult {
	if a == b {
		return DistanceResult{Kilometers: 0, Method: c.method}
	}

	// Neither iterative solver is guaranteed to be symmetric in floating
	// point, so always feed the pair in the same order.
	if b.less(a) {
		a, b = b, a
	}

	switch c.method {
	case Spherical:
		return DistanceResult{Kilometers: sphericalKm(a, b), Method: Spherical}
	case Vincenty:
		if km, ok := vincentyKm(a, b); ok {
			return DistanceResult{Kilometers: km, Method: Vincenty}
		}
	}

	return DistanceResult{Kilometers: geodesicKm(a, b), Method: Geodesic}
}

func geodesicKm(a, b Coordinate) float64 {
	var meters float64

	geodesic.WGS84.Inverse(a.lat, a.lng, b.lat, b.lng, &meters, nil, nil)

	return meters / 1000
}

func vincentyKm(a, b Coordinate) (float64, bool) {
	_, km, err := geodist.VincentyDistance(
		geodist.Coord{Lat: a.lat, Lon: a.lng},
		geodist.Coord{Lat: b.lat, Lon: b.lng},
	)
	if err != nil || math.IsNaN(km) || km < 0 {
		return 0, false
	}

	return km, true
}

func sphericalKm(a, b Coordinate) float64 {
	angle := s2.LatLngFromDegrees(a.lat, a.lng).Distance(s2.LatLngFromDegrees(b.lat, b.lng))

	return angle.Radians() * MeanEarthRadiusKm
}
