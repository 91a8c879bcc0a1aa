// Copyright 2026 The DistCalc Authors
//
// SPDX-License-Identifier: Apache-2.0

// Package spatial holds the coordinate model and the distance math.
package spatial

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/uber/h3-go/v4"
)

// ErrInvalidCoordinate is returned when a latitude/longitude pair is not finite
// or falls outside of the valid range.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// Coordinate is a geographical point in decimal degrees. The zero value is
// (0, 0), which is valid. Use NewCoordinate to build one from untrusted input.
type Coordinate struct {
	lat float64
	lng float64
}

// NewCoordinate validates lat and lng and returns the corresponding Coordinate.
func NewCoordinate(lat, lng float64) (Coordinate, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || lat < -90 || lat > 90 {
		return Coordinate{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidCoordinate, lat)
	}

	if math.IsNaN(lng) || math.IsInf(lng, 0) || lng < -180 || lng > 180 {
		return Coordinate{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidCoordinate, lng)
	}

	return Coordinate{lat: lat, lng: lng}, nil
}

// MustCoordinate is like NewCoordinate but panics on invalid input. Meant for
// constants and tests.
func MustCoordinate(lat, lng float64) Coordinate {
	c, err := NewCoordinate(lat, lng)
	if err != nil {
		panic(err)
	}

	return c
}

// ParseCoordinate parses text of the form "lat,lng".
func ParseCoordinate(s string) (Coordinate, error) {
	latText, lngText, ok := strings.Cut(s, ",")
	if !ok {
		return Coordinate{}, fmt.Errorf("%w: %q is not in lat,lng form", ErrInvalidCoordinate, s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: parsing latitude %q: %w", ErrInvalidCoordinate, latText, err)
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(lngText), 64)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: parsing longitude %q: %w", ErrInvalidCoordinate, lngText, err)
	}

	return NewCoordinate(lat, lng)
}

// Lat returns the latitude in degrees.
func (c Coordinate) Lat() float64 { return c.lat }

// Lng returns the longitude in degrees.
func (c Coordinate) Lng() float64 { return c.lng }

// String returns "lat,lng" using the shortest decimal representation that
// round-trips.
func (c Coordinate) String() string {
	return formatDegrees(c.lat) + "," + formatDegrees(c.lng)
}

func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// less orders coordinates by latitude then longitude.
func (c Coordinate) less(o Coordinate) bool {
	if c.lat != o.lat {
		return c.lat < o.lat
	}

	return c.lng < o.lng
}

// Cell returns the H3 cell that contains the coordinate at the given resolution.
func (c Coordinate) Cell(resolution int) (h3.Cell, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(c.lat, c.lng), resolution)
	if err != nil {
		return 0, fmt.Errorf("converting %s to h3 cell at res %d: %w", c, resolution, err)
	}

	return cell, nil
}

type coordinateJSON struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// MarshalJSON implements json.Marshaler.
func (c Coordinate) MarshalJSON() ([]byte, error) {
	return json.Marshal(coordinateJSON{Lat: &c.lat, Lon: &c.lng})
}

// UnmarshalJSON implements json.Unmarshaler. Both fields are required and
// validated.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	var raw coordinateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.Lat == nil || raw.Lon == nil {
		return fmt.Errorf("%w: both lat and lon are required", ErrInvalidCoordinate)
	}

	parsed, err := NewCoordinate(*raw.Lat, *raw.Lon)
	if err != nil {
		return err
	}

	*c = parsed

	return nil
}
