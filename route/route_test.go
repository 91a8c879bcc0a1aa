// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package route

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jcodagnone/distcalc/geocoding"
	"github.com/jcodagnone/distcalc/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGeocoder struct {
	mu      sync.Mutex
	places  map[string]spatial.Coordinate
	fail    map[string]error
	queries []string
}

func (f *fakeGeocoder) Resolve(_ context.Context, query, _ string) (geocoding.ResolvedPlace, bool, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		return geocoding.ResolvedPlace{}, false, &geocoding.GeocodingError{
			Type:    geocoding.ErrorTypeInvalidArgument,
			Message: "query must not be empty",
		}
	}

	if err, ok := f.fail[query]; ok {
		return geocoding.ResolvedPlace{}, false, err
	}

	c, ok := f.places[query]
	if !ok {
		return geocoding.ResolvedPlace{}, false, nil
	}

	return geocoding.ResolvedPlace{Address: query, Coordinate: c, Provider: "fake"}, true, nil
}

func newTestRouter(t *testing.T, geo *fakeGeocoder) *Router {
	t.Helper()

	calc, err := spatial.NewCalculator(spatial.Geodesic)
	require.NoError(t, err)

	return NewRouter(geo, calc, spatial.MapLinker{})
}

func korea() *fakeGeocoder {
	return &fakeGeocoder{places: map[string]spatial.Coordinate{
		"Seoul": spatial.MustCoordinate(37.5665, 126.9780),
		"Busan": spatial.MustCoordinate(35.1796, 129.0756),
	}}
}

func TestRoute(t *testing.T) {
	geo := korea()
	r := newTestRouter(t, geo)

	trip, err := r.Route(context.Background(), "Seoul", "Busan", "ko")
	require.NoError(t, err)

	assert.Equal(t, "Seoul", trip.Origin.Address)
	assert.Equal(t, "Busan", trip.Destination.Address)
	assert.InDelta(t, 325, trip.Distance.Kilometers, 5)
	assert.Equal(t, spatial.Geodesic, trip.Distance.Method)
	assert.Equal(t,
		"https://www.openstreetmap.org/directions?engine=graphhopper_car&route=37.5665,126.978;35.1796,129.0756",
		trip.MapURL)
	assert.ElementsMatch(t, []string{"Seoul", "Busan"}, geo.queries)
}

func TestRouteRawCoordinates(t *testing.T) {
	geo := korea()
	r := newTestRouter(t, geo)

	trip, err := r.Route(context.Background(), "37.5665,126.9780", "Busan", "")
	require.NoError(t, err)

	assert.Equal(t, "coordinates", trip.Origin.Provider)
	assert.Equal(t, []string{"Busan"}, geo.queries)
	assert.InDelta(t, 325, trip.Distance.Kilometers, 5)
}

func TestRouteNotFound(t *testing.T) {
	r := newTestRouter(t, korea())

	_, err := r.Route(context.Background(), "Atlantis", "Busan", "")

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"Atlantis"}, nf.Queries)

	_, err = r.Route(context.Background(), "Atlantis", " El Dorado ", "")
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, []string{"Atlantis", "El Dorado"}, nf.Queries)
	assert.Equal(t, `location not found: "Atlantis", "El Dorado"`, nf.Error())
}

func TestRouteErrorsPropagate(t *testing.T) {
	failure := &geocoding.GeocodingError{Type: geocoding.ErrorTypeTimeout, Message: "geocoding request timed out"}
	geo := korea()
	geo.fail = map[string]error{"Busan": failure}
	r := newTestRouter(t, geo)

	_, err := r.Route(context.Background(), "Seoul", "Busan", "")
	require.ErrorIs(t, err, geocoding.ErrResolutionFailed)
	assert.True(t, errors.Is(err, failure))

	_, err = r.Route(context.Background(), "", "Seoul", "")
	require.ErrorIs(t, err, geocoding.ErrInvalidArgument)
}

func TestMeasure(t *testing.T) {
	r := newTestRouter(t, korea())

	seoul := spatial.MustCoordinate(37.5665, 126.9780)
	busan := spatial.MustCoordinate(35.1796, 129.0756)

	d, link := r.Measure(seoul, busan)
	assert.InDelta(t, 324.92, d.Kilometers, 0.05)
	assert.Contains(t, link, "route=37.5665,126.978;35.1796,129.0756")

	back, _ := r.Measure(busan, seoul)
	assert.Equal(t, d.Kilometers, back.Kilometers)
}
