// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

// Package route composes geocoding and distance calculation: the one sequence
// every front-end runs.
package route

import (
	"context"
	"fmt"
	"strings"

	"github.com/jcodagnone/distcalc/geocoding"
	"github.com/jcodagnone/distcalc/spatial"
	"golang.org/x/sync/errgroup"
)

// Trip is the outcome of a successful Route call.
type Trip struct {
	Origin      geocoding.ResolvedPlace `json:"origin"`
	Destination geocoding.ResolvedPlace `json:"destination"`
	Distance    spatial.DistanceResult  `json:"distance"`
	MapURL      string                  `json:"map_url"`
}

// NotFoundError lists the queries the geocoding service had no match for.
type NotFoundError struct {
	Queries []string
}

func (e *NotFoundError) Error() string {
	quoted := make([]string, len(e.Queries))
	for i, q := range e.Queries {
		quoted[i] = fmt.Sprintf("%q", q)
	}

	return "location not found: " + strings.Join(quoted, ", ")
}

// Router wires a Geocoder, a Calculator and a MapLinker together. It keeps no
// state between calls.
type Router struct {
	geocoder   geocoding.Geocoder
	calculator *spatial.Calculator
	linker     spatial.MapLinker
}

// NewRouter returns a Router.
func NewRouter(geocoder geocoding.Geocoder, calculator *spatial.Calculator, linker spatial.MapLinker) *Router {
	return &Router{
		geocoder:   geocoder,
		calculator: calculator,
		linker:     linker,
	}
}

// Geocoder returns the geocoder in use.
func (r *Router) Geocoder() geocoding.Geocoder {
	return r.geocoder
}

// Locate turns text into a place. "lat,lng" text is parsed locally; anything
// else goes to the geocoder.
func (r *Router) Locate(ctx context.Context, text string, languageHint string) (geocoding.ResolvedPlace, bool, error) {
	if c, err := spatial.ParseCoordinate(text); err == nil {
		return geocoding.ResolvedPlace{Address: c.String(), Coordinate: c, Provider: "coordinates"}, true, nil
	}

	return r.geocoder.Resolve(ctx, text, languageHint)
}

// Measure computes the distance between two coordinates along with the map link.
func (r *Router) Measure(from, to spatial.Coordinate) (spatial.DistanceResult, string) {
	return r.calculator.Distance(from, to), r.linker.DirectionsURL(from, to)
}

// Route resolves origin and destination in parallel and measures the distance
// between them. If any side is not found, the error is a *NotFoundError.
func (r *Router) Route(ctx context.Context, origin, destination string, languageHint string) (*Trip, error) {
	var (
		places [2]geocoding.ResolvedPlace
		found  [2]bool
	)

	g, gctx := errgroup.WithContext(ctx)

	for i, query := range []string{origin, destination} {
		g.Go(func() error {
			place, ok, err := r.Locate(gctx, query, languageHint)
			if err != nil {
				return fmt.Errorf("resolving %q: %w", query, err)
			}

			places[i], found[i] = place, ok

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var missing []string

	for i, query := range []string{origin, destination} {
		if !found[i] {
			missing = append(missing, strings.TrimSpace(query))
		}
	}

	if len(missing) > 0 {
		return nil, &NotFoundError{Queries: missing}
	}

	d, link := r.Measure(places[0].Coordinate, places[1].Coordinate)

	return &Trip{
		Origin:      places[0],
		Destination: places[1],
		Distance:    d,
		MapURL:      link,
	}, nil
}
