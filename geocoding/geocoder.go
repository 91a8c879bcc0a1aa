// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocoding resolves free-text place names into coordinates using an
// external geocoding service.
package geocoding

import (
	"context"

	"github.com/jcodagnone/distcalc/spatial"
)

// ResolvedPlace is the best match returned by a geocoding service.
type ResolvedPlace struct {
	Address    string             `json:"address"`
	Coordinate spatial.Coordinate `json:"coordinate"`
	Provider   string             `json:"provider"`
}

// Provider performs a single lookup against a geocoding service.
//
// query is already normalized and non-empty; language is either empty or a
// canonical BCP 47 tag. An empty result set is reported with found == false
// and a nil error.
type Provider interface {
	Name() string
	Lookup(ctx context.Context, query string, language string) (place ResolvedPlace, found bool, err error)
}

// Geocoder is what front-ends depend on. *Resolver implements it.
type Geocoder interface {
	Resolve(ctx context.Context, query string, languageHint string) (ResolvedPlace, bool, error)
}
