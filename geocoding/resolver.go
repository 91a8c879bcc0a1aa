// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

// DefaultTimeout bounds a single lookup when ResolverOptions.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// ResolverOptions configures a Resolver.
type ResolverOptions struct {
	// Language is the hint used when the caller does not pass one. May be
	// empty, in which case the service picks the language.
	Language string

	// Timeout bounds each lookup. Zero means DefaultTimeout; negative
	// disables the bound and relies on the caller's context.
	Timeout time.Duration
}

// Resolver validates queries and delegates the lookup to a Provider. It holds
// no per-call state and is safe for concurrent use.
type Resolver struct {
	provider Provider
	language string
	timeout  time.Duration
}

var _ Geocoder = (*Resolver)(nil)

// NewResolver builds a Resolver on top of provider.
func NewResolver(provider Provider, options *ResolverOptions) (*Resolver, error) {
	if provider == nil {
		return nil, errors.New("geocoding: nil provider")
	}

	if options == nil {
		options = &ResolverOptions{}
	}

	lang, err := ParseLanguage(options.Language)
	if err != nil {
		return nil, err
	}

	timeout := options.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Resolver{
		provider: provider,
		language: lang,
		timeout:  timeout,
	}, nil
}

// Resolve looks up query and returns the best match.
//
// An empty result is not an error: found is false and err is nil. Input
// problems fail with ErrInvalidArgument before any network call; anything
// that goes wrong talking to the service fails with ErrResolutionFailed.
func (r *Resolver) Resolve(ctx context.Context, query string, languageHint string) (place ResolvedPlace, found bool, err error) {
	defer observeResolve(r.provider.Name(), time.Now(), &found, &err)

	q := NormalizeQuery(query)
	if q == "" {
		return ResolvedPlace{}, false, invalidArgument("query must not be empty")
	}

	lang := r.language
	if languageHint = strings.TrimSpace(languageHint); languageHint != "" {
		if lang, err = ParseLanguage(languageHint); err != nil {
			return ResolvedPlace{}, false, err
		}
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	place, found, err = r.provider.Lookup(ctx, q, lang)
	if err != nil {
		geoErr := classifyTransportError(err)
		if geoErr.Type == ErrorTypeInvalidArgument {
			// Providers only see validated input, so this is their bug.
			geoErr = &GeocodingError{Type: ErrorTypeUnknown, Message: "provider rejected input", Err: err}
		}

		log.Printf("Geocoding %q with %s failed - %s", q, r.provider.Name(), geoErr)

		return ResolvedPlace{}, false, geoErr
	}

	if !found {
		return ResolvedPlace{}, false, nil
	}

	if place.Provider == "" {
		place.Provider = r.provider.Name()
	}

	return place, true, nil
}
