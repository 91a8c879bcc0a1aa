// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for ResolveTotal.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
)

var (
	// ResolveTotal counts Resolve calls by provider and outcome.
	ResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "distcalc_geocode_requests_total",
		Help: "Number of geocoding lookups by provider and outcome",
	}, []string{"provider", "outcome"})

	// ResolveFailures counts failed lookups by provider and error type.
	ResolveFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "distcalc_geocode_failures_total",
		Help: "Number of failed geocoding lookups by provider and error type",
	}, []string{"provider", "type"})

	// ResolveDuration tracks how long lookups take, including local validation.
	ResolveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "distcalc_geocode_request_duration_seconds",
		Help:    "Duration of geocoding lookups",
		Buckets: prometheus.DefBuckets,
	}, []string{"provider"})
)

func observeResolve(provider string, start time.Time, found *bool, err *error) {
	ResolveDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())

	var outcome string

	switch {
	case *err == nil && *found:
		outcome = OutcomeFound
	case *err == nil:
		outcome = OutcomeNotFound
	case errors.Is(*err, ErrInvalidArgument):
		outcome = OutcomeInvalid
	default:
		outcome = OutcomeFailed

		errType := ErrorTypeUnknown

		var geoErr *GeocodingError
		if errors.As(*err, &geoErr) {
			errType = geoErr.Type
		}

		ResolveFailures.WithLabelValues(provider, errType.String()).Inc()
	}

	ResolveTotal.WithLabelValues(provider, outcome).Inc()
}
