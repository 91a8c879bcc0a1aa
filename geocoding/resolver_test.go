// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jcodagnone/distcalc/spatial"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider answers from a fixed table.
type stubProvider struct {
	places map[string]spatial.Coordinate
	err    error
	calls  atomic.Int32

	lastQuery    string
	lastLanguage string
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Lookup(_ context.Context, query, language string) (ResolvedPlace, bool, error) {
	s.calls.Add(1)
	s.lastQuery, s.lastLanguage = query, language

	if s.err != nil {
		return ResolvedPlace{}, false, s.err
	}

	c, ok := s.places[query]
	if !ok {
		return ResolvedPlace{}, false, nil
	}

	return ResolvedPlace{Address: query + ", South Korea", Coordinate: c}, true, nil
}

func koreaStub() *stubProvider {
	return &stubProvider{places: map[string]spatial.Coordinate{
		"Seoul": spatial.MustCoordinate(37.5665, 126.9780),
		"Busan": spatial.MustCoordinate(35.1796, 129.0756),
	}}
}

func TestResolveFound(t *testing.T) {
	stub := koreaStub()
	r, err := NewResolver(stub, &ResolverOptions{Language: "ko"})
	require.NoError(t, err)

	place, found, err := r.Resolve(context.Background(), "  Seoul ", "")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Seoul, South Korea", place.Address)
	assert.Equal(t, spatial.MustCoordinate(37.5665, 126.9780), place.Coordinate)
	assert.Equal(t, "stub", place.Provider)
	assert.Equal(t, "Seoul", stub.lastQuery)
	assert.Equal(t, "ko", stub.lastLanguage)
}

func TestResolveLanguageOverride(t *testing.T) {
	stub := koreaStub()
	r, err := NewResolver(stub, &ResolverOptions{Language: "ko"})
	require.NoError(t, err)

	_, _, err = r.Resolve(context.Background(), "Busan", "en")
	require.NoError(t, err)
	assert.Equal(t, "en", stub.lastLanguage)

	noDefault, err := NewResolver(stub, nil)
	require.NoError(t, err)

	_, _, err = noDefault.Resolve(context.Background(), "Busan", "")
	require.NoError(t, err)
	assert.Empty(t, stub.lastLanguage)
}

func TestResolveBlankLanguageHintKeepsDefault(t *testing.T) {
	stub := koreaStub()
	r, err := NewResolver(stub, &ResolverOptions{Language: "ko"})
	require.NoError(t, err)

	for _, hint := range []string{" ", "  \t", "\n"} {
		_, found, err := r.Resolve(context.Background(), "Busan", hint)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "ko", stub.lastLanguage, "hint %q", hint)
	}

	_, _, err = r.Resolve(context.Background(), "Busan", " en ")
	require.NoError(t, err)
	assert.Equal(t, "en", stub.lastLanguage)
}

func TestResolveNotFound(t *testing.T) {
	r, err := NewResolver(koreaStub(), nil)
	require.NoError(t, err)

	before := testutil.ToFloat64(ResolveTotal.WithLabelValues("stub", OutcomeNotFound))

	place, found, err := r.Resolve(context.Background(), "Atlantis", "")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, ResolvedPlace{}, place)

	after := testutil.ToFloat64(ResolveTotal.WithLabelValues("stub", OutcomeNotFound))
	assert.InDelta(t, before+1, after, 0)
}

func TestResolveEmptyQuery(t *testing.T) {
	for _, query := range []string{"", "   ", "\t\n"} {
		stub := koreaStub()
		r, err := NewResolver(stub, nil)
		require.NoError(t, err)

		_, found, err := r.Resolve(context.Background(), query, "")
		require.ErrorIs(t, err, ErrInvalidArgument)
		assert.False(t, IsResolutionFailed(err))
		assert.False(t, found)
		assert.Zero(t, stub.calls.Load(), "no lookup expected for %q", query)
	}
}

func TestResolveEmptyQueryMakesNoRequest(t *testing.T) {
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	r, err := NewResolver(NewNominatimProvider(srv.URL, srv.Client()), nil)
	require.NoError(t, err)

	_, _, err = r.Resolve(context.Background(), "  ", "")
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, hits.Load())
}

func TestResolveBadLanguageHint(t *testing.T) {
	stub := koreaStub()
	r, err := NewResolver(stub, nil)
	require.NoError(t, err)

	_, _, err = r.Resolve(context.Background(), "Seoul", "not a language!")
	require.ErrorIs(t, err, ErrInvalidArgument)
	assert.Zero(t, stub.calls.Load())

	_, err = NewResolver(stub, &ResolverOptions{Language: "??"})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestResolveProviderFailure(t *testing.T) {
	stub := &stubProvider{err: errors.New("connection refused")}
	r, err := NewResolver(stub, nil)
	require.NoError(t, err)

	_, found, err := r.Resolve(context.Background(), "Seoul", "")
	require.ErrorIs(t, err, ErrResolutionFailed)
	assert.False(t, found)

	var geoErr *GeocodingError
	require.ErrorAs(t, err, &geoErr)
	assert.Equal(t, ErrorTypeNetworkError, geoErr.Type)
	assert.Contains(t, geoErr.Detail(), "connection refused")
}

func TestResolveTimeout(t *testing.T) {
	release := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}

		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	defer close(release)

	r, err := NewResolver(NewNominatimProvider(srv.URL, srv.Client()), &ResolverOptions{Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	start := time.Now()
	_, found, err := r.Resolve(context.Background(), "Seoul", "")

	require.ErrorIs(t, err, ErrResolutionFailed)
	assert.False(t, found)
	assert.True(t, IsTimeoutError(err), "got %v", err)
	assert.NotEmpty(t, err.Error())
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestResolveCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	r, err := NewResolver(NewNominatimProvider(srv.URL, srv.Client()), nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err = r.Resolve(ctx, "Seoul", "")
	require.ErrorIs(t, err, ErrResolutionFailed)
}

func TestNewResolverNilProvider(t *testing.T) {
	_, err := NewResolver(nil, nil)
	require.Error(t, err)
}

func TestResolveSeoulBusanDistance(t *testing.T) {
	r, err := NewResolver(koreaStub(), &ResolverOptions{Language: "ko"})
	require.NoError(t, err)

	seoul, found, err := r.Resolve(context.Background(), "Seoul", "")
	require.NoError(t, err)
	require.True(t, found)

	busan, found, err := r.Resolve(context.Background(), "Busan", "")
	require.NoError(t, err)
	require.True(t, found)

	calc, err := spatial.NewCalculator(spatial.Geodesic)
	require.NoError(t, err)

	d := calc.Distance(seoul.Coordinate, busan.Coordinate)
	assert.InDelta(t, 325, d.Kilometers, 5)
}
