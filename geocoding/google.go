// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jcodagnone/distcalc/spatial"
)

// DefaultGoogleMapsURL is the Google Maps Platform endpoint root.
const DefaultGoogleMapsURL = "https://maps.googleapis.com"

// GoogleMapsProvider uses Google Maps Geocoding API.
type GoogleMapsProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleMapsProvider creates a new Google Maps provider.
func NewGoogleMapsProvider(apiKey string, baseURL string, httpClient *http.Client) *GoogleMapsProvider {
	if baseURL == "" {
		baseURL = DefaultGoogleMapsURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GoogleMapsProvider{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type googleMapsResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
	Status       string `json:"status"` // OK, ZERO_RESULTS, OVER_QUERY_LIMIT, ...
	ErrorMessage string `json:"error_message"`
}

// Name implements Provider.
func (g *GoogleMapsProvider) Name() string {
	return "google_maps"
}

// Lookup implements Provider.
func (g *GoogleMapsProvider) Lookup(ctx context.Context, query string, language string) (ResolvedPlace, bool, error) {
	params := url.Values{}
	params.Set("address", query)
	params.Set("key", g.apiKey)

	if language != "" {
		params.Set("language", language)
	}

	reqURL := g.baseURL + "/maps/api/geocode/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return ResolvedPlace{}, false, fmt.Errorf("creating google maps request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		// The URL carries the key; keep it out of the message.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = urlErr.Err
		}

		return ResolvedPlace{}, false, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return ResolvedPlace{}, false, ClassifyHTTPError(resp.StatusCode, string(body))
	}

	var gmResp googleMapsResponse
	if err := json.NewDecoder(resp.Body).Decode(&gmResp); err != nil {
		if ctx.Err() != nil {
			return ResolvedPlace{}, false, classifyTransportError(ctx.Err())
		}

		return ResolvedPlace{}, false, malformedResponse("decoding google maps response", err)
	}

	switch gmResp.Status {
	case "OK":
	case "ZERO_RESULTS":
		return ResolvedPlace{}, false, nil
	default:
		return ResolvedPlace{}, false, classifyGoogleStatus(gmResp.Status, gmResp.ErrorMessage)
	}

	if len(gmResp.Results) == 0 {
		return ResolvedPlace{}, false, nil
	}

	result := gmResp.Results[0]

	coord, err := spatial.NewCoordinate(result.Geometry.Location.Lat, result.Geometry.Location.Lng)
	if err != nil {
		return ResolvedPlace{}, false, malformedResponse("google maps returned an invalid coordinate", err)
	}

	return ResolvedPlace{
		Address:    result.FormattedAddress,
		Coordinate: coord,
		Provider:   g.Name(),
	}, true, nil
}

func classifyGoogleStatus(status, message string) *GeocodingError {
	var e *GeocodingError

	switch status {
	case "OVER_QUERY_LIMIT":
		e = &GeocodingError{Type: ErrorTypeRateLimit, Message: "google maps rate limit reached"}
	case "OVER_DAILY_LIMIT", "REQUEST_DENIED":
		e = &GeocodingError{Type: ErrorTypeQuotaExceeded, Message: "google maps quota exceeded or access denied"}
	case "INVALID_REQUEST":
		e = &GeocodingError{Type: ErrorTypeInvalidRequest, Message: "google maps rejected the request"}
	case "":
		e = malformedResponse("google maps response has no status", nil)
	default:
		e = &GeocodingError{Type: ErrorTypeUnknown, Message: "google maps status " + status}
	}

	if message != "" {
		e.Message += ": " + message
	}

	return e
}
