// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jcodagnone/distcalc/spatial"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim instance.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// NominatimProvider queries a Nominatim server (/search endpoint).
type NominatimProvider struct {
	baseURL    string
	httpClient *http.Client
}

// NewNominatimProvider creates a provider for the Nominatim server at baseURL.
// The client must send an identifying User-Agent, see
// https://operations.osmfoundation.org/policies/nominatim/.
func NewNominatimProvider(baseURL string, httpClient *http.Client) *NominatimProvider {
	if baseURL == "" {
		baseURL = DefaultNominatimURL
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &NominatimProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Name implements Provider.
func (n *NominatimProvider) Name() string {
	return "nominatim"
}

// Lookup implements Provider.
func (n *NominatimProvider) Lookup(ctx context.Context, query string, language string) (ResolvedPlace, bool, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "1")

	if language != "" {
		params.Set("accept-language", language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return ResolvedPlace{}, false, fmt.Errorf("creating nominatim request: %w", err)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return ResolvedPlace{}, false, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return ResolvedPlace{}, false, ClassifyHTTPError(resp.StatusCode, string(body))
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		if ctx.Err() != nil {
			return ResolvedPlace{}, false, classifyTransportError(ctx.Err())
		}

		return ResolvedPlace{}, false, malformedResponse("decoding nominatim response", err)
	}

	if len(results) == 0 {
		return ResolvedPlace{}, false, nil
	}

	best := results[0]

	lat, err := strconv.ParseFloat(best.Lat, 64)
	if err != nil {
		return ResolvedPlace{}, false, malformedResponse("parsing nominatim latitude", err)
	}

	lon, err := strconv.ParseFloat(best.Lon, 64)
	if err != nil {
		return ResolvedPlace{}, false, malformedResponse("parsing nominatim longitude", err)
	}

	coord, err := spatial.NewCoordinate(lat, lon)
	if err != nil {
		return ResolvedPlace{}, false, malformedResponse("nominatim returned an invalid coordinate", err)
	}

	return ResolvedPlace{
		Address:    best.DisplayName,
		Coordinate: coord,
		Provider:   n.Name(),
	}, true, nil
}
