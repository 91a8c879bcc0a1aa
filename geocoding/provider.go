// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package geocoding

import (
	"context"
	"fmt"
	"log"
	"net/http"
)

// Provider names accepted by NewProvider.
const (
	ProviderNominatim  = "nominatim"
	ProviderGoogleMaps = "google"
)

// ProviderOptions selects and configures a Provider.
type ProviderOptions struct {
	// Name is ProviderNominatim (default) or ProviderGoogleMaps.
	Name string

	NominatimURL string

	GoogleMapsURL string
	// GoogleMapsAPIKey, when empty, is looked up with APIKeyFromADC.
	GoogleMapsAPIKey string
	GoogleProjectID  string
	GoogleKeyName    string

	HTTPClient *http.Client
}

// NewProvider returns the provider described by options.
func NewProvider(ctx context.Context, options *ProviderOptions) (Provider, error) {
	if options == nil {
		options = &ProviderOptions{}
	}

	switch options.Name {
	case "", ProviderNominatim:
		return NewNominatimProvider(options.NominatimURL, options.HTTPClient), nil
	case ProviderGoogleMaps, "google_maps":
		apiKey := options.GoogleMapsAPIKey
		if apiKey == "" {
			log.Println("GOOGLE_MAPS_API_KEY is not set. Attempting to retrieve via ADC...")

			var err error

			apiKey, err = APIKeyFromADC(ctx, options.GoogleProjectID, options.GoogleKeyName)
			if err != nil {
				return nil, fmt.Errorf("google maps geocoding needs an API key: %w", err)
			}

			log.Println("Retrieved Google Maps API Key via ADC")
		}

		return NewGoogleMapsProvider(apiKey, options.GoogleMapsURL, options.HTTPClient), nil
	default:
		return nil, fmt.Errorf("unknown geocoding provider %q (want %q or %q)", options.Name, ProviderNominatim, ProviderGoogleMaps)
	}
}
