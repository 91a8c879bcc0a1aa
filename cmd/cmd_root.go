// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/jcodagnone/distcalc/config"
	"github.com/jcodagnone/distcalc/geocoding"
	"github.com/jcodagnone/distcalc/route"
	"github.com/jcodagnone/distcalc/spatial"
	"github.com/jcodagnone/distcalc/utils/httputils"
	"github.com/spf13/cobra"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})
}

var rootCmd = &cobra.Command{
	Use:   "distcalc",
	Short: "geocode places and measure the distance between them",
	Long: `
distcalc turns free-text place names into coordinates using a public geocoding
service (Nominatim or Google Maps), computes the geodesic distance between two
points and builds a link to a directions map.

Settings are read from a .env file, then DISTCALC_* environment variables;
command line flags take precedence over both.
`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

type globalOptions struct {
	EnvFile       string
	Provider      string
	Language      string
	Timeout       time.Duration
	Method        string
	TraceHTTP     bool
	TraceHTTPBody bool
}

var (
	Version = "dev"
	global  = &globalOptions{}
	cfg     *config.Config
)

func Execute(version string) {
	Version = version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func userAgent() string {
	return fmt.Sprintf("distcalc/%s (+https://github.com/jcodagnone/distcalc)", Version)
}

// loadConfig reads the environment and lets explicitly set flags override it.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(global.EnvFile)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("provider") {
		c.Provider = global.Provider
	}

	if flags.Changed("lang") {
		c.Language = global.Language
	}

	if flags.Changed("timeout") {
		c.Timeout = global.Timeout
	}

	if flags.Changed("method") {
		c.Method = global.Method
	}

	if c.UserAgent == "" {
		c.UserAgent = userAgent()
	}

	if err := c.Validate(); err != nil {
		return err
	}

	cfg = c

	return nil
}

func newCalculator() (*spatial.Calculator, error) {
	method, err := spatial.ParseMethod(cfg.Method)
	if err != nil {
		return nil, err
	}

	return spatial.NewCalculator(method)
}

func newLinker() spatial.MapLinker {
	return spatial.MapLinker{Service: cfg.MapService, Engine: cfg.RoutingEngine}
}

// newRouter assembles the geocoding and distance pipeline from cfg.
func newRouter(ctx context.Context) (*route.Router, error) {
	calc, err := newCalculator()
	if err != nil {
		return nil, err
	}

	client := httputils.NewClient(&httputils.ClientOptions{
		UserAgent: cfg.UserAgent,
		Trace:     global.TraceHTTP,
		TraceBody: global.TraceHTTPBody,
	})

	provider, err := geocoding.NewProvider(ctx, &geocoding.ProviderOptions{
		Name:             cfg.Provider,
		NominatimURL:     cfg.NominatimURL,
		GoogleMapsURL:    cfg.GoogleURL,
		GoogleMapsAPIKey: cfg.GoogleMapsAPIKey,
		GoogleProjectID:  cfg.GoogleProjectID,
		GoogleKeyName:    cfg.GoogleKeyName,
		HTTPClient:       client,
	})
	if err != nil {
		return nil, err
	}

	resolver, err := geocoding.NewResolver(provider, &geocoding.ResolverOptions{
		Language: cfg.Language,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}

	return route.NewRouter(resolver, calc, newLinker()), nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&global.EnvFile, "env-file", ".env", "File with KEY=value settings, ignored when missing")
	flags.StringVar(&global.Provider, "provider", geocoding.ProviderNominatim, "Geocoding service: nominatim or google")
	flags.StringVar(&global.Language, "lang", "", "Preferred language for addresses (BCP 47, e.g. ko, en-US)")
	flags.DurationVar(&global.Timeout, "timeout", geocoding.DefaultTimeout, "Time limit for each geocoding request")
	flags.StringVar(&global.Method, "method", string(spatial.Geodesic), "Distance formula: geodesic, vincenty or spherical")
	flags.BoolVar(&global.TraceHTTP, "trace-http", false, "Display HTTP requests-responses")
	flags.BoolVar(&global.TraceHTTPBody, "trace-http-body", false, "Display HTTP requests-responses bodies")
}
