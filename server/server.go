// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

// Package server exposes geocoding and distance calculation over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jcodagnone/distcalc/geocoding"
	"github.com/jcodagnone/distcalc/route"
	"github.com/jcodagnone/distcalc/spatial"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options configures a Server.
type Options struct {
	// Listen is the address Run binds to.
	Listen string
	// RateLimit is requests per second per client on /api; zero disables it.
	RateLimit float64
	RateBurst int
}

// Server translates HTTP requests into Router calls.
type Server struct {
	router  *route.Router
	options Options
	limiter *clientLimiter
}

// NewServer returns a Server backed by router.
func NewServer(router *route.Router, options Options) *Server {
	s := &Server{
		router:  router,
		options: options,
	}

	if options.RateLimit > 0 {
		s.limiter = newClientLimiter(options.RateLimit, options.RateBurst)
	}

	return s
}

// Handler builds the gin engine with every route registered.
func (s *Server) Handler() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	if s.limiter != nil {
		api.Use(s.limiter.middleware())
	}

	api.GET("/geocode", s.geocode)
	api.POST("/calculate", s.calculate)
	api.GET("/route", s.route)

	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.options.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Printf("Listening on http://%s", s.options.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serving: %w", err)
	}

	return nil
}

func (s *Server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GeocodeResponse is the body of GET /api/geocode.
type GeocodeResponse struct {
	Found    bool     `json:"found"`
	Address  string   `json:"address,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lon      *float64 `json:"lon,omitempty"`
	Provider string   `json:"provider,omitempty"`
	Message  string   `json:"message,omitempty"`
}

func (s *Server) geocode(ctx *gin.Context) {
	query := ctx.Query("query")
	if query == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "query parameter is required"})

		return
	}

	place, found, err := s.router.Geocoder().Resolve(ctx.Request.Context(), query, ctx.Query("lang"))
	if err != nil {
		writeError(ctx, err)

		return
	}

	if !found {
		ctx.JSON(http.StatusOK, GeocodeResponse{Found: false, Message: "Location not found"})

		return
	}

	lat, lon := place.Coordinate.Lat(), place.Coordinate.Lng()
	ctx.JSON(http.StatusOK, GeocodeResponse{
		Found:    true,
		Address:  place.Address,
		Lat:      &lat,
		Lon:      &lon,
		Provider: place.Provider,
	})
}

// CalculateRequest is the body of POST /api/calculate.
type CalculateRequest struct {
	Start *spatial.Coordinate `json:"start"`
	End   *spatial.Coordinate `json:"end"`
}

// CalculateResponse is the body returned by POST /api/calculate.
type CalculateResponse struct {
	DistanceKm float64        `json:"distance_km"`
	Method     spatial.Method `json:"method"`
	MapURL     string         `json:"map_url"`
}

func (s *Server) calculate(ctx *gin.Context) {
	var req CalculateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

		return
	}

	if req.Start == nil || req.End == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "start and end are required"})

		return
	}

	d, link := s.router.Measure(*req.Start, *req.End)

	ctx.JSON(http.StatusOK, CalculateResponse{
		DistanceKm: round2(d.Kilometers),
		Method:     d.Method,
		MapURL:     link,
	})
}

// RouteResponse is the body of GET /api/route.
type RouteResponse struct {
	Origin      geocoding.ResolvedPlace `json:"origin"`
	Destination geocoding.ResolvedPlace `json:"destination"`
	DistanceKm  float64                 `json:"distance_km"`
	Method      spatial.Method          `json:"method"`
	MapURL      string                  `json:"map_url"`
}

func (s *Server) route(ctx *gin.Context) {
	from, to := ctx.Query("from"), ctx.Query("to")
	if from == "" || to == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "from and to query parameters are required"})

		return
	}

	trip, err := s.router.Route(ctx.Request.Context(), from, to, ctx.Query("lang"))
	if err != nil {
		writeError(ctx, err)

		return
	}

	ctx.JSON(http.StatusOK, RouteResponse{
		Origin:      trip.Origin,
		Destination: trip.Destination,
		DistanceKm:  round2(trip.Distance.Kilometers),
		Method:      trip.Distance.Method,
		MapURL:      trip.MapURL,
	})
}

// writeError maps library errors to HTTP statuses.
func writeError(ctx *gin.Context, err error) {
	var notFound *route.NotFoundError

	switch {
	case errors.As(err, &notFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": notFound.Error(), "missing": notFound.Queries})
	case geocoding.IsInvalidArgument(err):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case geocoding.IsResolutionFailed(err):
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		log.Printf("Unexpected error serving %s: %v", ctx.Request.URL.Path, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// round2 rounds for display; the library itself keeps full precision.
func round2(km float64) float64 {
	return math.Round(km*100) / 100
}
