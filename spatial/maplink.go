// Copyright 2026 The DistCalc Authors
//
// SPDX-License-Identifier: Apache-2.0

package spatial

import (
	"net/url"
	"strings"
)

// Defaults for MapLinker, matching openstreetmap.org's directions page.
const (
	DefaultMapService    = "www.openstreetmap.org"
	DefaultRoutingEngine = "graphhopper_car"
)

// MapLinker builds links to an external directions viewer.
type MapLinker struct {
	// Service is the host (optionally with scheme) of the map viewer.
	Service string
	// Engine is the routing engine name understood by the viewer.
	Engine string
}

// DirectionsURL returns
// https://<service>/directions?engine=<engine>&route=<lat1>,<lon1>;<lat2>,<lon2>.
func (m MapLinker) DirectionsURL(from, to Coordinate) string {
	service := m.Service
	if service == "" {
		service = DefaultMapService
	}

	if !strings.Contains(service, "://") {
		service = "https://" + service
	}

	engine := m.Engine
	if engine == "" {
		engine = DefaultRoutingEngine
	}

	var sb strings.Builder

	sb.WriteString(strings.TrimRight(service, "/"))
	sb.WriteString("/directions?engine=")
	sb.WriteString(url.QueryEscape(engine))
	sb.WriteString("&route=")
	sb.WriteString(from.String())
	sb.WriteByte(';')
	sb.WriteString(to.String())

	return sb.String()
}
