// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

// Package httputils provides utility functions for working with HTTP.
package httputils

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"os"
	"strings"
	"time"
)

// ClientOptions controls NewClient.
type ClientOptions struct {
	// UserAgent sent with every request. Some services (Nominatim) reject
	// requests without an identifying one.
	UserAgent string

	// Timeout for the whole exchange. Zero leaves it to the request context.
	Timeout time.Duration

	// Trace dumps requests and response headers to TraceWriter.
	Trace bool

	// TraceBody also dumps response bodies.
	TraceBody bool

	// TraceWriter defaults to os.Stderr.
	TraceWriter io.Writer

	// Transport is the innermost transport, defaults to a tuned *http.Transport.
	Transport http.RoundTripper
}

// NewClient assembles an *http.Client: base transport, optional tracing and
// fixed headers, in that order.
func NewClient(options *ClientOptions) *http.Client {
	if options == nil {
		options = &ClientOptions{}
	}

	transport := options.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          10,
			MaxIdleConnsPerHost:   4,
			IdleConnTimeout:       30 * time.Second,
			ResponseHeaderTimeout: 30 * time.Second,
		}
	}

	if options.Trace || options.TraceBody {
		writer := options.TraceWriter
		if writer == nil {
			writer = os.Stderr
		}

		transport = &LoggingRoundTripper{
			Transport: transport,
			Writer:    writer,
			DumpBody:  options.TraceBody,
		}
	}

	headers := map[string]string{"Accept": "application/json"}
	if options.UserAgent != "" {
		headers["User-Agent"] = options.UserAgent
	}

	return &http.Client{
		Timeout: options.Timeout,
		Transport: &AppendRequestHeadersRoundTripper{
			Headers:   headers,
			Transport: transport,
		},
	}
}

/////////////////////////////////////////
/// RoundTrippers

// LoggingRoundTripper dumps each exchange to Writer.
type LoggingRoundTripper struct {
	Transport http.RoundTripper
	Writer    io.Writer
	DumpBody  bool
}

// prefix each line and cut overly long output.
func abbreviate(dump []byte, prefix rune) string {
	const maxLines, maxChars = 256, 512

	lines := strings.Split(strings.TrimRight(string(dump), "\r\n"), "\n")

	truncated := len(lines) > maxLines
	if truncated {
		lines = lines[:maxLines]
	}

	var sb strings.Builder

	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if strings.HasPrefix(strings.ToLower(line), "authorization:") {
			line = "Authorization: <redacted>"
		}

		if len(line) > maxChars {
			line = line[:maxChars] + "…"
		}

		fmt.Fprintf(&sb, "%c %s\n", prefix, line)
	}

	if truncated {
		fmt.Fprintf(&sb, "%c …\n", prefix)
	}

	return sb.String()
}

// RoundTrip implements the http.RoundTripper interface.
func (t *LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Writer == nil {
		return t.Transport.RoundTrip(req)
	}

	dump, err := httputil.DumpRequestOut(req, true)
	if err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	if _, err := io.WriteString(t.Writer, abbreviate(dump, '>')); err != nil {
		return nil, fmt.Errorf("tracing HTTP request: %w", err)
	}

	start := time.Now()

	resp, err := t.Transport.RoundTrip(req)
	if err != nil {
		fmt.Fprintf(t.Writer, "< ERROR: [%v] %v\n", time.Since(start), err)

		return nil, err
	}

	dump, err = httputil.DumpResponse(resp, t.DumpBody)
	if err != nil {
		resp.Body.Close()

		return nil, fmt.Errorf("tracing HTTP response: %w", err)
	}

	fmt.Fprintf(t.Writer, "< RESPONSE: [%v]\n%s", time.Since(start), abbreviate(dump, '<'))

	return resp, nil
}

// AppendRequestHeadersRoundTripper adds headers to the request.
type AppendRequestHeadersRoundTripper struct {
	Transport http.RoundTripper
	Headers   map[string]string
}

// RoundTrip implements the http.RoundTripper interface.
func (t *AppendRequestHeadersRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	req = req.Clone(req.Context())
	for k, v := range t.Headers {
		req.Header.Set(k, v)
	}

	return t.Transport.RoundTrip(req)
}
