// Copyright 2026 The DistCalc Authors
// SPDX-License-Identifier: Apache-2.0

package httputils

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// recordingRoundTripper answers with a fixed body and remembers the request.
type recordingRoundTripper struct {
	body        string
	lastRequest *http.Request
}

func (d *recordingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	d.lastRequest = req

	return &http.Response{
		Status:     "200 OK",
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(d.body)),
		Request:    req,
	}, nil
}

//////////////////////////////////
// Test LoggingRoundTripper

func TestLoggingRoundTripper(t *testing.T) {
	var logBuffer bytes.Buffer

	lt := &LoggingRoundTripper{
		Transport: &recordingRoundTripper{body: `[{"lat":"37.5"}]`},
		Writer:    &logBuffer,
		DumpBody:  true,
	}

	req, err := http.NewRequest(http.MethodGet, "http://example.com/search?q=Seoul", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Authorization", "secret-token")

	resp, err := lt.RoundTrip(req)
	if err != nil {
		t.Fatalf("RoundTrip returned error: %v", err)
	}
	defer resp.Body.Close()

	logContent := logBuffer.String()
	for _, want := range []string{"> GET /search?q=Seoul", "< RESPONSE: [", `[{"lat":"37.5"}]`, "Authorization: <redacted>"} {
		if !strings.Contains(logContent, want) {
			t.Errorf("log does not contain %q. Got: %s", want, logContent)
		}
	}

	if strings.Contains(logContent, "secret-token") {
		t.Errorf("log leaks the authorization header: %s", logContent)
	}

	// The body must still be readable by the caller.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}

	if string(body) != `[{"lat":"37.5"}]` {
		t.Errorf("body = %q", body)
	}
}

func TestLoggingRoundTripperWithoutWriter(t *testing.T) {
	rt := &recordingRoundTripper{}
	lt := &LoggingRoundTripper{Transport: rt}

	req, _ := http.NewRequest(http.MethodGet, "http://example.com/", nil)
	if _, err := lt.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip returned error: %v", err)
	}

	if rt.lastRequest == nil {
		t.Fatal("request was not forwarded")
	}
}

//////////////////////////////////
// Test AppendRequestHeadersRoundTripper

func TestAppendRequestHeadersRoundTripper(t *testing.T) {
	dummy := &recordingRoundTripper{}
	atr := &AppendRequestHeadersRoundTripper{
		Transport: dummy,
		Headers:   map[string]string{"X-Test-Header": "TestValue"},
	}

	req, err := http.NewRequest(http.MethodPost, "http://example.org", nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if _, err = atr.RoundTrip(req); err != nil {
		t.Fatalf("RoundTrip returned error: %v", err)
	}

	if got := dummy.lastRequest.Header.Get("X-Test-Header"); got != "TestValue" {
		t.Errorf("expected header X-Test-Header to have value 'TestValue', but got '%s'", got)
	}

	if req.Header.Get("X-Test-Header") != "" {
		t.Errorf("the caller's request was modified")
	}
}

func TestNewClient(t *testing.T) {
	var gotUA string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	var trace bytes.Buffer

	client := NewClient(&ClientOptions{
		UserAgent:   "distcalc-test/1.0",
		Trace:       true,
		TraceWriter: &trace,
	})

	resp, err := client.Get(srv.URL + "/ping")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	resp.Body.Close()

	if gotUA != "distcalc-test/1.0" {
		t.Errorf("User-Agent = %q", gotUA)
	}

	if !strings.Contains(trace.String(), "> GET /ping") {
		t.Errorf("trace missing request line: %s", trace.String())
	}

	if !strings.Contains(trace.String(), "User-Agent: distcalc-test/1.0") {
		t.Errorf("trace missing user agent: %s", trace.String())
	}
}
