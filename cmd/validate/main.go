// Package main provides a CLI tool for smoke-testing a running cashpulse server.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"cashpulse/internal/models"
	"cashpulse/internal/sample"
)

type endpoint struct {
	path        string
	method      string
	contentType string
	status      int
	body        func() (io.Reader, error)
	contains    []string
}

func sampleBody() (io.Reader, error) {
	data, err := json.Marshal(sample.Ledger(time.Now()))
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func malformedBody() (io.Reader, error) {
	return strings.NewReader(`{"transacoes": [`), nil
}

var endpoints = []endpoint{
	{path: "/health", method: "GET", contentType: "application/json", status: http.StatusOK, contains: []string{`"status":"ok"`}},
	{path: "/api/health", method: "GET", contentType: "application/json", status: http.StatusOK, contains: []string{`"status":"ok"`}},
	{path: "/api/analyze", method: "POST", contentType: "application/json", status: http.StatusOK, body: sampleBody,
		contains: []string{`"sucesso":true`, `"padroesPorCategoria"`, `"saudeFinanceira"`, `"recomendacoes"`}},
	{path: "/api/analyze", method: "POST", contentType: "application/json", status: http.StatusBadRequest, body: malformedBody,
		contains: []string{`"sucesso":false`}},
}

type result struct {
	endpoint endpoint
	status   int
	duration time.Duration
	err      error
	body     string
}

func main() {
	url := flag.String("url", "http://localhost:5000", "Base URL of the server to validate")
	verbose := flag.Bool("v", false, "Verbose output")
	timeout := flag.Int("timeout", 10, "Request timeout in seconds")
	flag.Parse()

	client := &http.Client{
		Timeout: time.Duration(*timeout) * time.Second,
	}

	fmt.Printf("Validating server at %s\n", *url)
	fmt.Printf("Testing %d endpoints...\n\n", len(endpoints))

	var passed, failed int

	for _, ep := range endpoints {
		r := validateEndpoint(client, *url, ep)

		if r.err != nil {
			failed++
			fmt.Printf("FAIL %s %s\n", ep.method, ep.path)
			fmt.Printf("     Error: %v\n", r.err)
			continue
		}

		passed++
		if *verbose {
			fmt.Printf("PASS %s %s -> %d (%v)\n", ep.method, ep.path, r.status, r.duration)
		}
		if ep.method == "POST" && r.status == http.StatusOK {
			printSummary(r.body)
		}
	}

	fmt.Printf("\n========================================\n")
	fmt.Printf("Results: %d passed, %d failed\n", passed, failed)

	if failed > 0 {
		os.Exit(1)
	}
}

func validateEndpoint(client *http.Client, baseURL string, ep endpoint) result {
	start := time.Now()

	var body io.Reader
	if ep.body != nil {
		var err error
		if body, err = ep.body(); err != nil {
			return result{endpoint: ep, err: fmt.Errorf("failed to build body: %w", err)}
		}
	}

	req, err := http.NewRequest(ep.method, baseURL+ep.path, body)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("failed to create request: %w", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("request failed: %w", err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return result{endpoint: ep, err: fmt.Errorf("failed to read body: %w", err)}
	}

	r := result{
		endpoint: ep,
		status:   resp.StatusCode,
		duration: time.Since(start),
		body:     string(data),
	}

	if r.status != ep.status {
		r.err = fmt.Errorf("status %d, expected %d", r.status, ep.status)
		return r
	}

	// Validate content type
	ct := resp.Header.Get("Content-Type")
	if !strings.Contains(ct, ep.contentType) {
		r.err = fmt.Errorf("wrong content type: got %q, expected %q", ct, ep.contentType)
		return r
	}

	// Validate JSON
	var js interface{}
	if err := json.Unmarshal(data, &js); err != nil {
		r.err = fmt.Errorf("invalid JSON: %w", err)
		return r
	}

	// Validate required content
	for _, needle := range ep.contains {
		if !strings.Contains(r.body, needle) {
			r.err = fmt.Errorf("missing expected content: %q", needle)
			return r
		}
	}

	return r
}

// printSummary prints the headline numbers of an analysis report
func printSummary(body string) {
	var report models.Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		return
	}

	fmt.Printf("     Health score: %d\n", report.HealthScore)
	fmt.Printf("     Patterns: %d, insights: %d, forecast months: %d\n",
		len(report.Patterns), len(report.Insights), len(report.Forecast))
	for i, in := range report.Insights {
		if i == 3 {
			break
		}
		fmt.Printf("     - [%s] %s\n", in.Kind, in.Title)
	}
	for _, rec := range report.Recommendations {
		fmt.Printf("     * %s\n", rec)
	}
}
