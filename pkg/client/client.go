// Package client is the Go consumer of the analysis API. It mirrors the
// browser client: one awaited request per analysis, no retries, and failure
// categories derived from the server's error message.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Severity mirrors the server's risk levels on the wire.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Risk is one identified hazard as returned by the analysis API.
type Risk struct {
	Title          string   `json:"title"`
	Level          Severity `json:"level"`
	Recommendation string   `json:"recommendation"`
}

// Result is the analysis API response body.
type Result struct {
	Risks []Risk `json:"risks"`
}

// Category is the user-facing classification of an analysis failure.
type Category string

const (
	CategoryMissingInput            Category = "missing-input"
	CategoryMissingCredential       Category = "missing-credential"
	CategoryInvalidProviderResponse Category = "invalid-provider-response"
	CategoryProviderAuthFailure     Category = "provider-auth-failure"
	CategoryQuotaExceeded           Category = "provider-quota-exceeded"
	CategoryNetworkFailure          Category = "network-failure"
	CategoryGeneric                 Category = "generic"
)

// AnalysisError is the client-side failure: a category for UI dispatch and
// the raw message for display. Never retried automatically.
type AnalysisError struct {
	Category Category
	Message  string
	Status   int // HTTP status, 0 for transport failures
}

func (e *AnalysisError) Error() string { return e.Message }

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: http.DefaultClient,
	}
}

// Analyze submits the photo's base64 data URI and decodes the result.
// The server already validated every risk; no revalidation happens here.
func (c *Client) Analyze(ctx context.Context, dataURI, photoName string) (*Result, error) {
	if strings.TrimSpace(dataURI) == "" {
		return nil, &AnalysisError{Category: CategoryMissingInput, Message: "no photo to analyze"}
	}

	payload, err := json.Marshal(map[string]string{
		"base64Image": dataURI,
		"photoName":   photoName,
	})
	if err != nil {
		return nil, &AnalysisError{Category: CategoryGeneric, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/analyze", bytes.NewReader(payload))
	if err != nil {
		return nil, &AnalysisError{Category: CategoryGeneric, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &AnalysisError{Category: CategoryNetworkFailure, Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := errorMessage(resp)
		return nil, &AnalysisError{
			Category: Classify(msg),
			Message:  msg,
			Status:   resp.StatusCode,
		}
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &AnalysisError{Category: CategoryInvalidProviderResponse, Message: err.Error(), Status: resp.StatusCode}
	}
	return &result, nil
}

// errorMessage pulls the "error" field from the body, falling back to a
// generic status line when the body is absent or not JSON.
func errorMessage(resp *http.Response) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil && body.Error != "" {
		return body.Error
	}
	return fmt.Sprintf("HTTP error! status: %d", resp.StatusCode)
}

// Classify selects the failure category from the message text. The "API
// key", "quota", "network" and "fetch" substrings are load-bearing; they
// match the server's (and provider's) phrasing.
func Classify(msg string) Category {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(msg, "API key") && strings.Contains(lower, "not configured"):
		return CategoryMissingCredential
	case strings.Contains(msg, "API key"):
		return CategoryProviderAuthFailure
	case strings.Contains(lower, "quota"):
		return CategoryQuotaExceeded
	case strings.Contains(lower, "network"), strings.Contains(lower, "fetch"):
		return CategoryNetworkFailure
	case strings.Contains(msg, "No image provided"):
		return CategoryMissingInput
	case strings.Contains(msg, "parse AI response"),
		strings.Contains(msg, "response format from AI"),
		strings.Contains(msg, "No response from AI model"):
		return CategoryInvalidProviderResponse
	default:
		return CategoryGeneric
	}
}
