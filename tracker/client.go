// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/firewatch-foundation/firewatch/lib/netutil"
)

// defaultAPIURL is the base URL for the PagerDuty REST API.
const defaultAPIURL = "https://api.pagerduty.com"

// defaultEventsURL is the base URL for the PagerDuty Events API.
const defaultEventsURL = "https://events.pagerduty.com"

// Config holds configuration for creating a tracker Client.
type Config struct {
	// APIURL is the REST API base. Defaults to
	// "https://api.pagerduty.com". Must use HTTPS.
	APIURL string

	// EventsURL is the Events API base. Defaults to
	// "https://events.pagerduty.com". Must use HTTPS.
	EventsURL string

	// Token is the read-only REST API token. Required.
	Token string

	// RoutingKey is the Events v2 routing key used by Page. Optional:
	// when empty, Page returns an error and the caller should not
	// wire this client as a pager.
	RoutingKey string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client is a typed PagerDuty API client.
type Client struct {
	apiURL     string
	eventsURL  string
	token      string
	routingKey string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a tracker client from the given configuration.
func NewClient(config Config) (*Client, error) {
	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	apiURL = strings.TrimRight(apiURL, "/")

	eventsURL := config.EventsURL
	if eventsURL == "" {
		eventsURL = defaultEventsURL
	}
	eventsURL = strings.TrimRight(eventsURL, "/")

	if !strings.HasPrefix(apiURL, "https://") {
		return nil, fmt.Errorf("tracker: API client requires HTTPS (got %q)", apiURL)
	}
	if !strings.HasPrefix(eventsURL, "https://") {
		return nil, fmt.Errorf("tracker: events client requires HTTPS (got %q)", eventsURL)
	}
	if config.Token == "" {
		return nil, fmt.Errorf("tracker: Token is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		apiURL:     apiURL,
		eventsURL:  eventsURL,
		token:      config.Token,
		routingKey: config.RoutingKey,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// do executes an authenticated REST API request. The path is relative
// to the API base URL unless it is absolute (user reference URLs from
// webhook payloads are absolute). Returns the response body as raw
// bytes; non-2xx responses return an *APIError.
func (client *Client) do(ctx context.Context, method, path string, requestBody any) ([]byte, error) {
	url := path
	if !strings.HasPrefix(path, "https://") {
		url = client.apiURL + path
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("tracker: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("tracker: creating request: %w", err)
	}
	request.Header.Set("Authorization", "Token token="+client.token)
	request.Header.Set("Accept", "application/json")
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("tracker: %s %s: %w", method, url, err)
	}
	defer response.Body.Close()

	body, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("tracker: reading response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, parseAPIError(response.StatusCode, body)
	}
	return body, nil
}

// get is a convenience method for GET requests that return a single
// JSON object. Decodes the response into result.
func (client *Client) get(ctx context.Context, path string, result any) error {
	body, err := client.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, result)
}

// parseAPIError parses a PagerDuty API error from a status code and
// response body. PagerDuty wraps errors as {"error": {"message": ...}}.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiError := &APIError{StatusCode: statusCode}

	var wireError struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &wireError) == nil && wireError.Error.Message != "" {
		apiError.Message = wireError.Error.Message
	} else {
		apiError.Message = string(body)
	}
	return apiError
}
