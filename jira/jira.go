// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

// Package jira files the follow-up epic for a new incident and
// optionally registers the incident with a post-mortem registry.
// Both integrations are best-effort: a failure is logged by the
// caller and never blocks incident creation.
package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/firewatch-foundation/firewatch/lib/netutil"
)

// Config holds configuration for creating a Jira Client.
type Config struct {
	// Domain is the Jira Cloud domain, e.g. "example.atlassian.net".
	// Required.
	Domain string

	// User is the account email for basic auth. Required.
	User string

	// APIKey is the API key for basic auth. Required.
	APIKey string

	// ProjectID is the numeric project the epic is filed in. Required.
	ProjectID string

	// EpicIssueTypeID is the numeric issue type for epics. Required.
	EpicIssueTypeID string

	// ChannelField is the custom field carrying the incident channel
	// name. Defaults to "customfield_10009".
	ChannelField string

	// PostMortemsURL optionally names a post-mortem registry service.
	PostMortemsURL string

	// PostMortemsKey authenticates against the registry.
	PostMortemsKey string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client files follow-up epics against Jira Cloud.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *slog.Logger
}

// Epic is a filed follow-up epic.
type Epic struct {
	// Key is the issue key, e.g. "INC-42".
	Key string

	// URL is the browse URL for the epic.
	URL string
}

// NewClient creates a Jira client from the given configuration.
func NewClient(config Config) (*Client, error) {
	if config.Domain == "" {
		return nil, fmt.Errorf("jira: Domain is required")
	}
	if strings.Contains(config.Domain, "/") {
		return nil, fmt.Errorf("jira: Domain must be a bare host (got %q)", config.Domain)
	}
	if config.User == "" || config.APIKey == "" {
		return nil, fmt.Errorf("jira: User and APIKey are required")
	}
	if config.ProjectID == "" || config.EpicIssueTypeID == "" {
		return nil, fmt.Errorf("jira: ProjectID and EpicIssueTypeID are required")
	}
	if config.ChannelField == "" {
		config.ChannelField = "customfield_10009"
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
		config:     config,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CreateFollowupsEpic files the incident's follow-up epic. The epic
// summary is the incident name; the incident channel name rides in
// the configured custom field so post-incident tooling can map the
// epic back to its channel.
func (client *Client) CreateFollowupsEpic(ctx context.Context, incidentName, channelName string) (Epic, error) {
	issue := map[string]any{
		"fields": map[string]any{
			"issuetype":               map[string]string{"id": client.config.EpicIssueTypeID},
			"project":                 map[string]string{"id": client.config.ProjectID},
			"summary":                 incidentName,
			client.config.ChannelField: channelName,
		},
	}

	encoded, err := json.Marshal(issue)
	if err != nil {
		return Epic{}, fmt.Errorf("jira: encoding issue: %w", err)
	}

	url := "https://" + client.config.Domain + "/rest/api/3/issue"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return Epic{}, fmt.Errorf("jira: creating request: %w", err)
	}
	request.SetBasicAuth(client.config.User, client.config.APIKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return Epic{}, fmt.Errorf("jira: creating epic: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return Epic{}, fmt.Errorf("jira: HTTP %d: %s", response.StatusCode, netutil.ErrorBody(response.Body))
	}

	var created struct {
		Key string `json:"key"`
	}
	if err := netutil.DecodeResponse(response.Body, &created); err != nil {
		return Epic{}, fmt.Errorf("jira: decoding create response: %w", err)
	}
	if created.Key == "" {
		return Epic{}, fmt.Errorf("jira: create response has no issue key")
	}

	return Epic{
		Key: created.Key,
		URL: "https://" + client.config.Domain + "/browse/" + created.Key,
	}, nil
}

// RegisterPostMortem registers the incident with the post-mortem
// registry. No-op when no registry is configured.
func (client *Client) RegisterPostMortem(ctx context.Context, incidentName, epicKey, channelID string, when time.Time) error {
	if client.config.PostMortemsURL == "" {
		return nil
	}

	payload := map[string]any{
		"key": client.config.PostMortemsKey,
		"incident": map[string]string{
			"name":          incidentName,
			"when":          when.Format("2006-01-02 15:04:05"),
			"issueTracking": "jira: " + epicKey,
			"channel":       "slack: " + channelID,
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("jira: encoding post-mortem payload: %w", err)
	}

	url := strings.TrimRight(client.config.PostMortemsURL, "/") + "/incident/create"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("jira: creating post-mortem request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("jira: registering post-mortem: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("jira: post-mortem registry HTTP %d: %s", response.StatusCode, netutil.ErrorBody(response.Body))
	}
	return nil
}
