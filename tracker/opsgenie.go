// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/firewatch-foundation/firewatch/lib/netutil"
)

// OpsgenieConfig holds configuration for creating an Opsgenie pager.
type OpsgenieConfig struct {
	// APIURL is the region-specific Opsgenie API base. Required,
	// must use HTTPS.
	APIURL string

	// APIKey is the GenieKey API key. Required.
	APIKey string

	// ResponderTeamID is the team to page. Required.
	ResponderTeamID string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Opsgenie pages a responder team through the Opsgenie incident API.
// Deployments that page through both PagerDuty and Opsgenie wire this
// as a second pager.
type Opsgenie struct {
	apiURL     string
	apiKey     string
	teamID     string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewOpsgenie creates an Opsgenie pager from the given configuration.
func NewOpsgenie(config OpsgenieConfig) (*Opsgenie, error) {
	apiURL := strings.TrimRight(config.APIURL, "/")
	if !strings.HasPrefix(apiURL, "https://") {
		return nil, fmt.Errorf("tracker: opsgenie client requires HTTPS (got %q)", config.APIURL)
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("tracker: opsgenie APIKey is required")
	}
	if config.ResponderTeamID == "" {
		return nil, fmt.Errorf("tracker: opsgenie ResponderTeamID is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Opsgenie{
		apiURL:     apiURL,
		apiKey:     config.APIKey,
		teamID:     config.ResponderTeamID,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Page creates a P1 Opsgenie incident for the responder team.
func (og *Opsgenie) Page(ctx context.Context, page PageRequest) error {
	payload := map[string]any{
		"message":     page.IncidentName,
		"description": fmt.Sprintf("New incident '%s' created by @%s", page.IncidentName, page.CreatorHandle),
		"priority":    "P1",
		"responders": []map[string]string{
			{"id": og.teamID, "type": "team"},
		},
		"details": map[string]string{
			"slack_deep_link_url": page.DeepLinkURL,
			"slack_deep_link":     page.DeepLink,
			"initiated_by":        page.CreatorHandle,
			"slack_channel":       page.ChannelID,
		},
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("tracker: encoding opsgenie payload: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, og.apiURL+"/v1/incidents/create", bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("tracker: creating opsgenie request: %w", err)
	}
	request.Header.Set("Authorization", "GenieKey "+og.apiKey)
	request.Header.Set("Content-Type", "application/json")

	response, err := og.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("tracker: opsgenie request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return &APIError{
			StatusCode: response.StatusCode,
			Message:    netutil.ErrorBody(response.Body),
		}
	}

	og.logger.Info("opsgenie incident created",
		"incident", page.IncidentName,
		"channel_id", page.ChannelID,
	)
	return nil
}
