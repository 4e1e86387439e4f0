// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package tracker

import (
	"context"
	"fmt"
	"net/http"
)

// PageRequest describes a new incident to page the on-call incident
// manager about.
type PageRequest struct {
	// IncidentName is the human-entered incident title.
	IncidentName string

	// ChannelID is the chat channel opened for the incident. Carried
	// in the event's custom details so later lookups can map the
	// incident back to its channel.
	ChannelID string

	// CreatorHandle is the chat handle of the person who opened the
	// incident.
	CreatorHandle string

	// DeepLinkURL is the https deep link to the incident channel.
	DeepLinkURL string

	// DeepLink is the native (slack://) deep link to the channel.
	DeepLink string
}

// Page triggers a critical event on the Events v2 API, paging whoever
// is on call for the configured routing key. The event's custom
// details carry the incident channel — the tracker-side source for
// every later channel lookup.
func (client *Client) Page(ctx context.Context, page PageRequest) error {
	if client.routingKey == "" {
		return fmt.Errorf("tracker: no routing key configured")
	}

	event := map[string]any{
		"routing_key":  client.routingKey,
		"event_action": "trigger",
		"payload": map[string]any{
			"summary":  fmt.Sprintf("New incident '%s' created by @%s", page.IncidentName, page.CreatorHandle),
			"source":   page.ChannelID,
			"severity": "critical",
			"custom_details": map[string]string{
				"slack_deep_link_url": page.DeepLinkURL,
				"slack_deep_link":     page.DeepLink,
				"initiated_by":        page.CreatorHandle,
				"slack_channel":       page.ChannelID,
			},
		},
	}

	body, err := client.doEvents(ctx, event)
	if err != nil {
		return err
	}
	client.logger.Info("paged incident manager",
		"incident", page.IncidentName,
		"channel_id", page.ChannelID,
		"response", string(body),
	)
	return nil
}

// doEvents posts an event envelope to the Events v2 enqueue endpoint.
// The Events API authenticates via the routing key in the body rather
// than the REST token header.
func (client *Client) doEvents(ctx context.Context, event any) ([]byte, error) {
	url := client.eventsURL + "/v2/enqueue"

	body, err := client.do(ctx, http.MethodPost, url, event)
	if err != nil {
		return nil, err
	}
	return body, nil
}
