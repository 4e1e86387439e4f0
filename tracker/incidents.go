// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package tracker

import (
	"context"
	"fmt"
	"time"
)

// Incident identifies an active incident.
type Incident struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

// Detail is per-incident metadata carried on the incident's first
// alert. ChannelID is empty when the incident was not opened by
// Firewatch (no chat channel attached).
type Detail struct {
	ChannelID string
}

// wireIncident is the REST representation of an incident.
type wireIncident struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

func (w wireIncident) incident() Incident {
	return Incident{ID: w.ID, Title: w.Title, CreatedAt: w.CreatedAt}
}

// ListActiveIncidents returns all currently active (triggered or
// acknowledged) incidents. An acknowledged incident still protects its
// channel members from access revocation.
func (client *Client) ListActiveIncidents(ctx context.Context) ([]Incident, error) {
	var listing struct {
		Incidents []wireIncident `json:"incidents"`
	}
	path := "/incidents?statuses[]=triggered&statuses[]=acknowledged&total=true"
	if err := client.get(ctx, path, &listing); err != nil {
		return nil, err
	}

	incidents := make([]Incident, 0, len(listing.Incidents))
	for _, wire := range listing.Incidents {
		incidents = append(incidents, wire.incident())
	}
	return incidents, nil
}

// IncidentDetail fetches the metadata attached to the incident's first
// alert. Returns ErrNotFound (wrapped) when the incident has no alerts
// to carry details.
func (client *Client) IncidentDetail(ctx context.Context, incidentID string) (Detail, error) {
	var listing struct {
		Alerts []struct {
			Body struct {
				Details struct {
					ChannelID string `json:"slack_channel"`
				} `json:"details"`
			} `json:"body"`
		} `json:"alerts"`
	}
	if err := client.get(ctx, "/incidents/"+incidentID+"/alerts", &listing); err != nil {
		return Detail{}, err
	}
	if len(listing.Alerts) == 0 {
		return Detail{}, fmt.Errorf("tracker: incident %s has no alerts: %w", incidentID, ErrNotFound)
	}
	return Detail{ChannelID: listing.Alerts[0].Body.Details.ChannelID}, nil
}

// ActiveIncidentForChannel finds the active incident whose attached
// chat channel is channelID. Returns ErrNotFound (wrapped) when no
// active incident maps to the channel.
func (client *Client) ActiveIncidentForChannel(ctx context.Context, channelID string) (Incident, error) {
	incidents, err := client.ListActiveIncidents(ctx)
	if err != nil {
		return Incident{}, err
	}

	for _, incident := range incidents {
		detail, err := client.IncidentDetail(ctx, incident.ID)
		if err != nil {
			// An incident without alert details cannot be the one
			// we're looking for; keep scanning.
			client.logger.Debug("skipping incident without detail",
				"incident_id", incident.ID,
				"error", err,
			)
			continue
		}
		if detail.ChannelID == channelID {
			return incident, nil
		}
	}
	return Incident{}, fmt.Errorf("tracker: no active incident for channel %s: %w", channelID, ErrNotFound)
}

// UserEmail resolves a tracker user reference URL (as delivered in
// webhook log entries) to the user's email address.
func (client *Client) UserEmail(ctx context.Context, userRefURL string) (string, error) {
	var wire struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := client.get(ctx, userRefURL, &wire); err != nil {
		return "", err
	}
	if wire.User.Email == "" {
		return "", fmt.Errorf("tracker: user reference %s has no email: %w", userRefURL, ErrNotFound)
	}
	return wire.User.Email, nil
}
