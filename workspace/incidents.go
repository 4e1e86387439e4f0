// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Entry point types in calendar conference data.
const (
	EntryPointVideo = "video"
	EntryPointPhone = "phone"
	EntryPointMore  = "more"
)

// EntryPoint is one way of joining an incident conference call.
type EntryPoint struct {
	Type       string `json:"entryPointType"`
	URI        string `json:"uri"`
	Label      string `json:"label"`
	PIN        string `json:"pin"`
	RegionCode string `json:"regionCode"`
}

// Event is the calendar event registered for an incident, with its
// conference entry points.
type Event struct {
	EntryPoints []EntryPoint
}

// EntryPoint returns the first entry point of the given type, or a
// zero EntryPoint when none exists.
func (e Event) EntryPoint(entryPointType string) EntryPoint {
	for _, entryPoint := range e.EntryPoints {
		if entryPoint.Type == entryPointType {
			return entryPoint
		}
	}
	return EntryPoint{}
}

// RegisterEvent creates the incident's calendar event with an attached
// conference bridge and returns its entry points.
func (client *Client) RegisterEvent(ctx context.Context, incidentID, incidentName, reportedBy, channelName string) (Event, error) {
	body, err := client.do(ctx, http.MethodPost, "/incidents/", map[string]string{
		"incidentId":   incidentID,
		"incidentName": incidentName,
		"reportedBy":   reportedBy,
		"slackChannel": channelName,
	})
	if err != nil {
		return Event{}, err
	}

	var wire struct {
		Event struct {
			ConferenceData struct {
				EntryPoints []EntryPoint `json:"entryPoints"`
			} `json:"conferenceData"`
		} `json:"event"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return Event{}, fmt.Errorf("workspace: decoding event: %w", err)
	}
	return Event{EntryPoints: wire.Event.ConferenceData.EntryPoints}, nil
}

// CreateLogDocument creates the incident notes document in the given
// Drive folder and returns its URL.
func (client *Client) CreateLogDocument(ctx context.Context, fileName, folder, incidentTitle, reportedBy string) (string, error) {
	body, err := client.do(ctx, http.MethodPost, "/incidents/log", map[string]string{
		"fileName":      fileName,
		"folder":        folder,
		"incidentTitle": incidentTitle,
		"reportedBy":    reportedBy,
	})
	if err != nil {
		return "", err
	}

	var wire struct {
		DocumentURL string `json:"documentUrl"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return "", fmt.Errorf("workspace: decoding log document response: %w", err)
	}
	if wire.DocumentURL == "" {
		return "", fmt.Errorf("workspace: log document response has no documentUrl")
	}
	return wire.DocumentURL, nil
}
