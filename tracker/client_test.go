// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package tracker

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// newTestClient creates a Client backed by the given TLS test server
// for both the REST and Events APIs.
func newTestClient(t *testing.T, server *httptest.Server, routingKey string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		APIURL:     server.URL,
		EventsURL:  server.URL,
		Token:      "test-token",
		RoutingKey: routingKey,
		HTTPClient: server.Client(),
		Logger:     slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientHTTPSEnforcement(t *testing.T) {
	_, err := NewClient(Config{APIURL: "http://api.pagerduty.com", Token: "t"})
	if err == nil {
		t.Fatal("expected error for HTTP URL")
	}
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestListActiveIncidents(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token token=test-token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/incidents" {
			t.Errorf("path = %q", r.URL.Path)
		}
		statuses := r.URL.Query()["statuses[]"]
		if len(statuses) != 2 {
			t.Errorf("statuses = %v, want triggered+acknowledged", statuses)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"incidents": []map[string]any{
				{"id": "P1", "title": "db down", "created_at": "2026-03-01T12:00:00Z"},
				{"id": "P2", "title": "cache down", "created_at": "2026-03-01T12:30:00Z"},
			},
			"total": 2,
		})
	}))
	defer server.Close()

	incidents, err := newTestClient(t, server, "").ListActiveIncidents(context.Background())
	if err != nil {
		t.Fatalf("ListActiveIncidents: %v", err)
	}
	if len(incidents) != 2 {
		t.Fatalf("got %d incidents, want 2", len(incidents))
	}
	if incidents[0].ID != "P1" || incidents[0].Title != "db down" {
		t.Errorf("incidents[0] = %+v", incidents[0])
	}
	want := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if !incidents[0].CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", incidents[0].CreatedAt, want)
	}
}

func TestIncidentDetail(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/incidents/P1/alerts" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"alerts": []map[string]any{
				{"body": map[string]any{"details": map[string]any{"slack_channel": "C123"}}},
			},
		})
	}))
	defer server.Close()

	detail, err := newTestClient(t, server, "").IncidentDetail(context.Background(), "P1")
	if err != nil {
		t.Fatalf("IncidentDetail: %v", err)
	}
	if detail.ChannelID != "C123" {
		t.Errorf("ChannelID = %q, want C123", detail.ChannelID)
	}
}

func TestIncidentDetailNoAlerts(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"alerts": []any{}})
	}))
	defer server.Close()

	_, err := newTestClient(t, server, "").IncidentDetail(context.Background(), "P1")
	if !IsNotFound(err) {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestActiveIncidentForChannel(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/incidents":
			json.NewEncoder(w).Encode(map[string]any{
				"incidents": []map[string]any{
					{"id": "P1", "title": "a", "created_at": "2026-03-01T12:00:00Z"},
					{"id": "P2", "title": "b", "created_at": "2026-03-01T13:00:00Z"},
				},
			})
		case "/incidents/P1/alerts":
			json.NewEncoder(w).Encode(map[string]any{
				"alerts": []map[string]any{
					{"body": map[string]any{"details": map[string]any{"slack_channel": "C-other"}}},
				},
			})
		case "/incidents/P2/alerts":
			json.NewEncoder(w).Encode(map[string]any{
				"alerts": []map[string]any{
					{"body": map[string]any{"details": map[string]any{"slack_channel": "C-target"}}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := newTestClient(t, server, "")
	incident, err := client.ActiveIncidentForChannel(context.Background(), "C-target")
	if err != nil {
		t.Fatalf("ActiveIncidentForChannel: %v", err)
	}
	if incident.ID != "P2" {
		t.Errorf("incident.ID = %q, want P2", incident.ID)
	}

	_, err = client.ActiveIncidentForChannel(context.Background(), "C-absent")
	if !IsNotFound(err) {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestUserEmail(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/PUSER1" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"email": "manager@example.com"},
		})
	}))
	defer server.Close()

	email, err := newTestClient(t, server, "").UserEmail(context.Background(), server.URL+"/users/PUSER1")
	if err != nil {
		t.Fatalf("UserEmail: %v", err)
	}
	if email != "manager@example.com" {
		t.Errorf("email = %q", email)
	}
}

func TestPage(t *testing.T) {
	var received map[string]any
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/enqueue" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{"status": "success"})
	}))
	defer server.Close()

	err := newTestClient(t, server, "rk-123").Page(context.Background(), PageRequest{
		IncidentName:  "db down",
		ChannelID:     "C123",
		CreatorHandle: "alice",
	})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}

	if received["routing_key"] != "rk-123" {
		t.Errorf("routing_key = %v", received["routing_key"])
	}
	payload := received["payload"].(map[string]any)
	if payload["severity"] != "critical" {
		t.Errorf("severity = %v", payload["severity"])
	}
	details := payload["custom_details"].(map[string]any)
	if details["slack_channel"] != "C123" {
		t.Errorf("slack_channel = %v", details["slack_channel"])
	}
}

func TestPageWithoutRoutingKey(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer server.Close()

	if err := newTestClient(t, server, "").Page(context.Background(), PageRequest{}); err == nil {
		t.Fatal("expected error without routing key")
	}
}

func TestAPIErrorParsing(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "access denied"},
		})
	}))
	defer server.Close()

	_, err := newTestClient(t, server, "").ListActiveIncidents(context.Background())
	apiError, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %T (%v), want *APIError", err, err)
	}
	if apiError.StatusCode != http.StatusForbidden || apiError.Message != "access denied" {
		t.Errorf("apiError = %+v", apiError)
	}
}

func TestOpsgeniePage(t *testing.T) {
	var received map[string]any
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/incidents/create" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "GenieKey og-key" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	og, err := NewOpsgenie(OpsgenieConfig{
		APIURL:          server.URL,
		APIKey:          "og-key",
		ResponderTeamID: "team-1",
		HTTPClient:      server.Client(),
		Logger:          slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewOpsgenie: %v", err)
	}

	err = og.Page(context.Background(), PageRequest{IncidentName: "db down", CreatorHandle: "alice"})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if received["priority"] != "P1" {
		t.Errorf("priority = %v", received["priority"])
	}
	responders := received["responders"].([]any)
	if len(responders) != 1 {
		t.Fatalf("responders = %v", responders)
	}
}
