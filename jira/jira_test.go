// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package jira

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewTLSServer(handler)
	t.Cleanup(server.Close)

	// Route "example.atlassian.net" to the test server while keeping
	// the client's URL construction intact.
	client, err := NewClient(Config{
		Domain:          "example.atlassian.net",
		User:            "bot@example.com",
		APIKey:          "key",
		ProjectID:       "10100",
		EpicIssueTypeID: "10000",
		HTTPClient: &http.Client{Transport: rewriteTransport{
			inner: server.Client().Transport,
			host:  strings.TrimPrefix(server.URL, "https://"),
		}},
		Logger: slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client, server
}

// rewriteTransport redirects every request to the test server's host
// so the client can build real https://example.atlassian.net URLs.
type rewriteTransport struct {
	inner http.RoundTripper
	host  string
}

func (rt rewriteTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	request.URL.Host = rt.host
	return rt.inner.RoundTrip(request)
}

func TestCreateFollowupsEpic(t *testing.T) {
	var gotPath, gotAuthUser string
	var gotFields map[string]any
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuthUser, _, _ = r.BasicAuth()
		var body struct {
			Fields map[string]any `json:"fields"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decoding request body: %v", err)
		}
		gotFields = body.Fields
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": "10042", "key": "INC-42"})
	}))

	epic, err := client.CreateFollowupsEpic(context.Background(), "Incident: database outage", "incident-20260301120000")
	if err != nil {
		t.Fatalf("CreateFollowupsEpic: %v", err)
	}
	if gotPath != "/rest/api/3/issue" {
		t.Errorf("path = %q, want /rest/api/3/issue", gotPath)
	}
	if gotAuthUser != "bot@example.com" {
		t.Errorf("basic auth user = %q", gotAuthUser)
	}
	if epic.Key != "INC-42" {
		t.Errorf("Key = %q, want INC-42", epic.Key)
	}
	if want := "https://example.atlassian.net/browse/INC-42"; epic.URL != want {
		t.Errorf("URL = %q, want %q", epic.URL, want)
	}
	if got := gotFields["summary"]; got != "Incident: database outage" {
		t.Errorf("summary = %v", got)
	}
	if got := gotFields["customfield_10009"]; got != "incident-20260301120000" {
		t.Errorf("channel field = %v", got)
	}
	issuetype, _ := gotFields["issuetype"].(map[string]any)
	if issuetype["id"] != "10000" {
		t.Errorf("issuetype = %v", issuetype)
	}
	project, _ := gotFields["project"].(map[string]any)
	if project["id"] != "10100" {
		t.Errorf("project = %v", project)
	}
}

func TestCreateFollowupsEpicError(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errorMessages":["field required"]}`, http.StatusBadRequest)
	}))

	_, err := client.CreateFollowupsEpic(context.Background(), "Incident: x", "incident-1")
	if err == nil {
		t.Fatal("expected error from HTTP 400")
	}
	if !strings.Contains(err.Error(), "400") {
		t.Errorf("error = %v, want mention of status 400", err)
	}
}

func TestCreateFollowupsEpicMissingKey(t *testing.T) {
	client, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "10042"})
	}))

	_, err := client.CreateFollowupsEpic(context.Background(), "Incident: x", "incident-1")
	if err == nil {
		t.Fatal("expected error for response without issue key")
	}
}

func TestRegisterPostMortem(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/incident/create" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decoding payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client, err := NewClient(Config{
		Domain:          "example.atlassian.net",
		User:            "bot@example.com",
		APIKey:          "key",
		ProjectID:       "10100",
		EpicIssueTypeID: "10000",
		PostMortemsURL:  server.URL,
		PostMortemsKey:  "registry-key",
		HTTPClient:      server.Client(),
		Logger:          slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	when := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := client.RegisterPostMortem(context.Background(), "Incident: x", "INC-42", "C123", when); err != nil {
		t.Fatalf("RegisterPostMortem: %v", err)
	}
	if gotPayload["key"] != "registry-key" {
		t.Errorf("key = %v", gotPayload["key"])
	}
	incident, _ := gotPayload["incident"].(map[string]any)
	if incident["when"] != "2026-03-01 12:00:00" {
		t.Errorf("when = %v", incident["when"])
	}
	if incident["issueTracking"] != "jira: INC-42" {
		t.Errorf("issueTracking = %v", incident["issueTracking"])
	}
	if incident["channel"] != "slack: C123" {
		t.Errorf("channel = %v", incident["channel"])
	}
}

func TestRegisterPostMortemUnconfigured(t *testing.T) {
	client, err := NewClient(Config{
		Domain:          "example.atlassian.net",
		User:            "bot@example.com",
		APIKey:          "key",
		ProjectID:       "10100",
		EpicIssueTypeID: "10000",
		Logger:          slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if err := client.RegisterPostMortem(context.Background(), "Incident: x", "INC-42", "C123", time.Now()); err != nil {
		t.Errorf("RegisterPostMortem without registry = %v, want nil", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{User: "u", APIKey: "k", ProjectID: "1", EpicIssueTypeID: "2"})
	if err == nil {
		t.Error("expected error for missing Domain")
	}
	_, err = NewClient(Config{Domain: "example.atlassian.net/jira", User: "u", APIKey: "k", ProjectID: "1", EpicIssueTypeID: "2"})
	if err == nil {
		t.Error("expected error for Domain with path")
	}
}
