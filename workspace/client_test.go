// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:    server.URL,
		Token:      "sidecar-token",
		HTTPClient: server.Client(),
		Logger:     slog.New(slog.DiscardHandler),
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestAddMember(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/members/" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization-Token"); got != "sidecar-token" {
			t.Errorf("Authorization-Token = %q", got)
		}
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	if err := newTestClient(t, server).AddMember(context.Background(), "alice@example.com", false); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if received["email"] != "alice@example.com" {
		t.Errorf("email = %v", received["email"])
	}
	if received["admin"] != false {
		t.Errorf("admin = %v, want false", received["admin"])
	}
}

func TestRemoveMemberEscapesEmail(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
	}))
	defer server.Close()

	if err := newTestClient(t, server).RemoveMember(context.Background(), "bob+oncall@example.com"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if path != "/members/bob+oncall@example.com" && path != "/members/bob%2Boncall@example.com" {
		t.Errorf("path = %q", path)
	}
}

func TestListMembers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"members": []string{"alice@example.com", "bob@example.com"},
		})
	}))
	defer server.Close()

	members, err := newTestClient(t, server).ListMembers(context.Background())
	if err != nil {
		t.Fatalf("ListMembers: %v", err)
	}
	if len(members) != 2 || members[0] != "alice@example.com" {
		t.Errorf("members = %v", members)
	}
}

func TestClearMembers(t *testing.T) {
	var method, path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
	}))
	defer server.Close()

	if err := newTestClient(t, server).ClearMembers(context.Background()); err != nil {
		t.Fatalf("ClearMembers: %v", err)
	}
	if method != http.MethodDelete || path != "/members/" {
		t.Errorf("%s %s, want DELETE /members/", method, path)
	}
}

func TestRegisterEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/incidents/" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"event": map[string]any{
				"conferenceData": map[string]any{
					"entryPoints": []map[string]any{
						{"entryPointType": "video", "uri": "https://meet.example.com/abc", "label": "meet.example.com/abc"},
						{"entryPointType": "phone", "uri": "tel:+15551234567", "label": "+1 555 123 4567", "pin": "1234", "regionCode": "US"},
					},
				},
			},
		})
	}))
	defer server.Close()

	event, err := newTestClient(t, server).RegisterEvent(context.Background(), "20260301120000", "db down", "alice", "incident-20260301120000")
	if err != nil {
		t.Fatalf("RegisterEvent: %v", err)
	}
	video := event.EntryPoint(EntryPointVideo)
	if video.URI != "https://meet.example.com/abc" {
		t.Errorf("video.URI = %q", video.URI)
	}
	phone := event.EntryPoint(EntryPointPhone)
	if phone.PIN != "1234" || phone.RegionCode != "US" {
		t.Errorf("phone = %+v", phone)
	}
	if missing := event.EntryPoint(EntryPointMore); missing.URI != "" {
		t.Errorf("more = %+v, want zero", missing)
	}
}

func TestCreateLogDocument(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/incidents/log" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"documentUrl": "https://docs.example.com/d/1"})
	}))
	defer server.Close()

	url, err := newTestClient(t, server).CreateLogDocument(context.Background(), "incident-1", "folder-1", "db down", "alice")
	if err != nil {
		t.Fatalf("CreateLogDocument: %v", err)
	}
	if url != "https://docs.example.com/d/1" {
		t.Errorf("url = %q", url)
	}
}

func TestAPIErrorSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "group quota exceeded", http.StatusConflict)
	}))
	defer server.Close()

	err := newTestClient(t, server).AddMember(context.Background(), "x@example.com", false)
	apiError, ok := err.(*APIError)
	if !ok {
		t.Fatalf("err = %T (%v), want *APIError", err, err)
	}
	if apiError.StatusCode != http.StatusConflict {
		t.Errorf("StatusCode = %d", apiError.StatusCode)
	}
}
