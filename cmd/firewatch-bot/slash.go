// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/firewatch-foundation/firewatch/breakglass"
	"github.com/firewatch-foundation/firewatch/lib/netutil"
)

// parseSlashCommand verifies the request signature against the Slack
// signing secret and parses the slash-command form. A nil return
// means the response has already been written.
func (b *bot) parseSlashCommand(w http.ResponseWriter, r *http.Request) *slack.SlashCommand {
	body, err := netutil.ReadResponse(r.Body)
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return nil
	}

	verifier, err := slack.NewSecretsVerifier(r.Header, b.signingSecret.String())
	if err != nil {
		b.logger.Warn("slash command missing signature headers", "path", r.URL.Path, "error", err)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return nil
	}
	verifier.Write(body)
	if err := verifier.Ensure(); err != nil {
		b.logger.Warn("slash command signature mismatch", "path", r.URL.Path)
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return nil
	}

	r.Body = io.NopCloser(bytes.NewReader(body))
	command, err := slack.SlashCommandParse(r)
	if err != nil {
		http.Error(w, "parsing slash command", http.StatusBadRequest)
		return nil
	}
	return &command
}

// handleIncidentCommand opens an incident: the channel and page
// happen before the response so the requester gets a working deep
// link, the rest of the resources provision in the background.
func (b *bot) handleIncidentCommand(private bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		command := b.parseSlashCommand(w, r)
		if command == nil {
			return
		}

		opened, err := b.creator.Create(r.Context(), command.Text, command.UserName, command.UserID, private)
		if err != nil {
			b.logger.Error("opening incident", "error", err)
			http.Error(w, "could not open the incident", http.StatusInternalServerError)
			return
		}

		go b.creator.Provision(b.background, opened)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"text":                "Incident management process started. Join incident channel: " + b.chat.DeepLink(opened.ChannelID),
			"incident_channel_id": opened.ChannelID,
		})
	}
}

// handleBreakGlassCommand acknowledges immediately; the evaluation
// and any grant or denial messages happen in the background.
func (b *bot) handleBreakGlassCommand(w http.ResponseWriter, r *http.Request) {
	command := b.parseSlashCommand(w, r)
	if command == nil {
		return
	}

	request := breakglass.Request{
		ChannelID:     command.ChannelID,
		UserID:        command.UserID,
		UserName:      command.UserName,
		Justification: command.Text,
	}
	go func() {
		if err := b.authorizer.Authorize(b.background, request); err != nil {
			b.logger.Error("break-glass request failed", "user", request.UserID, "error", err)
		}
	}()

	w.WriteHeader(http.StatusOK)
}
