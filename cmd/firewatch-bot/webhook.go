// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"net/http"

	"github.com/firewatch-foundation/firewatch/incident"
	"github.com/firewatch-foundation/firewatch/lib/httpserver"
	"github.com/firewatch-foundation/firewatch/lib/netutil"
)

// webhookEnvelope is the PagerDuty v2 webhook payload: a batch of
// lifecycle messages, each with a single log entry describing who
// acted.
type webhookEnvelope struct {
	Messages []webhookMessage `json:"messages"`
}

type webhookMessage struct {
	Event    string `json:"event"`
	Incident struct {
		ID string `json:"id"`
	} `json:"incident"`
	LogEntries []struct {
		Agent struct {
			Summary string `json:"summary"`
			Self    string `json:"self"`
		} `json:"agent"`
	} `json:"log_entries"`
}

func (m webhookMessage) event() incident.Event {
	event := incident.Event{IncidentID: m.Incident.ID}
	if len(m.LogEntries) > 0 {
		event.AgentName = m.LogEntries[0].Agent.Summary
		event.AgentRef = m.LogEntries[0].Agent.Self
	}
	return event
}

// handlePagerDutyWebhook dispatches acknowledge and resolve events.
// The webhook is answered immediately; the event handling runs in the
// background so PagerDuty never retries on our latency.
func (b *bot) handlePagerDutyWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := netutil.ReadResponse(r.Body)
	if err != nil {
		http.Error(w, "reading request body", http.StatusBadRequest)
		return
	}

	if b.webhookSecret != nil {
		signature := r.Header.Get("X-PagerDuty-Signature")
		if err := httpserver.VerifyWebhookHMAC(b.webhookSecret.Bytes(), body, signature); err != nil {
			b.logger.Warn("webhook signature rejected", "error", err)
			http.Error(w, "invalid signature", http.StatusUnauthorized)
			return
		}
	}

	var envelope webhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		http.Error(w, "parsing webhook payload", http.StatusBadRequest)
		return
	}

	for _, message := range envelope.Messages {
		switch message.Event {
		case "incident.acknowledge":
			go func(event incident.Event) {
				if err := b.responder.HandleAcknowledge(b.background, event); err != nil {
					b.logger.Error("handling acknowledge", "incident", event.IncidentID, "error", err)
				}
			}(message.event())
		case "incident.resolve":
			go func(event incident.Event) {
				if err := b.responder.HandleResolve(b.background, event); err != nil {
					b.logger.Error("handling resolve", "incident", event.IncidentID, "error", err)
				}
			}(message.event())
		default:
			b.logger.Debug("ignoring webhook event", "event", message.Event)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"text": "OK"})
}
