// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"fmt"
	"math/rand/v2"

	"github.com/slack-go/slack"
)

// Message colors.
const (
	colorRed      = "#FF0000"
	colorGreen    = "#008000"
	colorDarkRed  = "#8f0000"
	colorOrange   = "#FD6A02"
	colorBlue     = "#3367d6"
	colorConfCall = "#1F8456"
)

// Message is a fully-composed chat message. The zero value posts
// nothing visible; use the constructors below or fill in at least
// Text or Attachments.
type Message struct {
	// Username overrides the bot's display name for this message.
	Username string

	// IconEmoji overrides the bot's avatar, e.g. ":warning:".
	IconEmoji string

	// Text is the plain message text.
	Text string

	// Attachments carry the rich part of the message.
	Attachments []slack.Attachment

	// Parse is Slack's parse mode ("full", "none" or empty).
	Parse string

	// LinkNames makes @mentions in attachment text resolve.
	LinkNames bool

	// Pin pins the message to the channel after posting.
	Pin bool
}

// Notice is a minimal one-attachment message: a colored bar and a
// line of text.
func Notice(iconEmoji, color, text string) Message {
	return Message{
		IconEmoji: iconEmoji,
		Attachments: []slack.Attachment{
			{Color: color, Text: text},
		},
	}
}

// DenialMessage is a red :x: notice used for refused requests.
func DenialMessage(text string) Message {
	return Notice(":x:", colorRed, text)
}

// BreakGlassAnnouncement announces a granted emergency access
// request to the incident channel.
func BreakGlassAnnouncement(userName, justification string) Message {
	return Notice(":fire_engine:", colorRed,
		fmt.Sprintf("%s broke the glass: %q", userName, justification))
}

// ResolutionNotice is posted to an incident channel when its incident
// is resolved.
func ResolutionNotice() Message {
	return Notice(":sweat_drops:", colorGreen, "Controlled burning. Incident Resolved.")
}

// InitialAnnouncement is the incident announcement with a join
// button, broadcast to the configured announce channels.
func InitialAnnouncement(incidentName, creatorHandle, channelName, deepLink string) Message {
	return Message{
		Username:  "Incident Management",
		IconEmoji: ":warning:",
		Parse:     "full",
		LinkNames: true,
		Attachments: []slack.Attachment{{
			Color:    colorDarkRed,
			Title:    incidentName,
			Text:     "Incident Channel: #" + channelName,
			Fallback: "Join Incident Channel #" + channelName,
			Actions: []slack.AttachmentAction{{
				Type:  "button",
				Text:  "Join Incident Channel",
				URL:   deepLink,
				Style: "danger",
			}},
			Footer: "reported by @" + creatorHandle,
		}},
	}
}

// WithoutActions strips the attachment buttons, for reposting an
// announcement inside the incident channel itself.
func (m Message) WithoutActions() Message {
	attachments := make([]slack.Attachment, len(m.Attachments))
	copy(attachments, m.Attachments)
	for i := range attachments {
		attachments[i].Actions = nil
	}
	m.Attachments = attachments
	return m
}

// ConferenceCall describes the dial-in options of a conference call.
type ConferenceCall struct {
	VideoURI   string
	VideoLabel string
	PhoneURI   string
	PhoneLabel string
	PIN        string
	RegionCode string
	MoreURI    string
}

// ConferenceCallDetails is the pinned conference-call message posted
// to a fresh incident channel.
func ConferenceCallDetails(call ConferenceCall) Message {
	return Message{
		Username:  "Conference Call Details",
		IconEmoji: ":telephone_receiver:",
		Parse:     "none",
		LinkNames: true,
		Pin:       true,
		Attachments: []slack.Attachment{{
			Color:     colorConfCall,
			Title:     "Join Conference Call",
			TitleLink: call.VideoURI,
			Text:      call.VideoURI,
			Fields: []slack.AttachmentField{{
				Title: "Join by phone",
				Value: fmt.Sprintf("<%s,,%s%%23|%s PIN: %s#>", call.PhoneURI, call.PIN, call.PhoneLabel, call.PIN),
			}},
			Actions: []slack.AttachmentAction{{
				Type:  "button",
				Text:  "Join Conference Call",
				URL:   call.VideoURI,
				Style: "primary",
			}},
			Footer: fmt.Sprintf("Not in %s? More phone numbers at %s", call.RegionCode, call.MoreURI),
		}},
	}
}

// NotesDocument links the incident's notes document.
func NotesDocument(documentURL string) Message {
	return Message{
		Username:  "During the incident",
		IconEmoji: ":pencil:",
		Parse:     "full",
		LinkNames: true,
		Attachments: []slack.Attachment{{
			Color:     colorBlue,
			Title:     "Notes & Actions",
			TitleLink: documentURL,
			Text:      documentURL,
			Footer: "Use this document to maintain a timeline of key events during an incident. " +
				"Document actions, and keep track of any followup items that will need to be addressed.",
		}},
	}
}

// FollowupsEpic links the incident's follow-up epic.
func FollowupsEpic(epicURL string) Message {
	return Message{
		Username:  "After the incident",
		IconEmoji: ":dart:",
		Parse:     "full",
		LinkNames: true,
		Attachments: []slack.Attachment{{
			Color:     colorOrange,
			Title:     "Discuss and track follow-up actions",
			TitleLink: epicURL,
			Text:      epicURL,
			Footer:    "Remember: Don't Neglect the Post-Mortem!",
		}},
	}
}

// ManagerJoiningSoon tells the incident channel that the paged
// incident manager has acknowledged and is on their way.
func ManagerJoiningSoon(managerName string) Message {
	emoji := ":male-firefighter:"
	if rand.IntN(2) == 0 {
		emoji = ":female-firefighter:"
	}
	return Message{
		Username:  "Incident Manager",
		IconEmoji: emoji,
		Parse:     "full",
		LinkNames: true,
		Attachments: []slack.Attachment{{
			Color: colorRed,
			Text:  managerName + " will join soon as incident manager. Please join the conference call. See pinned messages for details.",
		}},
	}
}
