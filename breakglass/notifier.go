// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package breakglass

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/firewatch-foundation/firewatch/chat"
)

// Notifier turns denials into user-visible messages. Window
// expiry is announced in the incident channel itself; every other
// denial goes to the requester directly.
type Notifier struct {
	Chat   Chat
	DryRun bool
	Logger *slog.Logger
}

// Notice returns the destination and message for one denial.
func (n *Notifier) Notice(request Request, denial Denial) (string, chat.Message) {
	switch denial {
	case DenialShortJustification:
		return request.UserID, chat.DenialMessage(
			"You need to specify a description when using /break-glass. Use like: /break-glass I want superpowers!")
	case DenialNoActiveIncident:
		return request.UserID, chat.DenialMessage(
			"There's no active incidents, you can't break the glass.")
	case DenialNotBotChannel:
		return request.UserID, chat.DenialMessage(
			"This command can be used only on channels created by the bot. Break glass won't work here.")
	case DenialWindowExpired:
		return request.ChannelID, chat.DenialMessage(
			fmt.Sprintf("%s cannot break the glass anymore. Time has passed.", request.UserName))
	}
	return request.UserID, chat.DenialMessage(fmt.Sprintf("Break glass refused: %s.", denial))
}

// Notify posts one message per denial. Post failures are logged and
// do not stop the remaining notifications.
func (n *Notifier) Notify(ctx context.Context, request Request, denials []Denial) {
	for _, denial := range denials {
		destination, message := n.Notice(request, denial)
		if n.DryRun {
			n.Logger.Info("dry run: would post denial", "denial", denial, "channel", destination)
			continue
		}
		if err := n.Chat.PostMessage(ctx, destination, message); err != nil {
			n.Logger.Error("posting denial notice", "denial", denial, "channel", destination, "error", err)
		}
	}
}
