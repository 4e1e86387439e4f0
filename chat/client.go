// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/slack-go/slack"
)

// Config holds configuration for creating a chat Client.
type Config struct {
	// Token is the bot token ("xoxb-..."). Required.
	Token string

	// TeamID is the Slack workspace ID, used to build deep links into
	// incident channels. Required.
	TeamID string

	// APIURL overrides the Slack Web API base URL. Defaults to the
	// public API. Must end in a slash when set.
	APIURL string

	// HTTPClient is used for all HTTP requests. Defaults to
	// http.DefaultClient.
	HTTPClient *http.Client

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Client talks to the Slack Web API.
type Client struct {
	api    *slack.Client
	teamID string
	logger *slog.Logger

	mu         sync.Mutex
	selfUserID string
}

// NewClient creates a Slack client from the given configuration.
func NewClient(config Config) (*Client, error) {
	if config.Token == "" {
		return nil, fmt.Errorf("chat: Token is required")
	}
	if config.TeamID == "" {
		return nil, fmt.Errorf("chat: TeamID is required")
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	options := []slack.Option{slack.OptionHTTPClient(httpClient)}
	if config.APIURL != "" {
		options = append(options, slack.OptionAPIURL(config.APIURL))
	}

	return &Client{
		api:    slack.New(config.Token, options...),
		teamID: config.TeamID,
		logger: logger,
	}, nil
}

// SelfUserID resolves the bot's own user ID: auth.test yields the
// bot ID, bots.info maps it to the user ID that shows up as channel
// creator. The result is cached for the life of the client.
func (client *Client) SelfUserID(ctx context.Context) (string, error) {
	client.mu.Lock()
	defer client.mu.Unlock()
	if client.selfUserID != "" {
		return client.selfUserID, nil
	}

	identity, err := client.api.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("chat: auth.test: %w", err)
	}
	userID := identity.UserID
	if identity.BotID != "" {
		bot, err := client.api.GetBotInfoContext(ctx, slack.GetBotInfoParameters{Bot: identity.BotID})
		if err != nil {
			return "", fmt.Errorf("chat: bots.info %s: %w", identity.BotID, err)
		}
		userID = bot.UserID
	}
	if userID == "" {
		return "", fmt.Errorf("chat: could not resolve own user ID")
	}

	client.selfUserID = userID
	return userID, nil
}

// ChannelCreator returns the user ID that created the channel.
func (client *Client) ChannelCreator(ctx context.Context, channelID string) (string, error) {
	channel, err := client.api.GetConversationInfoContext(ctx, &slack.GetConversationInfoInput{
		ChannelID: channelID,
	})
	if err != nil {
		return "", fmt.Errorf("chat: conversations.info %s: %w", channelID, err)
	}
	return channel.Creator, nil
}

// ChannelMembers returns the user IDs present in the channel,
// following cursor pagination to the end.
func (client *Client) ChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	var members []string
	cursor := ""
	for {
		page, next, err := client.api.GetUsersInConversationContext(ctx, &slack.GetUsersInConversationParameters{
			ChannelID: channelID,
			Cursor:    cursor,
		})
		if err != nil {
			return nil, fmt.Errorf("chat: conversations.members %s: %w", channelID, err)
		}
		members = append(members, page...)
		if next == "" {
			return members, nil
		}
		cursor = next
	}
}

// UserEmail resolves a user ID to the email on their profile. Bot and
// app users have no email; the empty string is not an error.
func (client *Client) UserEmail(ctx context.Context, userID string) (string, error) {
	profile, err := client.api.GetUserProfileContext(ctx, &slack.GetUserProfileParameters{
		UserID: userID,
	})
	if err != nil {
		return "", fmt.Errorf("chat: users.profile.get %s: %w", userID, err)
	}
	return profile.Email, nil
}

// CreateChannel creates an incident channel, sets its topic and
// invites the creator. Returns the new channel's ID.
func (client *Client) CreateChannel(ctx context.Context, name, topic, creatorUserID string, private bool) (string, error) {
	channel, err := client.api.CreateConversationContext(ctx, slack.CreateConversationParams{
		ChannelName: name,
		IsPrivate:   private,
	})
	if err != nil {
		return "", fmt.Errorf("chat: conversations.create %s: %w", name, err)
	}

	if _, err := client.api.SetTopicOfConversationContext(ctx, channel.ID, topic); err != nil {
		client.logger.Error("setting channel topic", "channel", channel.ID, "error", err)
	}
	if creatorUserID != "" {
		if err := client.InviteUsers(ctx, channel.ID, creatorUserID); err != nil {
			client.logger.Error("inviting incident creator", "channel", channel.ID, "error", err)
		}
	}
	return channel.ID, nil
}

// InviteUsers invites the given users to the channel.
func (client *Client) InviteUsers(ctx context.Context, channelID string, userIDs ...string) error {
	if len(userIDs) == 0 {
		return nil
	}
	if _, err := client.api.InviteUsersToConversationContext(ctx, channelID, userIDs...); err != nil {
		return fmt.Errorf("chat: conversations.invite %s: %w", channelID, err)
	}
	return nil
}

// PostMessage posts a message to a channel (or, given a user ID, to
// the bot's DM with that user), pinning it when the message asks.
func (client *Client) PostMessage(ctx context.Context, channelID string, message Message) error {
	params := slack.PostMessageParameters{
		Username:  message.Username,
		IconEmoji: message.IconEmoji,
		Parse:     message.Parse,
		Markdown:  true,
	}
	if message.LinkNames {
		params.LinkNames = 1
	}

	options := []slack.MsgOption{slack.MsgOptionPostMessageParameters(params)}
	if message.Text != "" {
		options = append(options, slack.MsgOptionText(message.Text, false))
	}
	if len(message.Attachments) > 0 {
		options = append(options, slack.MsgOptionAttachments(message.Attachments...))
	}

	postedChannel, timestamp, err := client.api.PostMessageContext(ctx, channelID, options...)
	if err != nil {
		return fmt.Errorf("chat: chat.postMessage %s: %w", channelID, err)
	}

	if message.Pin {
		if err := client.api.AddPinContext(ctx, postedChannel, slack.NewRefToMessage(postedChannel, timestamp)); err != nil {
			client.logger.Error("pinning message", "channel", postedChannel, "error", err)
		}
	}
	return nil
}

// DeepLink returns the native deep link into a channel.
func (client *Client) DeepLink(channelID string) string {
	return "slack://channel?team=" + client.teamID + "&id=" + channelID
}

// DeepLinkURL returns the https redirect deep link into a channel.
func (client *Client) DeepLinkURL(channelID string) string {
	return "https://slack.com/app_redirect?team=" + client.teamID + "&channel=" + channelID
}
