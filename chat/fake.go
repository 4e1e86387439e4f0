// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package chat

import (
	"context"
	"fmt"
	"sync"
)

// Fake is an in-memory chat platform for tests. Configure the lookup
// maps, run the code under test, then inspect Posts and Invites.
// Safe for concurrent use.
type Fake struct {
	mu sync.Mutex

	// UserID is the bot's own user ID.
	UserID string

	// Creators maps channel ID to creator user ID.
	Creators map[string]string

	// Members maps channel ID to member user IDs.
	Members map[string][]string

	// Emails maps user ID to profile email.
	Emails map[string]string

	// Err, when set, is returned by every lookup.
	Err error

	// Posts records every message posted, in order.
	Posts []Post

	// Invites records every invite issued.
	Invites []Invite

	nextChannel int
}

// Post is one recorded PostMessage call.
type Post struct {
	ChannelID string
	Message   Message
}

// Invite is one recorded InviteUsers call.
type Invite struct {
	ChannelID string
	UserIDs   []string
}

func (f *Fake) SelfUserID(ctx context.Context) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.UserID, nil
}

func (f *Fake) ChannelCreator(ctx context.Context, channelID string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	creator, ok := f.Creators[channelID]
	if !ok {
		return "", fmt.Errorf("chat: conversations.info %s: channel_not_found", channelID)
	}
	return creator, nil
}

func (f *Fake) ChannelMembers(ctx context.Context, channelID string) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	members, ok := f.Members[channelID]
	if !ok {
		return nil, fmt.Errorf("chat: conversations.members %s: channel_not_found", channelID)
	}
	return members, nil
}

func (f *Fake) UserEmail(ctx context.Context, userID string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	return f.Emails[userID], nil
}

func (f *Fake) CreateChannel(ctx context.Context, name, topic, creatorUserID string, private bool) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	f.mu.Lock()
	f.nextChannel++
	channelID := fmt.Sprintf("C%04d", f.nextChannel)
	f.mu.Unlock()
	if creatorUserID != "" {
		if err := f.InviteUsers(ctx, channelID, creatorUserID); err != nil {
			return "", err
		}
	}
	return channelID, nil
}

func (f *Fake) InviteUsers(ctx context.Context, channelID string, userIDs ...string) error {
	if f.Err != nil {
		return f.Err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Invites = append(f.Invites, Invite{ChannelID: channelID, UserIDs: userIDs})
	return nil
}

func (f *Fake) PostMessage(ctx context.Context, channelID string, message Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Posts = append(f.Posts, Post{ChannelID: channelID, Message: message})
	return nil
}

func (f *Fake) DeepLink(channelID string) string {
	return "slack://channel?team=TFAKE&id=" + channelID
}

func (f *Fake) DeepLinkURL(channelID string) string {
	return "https://slack.com/app_redirect?team=TFAKE&channel=" + channelID
}

// PostsTo returns the recorded posts to a single channel.
func (f *Fake) PostsTo(channelID string) []Post {
	f.mu.Lock()
	defer f.mu.Unlock()
	var posts []Post
	for _, post := range f.Posts {
		if post.ChannelID == channelID {
			posts = append(posts, post)
		}
	}
	return posts
}
