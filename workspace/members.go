// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// AddMember adds an email address to the elevated-access group.
// Adding an existing member is a no-op at the directory, which keeps
// concurrent grants harmless. The admin flag controls the Workspace
// role; break-glass grants are always non-admin.
func (client *Client) AddMember(ctx context.Context, email string, admin bool) error {
	_, err := client.do(ctx, http.MethodPost, "/members/", map[string]any{
		"email": email,
		"admin": admin,
	})
	return err
}

// RemoveMember removes an email address from the elevated-access
// group.
func (client *Client) RemoveMember(ctx context.Context, email string) error {
	_, err := client.do(ctx, http.MethodDelete, "/members/"+url.PathEscape(email), nil)
	return err
}

// ListMembers returns the current member emails of the elevated-access
// group.
func (client *Client) ListMembers(ctx context.Context) ([]string, error) {
	body, err := client.do(ctx, http.MethodGet, "/members/", nil)
	if err != nil {
		return nil, err
	}
	var listing struct {
		Members []string `json:"members"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, err
	}
	return listing.Members, nil
}

// ClearMembers removes every member of the elevated-access group.
// Used when the last active incident resolves: with nothing left to
// preserve membership against, a full clear replaces the per-member
// diff.
func (client *Client) ClearMembers(ctx context.Context) error {
	_, err := client.do(ctx, http.MethodDelete, "/members/", nil)
	return err
}
