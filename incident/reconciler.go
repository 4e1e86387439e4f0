// Copyright 2026 The Firewatch Authors
// SPDX-License-Identifier: Apache-2.0

package incident

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/firewatch-foundation/firewatch/chat"
	"github.com/firewatch-foundation/firewatch/tracker"
)

// ReconcilerConfig holds configuration for creating a Reconciler.
type ReconcilerConfig struct {
	// Tracker, Chat and Directory are the reconciler's collaborators.
	// All required.
	Tracker   Tracker
	Chat      Chat
	Directory Directory

	// DryRun logs removals instead of performing them.
	DryRun bool

	// Logger is used for structured logging. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// Reconciler revokes access-group membership when an incident
// resolves. It keeps no state; every run re-reads the tracker, the
// chat platform and the directory.
type Reconciler struct {
	tracker   Tracker
	chat      Chat
	directory Directory
	dryRun    bool
	logger    *slog.Logger
}

// NewReconciler creates a Reconciler from the given configuration.
func NewReconciler(config ReconcilerConfig) (*Reconciler, error) {
	if config.Tracker == nil || config.Chat == nil || config.Directory == nil {
		return nil, fmt.Errorf("incident: Tracker, Chat and Directory are required")
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Reconciler{
		tracker:   config.Tracker,
		chat:      config.Chat,
		directory: config.Directory,
		dryRun:    config.DryRun,
		logger:    config.Logger,
	}, nil
}

// Reconcile handles the resolution of the incident that owned
// channelID. With no incidents left active the whole access group is
// cleared. Otherwise members of the resolved channel are removed
// unless a still-active incident's channel also contains them. Either
// way a resolution notice lands in the resolved channel.
//
// When the protected member set cannot be fully computed no removal
// happens at all: an incomplete set could revoke an active responder.
func (r *Reconciler) Reconcile(ctx context.Context, channelID string) error {
	actives, err := r.tracker.ListActiveIncidents(ctx)
	if err != nil {
		r.postNotice(ctx, channelID)
		return fmt.Errorf("incident: listing active incidents: %w", err)
	}

	if len(actives) == 0 {
		if r.dryRun {
			r.logger.Info("dry run: would clear access group")
		} else if err := r.directory.ClearMembers(ctx); err != nil {
			r.postNotice(ctx, channelID)
			return fmt.Errorf("incident: clearing access group: %w", err)
		}
		r.logger.Info("access group cleared, no incidents left active", "channel", channelID)
		r.postNotice(ctx, channelID)
		return nil
	}

	protected, err := r.protectedMembers(ctx, actives)
	if err != nil {
		r.postNotice(ctx, channelID)
		return err
	}

	candidates, err := r.chat.ChannelMembers(ctx, channelID)
	if err != nil {
		r.postNotice(ctx, channelID)
		return fmt.Errorf("incident: listing resolved channel members: %w", err)
	}

	var wg sync.WaitGroup
	for _, member := range candidates {
		if protected[member] {
			continue
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.remove(ctx, member)
		}()
	}
	wg.Wait()

	r.postNotice(ctx, channelID)
	return nil
}

// protectedMembers unions the member sets of every active incident's
// channel. Incidents without a channel protect nobody; any other
// lookup failure fails the whole computation.
func (r *Reconciler) protectedMembers(ctx context.Context, actives []tracker.Incident) (map[string]bool, error) {
	var (
		mu        sync.Mutex
		protected = map[string]bool{}
		firstErr  error
	)

	var wg sync.WaitGroup
	for _, active := range actives {
		wg.Add(1)
		go func() {
			defer wg.Done()

			detail, err := r.tracker.IncidentDetail(ctx, active.ID)
			if err != nil {
				if tracker.IsNotFound(err) {
					r.logger.Debug("active incident has no channel", "incident", active.ID)
					return
				}
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("incident: detail for %s: %w", active.ID, err)
				}
				mu.Unlock()
				return
			}
			if detail.ChannelID == "" {
				return
			}

			members, err := r.chat.ChannelMembers(ctx, detail.ChannelID)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("incident: members of %s: %w", detail.ChannelID, err)
				}
				mu.Unlock()
				return
			}

			mu.Lock()
			for _, member := range members {
				protected[member] = true
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return protected, nil
}

// remove revokes one member. Members without a resolvable email (bots,
// apps) are skipped; a directory failure is logged and the rest of
// the removals continue.
func (r *Reconciler) remove(ctx context.Context, member string) {
	email, err := r.chat.UserEmail(ctx, member)
	if err != nil {
		r.logger.Debug("skipping member without resolvable profile", "member", member, "error", err)
		return
	}
	if email == "" {
		return
	}
	if r.dryRun {
		r.logger.Info("dry run: would remove access-group member", "email", email)
		return
	}
	if err := r.directory.RemoveMember(ctx, email); err != nil {
		r.logger.Error("removing access-group member", "email", email, "error", err)
		return
	}
	r.logger.Info("removed access-group member", "email", email)
}

func (r *Reconciler) postNotice(ctx context.Context, channelID string) {
	if r.dryRun {
		r.logger.Info("dry run: would post resolution notice", "channel", channelID)
		return
	}
	if err := r.chat.PostMessage(ctx, channelID, chat.ResolutionNotice()); err != nil {
		r.logger.Error("posting resolution notice", "channel", channelID, "error", err)
	}
}
