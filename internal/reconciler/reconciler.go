// Package reconciler is the single answer to "what is the cart right now".
// The guest store and the remote cart never both serve one request: the
// credential's presence on the request identity decides, call by call.
package reconciler

import (
	"context"
	"log/slog"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/internal/event"
	"github.com/cartedge/coursecart/internal/identity"
	apperrors "github.com/cartedge/coursecart/pkg/errors"
	"github.com/cartedge/coursecart/pkg/logger"
)

// MergeOutcome summarizes what a login-time merge did.
type MergeOutcome struct {
	MergedCount int  `json:"merged_count"`
	Skipped     bool `json:"skipped"`
}

// Reconciler routes cart operations to the backing selected by the request
// identity and runs the guest-to-account merge on login.
type Reconciler struct {
	guest  guestBacking
	remote remoteBacking
	events event.Publisher
}

// New creates a reconciler over the two cart backings.
func New(store GuestStore, remote RemoteCart, events event.Publisher) *Reconciler {
	if events == nil {
		events = event.NopPublisher{}
	}
	return &Reconciler{
		guest:  guestBacking{store: store},
		remote: remoteBacking{remote: remote},
		events: events,
	}
}

// backingFor selects the backing from the identity. The choice is made fresh
// on every call; nothing is cached across identity transitions.
func (r *Reconciler) backingFor(sess identity.Session) CartBacking {
	if sess.Authenticated() {
		return r.remote
	}
	return r.guest
}

// ActiveCart returns the current cart for this identity.
func (r *Reconciler) ActiveCart(ctx context.Context, sess identity.Session) (*domain.Cart, error) {
	items, err := r.backingFor(sess).Load(ctx, sess)
	if err != nil {
		return nil, err
	}
	return &domain.Cart{Items: items}, nil
}

// AddItem places an item in the active cart and reports the resulting cart.
func (r *Reconciler) AddItem(ctx context.Context, sess identity.Session, item domain.CartItem) (*domain.Cart, error) {
	if err := r.backingFor(sess).Add(ctx, sess, item); err != nil {
		return nil, err
	}

	cart, err := r.ActiveCart(ctx, sess)
	if err != nil {
		return nil, err
	}

	r.events.CartUpdated(ctx, event.CartUpdatedData{
		DeviceID:      sess.DeviceID,
		Authenticated: sess.Authenticated(),
		Items:         cart.Items,
		ItemCount:     cart.ItemCount(),
		Total:         cart.Total(),
	})

	return cart, nil
}

// RemoveItem removes an item from the active cart. Removing an absent item
// succeeds on both backings.
func (r *Reconciler) RemoveItem(ctx context.Context, sess identity.Session, courseID, sessionID string) (*domain.Cart, error) {
	if err := r.backingFor(sess).Remove(ctx, sess, courseID, sessionID); err != nil {
		return nil, err
	}

	cart, err := r.ActiveCart(ctx, sess)
	if err != nil {
		return nil, err
	}

	r.events.CartUpdated(ctx, event.CartUpdatedData{
		DeviceID:      sess.DeviceID,
		Authenticated: sess.Authenticated(),
		Items:         cart.Items,
		ItemCount:     cart.ItemCount(),
		Total:         cart.Total(),
	})

	return cart, nil
}

// Clear empties the active cart.
func (r *Reconciler) Clear(ctx context.Context, sess identity.Session) error {
	if err := r.backingFor(sess).Clear(ctx, sess); err != nil {
		return err
	}

	r.events.CartCleared(ctx, event.CartClearedData{
		DeviceID:      sess.DeviceID,
		Authenticated: sess.Authenticated(),
	})

	return nil
}

// OnAuthenticated runs the login-transition merge:
//
//  1. load the guest items; an empty guest cart skips the merge entirely,
//     with zero backend calls;
//  2. send the full list in one batched merge request;
//  3. only a confirmed merge clears the guest store;
//  4. on failure the guest store is untouched, so the call is retry-safe.
func (r *Reconciler) OnAuthenticated(ctx context.Context, sess identity.Session) (*MergeOutcome, error) {
	if !sess.Authenticated() {
		return nil, apperrors.Unauthorized("merge requires a credential")
	}

	items, err := r.guest.Load(ctx, sess)
	if err != nil {
		return nil, apperrors.MergeFailed(err)
	}

	if len(items) == 0 {
		return &MergeOutcome{Skipped: true}, nil
	}

	if err := r.remote.remote.Merge(ctx, sess, items); err != nil {
		return nil, err
	}

	if err := r.guest.Clear(ctx, sess); err != nil {
		// The backend has the items; a stale guest blob only means the next
		// merge resends them, which the backend de-duplicates.
		logger.FromContext(ctx).Warn("guest cart clear after merge failed",
			slog.String("device_id", sess.DeviceID),
			slog.String("error", err.Error()),
		)
	}

	r.events.CartMerged(ctx, event.CartMergedData{
		DeviceID:    sess.DeviceID,
		MergedCount: len(items),
	})

	return &MergeOutcome{MergedCount: len(items)}, nil
}
