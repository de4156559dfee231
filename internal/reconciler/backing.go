package reconciler

import (
	"context"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/internal/identity"
)

// CartBacking is the capability every cart storage offers. The reconciler
// picks one per call from the request identity and never holds on to it.
type CartBacking interface {
	Load(ctx context.Context, sess identity.Session) ([]domain.CartItem, error)
	Add(ctx context.Context, sess identity.Session, item domain.CartItem) error
	Remove(ctx context.Context, sess identity.Session, courseID, sessionID string) error
	Clear(ctx context.Context, sess identity.Session) error
}

// GuestStore is the device-keyed guest cart storage.
type GuestStore interface {
	Load(ctx context.Context, deviceID string) ([]domain.CartItem, error)
	Append(ctx context.Context, deviceID string, item domain.CartItem) error
	Remove(ctx context.Context, deviceID, courseID, sessionID string) error
	Clear(ctx context.Context, deviceID string) error
}

// RemoteCart is the authenticated server-side cart.
type RemoteCart interface {
	Fetch(ctx context.Context, sess identity.Session) ([]domain.CartItem, error)
	Add(ctx context.Context, sess identity.Session, item domain.CartItem) error
	Remove(ctx context.Context, sess identity.Session, courseID, sessionID string) error
	Clear(ctx context.Context, sess identity.Session) error
	Merge(ctx context.Context, sess identity.Session, items []domain.CartItem) error
}

// guestBacking adapts the guest store to the CartBacking capability.
type guestBacking struct {
	store GuestStore
}

func (b guestBacking) Load(ctx context.Context, sess identity.Session) ([]domain.CartItem, error) {
	return b.store.Load(ctx, sess.DeviceID)
}

func (b guestBacking) Add(ctx context.Context, sess identity.Session, item domain.CartItem) error {
	return b.store.Append(ctx, sess.DeviceID, item)
}

func (b guestBacking) Remove(ctx context.Context, sess identity.Session, courseID, sessionID string) error {
	return b.store.Remove(ctx, sess.DeviceID, courseID, sessionID)
}

func (b guestBacking) Clear(ctx context.Context, sess identity.Session) error {
	return b.store.Clear(ctx, sess.DeviceID)
}

// remoteBacking adapts the cart gateway to the CartBacking capability.
type remoteBacking struct {
	remote RemoteCart
}

func (b remoteBacking) Load(ctx context.Context, sess identity.Session) ([]domain.CartItem, error) {
	return b.remote.Fetch(ctx, sess)
}

func (b remoteBacking) Add(ctx context.Context, sess identity.Session, item domain.CartItem) error {
	return b.remote.Add(ctx, sess, item)
}

func (b remoteBacking) Remove(ctx context.Context, sess identity.Session, courseID, sessionID string) error {
	return b.remote.Remove(ctx, sess, courseID, sessionID)
}

func (b remoteBacking) Clear(ctx context.Context, sess identity.Session) error {
	return b.remote.Clear(ctx, sess)
}
