// Package identity carries the per-request shopper identity. The credential is
// never inspected here; its presence alone decides which cart backing serves
// the request, and the raw value is forwarded to the backend untouched.
package identity

import (
	"context"
	"net/http"
	"strings"
)

// Session identifies the shopper behind one request: a stable device id plus
// an optional bearer credential. It is a value, constructed per request, so an
// identity change mid-flight can never leak into another request.
type Session struct {
	DeviceID   string
	Credential string
}

// Authenticated reports whether the request carried a credential.
func (s Session) Authenticated() bool {
	return s.Credential != ""
}

// FromRequest builds a Session from the device header and Authorization
// header. A missing device id yields a zero DeviceID; the handler layer
// rejects those requests.
func FromRequest(r *http.Request) Session {
	sess := Session{DeviceID: r.Header.Get("X-Device-ID")}

	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok && token != "" {
		sess.Credential = token
	}

	return sess
}

type contextKey struct{}

// NewContext stores the session in the context.
func NewContext(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session stored by NewContext and whether one exists.
func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(contextKey{}).(Session)
	return sess, ok
}
