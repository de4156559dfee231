package http

import (
	"net/http"
	"strings"

	"github.com/cartedge/coursecart/internal/identity"
	"github.com/cartedge/coursecart/pkg/httputil"
)

// SessionFromHeaders builds the per-request identity from X-Device-ID and the
// Authorization header and stores it in the context. Requests without a
// device id are rejected; every shopper, guest or signed-in, must present one.
func SessionFromHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := identity.FromRequest(r)
		if sess.DeviceID == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Device-ID header is required"},
			})
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.NewContext(r.Context(), sess)))
	})
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
