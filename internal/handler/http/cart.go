package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/internal/identity"
	"github.com/cartedge/coursecart/internal/reconciler"
	"github.com/cartedge/coursecart/internal/selector"
	"github.com/cartedge/coursecart/pkg/httputil"
	"github.com/cartedge/coursecart/pkg/validator"
)

// CartService is the reconciler surface the cart handler needs.
type CartService interface {
	ActiveCart(ctx context.Context, sess identity.Session) (*domain.Cart, error)
	AddItem(ctx context.Context, sess identity.Session, item domain.CartItem) (*domain.Cart, error)
	RemoveItem(ctx context.Context, sess identity.Session, courseID, sessionID string) (*domain.Cart, error)
	Clear(ctx context.Context, sess identity.Session) error
	OnAuthenticated(ctx context.Context, sess identity.Session) (*reconciler.MergeOutcome, error)
}

// CourseReader fetches one course for selection resolution.
type CourseReader interface {
	GetCourse(ctx context.Context, courseID string) (*domain.Course, error)
}

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	carts   CartService
	catalog CourseReader
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(carts CartService, catalog CourseReader, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a course session to the
// cart. The price is never taken from the client; the catalog and selection
// chain decide it server-side.
type AddItemRequest struct {
	CourseID   string `json:"course_id" validate:"required"`
	SessionID  string `json:"session_id" validate:"required"`
	LocationID string `json:"location_id"`
}

// --- Response DTOs ---

type cartView struct {
	Items     []domain.CartItem `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     int64             `json:"total"`
}

func viewOf(cart *domain.Cart) cartView {
	items := cart.Items
	if items == nil {
		items = []domain.CartItem{}
	}
	return cartView{
		Items:     items,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
	}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, _ := identity.FromContext(r.Context())

	cart, err := h.carts.ActiveCart(r.Context(), sess)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(cart)})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := identity.FromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	course, err := h.catalog.GetCourse(r.Context(), req.CourseID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	resolved, err := selector.Resolve(course, req.SessionID, req.LocationID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	cart, err := h.carts.AddItem(r.Context(), sess, resolved.CartItem())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(cart)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{courseID}/{sessionID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, _ := identity.FromContext(r.Context())

	courseID := chi.URLParam(r, "courseID")
	sessionID := chi.URLParam(r, "sessionID")
	if courseID == "" || sessionID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "courseID and sessionID are required"},
		})
		return
	}

	cart, err := h.carts.RemoveItem(r.Context(), sess, courseID, sessionID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: viewOf(cart)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sess, _ := identity.FromContext(r.Context())

	if err := h.carts.Clear(r.Context(), sess); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// MergeCart handles POST /api/v1/cart/merge. The storefront calls it right
// after sign-in, with the fresh credential attached.
func (h *CartHandler) MergeCart(w http.ResponseWriter, r *http.Request) {
	sess, _ := identity.FromContext(r.Context())

	outcome, err := h.carts.OnAuthenticated(r.Context(), sess)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: outcome})
}
