package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/internal/gateway"
	"github.com/cartedge/coursecart/internal/identity"
	"github.com/cartedge/coursecart/pkg/httputil"
)

// CheckoutService is the orchestrator surface the checkout handler needs.
type CheckoutService interface {
	Checkout(ctx context.Context, sess identity.Session, profile domain.CheckoutProfile) (*gateway.OrderResult, error)
	InitiatePayment(ctx context.Context, sess identity.Session, orderID string) (*gateway.PaymentResult, error)
}

// CheckoutHandler handles HTTP requests for checkout and payment endpoints.
type CheckoutHandler struct {
	checkout CheckoutService
	logger   *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(checkout CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		logger:   logger,
	}
}

// CheckoutRequest is the JSON request body for starting a checkout. Field
// completeness is enforced by the orchestrator so the same rules apply to
// every caller.
type CheckoutRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// PaymentRequest is the JSON request body for initiating payment.
type PaymentRequest struct {
	OrderID string `json:"order_id"`
}

// Checkout handles POST /api/v1/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, _ := identity.FromContext(r.Context())

	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	profile := domain.CheckoutProfile{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	}

	result, err := h.checkout.Checkout(r.Context(), sess, profile)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: result})
}

// Payment handles POST /api/v1/payment
func (h *CheckoutHandler) Payment(w http.ResponseWriter, r *http.Request) {
	sess, _ := identity.FromContext(r.Context())

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	result, err := h.checkout.InitiatePayment(r.Context(), sess, req.OrderID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}
