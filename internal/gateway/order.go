package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/internal/identity"
	apperrors "github.com/cartedge/coursecart/pkg/errors"
	"github.com/cartedge/coursecart/pkg/httpclient"
)

// OrderResult is the backend's answer to a successful checkout. It is the
// only thing the payment stage ever sees.
type OrderResult struct {
	OrderID    string `json:"order_id"`
	TotalPrice int64  `json:"total_price"`
}

type checkoutRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type paymentRequest struct {
	OrderID string `json:"order_id"`
}

// PaymentResult carries whatever hand-off reference the payment provider
// returned through the backend.
type PaymentResult struct {
	PaymentID   string `json:"payment_id"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Status      string `json:"status,omitempty"`
}

// CreateOrder converts the authenticated cart into an order. A backend
// rejection surfaces as OrderCreationFailed with the backend's own message
// kept word for word.
func (g *CartGateway) CreateOrder(ctx context.Context, sess identity.Session, profile domain.CheckoutProfile) (*OrderResult, error) {
	body := checkoutRequest{
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Email:     profile.Email,
		Phone:     profile.Phone,
	}

	req, err := g.newRequest(ctx, sess, http.MethodPost, "/api/orders/checkout/", body)
	if err != nil {
		return nil, err
	}

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.OrderCreationFailed(err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apperrors.OrderCreationFailed(backendMessage(resp))
	}

	var result OrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.OrderCreationFailed(fmt.Sprintf("decode order response: %v", err))
	}
	if result.OrderID == "" {
		return nil, apperrors.OrderCreationFailed("backend returned an order without an id")
	}

	return &result, nil
}

// InitiatePayment hands the order to the payment flow. Only the order id
// crosses this boundary.
func (g *CartGateway) InitiatePayment(ctx context.Context, sess identity.Session, orderID string) (*PaymentResult, error) {
	req, err := g.newRequest(ctx, sess, http.MethodPost, "/api/payments/payment/", paymentRequest{OrderID: orderID})
	if err != nil {
		return nil, err
	}

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("initiate payment: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, httpclient.ParseResponseError(resp, "initiate payment")
	}

	var result PaymentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}

	return &result, nil
}

// backendMessage extracts the backend's error text for verbatim surfacing,
// falling back to the raw body.
func backendMessage(resp *http.Response) string {
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(bodyBytes) == 0 {
		return fmt.Sprintf("backend returned status %d", resp.StatusCode)
	}

	var parsed struct {
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
		Detail string `json:"detail"`
	}
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return parsed.Error.Message
		}
		if parsed.Detail != "" {
			return parsed.Detail
		}
	}

	return string(bodyBytes)
}
