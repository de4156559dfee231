// Package gateway mirrors the signed-in shopper's server-side cart and drives
// order creation and payment hand-off on the storefront backend. Every call
// attaches the request's credential; calling any method without one is a
// contract violation answered with a typed unauthorized error before the
// network is touched.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/internal/identity"
	apperrors "github.com/cartedge/coursecart/pkg/errors"
	"github.com/cartedge/coursecart/pkg/httpclient"
)

// Doer executes a backend HTTP request.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// CartGateway is the remote cart client.
type CartGateway struct {
	http    Doer
	baseURL string
}

// NewCartGateway creates a gateway against the backend base URL.
func NewCartGateway(http Doer, baseURL string) *CartGateway {
	return &CartGateway{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type cartResponse struct {
	Items []domain.CartItem `json:"items"`
}

type mergeRequest struct {
	Items []domain.CartItem `json:"items"`
}

func (g *CartGateway) newRequest(ctx context.Context, sess identity.Session, method, path string, body any) (*http.Request, error) {
	if !sess.Authenticated() {
		return nil, apperrors.Unauthorized("cart gateway requires a credential")
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, g.baseURL+path, http.NoBody)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s %s request: %w", method, path, err)
	}

	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+sess.Credential)

	return req, nil
}

// Fetch returns the authenticated cart. Any transport or decode failure is a
// FetchFailed error so callers can tell "unknown" from "authoritatively
// empty"; an empty item list from a 200 is the latter.
func (g *CartGateway) Fetch(ctx context.Context, sess identity.Session) ([]domain.CartItem, error) {
	req, err := g.newRequest(ctx, sess, http.MethodGet, "/api/cart/", nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return nil, apperrors.FetchFailed(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, httpclient.ParseResponseError(resp, "fetch cart")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.FetchFailed(httpclient.ParseResponseError(resp, "fetch cart"))
	}

	var cart cartResponse
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return nil, apperrors.FetchFailed(fmt.Errorf("decode cart: %w", err))
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}

	return cart.Items, nil
}

// Add places one item in the server cart. A backend-rejected duplicate comes
// back as DuplicateItem; it is user-visible, non-fatal, and never retried here.
func (g *CartGateway) Add(ctx context.Context, sess identity.Session, item domain.CartItem) error {
	req, err := g.newRequest(ctx, sess, http.MethodPost, "/api/cart/", item)
	if err != nil {
		return err
	}

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusConflict {
		return apperrors.DuplicateItem(item.CourseID, item.SessionID)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return httpclient.ParseResponseError(resp, "add cart item")
	}

	return nil
}

// Remove deletes one item from the server cart. The backend treats removal of
// an absent item as success, and so does this method.
func (g *CartGateway) Remove(ctx context.Context, sess identity.Session, courseID, sessionID string) error {
	path := fmt.Sprintf("/api/cart/%s/%s", courseID, sessionID)
	req, err := g.newRequest(ctx, sess, http.MethodDelete, path, nil)
	if err != nil {
		return err
	}

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent, http.StatusNotFound:
		return nil
	default:
		return httpclient.ParseResponseError(resp, "remove cart item")
	}
}

// Clear empties the server cart.
func (g *CartGateway) Clear(ctx context.Context, sess identity.Session) error {
	req, err := g.newRequest(ctx, sess, http.MethodDelete, "/api/cart/", nil)
	if err != nil {
		return err
	}

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "clear cart")
	}

	return nil
}

// Merge sends the full guest item list in one request. The backend applies it
// all-or-nothing; any failure leaves both carts untouched and surfaces as
// MergeFailed so the caller can keep the guest copy for retry.
func (g *CartGateway) Merge(ctx context.Context, sess identity.Session, items []domain.CartItem) error {
	req, err := g.newRequest(ctx, sess, http.MethodPost, "/api/cart/merge/", mergeRequest{Items: items})
	if err != nil {
		return err
	}

	resp, err := g.http.Do(ctx, req)
	if err != nil {
		return apperrors.MergeFailed(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return apperrors.MergeFailed(httpclient.ParseResponseError(resp, "merge cart"))
	}

	return nil
}
