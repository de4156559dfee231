package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/internal/gateway"
	"github.com/cartedge/coursecart/internal/identity"
	"github.com/cartedge/coursecart/internal/reconciler"
	apperrors "github.com/cartedge/coursecart/pkg/errors"
	"github.com/cartedge/coursecart/pkg/health"
)

// --- Mock CartService ---

type mockCartService struct {
	mock.Mock
}

func (m *mockCartService) ActiveCart(ctx context.Context, sess identity.Session) (*domain.Cart, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartService) AddItem(ctx context.Context, sess identity.Session, item domain.CartItem) (*domain.Cart, error) {
	args := m.Called(ctx, sess, item)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartService) RemoveItem(ctx context.Context, sess identity.Session, courseID, sessionID string) (*domain.Cart, error) {
	args := m.Called(ctx, sess, courseID, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartService) Clear(ctx context.Context, sess identity.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *mockCartService) OnAuthenticated(ctx context.Context, sess identity.Session) (*reconciler.MergeOutcome, error) {
	args := m.Called(ctx, sess)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciler.MergeOutcome), args.Error(1)
}

// --- Mock CatalogService ---

type mockCatalogService struct {
	mock.Mock
}

func (m *mockCatalogService) ListCourses(ctx context.Context) ([]domain.Course, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Course), args.Error(1)
}

func (m *mockCatalogService) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	args := m.Called(ctx, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

// --- Mock CheckoutService ---

type mockCheckoutService struct {
	mock.Mock
}

func (m *mockCheckoutService) Checkout(ctx context.Context, sess identity.Session, profile domain.CheckoutProfile) (*gateway.OrderResult, error) {
	args := m.Called(ctx, sess, profile)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.OrderResult), args.Error(1)
}

func (m *mockCheckoutService) InitiatePayment(ctx context.Context, sess identity.Session, orderID string) (*gateway.PaymentResult, error) {
	args := m.Called(ctx, sess, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateway.PaymentResult), args.Error(1)
}

// --- Test Helpers ---

type testDeps struct {
	carts    *mockCartService
	catalog  *mockCatalogService
	checkout *mockCheckoutService
	router   http.Handler
}

func newTestRouter(t *testing.T) testDeps {
	t.Helper()
	deps := testDeps{
		carts:    new(mockCartService),
		catalog:  new(mockCatalogService),
		checkout: new(mockCheckoutService),
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	deps.router = NewRouter(RouterDeps{
		Carts:         deps.carts,
		Catalog:       deps.catalog,
		Checkout:      deps.checkout,
		HealthHandler: health.NewHandler(),
		Logger:        logger,
		CORSOrigins:   []string{"*"},
	})
	return deps
}

func doRequest(t *testing.T, router http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-ID", "dev-1")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func guestCtxSession() identity.Session {
	return identity.Session{DeviceID: "dev-1"}
}

func authedCtxSession() identity.Session {
	return identity.Session{DeviceID: "dev-1", Credential: "tok"}
}

func sampleCartItem() domain.CartItem {
	return domain.CartItem{
		CourseID:     "course-1",
		SessionID:    "sess-1",
		Title:        "Sourdough Basics",
		SessionDate:  "2026-09-12",
		LocationID:   "loc-1",
		LocationName: "Downtown Studio",
		UnitPrice:    14900,
		Quantity:     1,
	}
}

func pricePtr(v int64) *int64 { return &v }

func sampleCourse() *domain.Course {
	return &domain.Course{
		ID:    "course-1",
		Title: "Sourdough Basics",
		Sessions: []domain.Session{
			{
				ID:       "sess-1",
				Date:     "2026-09-12",
				Location: &domain.Location{ID: "loc-1", Name: "Downtown Studio"},
				Price:    pricePtr(14900),
			},
		},
	}
}

// --- Device header contract ---

func TestRouter_MissingDeviceIDRejected(t *testing.T) {
	d := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	d.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "X-Device-ID")
	d.carts.AssertNotCalled(t, "ActiveCart", mock.Anything, mock.Anything)
}

// --- Error envelope ---

func TestErrorResponseCarriesRequestID(t *testing.T) {
	d := newTestRouter(t)

	d.carts.On("ActiveCart", mock.Anything, guestCtxSession()).
		Return(nil, apperrors.FetchFailed(assert.AnError))

	rec := doRequest(t, d.router, http.MethodGet, "/api/v1/cart", nil,
		map[string]string{"X-Correlation-ID": "corr-42"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "corr-42", rec.Header().Get("X-Correlation-ID"))
	assert.Contains(t, rec.Body.String(), `"request_id":"corr-42"`)
}

// --- GET /api/v1/cart ---

func TestGetCart_Guest(t *testing.T) {
	d := newTestRouter(t)

	d.carts.On("ActiveCart", mock.Anything, guestCtxSession()).
		Return(&domain.Cart{Items: []domain.CartItem{sampleCartItem()}}, nil)

	rec := doRequest(t, d.router, http.MethodGet, "/api/v1/cart", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data cartView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, int64(14900), body.Data.Total)
	assert.Equal(t, 1, body.Data.ItemCount)
}

func TestGetCart_AuthenticatedSessionPassedThrough(t *testing.T) {
	d := newTestRouter(t)

	d.carts.On("ActiveCart", mock.Anything, authedCtxSession()).
		Return(&domain.Cart{}, nil)

	rec := doRequest(t, d.router, http.MethodGet, "/api/v1/cart", nil,
		map[string]string{"Authorization": "Bearer tok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	d.carts.AssertExpectations(t)
}

func TestGetCart_FetchFailureIs502(t *testing.T) {
	d := newTestRouter(t)

	d.carts.On("ActiveCart", mock.Anything, authedCtxSession()).
		Return(nil, apperrors.FetchFailed(assert.AnError))

	rec := doRequest(t, d.router, http.MethodGet, "/api/v1/cart", nil,
		map[string]string{"Authorization": "Bearer tok"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "FETCH_FAILED")
}

// --- POST /api/v1/cart/items ---

func TestAddItem_ResolvesPriceServerSide(t *testing.T) {
	d := newTestRouter(t)

	d.catalog.On("GetCourse", mock.Anything, "course-1").Return(sampleCourse(), nil)
	d.carts.On("AddItem", mock.Anything, guestCtxSession(), mock.MatchedBy(func(item domain.CartItem) bool {
		return item.CourseID == "course-1" && item.SessionID == "sess-1" && item.UnitPrice == 14900
	})).Return(&domain.Cart{Items: []domain.CartItem{sampleCartItem()}}, nil)

	rec := doRequest(t, d.router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{CourseID: "course-1", SessionID: "sess-1", LocationID: "loc-1"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	d.carts.AssertExpectations(t)
}

func TestAddItem_MissingFieldsValidationError(t *testing.T) {
	d := newTestRouter(t)

	rec := doRequest(t, d.router, http.MethodPost, "/api/v1/cart/items",
		map[string]string{"course_id": "course-1"}, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	d.catalog.AssertNotCalled(t, "GetCourse", mock.Anything, mock.Anything)
}

func TestAddItem_UnpricedSessionIs422(t *testing.T) {
	d := newTestRouter(t)

	course := sampleCourse()
	course.Sessions[0].Price = nil
	d.catalog.On("GetCourse", mock.Anything, "course-1").Return(course, nil)

	rec := doRequest(t, d.router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{CourseID: "course-1", SessionID: "sess-1", LocationID: "loc-1"}, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "SELECTION_INCOMPLETE")
	d.carts.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddItem_DuplicateIs409(t *testing.T) {
	d := newTestRouter(t)

	d.catalog.On("GetCourse", mock.Anything, "course-1").Return(sampleCourse(), nil)
	d.carts.On("AddItem", mock.Anything, authedCtxSession(), mock.Anything).
		Return(nil, apperrors.DuplicateItem("course-1", "sess-1"))

	rec := doRequest(t, d.router, http.MethodPost, "/api/v1/cart/items",
		AddItemRequest{CourseID: "course-1", SessionID: "sess-1", LocationID: "loc-1"},
		map[string]string{"Authorization": "Bearer tok"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "DUPLICATE_ITEM")
}

// --- DELETE /api/v1/cart/items/{courseID}/{sessionID} ---

func TestRemoveItem_Success(t *testing.T) {
	d := newTestRouter(t)

	d.carts.On("RemoveItem", mock.Anything, guestCtxSession(), "course-1", "sess-1").
		Return(&domain.Cart{}, nil)

	rec := doRequest(t, d.router, http.MethodDelete, "/api/v1/cart/items/course-1/sess-1", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	d.carts.AssertExpectations(t)
}

// --- DELETE /api/v1/cart ---

func TestClearCart_Success(t *testing.T) {
	d := newTestRouter(t)

	d.carts.On("Clear", mock.Anything, guestCtxSession()).Return(nil)

	rec := doRequest(t, d.router, http.MethodDelete, "/api/v1/cart", nil, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "cleared")
}

// --- POST /api/v1/cart/merge ---

func TestMergeCart_Success(t *testing.T) {
	d := newTestRouter(t)

	d.carts.On("OnAuthenticated", mock.Anything, authedCtxSession()).
		Return(&reconciler.MergeOutcome{MergedCount: 2}, nil)

	rec := doRequest(t, d.router, http.MethodPost, "/api/v1/cart/merge", nil,
		map[string]string{"Authorization": "Bearer tok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"merged_count":2`)
}

func TestMergeCart_WithoutCredentialIs401(t *testing.T) {
	d := newTestRouter(t)

	d.carts.On("OnAuthenticated", mock.Anything, guestCtxSession()).
		Return(nil, apperrors.Unauthorized("merge requires a credential"))

	rec := doRequest(t, d.router, http.MethodPost, "/api/v1/cart/merge", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMergeCart_FailureIs502AndRetrySafe(t *testing.T) {
	d := newTestRouter(t)

	d.carts.On("OnAuthenticated", mock.Anything, authedCtxSession()).
		Return(nil, apperrors.MergeFailed(assert.AnError))

	rec := doRequest(t, d.router, http.MethodPost, "/api/v1/cart/merge", nil,
		map[string]string{"Authorization": "Bearer tok"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "MERGE_FAILED")
	assert.Contains(t, rec.Body.String(), "kept for retry")
}
