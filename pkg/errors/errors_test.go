package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorAndUnwrap(t *testing.T) {
	err := MergeFailed(errors.New("backend down"))

	assert.Contains(t, err.Error(), "MERGE_FAILED")
	assert.Contains(t, err.Error(), "backend down")
	assert.ErrorIs(t, err, ErrMergeFailed)
}

func TestFetchFailed_WrapsCauseAndSentinel(t *testing.T) {
	cause := errors.New("connection refused")
	err := FetchFailed(cause)

	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusBadGateway, err.Status)
}

func TestDuplicateItem(t *testing.T) {
	err := DuplicateItem("c1", "s1")

	assert.Equal(t, "DUPLICATE_ITEM", err.Code)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.ErrorIs(t, err, ErrDuplicateItem)
	assert.Contains(t, err.Message, "c1")
	assert.Contains(t, err.Message, "s1")
}

func TestOrderCreationFailed_KeepsBackendMessageVerbatim(t *testing.T) {
	err := OrderCreationFailed("course c1 session s1 is sold out")

	assert.Equal(t, "course c1 session s1 is sold out", err.Message)
	assert.ErrorIs(t, err, ErrOrderCreation)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error status wins", SelectionIncomplete("no sessions"), http.StatusUnprocessableEntity},
		{"wrapped sentinel empty cart", fmt.Errorf("checkout: %w", ErrEmptyCart), http.StatusBadRequest},
		{"wrapped sentinel profile", fmt.Errorf("checkout: %w", ErrProfileIncomplete), http.StatusBadRequest},
		{"wrapped sentinel duplicate", fmt.Errorf("add: %w", ErrDuplicateItem), http.StatusConflict},
		{"wrapped sentinel merge", fmt.Errorf("login: %w", ErrMergeFailed), http.StatusBadGateway},
		{"wrapped sentinel unauthorized", fmt.Errorf("gateway: %w", ErrUnauthorized), http.StatusUnauthorized},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	base := errors.New("redis down")
	wrapped := Wrap(base, "load guest cart")

	require.Error(t, wrapped)
	assert.ErrorIs(t, wrapped, base)
	assert.Contains(t, wrapped.Error(), "load guest cart")
}
