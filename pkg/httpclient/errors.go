package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/cartedge/coursecart/pkg/errors"
)

// backendError mirrors the error body shape returned by the storefront
// backend: either {"error": {"code": ..., "message": ...}} or a bare
// {"detail": ...} as common REST frameworks emit.
type backendError struct {
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Detail string `json:"detail"`
}

// ParseResponseError reads the body of a non-2xx response and translates it
// into the edge's error taxonomy, preserving the backend's message verbatim.
// The response body is fully consumed and closed.
func ParseResponseError(resp *http.Response, operation string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: backend returned status %d (failed to read body: %w)", operation, resp.StatusCode, err)
	}

	message := string(bodyBytes)
	var parsed backendError
	if json.Unmarshal(bodyBytes, &parsed) == nil {
		switch {
		case parsed.Error != nil:
			message = parsed.Error.Message
		case parsed.Detail != "":
			message = parsed.Detail
		}
	}

	return mapBackendStatus(resp.StatusCode, message, operation)
}

func mapBackendStatus(status int, message, operation string) error {
	qualified := fmt.Sprintf("%s: %s", operation, message)

	switch {
	case status == http.StatusNotFound:
		return apperrors.NotFound(operation, message)
	case status == http.StatusBadRequest:
		return apperrors.InvalidInput(qualified)
	case status == http.StatusConflict:
		return apperrors.Conflict(qualified)
	case status == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualified)
	case status == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(qualified)
	case status >= 500:
		return fmt.Errorf("%s: backend server error (%d): %s", operation, status, message)
	default:
		return &apperrors.AppError{
			Code:    "BACKEND_ERROR",
			Message: qualified,
			Status:  status,
		}
	}
}

// IsClientError reports whether the status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
