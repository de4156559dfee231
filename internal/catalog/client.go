// Package catalog reads the course catalog from the storefront backend.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cartedge/coursecart/internal/domain"
	"github.com/cartedge/coursecart/pkg/httpclient"
)

// Doer executes a backend HTTP request. Both the plain retrying client and
// the breaker-wrapped client satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client fetches courses and their sessions. A transport or decode failure is
// always a typed error; it is never silently presented as an empty catalog.
type Client struct {
	http    Doer
	baseURL string
}

// NewClient creates a catalog client against the backend base URL.
func NewClient(http Doer, baseURL string) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// ListCourses fetches the full course catalog.
func (c *Client) ListCourses(ctx context.Context) ([]domain.Course, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/courses/", http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create list courses request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "list courses")
	}

	var courses []domain.Course
	if err := json.NewDecoder(resp.Body).Decode(&courses); err != nil {
		return nil, fmt.Errorf("decode course list: %w", err)
	}
	if courses == nil {
		courses = []domain.Course{}
	}

	return courses, nil
}

// GetCourse fetches a single course with its sessions.
func (c *Client) GetCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	url := fmt.Sprintf("%s/api/courses/%s/", c.baseURL, courseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create get course request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("get course %s: %w", courseID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "get course")
	}

	var course domain.Course
	if err := json.NewDecoder(resp.Body).Decode(&course); err != nil {
		return nil, fmt.Errorf("decode course %s: %w", courseID, err)
	}

	return &course, nil
}
