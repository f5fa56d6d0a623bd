// Package adminclient talks to the store admin API on behalf of a signed-in
// store owner.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New returns a client for the API rooted at baseURL, e.g.
// "https://api.example.com/v1". token is sent as a bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

type Store struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Category struct {
	ID          uuid.UUID `json:"id"`
	StoreID     uuid.UUID `json:"store_id"`
	BillboardID uuid.UUID `json:"billboard_id"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CategoryValues struct {
	Name        string `json:"name" validate:"required"`
	BillboardID string `json:"billboard_id" validate:"required"`
}

type StoreValues struct {
	Name string `json:"name" validate:"required"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var e struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&e)
		return &APIError{Status: resp.StatusCode, Message: e.Message}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) ListCategories(ctx context.Context, storeID uuid.UUID) ([]Category, error) {
	var out []Category
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/stores/%s/categories", storeID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, storeID uuid.UUID, v CategoryValues) (*Category, error) {
	var out Category
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/stores/%s/categories", storeID), v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, storeID, categoryID uuid.UUID, v CategoryValues) (*Category, error) {
	var out Category
	path := fmt.Sprintf("/stores/%s/categories/%s", storeID, categoryID)
	if err := c.do(ctx, http.MethodPatch, path, v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCategory(ctx context.Context, storeID, categoryID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/stores/%s/categories/%s", storeID, categoryID), nil, nil)
}

func (c *Client) RenameStore(ctx context.Context, storeID uuid.UUID, v StoreValues) (*Store, error) {
	var out Store
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/stores/%s", storeID), v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteStore(ctx context.Context, storeID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/stores/%s", storeID), nil, nil)
}
