// Package docstore provides a client for the hosted document store used as
// the system of record for Beast Week data. The store exposes generic CRUD
// over named collections plus a server-side atomic numeric increment, which
// is what keeps concurrent vote counting lossless.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/campusbeast/beastweek/internal/logger"
)

// ErrNotFound is returned when a requested document does not exist
var ErrNotFound = errors.New("document not found")

// Client defines the interface for document store operations
type Client interface {
	// Create stores a new document and returns its server-assigned id
	Create(ctx context.Context, collection string, doc interface{}) (string, error)
	// Get loads a single document by id into out
	Get(ctx context.Context, collection, id string, out interface{}) error
	// List loads all documents matching the equality filter into out
	// (a pointer to a slice). Documents come back in creation order.
	List(ctx context.Context, collection string, filter map[string]string, out interface{}) error
	// Update merges the given fields into an existing document
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	// Delete removes a document by id
	Delete(ctx context.Context, collection, id string) error
	// Increment atomically adds delta to a numeric field of a document.
	// The addition happens server-side; concurrent increments are never lost.
	Increment(ctx context.Context, collection, id, field string, delta int) error
	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
	// BaseURL returns the configured store base URL
	BaseURL() string
}

// HTTPClient is a real HTTP client for the document store
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new document store HTTP client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		log: log,
	}
}

// BaseURL returns the configured store base URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// createResponse is the body returned by a successful create
type createResponse struct {
	ID string `json:"id"`
}

// Create stores a new document and returns its id
func (c *HTTPClient) Create(ctx context.Context, collection string, doc interface{}) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	var resp createResponse
	if err := c.do(ctx, http.MethodPost, c.collectionURL(collection), body, &resp); err != nil {
		return "", err
	}
	return resp.ID, nil
}

// Get loads a single document by id
func (c *HTTPClient) Get(ctx context.Context, collection, id string, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.documentURL(collection, id), nil, out)
}

// List loads all documents matching the equality filter
func (c *HTTPClient) List(ctx context.Context, collection string, filter map[string]string, out interface{}) error {
	u := c.collectionURL(collection)
	if len(filter) > 0 {
		q := url.Values{}
		for k, v := range filter {
			q.Set(k, v)
		}
		u += "?" + q.Encode()
	}
	return c.do(ctx, http.MethodGet, u, nil, out)
}

// Update merges fields into an existing document
func (c *HTTPClient) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	return c.do(ctx, http.MethodPatch, c.documentURL(collection, id), body, nil)
}

// Delete removes a document by id
func (c *HTTPClient) Delete(ctx context.Context, collection, id string) error {
	return c.do(ctx, http.MethodDelete, c.documentURL(collection, id), nil, nil)
}

// incrementRequest is the body of an increment call
type incrementRequest struct {
	Field string `json:"field"`
	Delta int    `json:"delta"`
}

// Increment atomically adds delta to a numeric field server-side
func (c *HTTPClient) Increment(ctx context.Context, collection, id, field string, delta int) error {
	body, err := json.Marshal(incrementRequest{Field: field, Delta: delta})
	if err != nil {
		return fmt.Errorf("encode increment: %w", err)
	}
	return c.do(ctx, http.MethodPost, c.documentURL(collection, id)+"/increment", body, nil)
}

// Ping checks that the store is reachable
func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.baseURL+"/v1/health", nil, nil)
}

func (c *HTTPClient) collectionURL(collection string) string {
	return fmt.Sprintf("%s/v1/%s", c.baseURL, url.PathEscape(collection))
}

func (c *HTTPClient) documentURL(collection, id string) string {
	return fmt.Sprintf("%s/%s", c.collectionURL(collection), url.PathEscape(id))
}

// do performs one request and decodes the response body into out when given
func (c *HTTPClient) do(ctx context.Context, method, u string, body []byte, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("document store request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Debug("Document store error response", "status", resp.StatusCode, "body", string(data))
		return fmt.Errorf("document store returned status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
