package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockClient is an in-memory document store for tests and offline
// development. Documents live in per-collection maps; insertion order is
// preserved so List mirrors the hosted store's creation-order contract.
// Per-method error fields allow injecting failures:
//
//	client := docstore.NewMockClient()
//	client.CreateErr = errors.New("store down")
type MockClient struct {
	mu    sync.Mutex
	docs  map[string]map[string]map[string]interface{}
	order map[string][]string

	CreateErr    error
	GetErr       error
	ListErr      error
	UpdateErr    error
	DeleteErr    error
	IncrementErr error
	PingErr      error
}

// NewMockClient creates an empty in-memory store
func NewMockClient() *MockClient {
	return &MockClient{
		docs:  make(map[string]map[string]map[string]interface{}),
		order: make(map[string][]string),
	}
}

// BaseURL returns a placeholder URL
func (m *MockClient) BaseURL() string {
	return "mock://docstore"
}

// Create stores a document, assigning an id when the document has none
func (m *MockClient) Create(ctx context.Context, collection string, doc interface{}) (string, error) {
	if m.CreateErr != nil {
		return "", m.CreateErr
	}

	fields, err := toMap(doc)
	if err != nil {
		return "", err
	}

	id, _ := fields["id"].(string)
	if id == "" {
		id = uuid.NewString()
		fields["id"] = id
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]map[string]interface{})
	}
	if _, exists := m.docs[collection][id]; !exists {
		m.order[collection] = append(m.order[collection], id)
	}
	m.docs[collection][id] = fields
	return id, nil
}

// Get loads a document by id
func (m *MockClient) Get(ctx context.Context, collection, id string, out interface{}) error {
	if m.GetErr != nil {
		return m.GetErr
	}

	m.mu.Lock()
	fields, ok := m.docs[collection][id]
	m.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	return fromMap(fields, out)
}

// List loads documents matching the equality filter, in creation order
func (m *MockClient) List(ctx context.Context, collection string, filter map[string]string, out interface{}) error {
	if m.ListErr != nil {
		return m.ListErr
	}

	m.mu.Lock()
	var matched []map[string]interface{}
	for _, id := range m.order[collection] {
		fields := m.docs[collection][id]
		if matchesFilter(fields, filter) {
			matched = append(matched, fields)
		}
	}
	m.mu.Unlock()

	return fromMap(matched, out)
}

// Update merges fields into an existing document
func (m *MockClient) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

// Delete removes a document by id
func (m *MockClient) Delete(ctx context.Context, collection, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.docs[collection], id)
	for i, docID := range m.order[collection] {
		if docID == id {
			m.order[collection] = append(m.order[collection][:i], m.order[collection][i+1:]...)
			break
		}
	}
	return nil
}

// Increment adds delta to a numeric field under the store lock, matching
// the hosted store's atomic increment semantics
func (m *MockClient) Increment(ctx context.Context, collection, id, field string, delta int) error {
	if m.IncrementErr != nil {
		return m.IncrementErr
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[collection][id]
	if !ok {
		return ErrNotFound
	}

	current := 0.0
	if v, ok := doc[field].(float64); ok {
		current = v
	}
	doc[field] = current + float64(delta)
	return nil
}

// Ping reports the injected error, if any
func (m *MockClient) Ping(ctx context.Context) error {
	return m.PingErr
}

// matchesFilter reports whether every filter key equals the document field
// when rendered as a string
func matchesFilter(fields map[string]interface{}, filter map[string]string) bool {
	for k, want := range filter {
		got, ok := fields[k]
		if !ok {
			return false
		}
		if fmt.Sprintf("%v", got) != want {
			return false
		}
	}
	return true
}

// toMap converts any document into its JSON field map
func toMap(doc interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return fields, nil
}

// fromMap converts stored field maps back into the caller's type
func fromMap(in interface{}, out interface{}) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode stored document: %w", err)
	}
	return json.Unmarshal(data, out)
}

// Ensure MockClient implements Client
var _ Client = (*MockClient)(nil)
