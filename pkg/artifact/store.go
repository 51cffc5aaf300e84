// Package artifact provides a content-addressed-by-ID blob store for binary
// outputs (generated audio, images, arbitrary JSON) that node executors
// produce but don't want to inline into a node's result value.
package artifact

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Metadata describes a stored artifact without its payload.
type Metadata struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MIMEType  string    `json:"mimeType"`
	Category  string    `json:"category"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store is the artifact persistence contract.
type Store interface {
	Save(ctx context.Context, data []byte, filename, category string) (string, error)
	Get(ctx context.Context, id string) ([]byte, map[string]interface{}, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, category string) ([]Metadata, error)
	Stats(ctx context.Context) (count int, totalBytes int64)
	ClearAll(ctx context.Context) error
}

type entry struct {
	meta Metadata
	data []byte
}

// InMemoryStore is a mutex-guarded map-backed Store, grounded on the same
// shape as the workflow store: UUID keys, a single map, secondary indexes
// built on read rather than maintained incrementally (the artifact count
// this engine expects per run is small).
type InMemoryStore struct {
	mu          sync.RWMutex
	entries     map[string]*entry
	maxSize     int64
	maxCount    int
	totalBytes  int64
}

// NewInMemoryStore creates an empty store. maxSize/maxCount of 0 mean
// unlimited, matching pkg/config's convention elsewhere.
func NewInMemoryStore(maxSize int64, maxCount int) *InMemoryStore {
	return &InMemoryStore{
		entries:  make(map[string]*entry),
		maxSize:  maxSize,
		maxCount: maxCount,
	}
}

// Save stores data under a new UUID, sniffing its MIME type from content
// and filename, and returns the generated ID.
func (s *InMemoryStore) Save(ctx context.Context, data []byte, filename, category string) (string, error) {
	if s.maxSize > 0 && int64(len(data)) > s.maxSize {
		return "", fmt.Errorf("%w: %d bytes (limit %d)", ErrTooLarge, len(data), s.maxSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.maxCount > 0 && len(s.entries) >= s.maxCount {
		return "", ErrStoreFull
	}

	id := uuid.New().String()
	mimeType := sniff(data, filename)
	normalized := normalizeText(mimeType, data)
	payload := make([]byte, len(normalized))
	copy(payload, normalized)

	s.entries[id] = &entry{
		meta: Metadata{
			ID:        id,
			Filename:  filename,
			MIMEType:  mimeType,
			Category:  category,
			Size:      len(payload),
			CreatedAt: time.Now(),
		},
		data: payload,
	}
	s.totalBytes += int64(len(payload))

	return id, nil
}

// Get retrieves an artifact's payload and metadata (as a generic map, for
// callers that only need JSON-shaped access).
func (s *InMemoryStore) Get(ctx context.Context, id string) ([]byte, map[string]interface{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	data := make([]byte, len(e.data))
	copy(data, e.data)

	meta := map[string]interface{}{
		"id":        e.meta.ID,
		"filename":  e.meta.Filename,
		"mimeType":  e.meta.MIMEType,
		"category":  e.meta.Category,
		"size":      e.meta.Size,
		"createdAt": e.meta.CreatedAt,
	}
	return data, meta, nil
}

// Delete removes an artifact. Deleting a nonexistent ID is an error, for
// the same reason the workflow store treats a missing ID as an error:
// callers retrying a delete after a crash want to know whether it actually
// happened.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.totalBytes -= int64(len(e.data))
	delete(s.entries, id)
	return nil
}

// List returns metadata for every artifact, optionally filtered by
// category ("" means all categories).
func (s *InMemoryStore) List(ctx context.Context, category string) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Metadata, 0, len(s.entries))
	for _, e := range s.entries {
		if category != "" && e.meta.Category != category {
			continue
		}
		out = append(out, e.meta)
	}
	return out, nil
}

// Stats returns the current artifact count and total stored bytes.
func (s *InMemoryStore) Stats(ctx context.Context) (int, int64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), s.totalBytes
}

// ClearAll removes every stored artifact.
func (s *InMemoryStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*entry)
	s.totalBytes = 0
	return nil
}
