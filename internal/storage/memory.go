package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-process Store, used for development servers and
// tests. Listing order is insertion order.
type MemoryStore struct {
	mu            sync.RWMutex
	order         []string
	objects       map[string]memoryObject
	publicBaseURL string
}

type memoryObject struct {
	data      []byte
	updatedAt time.Time
}

// NewMemoryStore returns an empty store whose public URLs start with
// publicBaseURL (default "memory://od-files").
func NewMemoryStore(publicBaseURL string) *MemoryStore {
	if publicBaseURL == "" {
		publicBaseURL = "memory://od-files"
	}
	return &MemoryStore{
		objects:       make(map[string]memoryObject),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

func (s *MemoryStore) List(ctx context.Context) ([]Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects := make([]Object, 0, len(s.order))
	for _, name := range s.order {
		obj := s.objects[name]
		objects = append(objects, Object{Name: name, Size: int64(len(obj.data)), UpdatedAt: obj.updatedAt})
	}
	return objects, nil
}

func (s *MemoryStore) Download(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	obj, ok := s.objects[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return append([]byte(nil), obj.data...), nil
}

func (s *MemoryStore) Upload(ctx context.Context, name string, data []byte, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[name]; ok {
		return fmt.Errorf("%w: %s", ErrExists, name)
	}
	s.objects[name] = memoryObject{data: append([]byte(nil), data...), updatedAt: time.Now()}
	s.order = append(s.order, name)
	return nil
}

func (s *MemoryStore) PublicURL(name string) string {
	return s.publicBaseURL + "/" + url.PathEscape(name)
}
