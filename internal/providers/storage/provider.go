package storage

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("object_not_found")

// Provider stores binary artifacts and returns a file id for later reads.
type Provider interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (string, error)
	Download(ctx context.Context, fileID string) ([]byte, error)
}

// MemoryProvider keeps objects in process. Used when no bucket is configured.
type MemoryProvider struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemory() *MemoryProvider {
	return &MemoryProvider{objects: make(map[string][]byte)}
}

func (p *MemoryProvider) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if name == "" {
		return "", errors.New("object name is empty")
	}
	buf := make([]byte, len(data))
	copy(buf, data)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.objects[name] = buf
	return name, nil
}

func (p *MemoryProvider) Download(ctx context.Context, fileID string) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	data, ok := p.objects[fileID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}
