package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/rohit30san/thapar-olx/internal/domain/service"
)

// MemoryAssetStore keeps uploads in process. It backs local runs without a
// bucket and tests.
type MemoryAssetStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

var _ service.AssetStore = (*MemoryAssetStore)(nil)

func NewMemoryAssetStore(baseURL string) *MemoryAssetStore {
	return &MemoryAssetStore{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string][]byte),
	}
}

func (m *MemoryAssetStore) UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", fmt.Errorf("failed to read upload: %v", err)
	}

	name := objectName(folder, contentType, time.Now())
	m.mu.Lock()
	m.objects[name] = buf.Bytes()
	m.mu.Unlock()

	return m.baseURL + "/" + name, nil
}

func (m *MemoryAssetStore) DeleteFile(ctx context.Context, fileURL string) error {
	name := strings.TrimPrefix(fileURL, m.baseURL+"/")
	m.mu.Lock()
	delete(m.objects, name)
	m.mu.Unlock()
	return nil
}

// Object returns the bytes stored under url.
func (m *MemoryAssetStore) Object(url string) ([]byte, bool) {
	return m.ObjectByName(strings.TrimPrefix(url, m.baseURL+"/"))
}

// ObjectByName looks an upload up by its "<folder>/<file>" name.
func (m *MemoryAssetStore) ObjectByName(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[name]
	return data, ok
}

func (m *MemoryAssetStore) Close() error {
	return nil
}
