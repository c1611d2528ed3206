package documents

import (
	"context"
	"fmt"
	"os"
	"sync"

	"rename-gateway/src/internal/common"
	"rename-gateway/src/utils"
)

// Manager hands out immutable text snapshots. Open-buffer content (sent by
// an editor) is preferred over the file on disk.
type Manager struct {
	mutex   sync.RWMutex
	buffers map[string]string // URI -> open-buffer content
}

// NewManager creates a new snapshot manager
func NewManager() *Manager {
	return &Manager{buffers: make(map[string]string)}
}

// Open registers (or updates) open-buffer content for a URI.
func (m *Manager) Open(uri, text string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.buffers[uri] = text
}

// Close drops the open-buffer content for a URI; later snapshots read disk.
func (m *Manager) Close(uri string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.buffers, uri)
}

// Snapshot returns an immutable snapshot for a URI, preferring open-buffer
// content over the file on disk.
func (m *Manager) Snapshot(ctx context.Context, uri string) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mutex.RLock()
	text, ok := m.buffers[uri]
	m.mutex.RUnlock()
	if ok {
		return NewSnapshot(uri, text), nil
	}

	path := utils.URIToFilePath(uri)
	content, err := os.ReadFile(path)
	if err != nil {
		common.RenameLogger.Debug("Snapshot unavailable for %s: %v", uri, err)
		return nil, fmt.Errorf("failed to load snapshot for %s: %w", uri, err)
	}
	return NewSnapshot(uri, string(content)), nil
}
