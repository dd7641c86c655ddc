// Package modelstore persists trained model snapshots on the local
// filesystem.
package modelstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/savoria/engine/internal/ports/outbound"
)

// FileStore writes model artifacts under a single directory. Saves go
// through a temp file and rename so a crash never leaves a truncated
// artifact behind.
type FileStore struct {
	dir    string
	logger *zap.Logger
	mu     sync.Mutex
	known  map[string]bool
}

// NewFileStore creates the artifact directory if needed.
func NewFileStore(dir string, logger *zap.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating model dir: %w", err)
	}
	s := &FileStore{dir: dir, logger: logger, known: make(map[string]bool)}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading model dir: %w", err)
	}
	for _, e := range entries {
		// Leftover temp files from an interrupted save are not artifacts.
		if !e.IsDir() && !strings.Contains(e.Name(), ".tmp-") {
			s.known[e.Name()] = true
		}
	}
	return s, nil
}

var _ outbound.ModelStore = (*FileStore)(nil)

// Save atomically writes an artifact.
func (s *FileStore) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("publishing artifact: %w", err)
	}

	s.known[name] = true
	s.logger.Debug("model artifact saved",
		zap.String("name", name),
		zap.Int("bytes", len(data)))
	return nil
}

// Load reads an artifact back.
func (s *FileStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("loading artifact %s: %w", name, err)
	}
	return data, nil
}

// Info reports every known artifact with its existence, path and size.
func (s *FileStore) Info() map[string]outbound.ArtifactInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]outbound.ArtifactInfo, len(s.known))
	for name := range s.known {
		path := filepath.Join(s.dir, name)
		info := outbound.ArtifactInfo{Path: path}
		if st, err := os.Stat(path); err == nil {
			info.Exists = true
			info.Size = st.Size()
		}
		out[name] = info
	}
	return out
}
