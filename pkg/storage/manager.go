// Package storage persists extracted payloads as one artifact file per URL.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"urlharvest/pkg/errors"
)

// Manager handles artifact storage and duplicate detection.
type Manager struct {
	outputDir      string
	artifactSuffix string
	saved          map[string]bool
	mu             sync.RWMutex
}

// NewManager creates a storage manager rooted at outputDir. suffix is the
// known trailing pattern stripped from URL path segments when deriving
// filenames (e.g. ".html").
func NewManager(outputDir, suffix string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}

	manager := &Manager{
		outputDir:      outputDir,
		artifactSuffix: suffix,
		saved:          make(map[string]bool),
	}

	if err := manager.scanExistingFiles(); err != nil {
		return nil, fmt.Errorf("failed to scan existing artifacts: %w", err)
	}

	return manager, nil
}

// scanExistingFiles records already-written artifacts for duplicate awareness.
func (m *Manager) scanExistingFiles() error {
	entries, err := os.ReadDir(m.outputDir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".json" {
			m.saved[entry.Name()] = true
		}
	}

	return nil
}

// FilenameFor derives the artifact filename from a URL: take the trailing
// path segment, drop any query string, strip the known suffix, append
// ".json". Pure function of the URL; distinct URLs in a well-formed input
// set do not collide.
func (m *Manager) FilenameFor(url string) string {
	seg := url
	if idx := strings.IndexAny(seg, "?#"); idx >= 0 {
		seg = seg[:idx]
	}
	seg = strings.TrimRight(seg, "/")
	if idx := strings.LastIndex(seg, "/"); idx >= 0 {
		seg = seg[idx+1:]
	}
	if m.artifactSuffix != "" {
		seg = strings.TrimSuffix(seg, m.artifactSuffix)
	}
	if seg == "" {
		seg = "index"
	}
	return seg + ".json"
}

// IsSaved checks if an artifact for the URL already exists.
func (m *Manager) IsSaved(url string) bool {
	name := m.FilenameFor(url)

	m.mu.RLock()
	cached := m.saved[name]
	m.mu.RUnlock()
	if cached {
		return true
	}

	if info, err := os.Stat(filepath.Join(m.outputDir, name)); err == nil && info.Size() > 0 {
		m.mu.Lock()
		m.saved[name] = true
		m.mu.Unlock()
		return true
	}

	return false
}

// SaveArtifact writes the extracted payload for a URL, verifying after the
// write that the artifact is non-empty. An empty artifact is removed and
// reported as a storage error so the outcome degrades to failed rather
// than saved. Returns the artifact path.
func (m *Manager) SaveArtifact(r io.Reader, url string) (string, error) {
	filename := filepath.Join(m.outputDir, m.FilenameFor(url))

	tempFile := filename + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return "", errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to create artifact: %v", err))
	}

	_, err = io.Copy(out, r)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return "", errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to write artifact: %v", err))
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return "", errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to close artifact: %v", closeErr))
	}

	// Verification read: a zero-byte artifact must never be reported saved.
	info, err := os.Stat(tempFile)
	if err != nil {
		os.Remove(tempFile)
		return "", errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to verify artifact: %v", err))
	}
	if info.Size() == 0 {
		os.Remove(tempFile)
		return "", errors.New(errors.ErrorTypeStorage, "artifact is empty after write")
	}

	if err := os.Rename(tempFile, filename); err != nil {
		os.Remove(tempFile)
		return "", errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to rename artifact: %v", err))
	}

	m.mu.Lock()
	m.saved[m.FilenameFor(url)] = true
	m.mu.Unlock()

	return filename, nil
}

// OutputDir returns the artifact directory path.
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// SavedCount returns the number of known artifacts.
func (m *Manager) SavedCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.saved)
}
