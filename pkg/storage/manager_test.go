package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilenameFor(t *testing.T) {
	m := &Manager{artifactSuffix: ".html"}

	tests := []struct {
		url  string
		want string
	}{
		{"http://example.com/things/alpha.html", "alpha.json"},
		{"http://example.com/alpha.html", "alpha.json"},
		{"http://example.com/things/beta", "beta.json"},
		{"http://example.com/things/gamma.html?v=2", "gamma.json"},
		{"http://example.com/things/delta.html#part", "delta.json"},
		{"http://example.com/things/", "things.json"},
		{"http://example.com/", "example.com.json"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, m.FilenameFor(tt.url))
		})
	}
}

func TestFilenameForIsDeterministic(t *testing.T) {
	m := &Manager{artifactSuffix: ".html"}
	url := "http://example.com/things/alpha.html"
	assert.Equal(t, m.FilenameFor(url), m.FilenameFor(url))
}

func TestSaveArtifact(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, ".html")
	require.NoError(t, err)

	url := "http://example.com/things/alpha.html"
	path, err := m.SaveArtifact(strings.NewReader(`{"a":1}`), url)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "alpha.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	assert.True(t, m.IsSaved(url))
	assert.Equal(t, 1, m.SavedCount())
}

func TestSaveArtifactRejectsEmpty(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir, ".html")
	require.NoError(t, err)

	url := "http://example.com/things/empty.html"
	_, err = m.SaveArtifact(strings.NewReader(""), url)
	require.Error(t, err)

	// No artifact file (and no leftover temp file) may exist.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.False(t, m.IsSaved(url))
}

func TestScanExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alpha.json"), []byte(`{}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	m, err := NewManager(dir, ".html")
	require.NoError(t, err)

	assert.Equal(t, 1, m.SavedCount())
	assert.True(t, m.IsSaved("http://example.com/alpha.html"))
}
