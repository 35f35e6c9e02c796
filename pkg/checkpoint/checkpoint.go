package checkpoint

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"urlharvest/pkg/errors"
	"urlharvest/pkg/logger"
	"urlharvest/pkg/models"
)

// Store is the durable, append-only URL→outcome mapping for a pass. An
// in-memory map gives O(1) skip-checks; every append goes straight to the
// log file so a crash never loses acknowledged progress.
//
// Keys are exact URL strings, no normalization: trailing slashes or query
// strings make a different URL. Known fragility, kept deliberately.
type Store struct {
	path    string
	file    *os.File
	mu      sync.Mutex
	records map[string]models.Outcome
	logger  logger.Logger
}

// Open loads an existing checkpoint file (seeding the skip-set) and opens
// it for appending, creating it if absent.
func Open(path string, log logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to create checkpoint directory: %v", err))
		}
	}

	store := &Store{
		path:    path,
		records: make(map[string]models.Outcome),
		logger:  log,
	}

	if err := store.load(); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to open checkpoint file: %v", err))
	}
	store.file = file

	if len(store.records) > 0 {
		log.InfoWithFields("checkpoint loaded", map[string]interface{}{
			"path":    path,
			"records": len(store.records),
		})
	}

	return store, nil
}

// load reads the existing checkpoint records into memory. A torn final
// line from a crash mid-append is skipped with a warning rather than
// failing the whole pass.
func (s *Store) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // fresh pass
		}
		return errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to read checkpoint file: %v", err))
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		url, outcome, err := parseLine(line)
		if err != nil {
			s.logger.WarnWithFields("skipping malformed checkpoint line", map[string]interface{}{
				"line":  line,
				"error": err.Error(),
			})
			continue
		}
		s.records[url] = outcome
	}
	if err := scanner.Err(); err != nil {
		return errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to scan checkpoint file: %v", err))
	}

	return nil
}

// parseLine decodes a `URL:outcome` checkpoint line. URLs contain colons,
// so the separator is found from the right: first try the fixed outcome
// keywords as a suffix, then fall back to a rewritten-URL token (which
// starts with a scheme of its own).
func parseLine(line string) (string, models.Outcome, error) {
	for _, kind := range []models.Kind{models.KindSaved, models.KindFailed, models.KindNotFound, models.KindUnchanged} {
		suffix := ":" + string(kind)
		if strings.HasSuffix(line, suffix) {
			url := line[:len(line)-len(suffix)]
			if url == "" {
				return "", models.Outcome{}, fmt.Errorf("missing URL")
			}
			return url, models.Outcome{Kind: kind}, nil
		}
	}

	// Rewritten-URL token: URL:<rewritten-url>. The token is itself an
	// absolute URL, so split at the last ":http" boundary.
	if idx := strings.LastIndex(line, ":http"); idx > 0 {
		url := line[:idx]
		token := line[idx+1:]
		outcome, err := models.ParseToken(token)
		if err != nil {
			return "", models.Outcome{}, err
		}
		return url, outcome, nil
	}

	return "", models.Outcome{}, fmt.Errorf("no outcome token")
}

// Has reports whether a record exists for exactly this URL string.
func (s *Store) Has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[url]
	return ok
}

// Outcome returns the recorded outcome for a URL, if any.
func (s *Store) Outcome(url string) (models.Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	outcome, ok := s.records[url]
	return outcome, ok
}

// Append durably records the outcome for a URL. Concurrent callers are
// serialized so records never interleave; a URL that already has a record
// is left untouched, preserving the one-outcome-per-URL invariant.
// A write or sync failure is a fatal storage error.
func (s *Store) Append(url string, outcome models.Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[url]; ok {
		return nil
	}

	if _, err := fmt.Fprintf(s.file, "%s:%s\n", url, outcome.Token()); err != nil {
		return errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to append checkpoint record: %v", err))
	}
	if err := s.file.Sync(); err != nil {
		return errors.New(errors.ErrorTypeStorage, fmt.Sprintf("failed to sync checkpoint file: %v", err))
	}

	s.records[url] = outcome
	return nil
}

// Len returns the number of recorded URLs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Counts returns per-kind outcome counts for the pass summary.
func (s *Store) Counts() map[models.Kind]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[models.Kind]int)
	for _, outcome := range s.records {
		counts[outcome.Kind]++
	}
	return counts
}

// Close releases the underlying file handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
