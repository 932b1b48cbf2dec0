package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ytget/launcher/internal/logging"
	"github.com/ytget/launcher/internal/model"
	"github.com/ytget/launcher/internal/platform"
)

// ErrNoSource is recorded when none of the candidate catalog paths could be opened
var ErrNoSource = errors.New("no readable catalog source")

// ErrNotArray is recorded when the catalog document is valid JSON but not an array
var ErrNotArray = errors.New("catalog document is not a JSON array")

// Store holds the current build catalog
type Store struct {
	paths  platform.PathProvider
	logger logrus.FieldLogger

	mu         sync.RWMutex
	entries    []model.BuildEntry
	lastSource string
	lastErr    error

	callbackMu sync.RWMutex
	onUpdate   func([]model.BuildEntry) // callback for UI updates
}

// NewStore creates an empty catalog store. paths supplies the application
// directory used for the fallback document locations.
func NewStore(paths platform.PathProvider, logger logrus.FieldLogger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Store{
		paths:  paths,
		logger: logger,
	}
}

// SetUpdateCallback sets the function called after every Reload with the
// new catalog snapshot
func (s *Store) SetUpdateCallback(callback func([]model.BuildEntry)) {
	s.callbackMu.Lock()
	defer s.callbackMu.Unlock()
	s.onUpdate = callback
}

// Reload replaces the catalog from the first readable source: source when
// non-empty, then <appDir>/../builds.json, then ./builds.json. Any failure
// leaves an empty catalog. The update callback fires exactly once per call.
func (s *Store) Reload(source string) {
	entries, used, err := s.load(source)

	log := s.logger.WithField("source", used)
	if err != nil {
		log.WithError(err).Warn("catalog unavailable, using empty catalog")
		entries = nil
	} else {
		log.WithField("builds", len(entries)).Info("catalog loaded")
	}

	s.mu.Lock()
	s.entries = entries
	s.lastSource = used
	s.lastErr = err
	s.mu.Unlock()

	s.notifyUpdate()
}

// Entries returns a copy of the current catalog in document order
func (s *Store) Entries() []model.BuildEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneEntries(s.entries)
}

// Find returns the first entry with the given id
func (s *Store) Find(id string) (model.BuildEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, entry := range s.entries {
		if entry.ID == id {
			return entry.Clone(), true
		}
	}
	return model.BuildEntry{}, false
}

// Len returns the number of entries in the catalog
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// LastSource returns the path the last Reload opened, or "" if none opened
func (s *Store) LastSource() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSource
}

// LastError returns why the last Reload produced an empty catalog, if it did
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// load reads the first source that opens and parses it
func (s *Store) load(source string) ([]model.BuildEntry, string, error) {
	for _, candidate := range platform.CatalogCandidates(source, s.paths) {
		data, err := os.ReadFile(candidate)
		if err != nil {
			s.logger.WithField("source", candidate).WithError(err).Debug("catalog source not readable")
			continue
		}
		entries, err := Parse(data)
		if err != nil {
			return nil, candidate, fmt.Errorf("failed to parse %s: %w", candidate, err)
		}
		return entries, candidate, nil
	}
	return nil, "", ErrNoSource
}

// notifyUpdate calls the update callback if set
func (s *Store) notifyUpdate() {
	s.callbackMu.RLock()
	callback := s.onUpdate
	s.callbackMu.RUnlock()

	if callback != nil {
		callback(s.Entries())
	}
}

// Parse decodes a catalog document. Array elements that are not JSON
// objects are skipped.
func Parse(data []byte) ([]model.BuildEntry, error) {
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, ErrNotArray
		}
		return nil, err
	}
	if elements == nil {
		// the document was the literal null
		return nil, ErrNotArray
	}

	entries := make([]model.BuildEntry, 0, len(elements))
	for _, element := range elements {
		if !isObject(element) {
			continue
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(element, &fields); err != nil {
			continue
		}
		entries = append(entries, model.NewBuildEntry(fields))
	}
	return entries, nil
}

func isObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func cloneEntries(entries []model.BuildEntry) []model.BuildEntry {
	if entries == nil {
		return []model.BuildEntry{}
	}
	clone := make([]model.BuildEntry, len(entries))
	for i, entry := range entries {
		clone[i] = entry.Clone()
	}
	return clone
}
