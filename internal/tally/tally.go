// Package tally keeps count of how many matches each AI configuration played, persisted in a
// small YAML file.
package tally

import (
	"os"
	"slices"
	"sync"

	"github.com/janpfeifer/connect4Go/internal/generics"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"
)

// Store of play counts, indexed by the AI identifier (see players.Player.ID).
// It is safe for concurrent use.
type Store struct {
	path string

	mu     sync.Mutex
	counts map[string]int
}

// fileContents is the format of the file.
type fileContents struct {
	Counts map[string]int `yaml:"counts"`
}

// New returns an empty Store that saves to path. If path is empty, the Store is in-memory only.
func New(path string) *Store {
	return &Store{path: path, counts: make(map[string]int)}
}

// Load the Store from path. A missing file is not an error: counts start at zero.
// If path is empty, an in-memory Store is returned.
func Load(path string) (*Store, error) {
	s := New(path)
	if path == "" {
		return s, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		klog.V(1).Infof("Play counts file %s doesn't exist yet, starting from zero", path)
		return s, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read play counts from %s", path)
	}
	var contents fileContents
	if err := yaml.Unmarshal(data, &contents); err != nil {
		return nil, errors.Wrapf(err, "failed to parse play counts in %s", path)
	}
	for id, count := range contents.Counts {
		if count < 0 {
			return nil, errors.Errorf("invalid play count %d for %q in %s", count, id, path)
		}
		s.counts[id] = count
	}
	return s, nil
}

// Path where the Store is saved, or empty if it is in-memory only.
func (s *Store) Path() string {
	return s.path
}

// Increment the count for id and return the new value.
func (s *Store) Increment(id string) int {
	return s.Add(id, 1)
}

// Add n matches to the count for id and return the new value.
func (s *Store) Add(id string, n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[id] += n
	return s.counts[id]
}

// Count returns the number of matches played by id.
func (s *Store) Count(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[id]
}

// IDs returns the identifiers with a count, sorted.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(generics.SortedKeys(s.counts))
}

// Save the counts to the Store's path. The previous file, if it exists, is kept with a "~" suffix.
// It's a no-op for in-memory stores.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(&fileContents{Counts: s.counts})
	if err != nil {
		return errors.Wrapf(err, "failed to encode play counts")
	}
	if _, err := os.Stat(s.path); err == nil {
		if err = os.Rename(s.path, s.path+"~"); err != nil {
			return errors.Wrapf(err, "failed to rename %s to %s", s.path, s.path+"~")
		}
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, "failed to stat %s", s.path)
	}
	if err = os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to save play counts to %s", s.path)
	}
	klog.V(1).Infof("Saved play counts to %s", s.path)
	return nil
}
