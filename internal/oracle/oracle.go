package oracle

import (
	"errors"
	"fmt"
	"sync"

	"PerpMarket/internal/fixed"
)

// ErrInvalidVersion is returned when a version that has never been published
// is requested.
var ErrInvalidVersion = errors.New("oracle: invalid version")

// Version is one immutable entry of the price history. Version 0 is the
// pre-genesis sentinel: zero timestamp, zero price.
type Version struct {
	Version   uint64     `json:"version"`
	Timestamp int64      `json:"timestamp"`
	Price     fixed.Dec6 `json:"price"`
}

// Oracle exposes a monotonically versioned price history. Published versions
// never change.
type Oracle interface {
	// Current returns the latest published version.
	Current() Version

	// At returns the exact record for a previously published version.
	// Version 0 returns the pre-genesis sentinel.
	At(version uint64) (Version, error)

	// Sync returns the latest available version, after requesting
	// publication of a fresh one where the backing feed supports
	// on-demand publication. Push-fed implementations return the
	// current version as-is.
	Sync() (Version, error)
}

// Store is the in-process oracle backing: an append-only version history fed
// by the price ingestion pipeline. Reads are lock-cheap; a single feeder
// appends.
type Store struct {
	mu       sync.RWMutex
	versions []Version // versions[i] has Version == i+1
}

func NewStore() *Store {
	return &Store{}
}

// Append publishes the next version. Timestamps must not move backwards;
// out-of-order feed messages are rejected so replays cannot rewrite history.
func (s *Store) Append(timestamp int64, price fixed.Dec6) (Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := len(s.versions); n > 0 && timestamp < s.versions[n-1].Timestamp {
		return Version{}, fmt.Errorf("oracle: timestamp %d before latest %d", timestamp, s.versions[n-1].Timestamp)
	}

	v := Version{
		Version:   uint64(len(s.versions) + 1),
		Timestamp: timestamp,
		Price:     price,
	}
	s.versions = append(s.versions, v)
	return v, nil
}

func (s *Store) Current() Version {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.versions) == 0 {
		return Version{}
	}
	return s.versions[len(s.versions)-1]
}

func (s *Store) At(version uint64) (Version, error) {
	if version == 0 {
		return Version{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if version > uint64(len(s.versions)) {
		return Version{}, fmt.Errorf("%w: %d (latest %d)", ErrInvalidVersion, version, len(s.versions))
	}
	return s.versions[version-1], nil
}

// Sync returns the latest version. Publication happens through the feed, so
// there is nothing to request in-process.
func (s *Store) Sync() (Version, error) {
	return s.Current(), nil
}

// History returns a copy of the full version history.
func (s *Store) History() []Version {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Version, len(s.versions))
	copy(out, s.versions)
	return out
}

// Restore replaces the history wholesale, for rebuilding from a snapshot.
// Entries must be dense from version 1.
func (s *Store) Restore(versions []Version) error {
	for i, v := range versions {
		if v.Version != uint64(i+1) {
			return fmt.Errorf("%w: gap at index %d (version %d)", ErrInvalidVersion, i, v.Version)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions = make([]Version, len(versions))
	copy(s.versions, versions)
	return nil
}
