package episode

import (
	"fmt"
	"sync"

	"github.com/nuggets-cli/nuggets/internal/nugget"
)

// MemStore is an in-memory Store. Records are kept as encoded bytes so
// reads and writes go through the same decode and validation path as files.
type MemStore struct {
	mu      sync.Mutex
	records []memRecord
}

type memRecord struct {
	name string
	data []byte
}

// NewMemStore creates a store seeded with the given episodes.
func NewMemStore(episodes ...nugget.Episode) (*MemStore, error) {
	s := &MemStore{}
	for i := range episodes {
		if err := s.Save(&episodes[i]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddRaw adds an undecoded record under a name, as if a file with that
// content existed. Invalid content shows up as a ScanWarning.
func (s *MemStore) AddRaw(name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, memRecord{name: name, data: append([]byte(nil), data...)})
}

// Raw returns the stored bytes of the record with the given id.
func (s *MemStore) Raw(id string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if ep, err := Decode(r.data); err == nil && ep.ID == id {
			return append([]byte(nil), r.data...), true
		}
	}
	return nil, false
}

// ListAll implements Store.
func (s *MemStore) ListAll() ([]nugget.Episode, []ScanWarning, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var episodes []nugget.Episode
	var warnings []ScanWarning
	for _, r := range s.records {
		ep, err := Decode(r.data)
		if err != nil {
			warnings = append(warnings, ScanWarning{Path: r.name, Err: err.Error()})
			continue
		}
		episodes = append(episodes, *ep)
	}
	return episodes, warnings, nil
}

// Get implements Store.
func (s *MemStore) Get(id string) (*nugget.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if ep, err := Decode(r.data); err == nil && ep.ID == id {
			return ep, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrEpisodeNotFound, id)
}

// Save implements Store.
func (s *MemStore) Save(ep *nugget.Episode) error {
	if err := ep.Validate(); err != nil {
		return fmt.Errorf("saving episode: %w", err)
	}
	data, err := Encode(ep)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, r := range s.records {
		if existing, err := Decode(r.data); err == nil && existing.ID == ep.ID {
			s.records[i].data = data
			return nil
		}
	}
	if err := ep.ValidateStrict(); err != nil {
		return fmt.Errorf("saving episode: %w", err)
	}
	s.records = append(s.records, memRecord{name: ep.ID + ".json", data: data})
	return nil
}
