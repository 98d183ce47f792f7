// Package episode reads and writes analyzed episode records.
//
// Records are JSON files under the analysis directory. Files that cannot be
// parsed or fail validation are skipped and reported as ScanWarnings so one
// bad record never blocks the rest of the library.
package episode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nuggets-cli/nuggets/internal/nugget"
)

// ErrEpisodeNotFound is returned when no record carries the requested id.
var ErrEpisodeNotFound = errors.New("episode not found")

// Store enumerates, fetches and persists episode records.
type Store interface {
	// ListAll returns every valid episode in a deterministic order, plus a
	// warning per skipped record.
	ListAll() ([]nugget.Episode, []ScanWarning, error)

	// Get returns the episode with the given id or ErrEpisodeNotFound.
	Get(id string) (*nugget.Episode, error)

	// Save writes the episode back, replacing the record with the same id.
	Save(ep *nugget.Episode) error
}

// ScanWarning reports a record that was skipped during a scan.
type ScanWarning struct {
	Path string `json:"path"`
	Err  string `json:"error"`
}

func (w ScanWarning) String() string {
	return fmt.Sprintf("%s: %s", w.Path, w.Err)
}

// Decode parses and validates a record.
func Decode(data []byte) (*nugget.Episode, error) {
	var ep nugget.Episode
	if err := json.Unmarshal(data, &ep); err != nil {
		return nil, fmt.Errorf("parsing episode: %w", err)
	}
	if err := ep.Validate(); err != nil {
		return nil, fmt.Errorf("invalid episode %s: %w", ep.ID, err)
	}
	return &ep, nil
}

// Encode renders a record as indented JSON. Non-ASCII text is written as is.
func Encode(ep *nugget.Episode) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ep); err != nil {
		return nil, fmt.Errorf("encoding episode %s: %w", ep.ID, err)
	}
	return buf.Bytes(), nil
}
