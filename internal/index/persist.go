package index

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/nuggets-cli/nuggets/internal/storage"
)

// Save writes the index as indented JSON, atomically.
func Save(path string, idx *LibraryIndex) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := storage.WriteFileAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("saving index: %w", err)
	}
	return nil
}

// Load reads the index at path. A missing file yields an empty index; a file
// that cannot be decoded or holds out-of-range values is an error.
func Load(path string) (*LibraryIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("reading index: %w", err)
	}

	var idx LibraryIndex
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decoding index %s: %w", path, err)
	}

	for i := range idx.Entries {
		if err := idx.Entries[i].Validate(); err != nil {
			return nil, fmt.Errorf("decoding index %s: entry %s: %w", path, idx.Entries[i].NuggetID, err)
		}
	}

	if idx.Entries == nil {
		idx.Entries = []Entry{}
	}
	if idx.Sources == nil {
		idx.Sources = []string{}
	}
	return &idx, nil
}
