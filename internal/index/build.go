package index

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/nuggets-cli/nuggets/internal/episode"
	"github.com/nuggets-cli/nuggets/internal/nugget"
)

// Builder rebuilds the library index from an episode store.
type Builder struct {
	store  episode.Store
	now    func() time.Time
	logger *slog.Logger
}

// NewBuilder creates a builder reading from store.
func NewBuilder(store episode.Store, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		store:  store,
		now:    time.Now,
		logger: logger,
	}
}

// WithClock sets the clock used for LastUpdated.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build scans every episode record and flattens its nuggets into a fresh
// index. Records the store could not parse are returned as warnings and left
// out. Entries keep scan order.
func (b *Builder) Build() (*LibraryIndex, []episode.ScanWarning, error) {
	episodes, warnings, err := b.store.ListAll()
	if err != nil {
		return nil, warnings, fmt.Errorf("listing episodes: %w", err)
	}

	idx, err := FromEpisodes(episodes, b.now())
	if err != nil {
		return nil, warnings, err
	}

	b.logger.Info("built library index",
		"episodes", idx.TotalEpisodes,
		"nuggets", idx.TotalNuggets,
		"skipped", len(warnings))
	return idx, warnings, nil
}

// FromEpisodes builds an index from already-loaded episodes.
func FromEpisodes(episodes []nugget.Episode, now time.Time) (*LibraryIndex, error) {
	idx := Empty()
	idx.LastUpdated = now.UTC()

	sources := make(map[string]bool)
	episodeIDs := make(map[string]bool)

	for i := range episodes {
		ep := &episodes[i]
		episodeIDs[ep.ID] = true
		sources[ep.SourceNameOrDefault()] = true

		for _, loc := range ep.Flatten() {
			entry, err := NewEntry(ep, loc)
			if err != nil {
				return nil, fmt.Errorf("indexing episode %s: %w", ep.ID, err)
			}
			idx.Entries = append(idx.Entries, entry)
		}
	}

	for s := range sources {
		idx.Sources = append(idx.Sources, s)
	}
	sort.Strings(idx.Sources)

	idx.TotalNuggets = len(idx.Entries)
	idx.TotalEpisodes = len(episodeIDs)
	return idx, nil
}
