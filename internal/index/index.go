// Package index builds, persists and queries the flat library index.
//
// The index is a derived view: one Entry per nugget across every episode
// record, rebuilt from scratch from the episode store. Ratings are written to
// the episode records, never to the index.
package index

import (
	"fmt"
	"time"

	"github.com/nuggets-cli/nuggets/internal/nugget"
)

// Entry is the flattened, searchable view of one nugget.
type Entry struct {
	NuggetID     string            `json:"nugget_id"` // {episode_id}-{position}
	EpisodeID    string            `json:"episode_id"`
	SegmentID    string            `json:"segment_id,omitempty"`
	Content      string            `json:"content"`
	Headline     string            `json:"headline,omitempty"`
	Type         nugget.Type       `json:"type"`
	SourceName   string            `json:"source_name"`
	SourceType   nugget.SourceType `json:"source_type"`
	EpisodeTitle string            `json:"episode_title,omitempty"`
	Date         string            `json:"date"` // YYYY-MM-DD or "unknown"
	Topic        string            `json:"topic,omitempty"`
	WisdomType   nugget.WisdomType `json:"wisdom_type,omitempty"`
	Stars        *int              `json:"stars"`
	Importance   int               `json:"importance"`
	Speaker      string            `json:"speaker,omitempty"`
	Timestamp    string            `json:"timestamp,omitempty"`
}

// LibraryIndex is the full set of entries plus summary counts.
type LibraryIndex struct {
	Entries       []Entry   `json:"entries"`
	TotalNuggets  int       `json:"total_nuggets"`
	TotalEpisodes int       `json:"total_episodes"`
	Sources       []string  `json:"sources"`
	LastUpdated   time.Time `json:"last_updated,omitzero"`
}

// Empty returns an index with no entries.
func Empty() *LibraryIndex {
	return &LibraryIndex{
		Entries: []Entry{},
		Sources: []string{},
	}
}

// NewEntry flattens one located nugget of an episode into an index entry.
// Episode-level defaults (source name, source type, date) are applied here.
func NewEntry(ep *nugget.Episode, loc nugget.Located) (Entry, error) {
	n := loc.Nugget
	e := Entry{
		NuggetID:     loc.ID(ep.ID),
		EpisodeID:    ep.ID,
		SegmentID:    loc.SegmentID,
		Content:      n.Text(),
		Headline:     n.Headline,
		Type:         n.EffectiveType(),
		SourceName:   ep.SourceNameOrDefault(),
		SourceType:   ep.SourceTypeOrDefault(),
		EpisodeTitle: ep.Title,
		Date:         ep.DateKey(),
		Topic:        n.Topic,
		WisdomType:   n.WisdomType,
		Stars:        n.Stars,
		Importance:   n.EffectiveImportance(),
		Speaker:      n.Speaker,
		Timestamp:    n.Timestamp,
	}
	if err := e.Validate(); err != nil {
		return Entry{}, fmt.Errorf("nugget %s: %w", e.NuggetID, err)
	}
	return e, nil
}

// Validate checks the rating and importance ranges.
func (e *Entry) Validate() error {
	if e.Stars != nil {
		if err := nugget.ValidateStars(*e.Stars); err != nil {
			return err
		}
	}
	return nugget.ValidateImportance(e.Importance)
}

// IsRated reports whether the entry carries a personal rating.
func (e *Entry) IsRated() bool {
	return e.Stars != nil
}

// Year returns the first four characters of the date, or "unknown".
func (e *Entry) Year() string {
	if e.Date == nugget.UnknownDate || len(e.Date) < 4 {
		return nugget.UnknownDate
	}
	return e.Date[:4]
}

// Find returns the entry with the given nugget id.
func (idx *LibraryIndex) Find(nuggetID string) (*Entry, bool) {
	for i := range idx.Entries {
		if idx.Entries[i].NuggetID == nuggetID {
			return &idx.Entries[i], true
		}
	}
	return nil, false
}
