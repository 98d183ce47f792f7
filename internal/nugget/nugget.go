// Package nugget defines the core domain types for analyzed episodes.
//
// An Episode is one processed source item (a video, podcast episode or
// thread). Its nuggets are stored either under thematic Segments or, for
// records written before segments existed, as a flat list on the Episode.
package nugget

import "encoding/json"

// Type is the kind of insight a nugget captures.
type Type string

const (
	TypeInsight Type = "insight" // Key learning, surprising fact, important principle
	TypeQuote   Type = "quote"   // Memorable quote worth saving
	TypeAction  Type = "action"  // Specific actionable advice
	TypeConcept Type = "concept" // Important definition or mental model
	TypeStory   Type = "story"   // Illustrative anecdote or example
)

// Types lists every nugget type in display order.
var Types = []Type{TypeInsight, TypeQuote, TypeAction, TypeConcept, TypeStory}

// Valid reports whether t is one of the known nugget types.
func (t Type) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// SourceType identifies where an episode came from.
type SourceType string

const (
	SourceYouTube SourceType = "youtube"
	SourcePodcast SourceType = "podcast"
	SourceTwitter SourceType = "twitter"
	SourceAudio   SourceType = "audio"
)

// WisdomType describes what kind of insight a nugget is.
type WisdomType string

const (
	WisdomPrinciple   WisdomType = "principle"    // Fundamental truth or rule
	WisdomHabit       WisdomType = "habit"        // Concrete behavior to implement
	WisdomMentalModel WisdomType = "mental-model" // Way of thinking about something
	WisdomLifeLesson  WisdomType = "life-lesson"  // Broad life wisdom
	WisdomTechnique   WisdomType = "technique"    // Specific method or technique
	WisdomWarning     WisdomType = "warning"      // Something to avoid
)

const (
	// DefaultImportance is used when a nugget record carries no importance.
	DefaultImportance = 3

	// DefaultSourceName is used when an episode record has no source name.
	DefaultSourceName = "Unknown"

	// DefaultSourceType is used when an episode record has no source type.
	DefaultSourceType = SourceYouTube

	// UnknownDate is the date key of episodes without a publication date.
	UnknownDate = "unknown"
)

// Nugget is a single extracted insight.
type Nugget struct {
	Content    string     `json:"content"`
	Type       Type       `json:"type,omitempty"`
	Headline   string     `json:"headline,omitempty"`
	Condensed  string     `json:"condensed,omitempty"`
	Quote      string     `json:"quote,omitempty"`
	Timestamp  string     `json:"timestamp,omitempty"` // HH:MM:SS or MM:SS
	Context    string     `json:"context,omitempty"`
	Importance *int       `json:"importance,omitempty"` // 1-5, nil means DefaultImportance
	Speaker    string     `json:"speaker,omitempty"`
	Topic      string     `json:"topic,omitempty"`
	WisdomType WisdomType `json:"wisdom_type,omitempty"`
	Stars      *int       `json:"stars,omitempty"` // personal rating 1-3, nil when unrated
	Theme      string     `json:"theme,omitempty"`
	Embedding  []float32  `json:"embedding,omitempty"`
	RawSegment string     `json:"raw_segment,omitempty"`

	// Extra holds keys this package does not model so rewrites keep them.
	Extra map[string]json.RawMessage `json:"-"`
}

// Segment is a thematic block within an episode.
type Segment struct {
	ID              string    `json:"id,omitempty"`
	EpisodeID       string    `json:"episode_id,omitempty"`
	Text            string    `json:"text,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	Topic           string    `json:"topic,omitempty"`
	Theme           string    `json:"theme,omitempty"`
	StartTimestamp  string    `json:"start_timestamp,omitempty"`
	EndTimestamp    string    `json:"end_timestamp,omitempty"`
	Speakers        []string  `json:"speakers,omitempty"`
	PrimarySpeaker  string    `json:"primary_speaker,omitempty"`
	Embedding       []float32 `json:"embedding,omitempty"`
	RelatedSegments []string  `json:"related_segments,omitempty"`
	Nuggets         []Nugget  `json:"nuggets"`

	Extra map[string]json.RawMessage `json:"-"`
}

// Episode is one analyzed source item.
type Episode struct {
	// Identity
	ID         string     `json:"id"` // {source_type}-{date}-{external_id}
	SourceType SourceType `json:"source_type,omitempty"`
	SourceName string     `json:"source_name,omitempty"`
	Title      string     `json:"title,omitempty"`

	// Metadata
	Date            string   `json:"date,omitempty"` // ISO-8601-like
	URL             string   `json:"url,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	Guests          []string `json:"guests,omitempty"`
	Summary         string   `json:"summary,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	PersonalNotes   string   `json:"personal_notes,omitempty"`

	// Analysis results: hierarchical records use Segments, legacy records Nuggets.
	Segments []Segment `json:"segments,omitempty"`
	Nuggets  []Nugget  `json:"nuggets,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// EffectiveType returns the nugget type, treating a missing or unknown type
// as an insight.
func (n *Nugget) EffectiveType() Type {
	if !n.Type.Valid() {
		return TypeInsight
	}
	return n.Type
}

// EffectiveImportance returns the importance, applying the default when unset.
func (n *Nugget) EffectiveImportance() int {
	if n.Importance == nil {
		return DefaultImportance
	}
	return *n.Importance
}

// Text returns the content, falling back to the headline.
func (n *Nugget) Text() string {
	if n.Content != "" {
		return n.Content
	}
	return n.Headline
}

// IsHierarchical reports whether the episode stores its nuggets under segments.
func (e *Episode) IsHierarchical() bool {
	return len(e.Segments) > 0
}

// SourceNameOrDefault returns the source name or DefaultSourceName.
func (e *Episode) SourceNameOrDefault() string {
	if e.SourceName == "" {
		return DefaultSourceName
	}
	return e.SourceName
}

// SourceTypeOrDefault returns the source type or DefaultSourceType.
func (e *Episode) SourceTypeOrDefault() SourceType {
	if e.SourceType == "" {
		return DefaultSourceType
	}
	return e.SourceType
}

// DateKey returns the first 10 characters of the date (YYYY-MM-DD),
// or UnknownDate when the episode has no date.
func (e *Episode) DateKey() string {
	if e.Date == "" {
		return UnknownDate
	}
	if len(e.Date) > 10 {
		return e.Date[:10]
	}
	return e.Date
}

// SegmentIDAt returns the id of segment i, deriving it when the record has none.
func (e *Episode) SegmentIDAt(i int) string {
	if id := e.Segments[i].ID; id != "" {
		return id
	}
	return SegmentID(e.ID, i)
}

// Located is a nugget together with where it lives in its episode.
type Located struct {
	Position        int    // flattened 0-based position within the episode
	SegmentIndex    int    // -1 for legacy episodes
	SegmentID       string // empty for legacy episodes
	SegmentPosition int    // position within the segment (equals Position for legacy)
	Nugget          *Nugget
}

// ID returns the episode-scoped nugget id ({episode_id}-{position}).
func (l Located) ID(episodeID string) string {
	return EpisodeNuggetID(episodeID, l.Position)
}

// EmbeddingID returns the id used to key this nugget's embedding: the
// segment-scoped id for hierarchical episodes, the episode-scoped id otherwise.
func (l Located) EmbeddingID(episodeID string) string {
	if l.SegmentID == "" {
		return l.ID(episodeID)
	}
	return SegmentNuggetID(l.SegmentID, l.SegmentPosition)
}

// Flatten lists every nugget of the episode in stored order. Segment topics
// are not copied onto their nuggets.
func (e *Episode) Flatten() []Located {
	var out []Located
	if !e.IsHierarchical() {
		for i := range e.Nuggets {
			out = append(out, Located{
				Position:        i,
				SegmentIndex:    -1,
				SegmentPosition: i,
				Nugget:          &e.Nuggets[i],
			})
		}
		return out
	}

	pos := 0
	for si := range e.Segments {
		segID := e.SegmentIDAt(si)
		for ni := range e.Segments[si].Nuggets {
			out = append(out, Located{
				Position:        pos,
				SegmentIndex:    si,
				SegmentID:       segID,
				SegmentPosition: ni,
				Nugget:          &e.Segments[si].Nuggets[ni],
			})
			pos++
		}
	}
	return out
}

// NuggetCount returns the number of nuggets in the episode, flat or nested.
func (e *Episode) NuggetCount() int {
	if !e.IsHierarchical() {
		return len(e.Nuggets)
	}
	count := 0
	for _, s := range e.Segments {
		count += len(s.Nuggets)
	}
	return count
}

// NuggetAt returns the nugget at a flattened position.
func (e *Episode) NuggetAt(position int) (*Nugget, bool) {
	if position < 0 {
		return nil, false
	}
	if !e.IsHierarchical() {
		if position >= len(e.Nuggets) {
			return nil, false
		}
		return &e.Nuggets[position], true
	}
	for si := range e.Segments {
		n := len(e.Segments[si].Nuggets)
		if position < n {
			return &e.Segments[si].Nuggets[position], true
		}
		position -= n
	}
	return nil, false
}
