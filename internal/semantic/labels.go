package semantic

import (
	"github.com/nuggets-cli/nuggets/internal/nugget"
	"github.com/nuggets-cli/nuggets/internal/similarity"
)

// Label describes what an embedding id points at.
type Label struct {
	ID        string `json:"id"`                  // embedding id
	NuggetID  string `json:"nugget_id,omitempty"` // index id; nuggets only
	EpisodeID string `json:"episode_id"`
	Title     string `json:"episode_title,omitempty"`
	Text      string `json:"text"`
}

// Result is a similarity match with its label.
type Result struct {
	Label
	Score float64 `json:"score"`
}

// Labels maps every segment and nugget embedding id of the episodes to a
// label.
func Labels(episodes []nugget.Episode) map[string]Label {
	labels := make(map[string]Label)
	for i := range episodes {
		ep := &episodes[i]
		for si := range ep.Segments {
			seg := &ep.Segments[si]
			text := seg.Summary
			if text == "" {
				text = seg.Text
			}
			id := ep.SegmentIDAt(si)
			labels[id] = Label{ID: id, EpisodeID: ep.ID, Title: ep.Title, Text: text}
		}
		for _, loc := range ep.Flatten() {
			id := loc.EmbeddingID(ep.ID)
			labels[id] = Label{
				ID:        id,
				NuggetID:  loc.ID(ep.ID),
				EpisodeID: ep.ID,
				Title:     ep.Title,
				Text:      loc.Nugget.Text(),
			}
		}
	}
	return labels
}

// ResolveID maps an index nugget id to its embedding id. Segment ids and
// embedding ids are returned unchanged.
func ResolveID(labels map[string]Label, id string) string {
	if _, ok := labels[id]; ok {
		return id
	}
	for _, l := range labels {
		if l.NuggetID == id {
			return l.ID
		}
	}
	return id
}

// Annotate attaches labels to matches. Matches whose record no longer
// exists keep only their id.
func Annotate(matches []similarity.Match, labels map[string]Label) []Result {
	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		l, ok := labels[m.ID]
		if !ok {
			l = Label{ID: m.ID}
		}
		results = append(results, Result{Label: l, Score: m.Score})
	}
	return results
}
