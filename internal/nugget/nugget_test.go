package nugget

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func intPtr(v int) *int { return &v }

func TestNuggetValidate(t *testing.T) {
	tests := []struct {
		name    string
		nugget  Nugget
		wantErr error
	}{
		{
			name:   "minimal content",
			nugget: Nugget{Content: "Sleep 8 hours"},
		},
		{
			name:   "headline only",
			nugget: Nugget{Headline: "Sleep matters"},
		},
		{
			name:    "no content or headline",
			nugget:  Nugget{Type: TypeQuote},
			wantErr: ErrMissingContent,
		},
		{
			name:   "unknown type read as insight",
			nugget: Nugget{Content: "x", Type: "rant"},
		},
		{
			name:    "stars too high",
			nugget:  Nugget{Content: "x", Stars: intPtr(4)},
			wantErr: ErrInvalidStars,
		},
		{
			name:    "stars zero",
			nugget:  Nugget{Content: "x", Stars: intPtr(0)},
			wantErr: ErrInvalidStars,
		},
		{
			name:   "stars max",
			nugget: Nugget{Content: "x", Stars: intPtr(3)},
		},
		{
			name:    "importance too high",
			nugget:  Nugget{Content: "x", Importance: intPtr(6)},
			wantErr: ErrInvalidImportance,
		},
		{
			name:    "explicit zero importance",
			nugget:  Nugget{Content: "x", Importance: intPtr(0)},
			wantErr: ErrInvalidImportance,
		},
		{
			name:    "negative importance",
			nugget:  Nugget{Content: "x", Importance: intPtr(-1)},
			wantErr: ErrInvalidImportance,
		},
		{
			name:   "importance max",
			nugget: Nugget{Content: "x", Importance: intPtr(5)},
		},
		{
			name:   "importance unset",
			nugget: Nugget{Content: "x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nugget.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateStrict(t *testing.T) {
	tests := []struct {
		name    string
		ep      Episode
		wantErr error
	}{
		{"known type", Episode{ID: "e", Nuggets: []Nugget{{Content: "x", Type: TypeQuote}}}, nil},
		{"missing type", Episode{ID: "e", Nuggets: []Nugget{{Content: "x"}}}, nil},
		{"unknown type", Episode{ID: "e", Nuggets: []Nugget{{Content: "x", Type: "tip"}}}, ErrInvalidType},
		{"bad importance", Episode{ID: "e", Nuggets: []Nugget{{Content: "x", Importance: intPtr(0)}}}, ErrInvalidImportance},
		{"missing id", Episode{Nuggets: []Nugget{{Content: "x"}}}, ErrMissingID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ep.ValidateStrict()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("ValidateStrict() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("ValidateStrict() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestImportanceFromJSON(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    int
		wantErr bool
	}{
		{"absent", `{"content": "x"}`, DefaultImportance, false},
		{"explicit", `{"content": "x", "importance": 5}`, 5, false},
		{"zero", `{"content": "x", "importance": 0}`, 0, true},
		{"six", `{"content": "x", "importance": 6}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Nugget
			if err := json.Unmarshal([]byte(tt.data), &n); err != nil {
				t.Fatal(err)
			}
			err := n.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidImportance) {
					t.Fatalf("Validate() error = %v, want ErrInvalidImportance", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if got := n.EffectiveImportance(); got != tt.want {
				t.Errorf("EffectiveImportance() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEffectiveDefaults(t *testing.T) {
	n := Nugget{Content: "x"}
	if got := n.EffectiveType(); got != TypeInsight {
		t.Errorf("EffectiveType() = %q, want insight", got)
	}
	if got := n.EffectiveImportance(); got != DefaultImportance {
		t.Errorf("EffectiveImportance() = %d, want %d", got, DefaultImportance)
	}
	unknown := Nugget{Content: "x", Type: "tip"}
	if got := unknown.EffectiveType(); got != TypeInsight {
		t.Errorf("EffectiveType() of unknown type = %q, want insight", got)
	}

	ep := Episode{ID: "e"}
	if got := ep.SourceNameOrDefault(); got != "Unknown" {
		t.Errorf("SourceNameOrDefault() = %q", got)
	}
	if got := ep.SourceTypeOrDefault(); got != SourceYouTube {
		t.Errorf("SourceTypeOrDefault() = %q", got)
	}
}

func TestDateKey(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-01-15", "2024-01-15"},
		{"2024-01-15T10:30:00Z", "2024-01-15"},
		{"", "unknown"},
		{"2024", "2024"},
	}
	for _, tt := range tests {
		ep := Episode{Date: tt.date}
		if got := ep.DateKey(); got != tt.want {
			t.Errorf("DateKey(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func hierarchicalEpisode() Episode {
	return Episode{
		ID: "youtube-2024-01-15-abc",
		Segments: []Segment{
			{ID: "segment-youtube-2024-01-15-abc-0", Topic: "sleep", Nuggets: []Nugget{{Content: "a"}, {Content: "b"}}},
			{Nuggets: []Nugget{{Content: "c"}}},
		},
	}
}

func TestFlatten(t *testing.T) {
	ep := hierarchicalEpisode()
	locs := ep.Flatten()
	if len(locs) != 3 {
		t.Fatalf("Flatten() returned %d nuggets, want 3", len(locs))
	}
	if ep.NuggetCount() != 3 {
		t.Errorf("NuggetCount() = %d, want 3", ep.NuggetCount())
	}

	last := locs[2]
	if last.Position != 2 || last.SegmentIndex != 1 || last.SegmentPosition != 0 {
		t.Errorf("last nugget location = %+v", last)
	}
	if last.SegmentID != "segment-youtube-2024-01-15-abc-1" {
		t.Errorf("derived segment id = %q", last.SegmentID)
	}
	if got := last.ID(ep.ID); got != "youtube-2024-01-15-abc-2" {
		t.Errorf("ID() = %q", got)
	}
	if got := last.EmbeddingID(ep.ID); got != "nugget-segment-youtube-2024-01-15-abc-1-0" {
		t.Errorf("EmbeddingID() = %q", got)
	}

	// Segment topics are not inherited.
	if locs[0].Nugget.Topic != "" {
		t.Errorf("nugget topic = %q, want empty", locs[0].Nugget.Topic)
	}

	// Pointers refer into the episode.
	locs[1].Nugget.Content = "changed"
	if ep.Segments[0].Nuggets[1].Content != "changed" {
		t.Error("Flatten() did not return pointers into the episode")
	}
}

func TestFlattenLegacy(t *testing.T) {
	ep := Episode{ID: "e", Nuggets: []Nugget{{Content: "a"}, {Content: "b"}}}
	locs := ep.Flatten()
	if len(locs) != 2 {
		t.Fatalf("Flatten() returned %d nuggets, want 2", len(locs))
	}
	if locs[1].SegmentIndex != -1 || locs[1].SegmentID != "" {
		t.Errorf("legacy location = %+v", locs[1])
	}
	if got := locs[1].EmbeddingID(ep.ID); got != "e-1" {
		t.Errorf("EmbeddingID() = %q, want e-1", got)
	}
}

func TestNuggetAt(t *testing.T) {
	ep := hierarchicalEpisode()
	tests := []struct {
		pos  int
		want string
		ok   bool
	}{
		{0, "a", true},
		{1, "b", true},
		{2, "c", true},
		{3, "", false},
		{-1, "", false},
	}
	for _, tt := range tests {
		n, ok := ep.NuggetAt(tt.pos)
		if ok != tt.ok {
			t.Errorf("NuggetAt(%d) ok = %v, want %v", tt.pos, ok, tt.ok)
			continue
		}
		if ok && n.Content != tt.want {
			t.Errorf("NuggetAt(%d) = %q, want %q", tt.pos, n.Content, tt.want)
		}
	}
}

func TestSplitNuggetID(t *testing.T) {
	tests := []struct {
		id      string
		episode string
		pos     int
		wantErr bool
	}{
		{"youtube-2024-01-15-abc123-3", "youtube-2024-01-15-abc123", 3, false},
		{"ep1-0", "ep1", 0, false},
		{"noposition", "", 0, true},
		{"ep1-", "", 0, true},
		{"ep1-x", "", 0, true},
		{"-3", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			ep, pos, err := SplitNuggetID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitNuggetID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err == nil && (ep != tt.episode || pos != tt.pos) {
				t.Errorf("SplitNuggetID(%q) = (%q, %d), want (%q, %d)", tt.id, ep, pos, tt.episode, tt.pos)
			}
		})
	}
}

func TestSetStars(t *testing.T) {
	n := Nugget{Content: "x"}
	if err := n.SetStars(5); !errors.Is(err, ErrInvalidStars) {
		t.Errorf("SetStars(5) error = %v, want ErrInvalidStars", err)
	}
	if n.Stars != nil {
		t.Error("invalid SetStars modified the nugget")
	}
	if err := n.SetStars(2); err != nil {
		t.Fatalf("SetStars(2) error = %v", err)
	}
	if n.Stars == nil || *n.Stars != 2 {
		t.Errorf("Stars = %v, want 2", n.Stars)
	}
}

func TestUnknownKeysSurviveRoundTrip(t *testing.T) {
	input := `{
		"id": "podcast-2024-02-01-xyz",
		"source_name": "Café Podcast",
		"analyzer_version": "2.1",
		"segments": [
			{"id": "s0", "topic": "health", "mood": "calm",
			 "nuggets": [{"content": "Walk daily", "type": "action", "stars": null, "confidence": 0.9}]}
		]
	}`

	var ep Episode
	if err := json.Unmarshal([]byte(input), &ep); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if ep.Nuggets != nil {
		t.Errorf("legacy nuggets = %v, want nil", ep.Nuggets)
	}
	if _, ok := ep.Extra["analyzer_version"]; !ok {
		t.Error("episode extra key lost on decode")
	}
	if _, ok := ep.Segments[0].Extra["mood"]; !ok {
		t.Error("segment extra key lost on decode")
	}

	if err := ep.Segments[0].Nuggets[0].SetStars(3); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(ep)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"analyzer_version":"2.1"`, `"mood":"calm"`, `"confidence":0.9`, `"stars":3`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("encoded record missing %s: %s", want, out)
		}
	}
}

func TestCategories(t *testing.T) {
	if len(Topics) != 14 {
		t.Errorf("len(Topics) = %d, want 14", len(Topics))
	}
	if !IsKnownTopic("Sleep") {
		t.Error("IsKnownTopic(Sleep) = false")
	}
	if IsKnownTopic("gardening") {
		t.Error("IsKnownTopic(gardening) = true")
	}
	if !WisdomType("Mental-Model").Valid() {
		t.Error("Mental-Model should be a valid wisdom type")
	}
	if WisdomType("rumor").Valid() {
		t.Error("rumor should not be a valid wisdom type")
	}
}
