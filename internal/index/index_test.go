package index

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/nuggets-cli/nuggets/internal/episode"
	"github.com/nuggets-cli/nuggets/internal/nugget"
)

func intPtr(v int) *int { return &v }

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// scenarioStore holds two episodes: First (3 stars, sleep) and Second
// (unrated, health) in one, Third (3 stars, mindset) in the other.
func scenarioStore(t *testing.T) *episode.MemStore {
	t.Helper()
	store, err := episode.NewMemStore(
		nugget.Episode{
			ID:         "youtube-2024-01-15-abc",
			SourceName: "Huberman Lab",
			Date:       "2024-01-15",
			Segments: []nugget.Segment{{
				Topic: "sleep",
				Nuggets: []nugget.Nugget{
					{Content: "First", Stars: intPtr(3), Topic: "sleep"},
					{Content: "Second", Topic: "health", WisdomType: nugget.WisdomHabit},
				},
			}},
		},
		nugget.Episode{
			ID:         "podcast-2024-02-01-xyz",
			SourceType: nugget.SourcePodcast,
			SourceName: "Tim Ferriss",
			Date:       "2024-02-01T08:00:00Z",
			Nuggets: []nugget.Nugget{
				{Content: "Third", Stars: intPtr(3), Topic: "mindset", Type: nugget.TypeQuote},
			},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	return store
}

func contents(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Content
	}
	return out
}

func TestConcreteScenario(t *testing.T) {
	idx, warnings, err := NewBuilder(scenarioStore(t), nil).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}

	if got := contents(Search(idx, Filters{Stars: 3})); !reflect.DeepEqual(got, []string{"First", "Third"}) {
		t.Errorf("Search(stars=3) = %v, want [First Third]", got)
	}
	if got := contents(Search(idx, Filters{Topic: "health"})); !reflect.DeepEqual(got, []string{"Second"}) {
		t.Errorf("Search(topic=health) = %v, want [Second]", got)
	}

	stats := GetStats(idx)
	if stats.ByStars.Three != 2 {
		t.Errorf("ByStars.Three = %d, want 2", stats.ByStars.Three)
	}
	if stats.ByStars.Unrated != 1 {
		t.Errorf("ByStars.Unrated = %d, want 1", stats.ByStars.Unrated)
	}
}

func TestBuild_Entries(t *testing.T) {
	idx, _, err := NewBuilder(scenarioStore(t), nil).Build()
	if err != nil {
		t.Fatal(err)
	}

	if idx.TotalNuggets != 3 || idx.TotalEpisodes != 2 {
		t.Errorf("totals = %d nuggets / %d episodes", idx.TotalNuggets, idx.TotalEpisodes)
	}
	if !reflect.DeepEqual(idx.Sources, []string{"Huberman Lab", "Tim Ferriss"}) {
		t.Errorf("Sources = %v", idx.Sources)
	}

	second := idx.Entries[1]
	if second.NuggetID != "youtube-2024-01-15-abc-1" {
		t.Errorf("NuggetID = %q", second.NuggetID)
	}
	if second.SourceType != nugget.SourceYouTube {
		t.Errorf("default SourceType = %q", second.SourceType)
	}
	if second.Type != nugget.TypeInsight || second.Importance != 3 {
		t.Errorf("defaults: type %q importance %d", second.Type, second.Importance)
	}
	if second.SegmentID != "segment-youtube-2024-01-15-abc-0" {
		t.Errorf("SegmentID = %q", second.SegmentID)
	}

	third := idx.Entries[2]
	if third.Date != "2024-02-01" {
		t.Errorf("Date = %q, want truncated to 10 chars", third.Date)
	}
	if third.SegmentID != "" {
		t.Errorf("legacy SegmentID = %q, want empty", third.SegmentID)
	}
}

func TestBuild_TopicNotInherited(t *testing.T) {
	store, _ := episode.NewMemStore(nugget.Episode{
		ID: "e",
		Segments: []nugget.Segment{{
			Topic:   "sleep",
			Nuggets: []nugget.Nugget{{Content: "has topic", Topic: "sleep"}, {Content: "no topic"}},
		}},
	})
	idx, _, err := NewBuilder(store, nil).Build()
	if err != nil {
		t.Fatal(err)
	}
	if got := contents(Search(idx, Filters{Topic: "sleep"})); !reflect.DeepEqual(got, []string{"has topic"}) {
		t.Errorf("Search(topic=sleep) = %v; segment topic must not be inherited", got)
	}
	if idx.Entries[1].Topic != "" {
		t.Errorf("Topic = %q, want empty", idx.Entries[1].Topic)
	}
}

func TestBuild_SkipsCorruptRecords(t *testing.T) {
	store := scenarioStore(t)
	store.AddRaw("youtube/broken.json", []byte(`{"id": "broken", "nuggets": [{"content": "x", "stars": 5}]}`))
	store.AddRaw("youtube/garbage.json", []byte(`not json`))

	idx, warnings, err := NewBuilder(store, nil).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if idx.TotalNuggets != 3 {
		t.Errorf("TotalNuggets = %d, want 3", idx.TotalNuggets)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v, want 2", warnings)
	}
}

func TestBuild_SkipsOutOfRangeImportance(t *testing.T) {
	tests := []struct {
		name   string
		record string
	}{
		{"zero", `{"id": "e1", "nuggets": [{"content": "a", "importance": 0}]}`},
		{"six", `{"id": "e1", "nuggets": [{"content": "a", "importance": 6}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &episode.MemStore{}
			store.AddRaw("e1.json", []byte(tt.record))

			idx, warnings, err := NewBuilder(store, nil).Build()
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if len(idx.Entries) != 0 {
				t.Errorf("entries = %d, want 0", len(idx.Entries))
			}
			if len(warnings) != 1 {
				t.Errorf("warnings = %v, want 1", warnings)
			}
		})
	}
}

func TestBuild_UnknownTypeReadAsInsight(t *testing.T) {
	store := &episode.MemStore{}
	store.AddRaw("e1.json", []byte(`{"id": "e1", "nuggets": [{"content": "good", "type": "insight"}, {"content": "x", "type": "tip"}]}`))

	idx, warnings, err := NewBuilder(store, nil).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}
	if idx.TotalNuggets != 2 {
		t.Fatalf("TotalNuggets = %d, want 2", idx.TotalNuggets)
	}
	if idx.Entries[1].Type != nugget.TypeInsight {
		t.Errorf("Type = %q, want insight", idx.Entries[1].Type)
	}
}

func TestBuild_EmptyStore(t *testing.T) {
	store, _ := episode.NewMemStore()
	idx, _, err := NewBuilder(store, nil).Build()
	if err != nil {
		t.Fatal(err)
	}
	if idx.Entries == nil || idx.Sources == nil {
		t.Error("empty index should have non-nil slices")
	}
	if GetStats(idx).ByStars.Total() != 0 {
		t.Error("empty index star buckets not zero")
	}
}

func TestBuild_Idempotent(t *testing.T) {
	store := scenarioStore(t)
	clock := fixedNow
	b := NewBuilder(store, nil).WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})

	first, _, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	if first.LastUpdated.Equal(second.LastUpdated) {
		t.Error("clock not used for LastUpdated")
	}
	first.LastUpdated, second.LastUpdated = time.Time{}, time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("rebuild not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestBuild_FileStore(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		os.MkdirAll(filepath.Dir(path), 0755)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	write("youtube/chan/2024-01-15-a.json", `{"id": "youtube-2024-01-15-a", "source_name": "Chan",
		"segments": [{"nuggets": [{"content": "one"}, {"content": "two"}]}, {"nuggets": [{"content": "three"}]}]}`)
	write("twitter/someone/2024-03-02-b.json", `{"id": "twitter-2024-03-02-b", "source_type": "twitter", "nuggets": [{"headline": "only headline"}]}`)
	write("youtube/chan/corrupt.json", `{"id": `)

	idx, warnings, err := NewBuilder(episode.NewFileStore(root, nil), nil).Build()
	if err != nil {
		t.Fatal(err)
	}
	if idx.TotalNuggets != 4 {
		t.Errorf("TotalNuggets = %d, want 4", idx.TotalNuggets)
	}
	if len(warnings) != 1 {
		t.Errorf("warnings = %v", warnings)
	}
	// twitter/ sorts before youtube/.
	if idx.Entries[0].Content != "only headline" || idx.Entries[0].SourceName != "Unknown" {
		t.Errorf("first entry = %+v", idx.Entries[0])
	}
	if idx.Entries[3].NuggetID != "youtube-2024-01-15-a-2" {
		t.Errorf("flattened id = %q", idx.Entries[3].NuggetID)
	}
}

func TestSaveLoad(t *testing.T) {
	idx, _, err := NewBuilder(scenarioStore(t), nil).WithClock(func() time.Time { return fixedNow }).Build()
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "library", "index.json")
	if err := Save(path, idx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !loaded.LastUpdated.Equal(fixedNow) {
		t.Errorf("LastUpdated = %v", loaded.LastUpdated)
	}
	loaded.LastUpdated = idx.LastUpdated
	if !reflect.DeepEqual(loaded, idx) {
		t.Errorf("round trip mismatch:\n%+v\n%+v", loaded, idx)
	}
}

func TestLoad_Missing(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "index.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(idx.Entries) != 0 || idx.Entries == nil {
		t.Errorf("Load() of missing file = %+v, want empty index", idx)
	}
}

func TestLoad_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{"},
		{"bad stars", `{"entries": [{"nugget_id": "e-0", "stars": 9, "importance": 3}]}`},
		{"bad importance", `{"entries": [{"nugget_id": "e-0", "importance": 0}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "index.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestSearch(t *testing.T) {
	idx, _, _ := NewBuilder(scenarioStore(t), nil).Build()

	tests := []struct {
		name    string
		filters Filters
		want    []string
	}{
		{"no filters", Filters{}, []string{"First", "Second", "Third"}},
		{"query case-insensitive", Filters{Query: "fIRST"}, []string{"First"}},
		{"topic exact", Filters{Topic: "Sleep"}, []string{}},
		{"source substring", Filters{Source: "ferriss"}, []string{"Third"}},
		{"year", Filters{Year: "2024"}, []string{"First", "Second", "Third"}},
		{"other year", Filters{Year: "2023"}, []string{}},
		{"partial year", Filters{Year: "202"}, []string{}},
		{"single digit year", Filters{Year: "2"}, []string{}},
		{"wisdom", Filters{WisdomType: nugget.WisdomHabit}, []string{"Second"}},
		{"wisdom no match", Filters{WisdomType: nugget.WisdomWarning}, []string{}},
		{"type", Filters{Type: nugget.TypeQuote}, []string{"Third"}},
		{"unrated", Filters{Unrated: true}, []string{"Second"}},
		{"min stars", Filters{MinStars: 2}, []string{"First", "Third"}},
		{"conjunction", Filters{Stars: 3, Source: "huberman"}, []string{"First"}},
		{"no match", Filters{Stars: 1}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(idx, tt.filters)
			if got == nil {
				t.Fatal("Search() returned nil")
			}
			if !reflect.DeepEqual(contents(got), tt.want) {
				t.Errorf("Search(%+v) = %v, want %v", tt.filters, contents(got), tt.want)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	idx, _, _ := NewBuilder(scenarioStore(t), nil).Build()
	stats := GetStats(idx)

	if stats.StarredCount != 2 {
		t.Errorf("StarredCount = %d, want 2", stats.StarredCount)
	}
	wantTopics := map[string]int{"sleep": 1, "health": 1, "mindset": 1}
	if !reflect.DeepEqual(stats.ByTopic, wantTopics) {
		t.Errorf("ByTopic = %v", stats.ByTopic)
	}
	if stats.BySource["Huberman Lab"] != 2 || stats.BySource["Tim Ferriss"] != 1 {
		t.Errorf("BySource = %v", stats.BySource)
	}
	if stats.ByYear["2024"] != 3 {
		t.Errorf("ByYear = %v", stats.ByYear)
	}
	if stats.ByType["quote"] != 1 || stats.ByType["insight"] != 2 {
		t.Errorf("ByType = %v", stats.ByType)
	}
}

func TestGetStats_CountsEntries(t *testing.T) {
	idx, _, _ := NewBuilder(scenarioStore(t), nil).Build()
	idx.TotalNuggets = 99

	stats := GetStats(idx)
	if stats.TotalNuggets != 3 {
		t.Errorf("TotalNuggets = %d, want 3 from entries", stats.TotalNuggets)
	}
	if stats.ByStars.Total() != stats.TotalNuggets {
		t.Errorf("star buckets sum to %d, total %d", stats.ByStars.Total(), stats.TotalNuggets)
	}
}

func TestValidateYear(t *testing.T) {
	tests := []struct {
		year    string
		wantErr bool
	}{
		{"2024", false},
		{"1999", false},
		{"202", true},
		{"2", true},
		{"20245", true},
		{"2024-01", true},
		{"abcd", true},
	}
	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			err := ValidateYear(tt.year)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateYear(%q) error = %v, wantErr %v", tt.year, err, tt.wantErr)
			}
		})
	}
}
