package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nuggets-cli/nuggets/internal/index"
	"github.com/nuggets-cli/nuggets/internal/nugget"
)

func intPtr(v int) *int { return &v }

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{45, "45 min"},
		{60, "1h 0min"},
		{125, "2h 5min"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestStars(t *testing.T) {
	if got := Stars(nil); got != "" {
		t.Errorf("Stars(nil) = %q", got)
	}
	if got := Stars(intPtr(2)); got != "⭐⭐" {
		t.Errorf("Stars(2) = %q", got)
	}
}

func TestEpisodeMarkdown(t *testing.T) {
	ep := &nugget.Episode{
		ID:              "youtube-2024-01-15-abc",
		Title:           "Sleep & Focus",
		SourceName:      "Huberman Lab",
		DurationMinutes: 95,
		Guests:          []string{"Ann", "Bob"},
		URL:             "https://example.com/v",
		Tags:            []string{"sleep"},
		Summary:         "All about sleep.",
		Segments: []nugget.Segment{{
			Nuggets: []nugget.Nugget{
				{Content: "Low priority insight", Importance: intPtr(2)},
				{Content: "Get morning light", Type: nugget.TypeAction, Importance: intPtr(5), Stars: intPtr(3), Speaker: "Ann", Timestamp: "12:30"},
				{Content: "Top insight", Importance: intPtr(5), Context: "said twice"},
			},
		}},
	}

	got := EpisodeMarkdown(ep)

	wantParts := []string{
		"# Sleep & Focus\n\n",
		"**Source:** Huberman Lab | **Duration:** 1h 35min | **Guests:** Ann, Bob | **Link:** [https://example.com/v](https://example.com/v)\n\n",
		"`#sleep`\n\n",
		"## Summary\n\nAll about sleep.\n\n",
		"## ✅ Action Items\n\n- **Get morning light** ⭐⭐⭐ — Ann [12:30]\n\n",
		"## 💡 Insights\n\n- **Top insight**\n  - *said twice*\n- **Low priority insight**\n\n",
		"## Notes\n\n*Add your notes here*\n",
	}
	for _, part := range wantParts {
		if !strings.Contains(got, part) {
			t.Errorf("EpisodeMarkdown() missing %q\n--- got ---\n%s", part, got)
		}
	}
	if strings.Index(got, "Action Items") > strings.Index(got, "Insights") {
		t.Error("action items should come before insights")
	}
	if strings.Contains(got, "Quotes") {
		t.Error("empty type groups should be omitted")
	}
}

func TestEpisodeMarkdown_Minimal(t *testing.T) {
	ep := &nugget.Episode{ID: "ep-1", PersonalNotes: "my notes"}
	got := EpisodeMarkdown(ep)
	if !strings.HasPrefix(got, "# ep-1\n\n**Source:** Unknown\n\n") {
		t.Errorf("unexpected header:\n%s", got)
	}
	if !strings.HasSuffix(got, "## Notes\n\nmy notes\n") {
		t.Errorf("unexpected notes:\n%s", got)
	}
}

func testEntries() []index.Entry {
	return []index.Entry{
		{NuggetID: "a-0", Content: "First", Type: nugget.TypeInsight, Topic: "health", SourceName: "Pod", Date: "2024-01-15", Stars: intPtr(1)},
		{NuggetID: "a-1", Content: "Second", Type: nugget.TypeQuote, SourceName: "Pod", Date: "2024-01-15"},
		{NuggetID: "b-0", Content: "Third", Type: "weird", Topic: "career"},
	}
}

func TestCollectionMarkdown(t *testing.T) {
	got, err := CollectionMarkdown(testEntries(), "", "")
	if err != nil {
		t.Fatal(err)
	}
	want := "# Nuggets Collection\n\n*3 nuggets*\n\n" +
		"- 💡 **First** ⭐\n  - *Pod (2024-01-15)*\n" +
		"- 💬 **Second**\n  - *Pod (2024-01-15)*\n" +
		"- • **Third**"
	if got != want {
		t.Errorf("CollectionMarkdown() =\n%s\nwant\n%s", got, want)
	}
}

func TestCollectionMarkdown_Grouped(t *testing.T) {
	got, err := CollectionMarkdown(testEntries(), "Picks", "topic")
	if err != nil {
		t.Fatal(err)
	}
	career := strings.Index(got, "## career")
	health := strings.Index(got, "## health")
	other := strings.Index(got, "## Other")
	if career < 0 || health < 0 || other < 0 {
		t.Fatalf("missing groups:\n%s", got)
	}
	if !(career < health && health < other) {
		t.Errorf("groups not sorted:\n%s", got)
	}

	if _, err := CollectionMarkdown(testEntries(), "", "color"); err == nil {
		t.Error("expected error for unknown group-by")
	}
}

func TestCollectionMarkdown_Empty(t *testing.T) {
	got, err := CollectionMarkdown(nil, "Empty", "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "# Empty\n\n*0 nuggets*\n\n*No nuggets found.*" {
		t.Errorf("got %q", got)
	}
}

func TestJSONAndWriteFile(t *testing.T) {
	out, err := JSON(testEntries()[:1])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"nugget_id": "a-0"`) {
		t.Errorf("JSON() = %s", out)
	}

	path := filepath.Join(t.TempDir(), "exports", "picks.json")
	if err := WriteFile(path, out); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != out {
		t.Error("written content differs")
	}
}

func TestJSONL(t *testing.T) {
	out, err := JSONL(testEntries())
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[2], `{"nugget_id":"b-0"`) {
		t.Errorf("line 3 = %s", lines[2])
	}

	if out, _ := JSONL(nil); out != "" {
		t.Errorf("JSONL(nil) = %q", out)
	}
}
