// Package export renders episodes and nugget collections as Markdown or JSON.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/nuggets-cli/nuggets/internal/nugget"
	"github.com/nuggets-cli/nuggets/internal/storage"
)

// Formats accepted by the export commands.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// typeOrder is the section order of an episode export.
var typeOrder = []nugget.Type{
	nugget.TypeAction,
	nugget.TypeInsight,
	nugget.TypeQuote,
	nugget.TypeConcept,
	nugget.TypeStory,
}

var typeLabels = map[nugget.Type]string{
	nugget.TypeAction:  "Action Items",
	nugget.TypeInsight: "Insights",
	nugget.TypeQuote:   "Quotes",
	nugget.TypeConcept: "Concepts",
	nugget.TypeStory:   "Stories",
}

var typeIcons = map[nugget.Type]string{
	nugget.TypeAction:  "✅",
	nugget.TypeInsight: "💡",
	nugget.TypeQuote:   "💬",
	nugget.TypeConcept: "📖",
	nugget.TypeStory:   "📚",
}

// TypeIcon returns the icon for a nugget type, or a bullet for unknown types.
func TypeIcon(t nugget.Type) string {
	if icon, ok := typeIcons[t]; ok {
		return icon
	}
	return "•"
}

// Stars renders a rating as repeated star emoji; nil renders as "".
func Stars(stars *int) string {
	if stars == nil || *stars <= 0 {
		return ""
	}
	return strings.Repeat("⭐", *stars)
}

// FormatDuration renders minutes as "1h 5min" or "45 min".
func FormatDuration(minutes int) string {
	hours, mins := minutes/60, minutes%60
	if hours > 0 {
		return fmt.Sprintf("%dh %dmin", hours, mins)
	}
	return fmt.Sprintf("%d min", mins)
}

// EpisodeMarkdown renders one episode: metadata, tags, summary, nuggets
// grouped by type (most important first) and a notes section.
func EpisodeMarkdown(ep *nugget.Episode) string {
	var b strings.Builder

	title := ep.Title
	if title == "" {
		title = ep.ID
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	meta := []string{"**Source:** " + ep.SourceNameOrDefault()}
	if ep.DurationMinutes > 0 {
		meta = append(meta, "**Duration:** "+FormatDuration(ep.DurationMinutes))
	}
	if len(ep.Guests) > 0 {
		meta = append(meta, "**Guests:** "+strings.Join(ep.Guests, ", "))
	}
	if ep.URL != "" {
		meta = append(meta, fmt.Sprintf("**Link:** [%s](%s)", ep.URL, ep.URL))
	}
	b.WriteString(strings.Join(meta, " | "))
	b.WriteString("\n\n")

	if len(ep.Tags) > 0 {
		tags := make([]string, len(ep.Tags))
		for i, tag := range ep.Tags {
			tags[i] = fmt.Sprintf("`#%s`", tag)
		}
		b.WriteString(strings.Join(tags, " "))
		b.WriteString("\n\n")
	}

	b.WriteString("## Summary\n\n")
	b.WriteString(ep.Summary)
	b.WriteString("\n\n")

	var nuggets []*nugget.Nugget
	for _, loc := range ep.Flatten() {
		nuggets = append(nuggets, loc.Nugget)
	}
	sort.SliceStable(nuggets, func(i, j int) bool {
		return nuggets[i].EffectiveImportance() > nuggets[j].EffectiveImportance()
	})

	byType := make(map[nugget.Type][]*nugget.Nugget)
	for _, n := range nuggets {
		byType[n.EffectiveType()] = append(byType[n.EffectiveType()], n)
	}

	for _, t := range typeOrder {
		group := byType[t]
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s %s\n\n", TypeIcon(t), typeLabels[t])

		for _, n := range group {
			line := fmt.Sprintf("- **%s**", n.Text())
			if stars := Stars(n.Stars); stars != "" {
				line += " " + stars
			}

			var parts []string
			if n.Speaker != "" {
				parts = append(parts, n.Speaker)
			}
			if n.Timestamp != "" {
				parts = append(parts, "["+n.Timestamp+"]")
			}
			if len(parts) > 0 {
				line += " — " + strings.Join(parts, " ")
			}
			b.WriteString(line + "\n")

			if n.Context != "" {
				fmt.Fprintf(&b, "  - *%s*\n", n.Context)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("## Notes\n\n")
	if ep.PersonalNotes != "" {
		b.WriteString(ep.PersonalNotes)
	} else {
		b.WriteString("*Add your notes here*")
	}
	b.WriteString("\n")

	return b.String()
}

// JSON renders any export payload as indented JSON without HTML escaping.
func JSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("encoding export: %w", err)
	}
	return buf.String(), nil
}

// WriteFile writes rendered export content to path.
func WriteFile(path, content string) error {
	if err := storage.WriteFileAtomic(path, []byte(content)); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
