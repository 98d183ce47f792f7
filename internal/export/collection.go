package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nuggets-cli/nuggets/internal/index"
)

// DefaultCollectionTitle is used when no title is given.
const DefaultCollectionTitle = "Nuggets Collection"

// otherGroup collects entries with an empty group key.
const otherGroup = "Other"

// GroupKeys lists the accepted group-by values.
var GroupKeys = []string{"topic", "source", "type", "date", "year", "wisdom"}

// groupKey returns the value an entry is grouped under.
func groupKey(e *index.Entry, by string) (string, error) {
	var key string
	switch by {
	case "topic":
		key = e.Topic
	case "source":
		key = e.SourceName
	case "type":
		key = string(e.Type)
	case "date":
		key = e.Date
	case "year":
		key = e.Year()
	case "wisdom":
		key = string(e.WisdomType)
	default:
		return "", fmt.Errorf("unknown group-by %q (valid: %s)", by, strings.Join(GroupKeys, ", "))
	}
	if key == "" {
		key = otherGroup
	}
	return key, nil
}

// CollectionMarkdown renders a list of index entries. With groupBy set, the
// entries are split into sections sorted by group name.
func CollectionMarkdown(entries []index.Entry, title, groupBy string) (string, error) {
	if title == "" {
		title = DefaultCollectionTitle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n*%d nuggets*\n\n", title, len(entries))

	if len(entries) == 0 {
		b.WriteString("*No nuggets found.*")
		return b.String(), nil
	}

	if groupBy == "" {
		for i := range entries {
			writeEntry(&b, &entries[i])
		}
		return strings.TrimSuffix(b.String(), "\n"), nil
	}

	groups := make(map[string][]*index.Entry)
	for i := range entries {
		key, err := groupKey(&entries[i], groupBy)
		if err != nil {
			return "", err
		}
		groups[key] = append(groups[key], &entries[i])
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(&b, "## %s\n\n", name)
		for _, e := range groups[name] {
			writeEntry(&b, e)
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n"), nil
}

func writeEntry(b *strings.Builder, e *index.Entry) {
	line := fmt.Sprintf("- %s **%s**", TypeIcon(e.Type), e.Content)
	if stars := Stars(e.Stars); stars != "" {
		line += " " + stars
	}
	b.WriteString(line + "\n")

	if e.SourceName != "" || e.Date != "" {
		meta := "  - *" + e.SourceName
		if e.Date != "" {
			meta += " (" + e.Date + ")"
		}
		b.WriteString(meta + "*\n")
	}
}
