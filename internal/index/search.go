package index

import (
	"errors"
	"strings"

	"github.com/nuggets-cli/nuggets/internal/nugget"
)

// Filters narrows a search. Zero-valued fields do not filter; the rest are
// combined with AND.
type Filters struct {
	Query      string            // case-insensitive substring of content
	Topic      string            // exact, case-sensitive
	WisdomType nugget.WisdomType // exact
	Stars      int               // exact rating
	MinStars   int               // rating at least this
	Unrated    bool              // only entries without a rating
	Source     string            // case-insensitive substring of source name
	Year       string            // four-digit year, compared with Entry.Year
	Type       nugget.Type       // exact
}

// ErrInvalidYear is returned for a year filter that is not four digits.
var ErrInvalidYear = errors.New("year must be four digits")

// ValidateYear checks a year filter value.
func ValidateYear(year string) error {
	if len(year) != 4 {
		return ErrInvalidYear
	}
	for _, c := range year {
		if c < '0' || c > '9' {
			return ErrInvalidYear
		}
	}
	return nil
}

// Match reports whether an entry passes every set filter.
func (f Filters) Match(e *Entry) bool {
	if f.Query != "" && !containsFold(e.Content, f.Query) {
		return false
	}
	if f.Topic != "" && e.Topic != f.Topic {
		return false
	}
	if f.WisdomType != "" && e.WisdomType != f.WisdomType {
		return false
	}
	if f.Stars != 0 && (e.Stars == nil || *e.Stars != f.Stars) {
		return false
	}
	if f.MinStars != 0 && (e.Stars == nil || *e.Stars < f.MinStars) {
		return false
	}
	if f.Unrated && e.IsRated() {
		return false
	}
	if f.Source != "" && !containsFold(e.SourceName, f.Source) {
		return false
	}
	if f.Year != "" && e.Year() != f.Year {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	return true
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f == Filters{}
}

// Search returns the entries matching every filter, in index order.
// The index is not modified.
func Search(idx *LibraryIndex, f Filters) []Entry {
	results := []Entry{}
	for i := range idx.Entries {
		if f.Match(&idx.Entries[i]) {
			results = append(results, idx.Entries[i])
		}
	}
	return results
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
