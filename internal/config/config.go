// Package config handles data directory layout and global configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultDataDir = "data"
	AnalysisDir    = "analysis"
	LibraryDir     = "library"
	ExportsDir     = "exports"
	IndexFile      = "index.json"
	EmbeddingsFile = "embeddings.db"
)

// sourceDirs maps a source type to its directory under analysis/.
var sourceDirs = map[string]string{
	"youtube": "youtube",
	"podcast": "podcasts",
	"twitter": "twitter",
	"audio":   "audio",
}

// AnalysisPath returns the root of the episode records.
func AnalysisPath(root string) string {
	return filepath.Join(root, AnalysisDir)
}

// LibraryPath returns the directory holding derived library files.
func LibraryPath(root string) string {
	return filepath.Join(root, LibraryDir)
}

// IndexPath returns the path to the persisted library index.
func IndexPath(root string) string {
	return filepath.Join(root, LibraryDir, IndexFile)
}

// EmbeddingsPath returns the path to the embeddings database.
func EmbeddingsPath(root string) string {
	return filepath.Join(root, LibraryDir, EmbeddingsFile)
}

// ExportsPath returns the directory exports are written to.
func ExportsPath(root string) string {
	return filepath.Join(root, ExportsDir)
}

// SourceDir returns the directory name for a source type.
func SourceDir(sourceType string) string {
	if dir, ok := sourceDirs[sourceType]; ok {
		return dir
	}
	return Slugify(sourceType)
}

// EpisodeRecordPath returns where a new episode record is written:
// analysis/{source_dir}/{source_slug}/{date}-{external_id}.json.
func EpisodeRecordPath(analysisRoot, sourceType, sourceName, date, externalID string) string {
	name := externalID + ".json"
	if date != "" {
		name = date + "-" + name
	}
	return filepath.Join(analysisRoot, SourceDir(sourceType), Slugify(sourceName), name)
}

// EnsureDirs creates the data directory layout.
func EnsureDirs(root string) error {
	for _, dir := range []string{AnalysisPath(root), LibraryPath(root), ExportsPath(root)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[-\s]+`)
	asciiOnly    = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
)

// Slugify converts text to a filesystem-friendly slug.
// "Café Podcast" becomes "cafe-podcast".
func Slugify(text string) string {
	s, _, err := transform.String(asciiOnly, text)
	if err != nil {
		s = text
	}
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "")
	s = slugCollapse.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
