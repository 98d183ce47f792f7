// Package semantic embeds library text and answers similarity queries over
// the stored vectors.
package semantic

import (
	"time"

	"github.com/nuggets-cli/nuggets/internal/storage"
)

// BuildStats contains statistics from an embedding build.
type BuildStats struct {
	Model            string        `json:"model"`
	SegmentsEmbedded int           `json:"segments_embedded"`
	NuggetsEmbedded  int           `json:"nuggets_embedded"`
	Unchanged        int           `json:"unchanged"`
	Skipped          int           `json:"skipped"`
	SkippedReason    string        `json:"skipped_reason,omitempty"`
	Duration         time.Duration `json:"duration"`
}

// target is one text to embed and where its vector goes.
type target struct {
	kind storage.Kind
	id   string
	text string
	meta storage.Meta
}
