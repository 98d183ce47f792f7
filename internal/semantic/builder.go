package semantic

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nuggets-cli/nuggets/internal/embedding"
	"github.com/nuggets-cli/nuggets/internal/nugget"
	"github.com/nuggets-cli/nuggets/internal/storage"
)

// ProgressReporter receives progress updates during a build.
type ProgressReporter interface {
	// OnProgress is called with the current progress.
	OnProgress(current, total int)
}

// ProgressFunc is a function adapter for ProgressReporter.
type ProgressFunc func(current, total int)

// OnProgress implements ProgressReporter.
func (f ProgressFunc) OnProgress(current, total int) {
	f(current, total)
}

// Builder embeds segment and nugget texts into the embeddings database.
type Builder struct {
	provider embedding.Provider
	db       *storage.DB
	progress ProgressReporter
	force    bool
	logger   *slog.Logger
}

// NewBuilder creates a new embedding builder.
func NewBuilder(provider embedding.Provider, db *storage.DB, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		provider: provider,
		db:       db,
		logger:   logger,
	}
}

// SetProgressReporter sets the progress reporter for the builder.
func (b *Builder) SetProgressReporter(reporter ProgressReporter) {
	b.progress = reporter
}

// SetForce makes the next build drop every stored vector and embed all
// texts again.
func (b *Builder) SetForce(force bool) {
	b.force = force
}

// Build embeds every segment and nugget of the episodes. Texts whose hash
// and model match the stored row are skipped.
func (b *Builder) Build(ctx context.Context, episodes []nugget.Episode) (*BuildStats, error) {
	startTime := time.Now()
	model := b.provider.ModelName()
	stats := &BuildStats{Model: model}

	if b.force {
		if err := b.db.Clear(); err != nil {
			return nil, fmt.Errorf("clearing embeddings: %w", err)
		}
	}

	known := make(map[storage.Kind]map[string]string)
	for _, kind := range []storage.Kind{storage.KindSegment, storage.KindNugget} {
		hashes, err := b.db.TextHashes(kind, model)
		if err != nil {
			return nil, err
		}
		known[kind] = hashes
	}

	targets := collectTargets(episodes)
	total := len(targets)

	for i, tg := range targets {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if b.progress != nil {
			b.progress.OnProgress(i+1, total)
		}

		if strings.TrimSpace(tg.text) == "" {
			stats.Skipped++
			stats.SkippedReason = "no_text"
			continue
		}

		tg.meta.ModelName = model
		tg.meta.TextHash = hashText(tg.text)
		if known[tg.kind][tg.id] == tg.meta.TextHash {
			stats.Unchanged++
			continue
		}

		emb, err := b.provider.Embed(ctx, embedding.Truncate(tg.text, embedding.MaxTextLength))
		if err != nil {
			return nil, fmt.Errorf("embedding %s %s: %w", tg.kind, tg.id, err)
		}

		if tg.kind == storage.KindSegment {
			err = b.db.StoreSegmentEmbedding(tg.id, emb.Vector, tg.meta)
			stats.SegmentsEmbedded++
		} else {
			err = b.db.StoreNuggetEmbedding(tg.id, emb.Vector, tg.meta)
			stats.NuggetsEmbedded++
		}
		if err != nil {
			return nil, err
		}
	}

	stats.Duration = time.Since(startTime)
	b.logger.Info("embedding build complete",
		"model", model,
		"segments", stats.SegmentsEmbedded,
		"nuggets", stats.NuggetsEmbedded,
		"unchanged", stats.Unchanged,
		"skipped", stats.Skipped,
		"duration", stats.Duration)
	return stats, nil
}

// collectTargets lists segment texts and nugget texts in episode order.
func collectTargets(episodes []nugget.Episode) []target {
	var targets []target
	for i := range episodes {
		ep := &episodes[i]

		for si := range ep.Segments {
			seg := &ep.Segments[si]
			text := seg.Text
			if text == "" {
				text = seg.Summary
			}
			targets = append(targets, target{
				kind: storage.KindSegment,
				id:   ep.SegmentIDAt(si),
				text: text,
				meta: storage.Meta{EpisodeID: ep.ID},
			})
		}

		for _, loc := range ep.Flatten() {
			targets = append(targets, target{
				kind: storage.KindNugget,
				id:   loc.EmbeddingID(ep.ID),
				text: nuggetText(loc.Nugget),
				meta: storage.Meta{EpisodeID: ep.ID, SegmentID: loc.SegmentID},
			})
		}
	}
	return targets
}

// nuggetText joins headline and content when both are present.
func nuggetText(n *nugget.Nugget) string {
	if n.Headline != "" && n.Content != "" && n.Headline != n.Content {
		return n.Headline + ". " + n.Content
	}
	return n.Text()
}

// hashText computes a SHA256 hash of the embedded text.
func hashText(text string) string {
	h := sha256.New()
	io.WriteString(h, text)
	return fmt.Sprintf("%x", h.Sum(nil))
}
