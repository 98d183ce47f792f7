package semantic

import (
	"context"
	"fmt"

	"github.com/nuggets-cli/nuggets/internal/embedding"
	"github.com/nuggets-cli/nuggets/internal/nugget"
	"github.com/nuggets-cli/nuggets/internal/similarity"
	"github.com/nuggets-cli/nuggets/internal/storage"
)

// KindOf tells segment ids from nugget ids.
func KindOf(id string) storage.Kind {
	if nugget.IsSegmentID(id) {
		return storage.KindSegment
	}
	return storage.KindNugget
}

// Similar returns the stored items of the same kind closest to id,
// excluding id itself.
func Similar(db *storage.DB, id string, limit int) ([]similarity.Match, error) {
	kind := KindOf(id)

	var emb *storage.Embedding
	var err error
	if kind == storage.KindSegment {
		emb, err = db.GetSegmentEmbedding(id)
	} else {
		emb, err = db.GetNuggetEmbedding(id)
	}
	if err != nil {
		return nil, err
	}

	return db.FindSimilar(kind, emb.Vector, limit, []string{id})
}

// SearchText embeds a free-text query and ranks stored items of one kind
// against it.
func SearchText(ctx context.Context, provider embedding.Provider, db *storage.DB, kind storage.Kind, text string, limit int) ([]similarity.Match, error) {
	emb, err := provider.Embed(ctx, embedding.Truncate(text, embedding.MaxTextLength))
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}
	return db.FindSimilar(kind, emb.Vector, limit, nil)
}
