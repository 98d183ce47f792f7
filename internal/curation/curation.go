// Package curation applies personal ratings to nuggets.
//
// Ratings live in the episode records; the library index only picks them up
// on the next rebuild.
package curation

import (
	"errors"
	"fmt"
	"sort"

	"github.com/nuggets-cli/nuggets/internal/episode"
	"github.com/nuggets-cli/nuggets/internal/index"
	"github.com/nuggets-cli/nuggets/internal/nugget"
)

// SetRating sets the star rating of the nugget at a flattened position in an
// episode and rewrites the record. It returns false, without touching any
// record, when the episode does not exist or the position is out of range.
// Stars outside 1-3 are rejected with nugget.ErrInvalidStars.
func SetRating(store episode.Store, episodeID string, position, stars int) (bool, error) {
	if err := nugget.ValidateStars(stars); err != nil {
		return false, err
	}

	ep, err := store.Get(episodeID)
	if errors.Is(err, episode.ErrEpisodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading episode %s: %w", episodeID, err)
	}

	n, ok := ep.NuggetAt(position)
	if !ok {
		return false, nil
	}
	if err := n.SetStars(stars); err != nil {
		return false, err
	}

	if err := store.Save(ep); err != nil {
		return false, fmt.Errorf("saving rating: %w", err)
	}
	return true, nil
}

// RateNugget sets the rating of a nugget given its {episode_id}-{position} id.
func RateNugget(store episode.Store, nuggetID string, stars int) (bool, error) {
	episodeID, position, err := nugget.SplitNuggetID(nuggetID)
	if err != nil {
		return false, err
	}
	return SetRating(store, episodeID, position, stars)
}

// Unrated returns the entries without a rating, most important first. Ties
// keep index order. A positive limit caps the result.
func Unrated(idx *index.LibraryIndex, limit int) []index.Entry {
	entries := index.Search(idx, index.Filters{Unrated: true})
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Importance > entries[j].Importance
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
