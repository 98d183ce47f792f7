package nugget

import (
	"fmt"
	"strconv"
	"strings"
)

// SegmentID builds the id of the segment at index within an episode.
func SegmentID(episodeID string, index int) string {
	return fmt.Sprintf("segment-%s-%d", episodeID, index)
}

// EpisodeNuggetID builds the episode-scoped nugget id used by the library index.
func EpisodeNuggetID(episodeID string, position int) string {
	return fmt.Sprintf("%s-%d", episodeID, position)
}

// SegmentNuggetID builds the segment-scoped nugget id.
func SegmentNuggetID(segmentID string, position int) string {
	return fmt.Sprintf("nugget-%s-%d", segmentID, position)
}

// IsSegmentID reports whether id looks like a segment id.
func IsSegmentID(id string) bool {
	return strings.HasPrefix(id, "segment-")
}

// SplitNuggetID splits an episode-scoped nugget id into its episode id and
// position. The position is everything after the last hyphen.
func SplitNuggetID(id string) (string, int, error) {
	i := strings.LastIndex(id, "-")
	if i <= 0 || i == len(id)-1 {
		return "", 0, fmt.Errorf("invalid nugget id %q: want {episode_id}-{position}", id)
	}
	pos, err := strconv.Atoi(id[i+1:])
	if err != nil || pos < 0 {
		return "", 0, fmt.Errorf("invalid nugget id %q: position is not a non-negative integer", id)
	}
	return id[:i], pos, nil
}
