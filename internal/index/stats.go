package index

// StarCounts is the rating histogram.
type StarCounts struct {
	One     int `json:"1"`
	Two     int `json:"2"`
	Three   int `json:"3"`
	Unrated int `json:"unrated"`
}

// Total returns the number of entries counted.
func (c StarCounts) Total() int {
	return c.One + c.Two + c.Three + c.Unrated
}

// Stats summarizes an index.
type Stats struct {
	TotalNuggets  int            `json:"total_nuggets"`
	TotalEpisodes int            `json:"total_episodes"`
	Sources       []string       `json:"sources"`
	ByStars       StarCounts     `json:"by_stars"`
	StarredCount  int            `json:"starred_count"`
	ByTopic       map[string]int `json:"by_topic"`
	BySource      map[string]int `json:"by_source"`
	ByType        map[string]int `json:"by_type"`
	ByYear        map[string]int `json:"by_year"`
}

// GetStats aggregates an index. Totals are counted from the entries, not
// read from the stored header. Entries without a topic are left out of
// ByTopic; every entry lands in exactly one ByStars bucket.
func GetStats(idx *LibraryIndex) Stats {
	stats := Stats{
		TotalNuggets:  len(idx.Entries),
		TotalEpisodes: idx.TotalEpisodes,
		Sources:       append([]string{}, idx.Sources...),
		ByTopic:       make(map[string]int),
		BySource:      make(map[string]int),
		ByType:        make(map[string]int),
		ByYear:        make(map[string]int),
	}

	for i := range idx.Entries {
		e := &idx.Entries[i]

		switch {
		case !e.IsRated():
			stats.ByStars.Unrated++
		case *e.Stars == 1:
			stats.ByStars.One++
		case *e.Stars == 2:
			stats.ByStars.Two++
		default:
			stats.ByStars.Three++
		}

		if e.Topic != "" {
			stats.ByTopic[e.Topic]++
		}
		stats.BySource[e.SourceName]++
		stats.ByType[string(e.Type)]++
		stats.ByYear[e.Year()]++
	}

	stats.StarredCount = stats.ByStars.One + stats.ByStars.Two + stats.ByStars.Three
	return stats
}
