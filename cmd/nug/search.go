package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nuggets-cli/nuggets/internal/index"
	"github.com/nuggets-cli/nuggets/internal/nugget"
)

// searchFlags holds the raw filter flags shared by search and export.
type searchFlags struct {
	topic    string
	wisdom   string
	stars    int
	minStars int
	unrated  bool
	source   string
	year     string
	kind     string
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.topic, "topic", "", "Exact topic (case-sensitive)")
	cmd.Flags().StringVar(&f.wisdom, "wisdom", "", "Wisdom type (principle, habit, mental-model, ...)")
	cmd.Flags().IntVar(&f.stars, "stars", 0, "Exact star rating (1-3)")
	cmd.Flags().IntVar(&f.minStars, "min-stars", 0, "Minimum star rating (1-3)")
	cmd.Flags().BoolVar(&f.unrated, "unrated", false, "Only nuggets without a rating")
	cmd.Flags().StringVar(&f.source, "source", "", "Source name substring")
	cmd.Flags().StringVar(&f.year, "year", "", "Episode year (e.g. 2024)")
	cmd.Flags().StringVar(&f.kind, "type", "", "Nugget type (insight, quote, action, concept, story)")
}

// filters validates the flags and converts them to index filters.
func (f *searchFlags) filters(query string) (index.Filters, error) {
	if f.stars != 0 {
		if err := nugget.ValidateStars(f.stars); err != nil {
			return index.Filters{}, fmt.Errorf("--stars: %w", err)
		}
	}
	if f.minStars != 0 {
		if err := nugget.ValidateStars(f.minStars); err != nil {
			return index.Filters{}, fmt.Errorf("--min-stars: %w", err)
		}
	}
	if f.unrated && (f.stars != 0 || f.minStars != 0) {
		return index.Filters{}, errors.New("--unrated cannot be combined with --stars or --min-stars")
	}
	if f.year != "" {
		if err := index.ValidateYear(f.year); err != nil {
			return index.Filters{}, fmt.Errorf("--year %q: %w", f.year, err)
		}
	}
	t := nugget.Type(f.kind)
	if f.kind != "" && !t.Valid() {
		return index.Filters{}, fmt.Errorf("%w: %q", nugget.ErrInvalidType, f.kind)
	}

	return index.Filters{
		Query:      strings.TrimSpace(query),
		Topic:      f.topic,
		WisdomType: nugget.WisdomType(f.wisdom),
		Stars:      f.stars,
		MinStars:   f.minStars,
		Unrated:    f.unrated,
		Source:     f.source,
		Year:       f.year,
		Type:       t,
	}, nil
}

var (
	searchOpts  searchFlags
	searchLimit int
)

func init() {
	searchOpts.register(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results to return (0 for all)")
	rootCmd.AddCommand(searchCmd)
}

// SearchResponse is the response for the search command.
type SearchResponse struct {
	Query   string        `json:"query,omitempty"`
	Results []index.Entry `json:"results"`
	Total   int           `json:"total"`
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search nuggets in the library index",
	Long: `Search nuggets by content and metadata. All filters combine with AND.

Examples:
  nug search sleep
  nug search --topic health --min-stars 2
  nug search --source huberman --year 2024 --type action
  nug search --unrated`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	var query string
	if len(args) == 1 {
		query = args[0]
	}
	f, err := searchOpts.filters(query)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	results := index.Search(mustLoadIndex(), f)
	total := len(results)
	if searchLimit > 0 && len(results) > searchLimit {
		results = results[:searchLimit]
	}

	if humanOutput {
		if total == 0 {
			fmt.Println("No nuggets found")
			return nil
		}
		fmt.Printf("Found %d nuggets", total)
		if len(results) < total {
			fmt.Printf(" (showing %d)", len(results))
		}
		fmt.Print(":\n\n")
		printEntries(results)
	} else {
		outputJSON(SearchResponse{Query: f.Query, Results: results, Total: total})
	}
	return nil
}
