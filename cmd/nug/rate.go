package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/nuggets-cli/nuggets/internal/curation"
	"github.com/nuggets-cli/nuggets/internal/export"
	"github.com/nuggets-cli/nuggets/internal/nugget"
)

var unratedLimit int

func init() {
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(unratedCmd)
	unratedCmd.Flags().IntVarP(&unratedLimit, "limit", "l", 20, "Maximum results to return (0 for all)")
}

// RateResponse is the response for the rate command.
type RateResponse struct {
	Status    string `json:"status"`
	EpisodeID string `json:"episode_id"`
	Position  int    `json:"position"`
	Stars     int    `json:"stars"`
}

// rateTarget is a parsed rate invocation.
type rateTarget struct {
	episodeID string
	position  int
	stars     int
}

var rateCmd = &cobra.Command{
	Use:   "rate <nugget-id> <stars> | rate <episode-id> <position> <stars>",
	Short: "Rate a nugget from 1 to 3 stars",
	Long: `Set the star rating of a nugget and rebuild the library index.

The nugget is addressed either by its index id ({episode_id}-{position}) or
by episode id and flattened position.

Examples:
  nug rate youtube-2024-01-15-abc123-4 3
  nug rate youtube-2024-01-15-abc123 4 3`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runRate,
}

// parseRateArgs accepts either <nugget-id> <stars> or
// <episode-id> <position> <stars>.
func parseRateArgs(args []string) (rateTarget, error) {
	var t rateTarget
	var err error

	switch len(args) {
	case 2:
		t.episodeID, t.position, err = nugget.SplitNuggetID(args[0])
		if err != nil {
			return t, err
		}
	case 3:
		t.episodeID = args[0]
		t.position, err = strconv.Atoi(args[1])
		if err != nil || t.position < 0 {
			return t, fmt.Errorf("invalid position %q", args[1])
		}
	default:
		return t, fmt.Errorf("expected 2 or 3 arguments, got %d", len(args))
	}

	t.stars, err = strconv.Atoi(args[len(args)-1])
	if err != nil {
		return t, fmt.Errorf("invalid stars %q", args[len(args)-1])
	}
	if err := nugget.ValidateStars(t.stars); err != nil {
		return t, err
	}
	return t, nil
}

func runRate(cmd *cobra.Command, args []string) error {
	t, err := parseRateArgs(args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	store := openStore()
	ok, err := curation.SetRating(store, t.episodeID, t.position, t.stars)
	if errors.Is(err, nugget.ErrInvalidStars) {
		exitWithError(ExitDataError, "%v", err)
	}
	if err != nil {
		exitWithError(ExitError, "rating nugget: %v", err)
	}
	if !ok {
		exitWithError(ExitDataError, "no nugget at position %d in episode '%s'", t.position, t.episodeID)
	}

	rebuildIndex(store)
	logger.Info("rated nugget", "episode", t.episodeID, "position", t.position, "stars", t.stars)

	if humanOutput {
		fmt.Printf("%s %s-%d %s\n", okStyle.Render("Rated"), t.episodeID, t.position, starStyle.Render(export.Stars(&t.stars)))
	} else {
		outputJSON(RateResponse{Status: "rated", EpisodeID: t.episodeID, Position: t.position, Stars: t.stars})
	}
	return nil
}

var unratedCmd = &cobra.Command{
	Use:   "unrated",
	Short: "List unrated nuggets, most important first",
	Args:  cobra.NoArgs,
	RunE:  runUnrated,
}

func runUnrated(cmd *cobra.Command, args []string) error {
	entries := curation.Unrated(mustLoadIndex(), unratedLimit)

	if humanOutput {
		if len(entries) == 0 {
			fmt.Println("Every nugget is rated")
			return nil
		}
		printEntries(entries)
	} else {
		outputJSON(SearchResponse{Results: entries, Total: len(entries)})
	}
	return nil
}
