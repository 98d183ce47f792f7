package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nuggets-cli/nuggets/internal/episode"
	"github.com/nuggets-cli/nuggets/internal/nugget"
)

var (
	listSource string
	listLimit  int
)

func init() {
	listCmd.Flags().StringVar(&listSource, "source", "", "Source name substring")
	listCmd.Flags().IntVar(&listLimit, "limit", DefaultSearchLimit, "Maximum episodes to return (0 for all)")
	rootCmd.AddCommand(listCmd)
}

// EpisodeSummary describes one episode in list output.
type EpisodeSummary struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	SourceName   string            `json:"source_name"`
	SourceType   nugget.SourceType `json:"source_type"`
	Date         string            `json:"date"`
	NuggetCount  int               `json:"nugget_count"`
	Hierarchical bool              `json:"hierarchical"`
}

// ListResponse is the response for the list command.
type ListResponse struct {
	Episodes []EpisodeSummary      `json:"episodes"`
	Total    int                   `json:"total"`
	Skipped  []episode.ScanWarning `json:"skipped,omitempty"`
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List episodes in the library",
	Long: `List episode records found under <data>/analysis, newest first.

Reads the records directly, so the list is current even before the index
is rebuilt.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// summarizeEpisodes filters episodes by source and orders them newest first.
func summarizeEpisodes(episodes []nugget.Episode, source string) []EpisodeSummary {
	summaries := make([]EpisodeSummary, 0, len(episodes))
	for i := range episodes {
		ep := &episodes[i]
		name := ep.SourceNameOrDefault()
		if source != "" && !strings.Contains(strings.ToLower(name), strings.ToLower(source)) {
			continue
		}
		summaries = append(summaries, EpisodeSummary{
			ID:           ep.ID,
			Title:        ep.Title,
			SourceName:   name,
			SourceType:   ep.SourceTypeOrDefault(),
			Date:         ep.DateKey(),
			NuggetCount:  ep.NuggetCount(),
			Hierarchical: ep.IsHierarchical(),
		})
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Date > summaries[j].Date
	})
	return summaries
}

func runList(cmd *cobra.Command, args []string) error {
	episodes, warnings, err := openStore().ListAll()
	if err != nil {
		exitWithError(ExitError, "listing episodes: %v", err)
	}

	summaries := summarizeEpisodes(episodes, listSource)
	total := len(summaries)
	if listLimit > 0 && len(summaries) > listLimit {
		summaries = summaries[:listLimit]
	}

	if !humanOutput {
		outputJSON(ListResponse{Episodes: summaries, Total: total, Skipped: warnings})
		return nil
	}

	if total == 0 {
		fmt.Println("No episodes found")
		return nil
	}
	for _, s := range summaries {
		title := s.Title
		if title == "" {
			title = s.ID
		}
		fmt.Printf("%s  %s\n", s.Date, headerStyle.Render(truncateString(title, TitleMaxLen)))
		fmt.Printf("            %s · %d nuggets  %s\n", s.SourceName, s.NuggetCount, idStyle.Render(s.ID))
	}
	if len(warnings) > 0 {
		fmt.Printf("\n%s\n", warnStyle.Render(fmt.Sprintf("%d records skipped; run 'nug index rebuild' for details", len(warnings))))
	}
	return nil
}
