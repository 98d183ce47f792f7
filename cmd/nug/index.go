package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/nuggets-cli/nuggets/internal/config"
	"github.com/nuggets-cli/nuggets/internal/episode"
	"github.com/nuggets-cli/nuggets/internal/index"
)

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexStatsCmd)
}

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the library index",
	Long:  `Commands for rebuilding and summarizing the library index.`,
}

// IndexRebuildResult is the response for the index rebuild command.
type IndexRebuildResult struct {
	Status        string                `json:"status"`
	Path          string                `json:"path"`
	TotalNuggets  int                   `json:"total_nuggets"`
	TotalEpisodes int                   `json:"total_episodes"`
	Sources       []string              `json:"sources"`
	Skipped       []episode.ScanWarning `json:"skipped"`
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the library index from episode records",
	Long: `Scan every episode record under <data>/analysis and write a fresh
library index. Records that cannot be parsed are skipped and reported.`,
	Args: cobra.NoArgs,
	RunE: runIndexRebuild,
}

func runIndexRebuild(cmd *cobra.Command, args []string) error {
	if err := config.EnsureDirs(dataRoot); err != nil {
		exitWithError(ExitConfigError, "creating data directories: %v", err)
	}

	idx, warnings := rebuildIndex(openStore())
	if warnings == nil {
		warnings = []episode.ScanWarning{}
	}

	if humanOutput {
		fmt.Printf("%s %d nuggets from %d episodes\n", okStyle.Render("Indexed"), idx.TotalNuggets, idx.TotalEpisodes)
		fmt.Printf("  Sources: %d\n", len(idx.Sources))
		fmt.Printf("  Index:   %s\n", config.IndexPath(dataRoot))
		if len(warnings) > 0 {
			fmt.Fprintf(os.Stderr, "\n%s\n", warnStyle.Render(fmt.Sprintf("Skipped %d malformed records:", len(warnings))))
			for _, w := range warnings {
				fmt.Fprintf(os.Stderr, "  %s\n", w)
			}
		}
	} else {
		outputJSON(IndexRebuildResult{
			Status:        "complete",
			Path:          config.IndexPath(dataRoot),
			TotalNuggets:  idx.TotalNuggets,
			TotalEpisodes: idx.TotalEpisodes,
			Sources:       idx.Sources,
			Skipped:       warnings,
		})
	}
	return nil
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show library statistics",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

func runIndexStats(cmd *cobra.Command, args []string) error {
	stats := index.GetStats(mustLoadIndex())

	if !humanOutput {
		outputJSON(stats)
		return nil
	}

	fmt.Println(headerStyle.Render("Library"))
	fmt.Printf("  Nuggets:  %d\n", stats.TotalNuggets)
	fmt.Printf("  Episodes: %d\n", stats.TotalEpisodes)
	fmt.Printf("  Sources:  %d\n", len(stats.Sources))
	fmt.Printf("  Starred:  %d\n\n", stats.StarredCount)

	fmt.Println(headerStyle.Render("Ratings"))
	fmt.Printf("  %s %d\n", starStyle.Render("⭐⭐⭐"), stats.ByStars.Three)
	fmt.Printf("  %s   %d\n", starStyle.Render("⭐⭐"), stats.ByStars.Two)
	fmt.Printf("  %s     %d\n", starStyle.Render("⭐"), stats.ByStars.One)
	fmt.Printf("  unrated %d\n", stats.ByStars.Unrated)

	printCounts("Topics", stats.ByTopic)
	printCounts("Sources", stats.BySource)
	printCounts("Types", stats.ByType)
	printCounts("Years", stats.ByYear)
	return nil
}

// printCounts prints a count map, largest first.
func printCounts(title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	fmt.Printf("\n%s\n", headerStyle.Render(title))
	for _, k := range keys {
		fmt.Printf("  %-30s %d\n", truncateString(k, 30), counts[k])
	}
}
