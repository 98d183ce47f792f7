package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nuggets-cli/nuggets/internal/semantic"
)

var (
	embedForce      bool
	embedNoProgress bool
)

func init() {
	rootCmd.AddCommand(embedCmd)
	embedCmd.AddCommand(embedBuildCmd)
	embedCmd.AddCommand(embedStatsCmd)

	embedBuildCmd.Flags().BoolVar(&embedForce, "force", false, "Drop stored vectors and embed everything again")
	embedBuildCmd.Flags().BoolVar(&embedNoProgress, "no-progress", false, "Suppress progress output")
}

var embedCmd = &cobra.Command{
	Use:   "embed",
	Short: "Manage segment and nugget embeddings",
	Long:  `Commands for building and inspecting the embeddings database.`,
}

// EmbedBuildResult is the response for the embed build command.
type EmbedBuildResult struct {
	Status           string  `json:"status"`
	Model            string  `json:"model"`
	SegmentsEmbedded int     `json:"segments_embedded"`
	NuggetsEmbedded  int     `json:"nuggets_embedded"`
	Unchanged        int     `json:"unchanged"`
	Skipped          int     `json:"skipped"`
	SkippedReason    string  `json:"skipped_reason,omitempty"`
	DurationSeconds  float64 `json:"duration_seconds"`
	SkippedRecords   int     `json:"skipped_records"`
}

var embedBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Embed segments and nuggets",
	Long: `Embed every segment text and nugget of the library into
<data>/library/embeddings.db. Texts whose hash and model match the stored
vector are skipped, so repeated builds only embed what changed.

The provider is configured in ~/.config/nuggets/config.yml
(embedding_provider: ollama or openai).`,
	Args: cobra.NoArgs,
	RunE: runEmbedBuild,
}

func runEmbedBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	provider := mustProvider(ctx)

	episodes, warnings, err := openStore().ListAll()
	if err != nil {
		exitWithError(ExitError, "listing episodes: %v", err)
	}

	db := mustOpenEmbeddings()
	defer db.Close()

	builder := semantic.NewBuilder(provider, db, logger)
	builder.SetForce(embedForce)

	showProgress := humanOutput && !embedNoProgress
	if showProgress {
		fmt.Fprintf(os.Stderr, "Embedding with %s...\n", provider.ModelName())
		builder.SetProgressReporter(semantic.ProgressFunc(printProgress))
	}

	stats, err := builder.Build(ctx, episodes)
	if showProgress {
		fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", 50))
	}
	if err != nil {
		exitWithError(ExitProviderError, "building embeddings: %v", err)
	}

	if humanOutput {
		fmt.Printf("%s\n", okStyle.Render("Build complete:"))
		fmt.Printf("  Segments embedded: %d\n", stats.SegmentsEmbedded)
		fmt.Printf("  Nuggets embedded:  %d\n", stats.NuggetsEmbedded)
		fmt.Printf("  Unchanged:         %d\n", stats.Unchanged)
		fmt.Printf("  Skipped:           %d (no text)\n", stats.Skipped)
		fmt.Printf("  Time elapsed:      %s\n", formatDuration(stats.Duration))
		fmt.Printf("  Model:             %s\n", stats.Model)
		if len(warnings) > 0 {
			fmt.Printf("  %s\n", warnStyle.Render(fmt.Sprintf("%d malformed records ignored", len(warnings))))
		}
	} else {
		outputJSON(EmbedBuildResult{
			Status:           "complete",
			Model:            stats.Model,
			SegmentsEmbedded: stats.SegmentsEmbedded,
			NuggetsEmbedded:  stats.NuggetsEmbedded,
			Unchanged:        stats.Unchanged,
			Skipped:          stats.Skipped,
			SkippedReason:    stats.SkippedReason,
			DurationSeconds:  stats.Duration.Seconds(),
			SkippedRecords:   len(warnings),
		})
	}
	return nil
}

var embedStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show embeddings database statistics",
	Args:  cobra.NoArgs,
	RunE:  runEmbedStats,
}

func runEmbedStats(cmd *cobra.Command, args []string) error {
	db := mustOpenEmbeddings()
	defer db.Close()

	stats, err := db.Stats()
	if err != nil {
		exitWithError(ExitError, "reading embeddings stats: %v", err)
	}

	if humanOutput {
		fmt.Printf("Segments: %d\n", stats.Segments)
		fmt.Printf("Nuggets:  %d\n", stats.Nuggets)
		printCounts("Models", stats.Models)
	} else {
		outputJSON(stats)
	}
	return nil
}
