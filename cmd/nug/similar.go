package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nuggets-cli/nuggets/internal/semantic"
	"github.com/nuggets-cli/nuggets/internal/storage"
)

var (
	similarLimit int
	similarText  string
	similarKind  string
)

func init() {
	rootCmd.AddCommand(similarCmd)

	similarCmd.Flags().IntVarP(&similarLimit, "limit", "l", DefaultSimilarLimit, "Maximum number of results")
	similarCmd.Flags().StringVar(&similarText, "text", "", "Free-text query instead of an id")
	similarCmd.Flags().StringVar(&similarKind, "kind", "nugget", "What --text searches: nugget or segment")
}

// SimilarResponse is the response for the similar command.
type SimilarResponse struct {
	Source  string            `json:"source"`
	Similar []semantic.Result `json:"similar"`
	Total   int               `json:"total"`
}

var similarCmd = &cobra.Command{
	Use:   "similar [segment-id | nugget-id]",
	Short: "Find semantically similar segments or nuggets",
	Long: `Find the stored segments or nuggets closest to a given one, or to a
free-text query with --text. The source item is excluded from results.

Nugget ids from the index ({episode_id}-{position}) and segment-scoped
embedding ids are both accepted.

Requires embeddings to be built first with 'nug embed build'.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSimilar,
}

func runSimilar(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if (len(args) == 0) == (strings.TrimSpace(similarText) == "") {
		exitWithError(ExitError, "give either an id or --text")
	}

	episodes, _, err := openStore().ListAll()
	if err != nil {
		exitWithError(ExitError, "listing episodes: %v", err)
	}
	labels := semantic.Labels(episodes)

	db := mustOpenEmbeddings()
	defer db.Close()

	var source string
	var results []semantic.Result

	if len(args) == 1 {
		source = semantic.ResolveID(labels, args[0])
		matches, err := semantic.Similar(db, source, similarLimit)
		if errors.Is(err, storage.ErrEmbeddingNotFound) {
			exitWithError(ExitNotEmbedded, "'%s' has no stored embedding\n\nRun 'nug embed build' to embed new records.", args[0])
		}
		if err != nil {
			exitWithError(ExitError, "finding similar items: %v", err)
		}
		results = semantic.Annotate(matches, labels)
	} else {
		kind := storage.KindNugget
		switch similarKind {
		case "nugget":
		case "segment":
			kind = storage.KindSegment
		default:
			exitWithError(ExitError, "invalid --kind %q (valid: nugget, segment)", similarKind)
		}

		source = strings.TrimSpace(similarText)
		matches, err := semantic.SearchText(ctx, mustProvider(ctx), db, kind, source, similarLimit)
		if err != nil {
			exitWithError(ExitProviderError, "searching: %v", err)
		}
		results = semantic.Annotate(matches, labels)
	}

	if humanOutput {
		fmt.Printf("Similar to: %s\n\n", headerStyle.Render(source))
		for i, r := range results {
			fmt.Printf("%d. [%.2f] %s\n", i+1, r.Score, truncateString(r.Text, ContentMaxLen))
			id := r.ID
			if r.NuggetID != "" {
				id = r.NuggetID
			}
			fmt.Printf("   %s  %s\n\n", idStyle.Render(id), truncateString(r.Title, TitleMaxLen))
		}
	} else {
		outputJSON(SimilarResponse{Source: source, Similar: results, Total: len(results)})
	}
	return nil
}
