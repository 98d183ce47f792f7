package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nuggets-cli/nuggets/internal/config"
	"github.com/nuggets-cli/nuggets/internal/episode"
	"github.com/nuggets-cli/nuggets/internal/export"
	"github.com/nuggets-cli/nuggets/internal/index"
)

var (
	exportFormat  string
	exportOutput  string
	exportSave    bool
	exportTitle   string
	exportGroupBy string
	exportLimit   int
	exportOpts    searchFlags
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.AddCommand(exportEpisodeCmd)
	exportCmd.AddCommand(exportCollectionCmd)

	exportCmd.PersistentFlags().StringVar(&exportFormat, "format", export.FormatMarkdown, "Output format: markdown, json or jsonl (collections only)")
	exportCmd.PersistentFlags().StringVarP(&exportOutput, "output", "o", "", "Write to this file instead of stdout")
	exportCmd.PersistentFlags().BoolVar(&exportSave, "save", false, "Write to <data>/exports/ with a generated name")

	exportOpts.register(exportCollectionCmd)
	exportCollectionCmd.Flags().StringVar(&exportTitle, "title", export.DefaultCollectionTitle, "Collection title")
	exportCollectionCmd.Flags().StringVar(&exportGroupBy, "group-by", "", "Group by topic, source, type, date, year or wisdom")
	exportCollectionCmd.Flags().IntVar(&exportLimit, "limit", 0, "Maximum nuggets to include (0 for all)")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export episodes or nugget collections",
	Long: `Render an episode or a filtered collection of nuggets as Markdown or
JSON. Output goes to stdout unless -o or --save is given.`,
}

var exportEpisodeCmd = &cobra.Command{
	Use:   "episode <episode-id>",
	Short: "Export one episode with its nuggets and notes",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportEpisode,
}

var exportCollectionCmd = &cobra.Command{
	Use:   "collection [query]",
	Short: "Export nuggets matching search filters",
	Long: `Export the nuggets matching the given filters as one document.

Examples:
  nug export collection --min-stars 3 --title "Best of" --group-by topic
  nug export collection sleep --source huberman --format json -o sleep.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExportCollection,
}

func validateFormat() string {
	switch exportFormat {
	case export.FormatMarkdown, "md":
		return export.FormatMarkdown
	case export.FormatJSON:
		return export.FormatJSON
	case export.FormatJSONL:
		return export.FormatJSONL
	}
	exitWithError(ExitError, "invalid --format %q (valid: markdown, json, jsonl)", exportFormat)
	return ""
}

// extension returns the file extension for a format.
func extension(format string) string {
	switch format {
	case export.FormatJSON:
		return ".json"
	case export.FormatJSONL:
		return ".jsonl"
	}
	return ".md"
}

// exportPath decides where output goes; "" means stdout.
func exportPath(name, format string) string {
	if exportOutput != "" {
		return config.ExpandPath(exportOutput)
	}
	if exportSave {
		return filepath.Join(config.ExportsPath(dataRoot), config.Slugify(name)+extension(format))
	}
	return ""
}

// emit writes rendered content to path, or prints it when path is empty.
func emit(content, path string) {
	if path == "" {
		fmt.Print(content)
		if len(content) > 0 && content[len(content)-1] != '\n' {
			fmt.Println()
		}
		return
	}
	if err := export.WriteFile(path, content); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	logger.Info("exported", "path", path)
	if humanOutput {
		fmt.Printf("%s %s\n", okStyle.Render("Exported to"), path)
	} else {
		outputJSON(StatusResponse{Status: "exported", Path: path})
	}
}

func runExportEpisode(cmd *cobra.Command, args []string) error {
	format := validateFormat()

	ep, err := openStore().Get(args[0])
	if errors.Is(err, episode.ErrEpisodeNotFound) {
		exitWithError(ExitDataError, "episode '%s' not found", args[0])
	}
	if err != nil {
		exitWithError(ExitError, "loading episode: %v", err)
	}

	var content string
	switch format {
	case export.FormatJSON:
		content, err = export.JSON(ep)
	case export.FormatJSONL:
		exitWithError(ExitError, "jsonl is only supported for collections")
	default:
		content = export.EpisodeMarkdown(ep)
	}
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	emit(content, exportPath(ep.ID, format))
	return nil
}

func runExportCollection(cmd *cobra.Command, args []string) error {
	format := validateFormat()

	var query string
	if len(args) == 1 {
		query = args[0]
	}
	f, err := exportOpts.filters(query)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	entries := index.Search(mustLoadIndex(), f)
	if exportLimit > 0 && len(entries) > exportLimit {
		entries = entries[:exportLimit]
	}

	var content string
	switch format {
	case export.FormatJSON:
		content, err = export.JSON(entries)
	case export.FormatJSONL:
		content, err = export.JSONL(entries)
	default:
		content, err = export.CollectionMarkdown(entries, exportTitle, exportGroupBy)
	}
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	emit(content, exportPath(exportTitle, format))
	return nil
}
