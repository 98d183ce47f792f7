package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nuggets-cli/nuggets/internal/clipboard"
	"github.com/nuggets-cli/nuggets/internal/episode"
	"github.com/nuggets-cli/nuggets/internal/export"
	"github.com/nuggets-cli/nuggets/internal/index"
)

func init() {
	rootCmd.AddCommand(copyCmd)
}

// CopyResponse is the response for the copy command.
type CopyResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
	Chars  int    `json:"chars"`
}

var copyCmd = &cobra.Command{
	Use:   "copy <nugget-id | episode-id>",
	Short: "Copy a nugget or an episode export to the clipboard",
	Long: `Copy a nugget (content and source) or a whole episode rendered as
Markdown to the system clipboard.

Requires pbcopy on macOS, or xclip, xsel or wl-copy on Linux.`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

// nuggetClipboardText renders one entry for pasting.
func nuggetClipboardText(e *index.Entry) string {
	text := e.Content
	if e.Headline != "" && e.Headline != e.Content {
		text = e.Headline + "\n\n" + e.Content
	}
	text += "\n\n— " + e.SourceName
	if e.EpisodeTitle != "" {
		text += ", " + e.EpisodeTitle
	}
	if e.Date != "" {
		text += " (" + e.Date + ")"
	}
	return text
}

func runCopy(cmd *cobra.Command, args []string) error {
	id := args[0]

	var text string
	if e, ok := mustLoadIndex().Find(id); ok {
		text = nuggetClipboardText(e)
	} else {
		ep, err := openStore().Get(id)
		if errors.Is(err, episode.ErrEpisodeNotFound) {
			exitWithError(ExitDataError, "no nugget or episode with id '%s'", id)
		}
		if err != nil {
			exitWithError(ExitError, "loading episode: %v", err)
		}
		text = export.EpisodeMarkdown(ep)
	}

	if err := clipboard.Copy(text); err != nil {
		if errors.Is(err, clipboard.ErrClipboardUnavailable) {
			exitWithError(ExitError, "clipboard unavailable\n\nInstall xclip, xsel or wl-clipboard.")
		}
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("%s %s\n", okStyle.Render("Copied"), id)
	} else {
		outputJSON(CopyResponse{Status: "copied", ID: id, Chars: len([]rune(text))})
	}
	return nil
}
