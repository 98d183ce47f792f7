package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nuggets-cli/nuggets/internal/export"
	"github.com/nuggets-cli/nuggets/internal/index"
)

// Constants for output formatting.
const (
	DefaultSearchLimit  = 50 // Default limit for search/list commands
	DefaultSimilarLimit = 10 // Default limit for similarity queries

	ContentMaxLen = 100 // Nugget content in list views
	TitleMaxLen   = 60  // Episode titles in list views
)

// Styles for human output. lipgloss drops the colors when stdout is not a
// terminal.
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFD7"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C6C6C"))
	starStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D787")).Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF005F"))
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "%s %s\n", warnStyle.Render("error:"), msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	closeLogger()
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// printEntries prints index entries in human-readable format.
func printEntries(entries []index.Entry) {
	for i := range entries {
		e := &entries[i]
		line := fmt.Sprintf("%s %s", export.TypeIcon(e.Type), truncateString(e.Content, ContentMaxLen))
		if stars := export.Stars(e.Stars); stars != "" {
			line += " " + starStyle.Render(stars)
		}
		fmt.Println(line)

		meta := []string{e.SourceName}
		if e.Date != "" {
			meta = append(meta, e.Date)
		}
		if e.Topic != "" {
			meta = append(meta, e.Topic)
		}
		fmt.Printf("   %s  %s\n\n", idStyle.Render(e.NuggetID), strings.Join(meta, " · "))
	}
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// printProgress prints a progress bar to stderr.
func printProgress(current, total int) {
	if total == 0 {
		return
	}
	pct := float64(current) / float64(total) * 100
	barWidth := 30
	filled := barWidth * current / total
	bar := strings.Repeat("=", filled)
	if filled < barWidth {
		bar += ">" + strings.Repeat(" ", barWidth-filled-1)
	}
	fmt.Fprintf(os.Stderr, "\r[%s] %d/%d (%.0f%%)", bar, current, total, pct)
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
