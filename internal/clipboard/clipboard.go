// Package clipboard copies exported nuggets to the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when clipboard access is not available.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// unsupported and writeAll are swapped out in tests.
var (
	unsupported = func() bool { return clipboard.Unsupported }
	writeAll    = clipboard.WriteAll
)

// IsAvailable reports whether a clipboard backend was found
// (pbcopy, xclip, xsel, wl-copy or the Windows API).
func IsAvailable() bool {
	return !unsupported()
}

// Copy copies the given text to the system clipboard.
// Returns ErrClipboardUnavailable if clipboard access is not available.
func Copy(text string) error {
	if !IsAvailable() {
		return ErrClipboardUnavailable
	}
	if err := writeAll(text); err != nil {
		return fmt.Errorf("copying to clipboard: %w", err)
	}
	return nil
}
