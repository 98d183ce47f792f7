// Package embedding provides vector embedding generation for text.
package embedding

import "unicode/utf8"

// MaxTextLength is the maximum text length (in bytes) sent to a provider.
// Longer segment texts are cut at a rune boundary.
const MaxTextLength = 8000

// Embedding represents a vector embedding of text.
type Embedding struct {
	Vector []float32 // e.g. 768 dimensions for nomic-embed-text
}

// Dimensions returns the dimensionality of the embedding.
func (e Embedding) Dimensions() int {
	return len(e.Vector)
}

// Truncate shortens text to at most max bytes without splitting a rune.
func Truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
