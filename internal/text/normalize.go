// Package text provides input normalization for speech synthesis.
//
// Synthesis providers read punctuation and spacing literally, so raw caller
// input is flattened into a single clean line before it is sent upstream.
package text

import (
	"regexp"
	"strings"
)

// Regex patterns for text normalization.
const (
	whitespaceRegexPattern = `\s+`
)

// Punctuation and formatting constants.
const (
	emDash       = "—"
	enDash       = "–"
	ellipsisChar = "…"
	ellipsis     = "..."
	hyphen       = "-"
	space        = " "
)

// Normalizer provides text normalization functionality for synthesis input.
type Normalizer struct {
	whitespacePattern *regexp.Regexp
	punctuationFixer  *strings.Replacer
}

// NewNormalizer creates a normalizer with compiled patterns and replacers.
func NewNormalizer() *Normalizer {
	return &Normalizer{
		whitespacePattern: regexp.MustCompile(whitespaceRegexPattern),
		punctuationFixer: strings.NewReplacer(
			emDash, hyphen,
			enDash, hyphen,
			ellipsisChar, ellipsis,
		),
	}
}

// Normalize collapses all whitespace runs into single spaces, trims the
// result, and rewrites typographic punctuation into its ASCII form.
// Whitespace-only input normalizes to the empty string.
func (n *Normalizer) Normalize(input string) string {
	if input == "" {
		return input
	}

	normalized := n.punctuationFixer.Replace(input)
	normalized = n.whitespacePattern.ReplaceAllString(normalized, space)

	return strings.TrimSpace(normalized)
}
