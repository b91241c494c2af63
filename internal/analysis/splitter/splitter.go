// Package splitter breaks one raw model response into short message
// fragments. The model is asked to emit newline-delimited fragments but may
// ignore the instruction, so a sentence-punctuation fallback approximates
// fragment boundaries. A heuristic, not a parser: it never fails and always
// returns at least one fragment for non-empty input.
package splitter

import "strings"

// Sentence-terminal runes that close a fragment in the fallback pass.
var terminators = map[rune]bool{
	'。': true,
	'！': true,
	'？': true,
}

// Split turns rawText into an ordered list of trimmed, non-empty fragments.
func Split(rawText string) []string {
	parts := splitLines(rawText)

	if len(parts) == 1 {
		if sentences := splitSentences(parts[0]); len(sentences) > 1 {
			return sentences
		}
	}

	return parts
}

func splitLines(text string) []string {
	var parts []string
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	return parts
}

// splitSentences cuts on 。！？ keeping the terminator attached to the
// preceding clause.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		piece := strings.TrimSpace(current.String())
		if piece != "" {
			sentences = append(sentences, piece)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if terminators[r] {
			flush()
		}
	}
	flush()

	return sentences
}
