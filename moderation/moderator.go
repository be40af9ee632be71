// Package moderation masks censored words in chat messages before they reach
// the translation pipeline. Matching is punctuation- and case-insensitive so
// spaced-out or decorated spellings are still caught.
package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewModerator builds the Aho-Corasick automaton over a normalized copy of the
// word list.
func NewModerator(words []string, replacement rune) (Moderator, error) {
	patterns := make([][]rune, len(words))
	for i, word := range words {
		patterns[i] = normalize([]rune(word))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: m, replacement: replacement}, nil
}

// Censor replaces every matched word with the replacement rune, preserving the
// message length and spacing, and reports the normalized words it found.
func (m Moderator) Censor(text string) (string, []string) {
	origRunes := []rune(text)
	norm := make([]rune, 0, len(origRunes))
	origIdx := make([]int, 0, len(origRunes))
	for i, r := range origRunes {
		if isNoise(r) {
			continue
		}
		norm = append(norm, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	if len(norm) == 0 {
		return text, nil
	}

	spans := m.matcher.MultiPatternSearch(norm, false)
	if len(spans) == 0 {
		return text, nil
	}

	var found []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origIdx) {
			continue
		}
		found = append(found, string(span.Word))
		for i := origIdx[start]; i <= origIdx[end-1]; i++ {
			origRunes[i] = m.replacement
		}
	}
	return string(origRunes), found
}

func normalize(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		if isNoise(r) {
			continue
		}
		out = append(out, unicode.ToLower(r))
	}
	return out
}

// isNoise identifies characters ignored during the pattern matching phase.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
