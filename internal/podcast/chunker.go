package podcast

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Chunk splits text into ordered pieces of at most maxLen runes. Greedy:
// whole sentences are accumulated until the next one would overflow, an
// oversized sentence falls back to word accumulation, and a single word
// longer than maxLen is hard-split at rune boundaries as a last resort.
// Lengths are measured in runes, not bytes, so multi-byte text never
// splits inside a character.
//
// Pure function: the same input always yields the same chunks, and the
// whitespace-normalized concatenation of the chunks reproduces the input.
func Chunk(text string, maxLen int) []string {
	text = strings.TrimSpace(text)
	if text == "" || maxLen <= 0 {
		return nil
	}
	if utf8.RuneCountInString(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	appendUnit := func(unit string) {
		unitLen := utf8.RuneCountInString(unit)
		sep := 0
		if currentLen > 0 {
			sep = 1
		}
		if currentLen+sep+unitLen > maxLen {
			flush()
			sep = 0
		}
		if sep == 1 {
			current.WriteByte(' ')
		}
		current.WriteString(unit)
		currentLen += sep + unitLen
	}

	for _, sentence := range splitSentences(text) {
		if utf8.RuneCountInString(sentence) <= maxLen {
			appendUnit(sentence)
			continue
		}
		for _, word := range strings.Fields(sentence) {
			if utf8.RuneCountInString(word) <= maxLen {
				appendUnit(word)
				continue
			}
			for _, piece := range hardSplit(word, maxLen) {
				appendUnit(piece)
			}
		}
	}
	flush()

	return chunks
}

// splitSentences breaks text after sentence terminators followed by
// whitespace. The terminator stays attached to its sentence.
func splitSentences(text string) []string {
	var sentences []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}
	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}
	return sentences
}

// hardSplit cuts a single oversized word into maxLen-rune pieces.
func hardSplit(word string, maxLen int) []string {
	runes := []rune(word)
	var pieces []string
	for len(runes) > maxLen {
		pieces = append(pieces, string(runes[:maxLen]))
		runes = runes[maxLen:]
	}
	if len(runes) > 0 {
		pieces = append(pieces, string(runes))
	}
	return pieces
}
