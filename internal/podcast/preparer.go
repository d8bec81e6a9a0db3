package podcast

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"notecaster/internal/tts"
)

// PrepareOptions toggle the content transformation steps independently.
type PrepareOptions struct {
	IncludeIntro      bool
	IncludeConclusion bool
	UseSSML           bool
}

const (
	introTemplate      = "Welcome. You are listening to an audio version of the note titled %s."
	conclusionTemplate = "That concludes this note. Thanks for listening."

	// ssmlSectionBreak is inserted between logical sections (intro,
	// body, conclusion) when SSML is in play.
	ssmlSectionBreak = `<break time="750ms"/>`
)

var (
	blockCloseRE = regexp.MustCompile(`(?i)</(h[1-6]|p|li|blockquote|div|tr)>`)
	lineBreakRE  = regexp.MustCompile(`(?i)<br\s*/?>`)
	tagRE        = regexp.MustCompile(`<[^>]*>`)
	spaceRE      = regexp.MustCompile(`\s+`)
	doubleStopRE = regexp.MustCompile(`([.!?,;:])\s*\.`)
)

var ssmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// StripHTML flattens note markup into prose. Closing block-level tags
// become sentence stops so headings and paragraphs still read naturally;
// everything else is dropped and entities are decoded.
func StripHTML(content string) string {
	text := blockCloseRE.ReplaceAllString(content, ". ")
	text = lineBreakRE.ReplaceAllString(text, ". ")
	text = tagRE.ReplaceAllString(text, " ")
	text = html.UnescapeString(text)
	text = spaceRE.ReplaceAllString(text, " ")
	// "Body.. " from a sentence that already ended before its closing tag.
	text = doubleStopRE.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

// Prepare turns a note's raw HTML content into speech-ready text. A pure
// function: identical input always yields identical output. Empty content
// is a validation failure; the provider is never called with it.
func Prepare(title, content string, opts PrepareOptions, providerSupportsSSML bool) (string, error) {
	body := StripHTML(content)
	if body == "" {
		return "", &tts.ValidationError{Reason: "note content is empty"}
	}

	sections := []string{}
	if opts.IncludeIntro {
		sections = append(sections, fmt.Sprintf(introTemplate, strings.TrimSpace(title)))
	}
	sections = append(sections, body)
	if opts.IncludeConclusion {
		sections = append(sections, conclusionTemplate)
	}

	if opts.UseSSML && providerSupportsSSML {
		escaped := make([]string, len(sections))
		for i, s := range sections {
			escaped[i] = ssmlEscaper.Replace(s)
		}
		return "<speak>" + strings.Join(escaped, " "+ssmlSectionBreak+" ") + "</speak>", nil
	}

	return strings.Join(sections, " "), nil
}
