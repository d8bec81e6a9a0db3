package podcast

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"notecaster/internal/tts"
)

func TestStripHTMLCollapsesBlockTags(t *testing.T) {
	got := StripHTML("<h1>Intro</h1><p>Hello world.</p>")
	assert.Equal(t, "Intro. Hello world.", got)
	assert.NotContains(t, got, "<")
	assert.NotContains(t, got, ">")
}

func TestStripHTMLDecodesEntitiesAndWhitespace(t *testing.T) {
	got := StripHTML("<p>Fish &amp; chips</p>\n\n<p>Second   paragraph</p>")
	assert.Equal(t, "Fish & chips. Second paragraph.", got)
}

func TestPreparePlainBody(t *testing.T) {
	got, err := Prepare("My Note", "<h1>Intro</h1><p>Hello world.</p>", PrepareOptions{}, false)
	assert.NoError(t, err)
	assert.Equal(t, "Intro. Hello world.", got)
}

func TestPrepareEmptyContent(t *testing.T) {
	_, err := Prepare("My Note", "", PrepareOptions{}, false)
	var validation *tts.ValidationError
	assert.True(t, errors.As(err, &validation))

	// Markup-only content strips to nothing as well.
	_, err = Prepare("My Note", "<p>   </p>", PrepareOptions{}, false)
	assert.True(t, errors.As(err, &validation))
}

func TestPrepareIntroAndConclusion(t *testing.T) {
	got, err := Prepare("Biology", "<p>Cells divide.</p>", PrepareOptions{IncludeIntro: true, IncludeConclusion: true}, false)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "Welcome."))
	assert.Contains(t, got, "Biology")
	assert.Contains(t, got, "Cells divide.")
	assert.True(t, strings.HasSuffix(got, "Thanks for listening."))
}

func TestPrepareSSMLWrapping(t *testing.T) {
	opts := PrepareOptions{IncludeIntro: true, IncludeConclusion: true, UseSSML: true}

	got, err := Prepare("Chemistry", "<p>Atoms bond.</p>", opts, true)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "<speak>"))
	assert.True(t, strings.HasSuffix(got, "</speak>"))
	assert.Equal(t, 2, strings.Count(got, `<break time="750ms"/>`))

	// SSML is skipped entirely when the provider cannot speak it.
	got, err = Prepare("Chemistry", "<p>Atoms bond.</p>", opts, false)
	assert.NoError(t, err)
	assert.NotContains(t, got, "<speak>")
}

func TestPrepareSSMLEscapesReservedCharacters(t *testing.T) {
	got, err := Prepare("Math", "<p>A &lt; B</p>", PrepareOptions{UseSSML: true}, true)
	assert.NoError(t, err)
	assert.Contains(t, got, "A &lt; B")
}

func TestPrepareIsPure(t *testing.T) {
	opts := PrepareOptions{IncludeIntro: true, UseSSML: true}
	first, err := Prepare("Note", "<p>Same input.</p>", opts, true)
	assert.NoError(t, err)
	second, err := Prepare("Note", "<p>Same input.</p>", opts, true)
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
