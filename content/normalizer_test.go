package content

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagechat/models"
	"pagechat/tests"
)

var fixedNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return NewNormalizer().WithClock(func() time.Time { return fixedNow })
}

func TestNormalizeRawHTML(t *testing.T) {
	rec, err := newTestNormalizer().Normalize("https://example.com/page", RawHTML(tests.SamplePage))
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/page", rec.URL)
	assert.Equal(t, "Sample Page", rec.Title)
	assert.Equal(t, fixedNow.UnixMilli(), rec.FetchedAt)

	assert.Contains(t, rec.Body, "Welcome to the sample", "whitespace runs collapse to one space")
	assert.Contains(t, rec.Body, "The gopher mascot was designed by Renee French in 2009.")
	for _, stripped := range []string{"tracking", "color: red", "Site header text", "Nav link", "Footer text"} {
		assert.NotContains(t, rec.Body, stripped)
	}
	assert.Equal(t, rec.Body, strings.TrimSpace(rec.Body))
	assert.NotContains(t, rec.Body, "  ")

	// mailto: and fragment links are dropped; header and nav links are kept.
	assert.Equal(t, []string{"/home", "https://example.com/nav", "https://go.dev/doc", "/blog"}, rec.Links)
}

func TestNormalizeTitleFallsBackToURL(t *testing.T) {
	rec, err := newTestNormalizer().Normalize("https://example.com/x", RawHTML("<html><body><p>No title here</p></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x", rec.Title)
	assert.Equal(t, "No title here", rec.Body)
	assert.Empty(t, rec.Links)
}

func TestNormalizeCapsLinksAndKeepsDuplicates(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 30; i++ {
		b.WriteString(`<a href="/same">x</a>`)
	}
	b.WriteString("</body></html>")

	rec, err := newTestNormalizer().Normalize("https://example.com", RawHTML(b.String()))
	require.NoError(t, err)
	require.Len(t, rec.Links, models.MaxLinks)
	for _, l := range rec.Links {
		assert.Equal(t, "/same", l)
	}
}

func TestNormalizeTruncatesBody(t *testing.T) {
	long := strings.Repeat("word ", 20000) // 100k characters
	rec, err := newTestNormalizer().Normalize("https://example.com", RawHTML("<html><body><p>"+long+"</p></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, models.MaxBodyChars, len([]rune(rec.Body)))
}

func TestNormalizeTruncatesByCharacterNotByte(t *testing.T) {
	long := strings.Repeat("é", models.MaxBodyChars+10)
	rec, err := newTestNormalizer().Normalize("https://example.com", Structured("T", long, ""))
	require.NoError(t, err)
	assert.Equal(t, models.MaxBodyChars, len([]rune(rec.Body)))
}

func TestNormalizeStructured(t *testing.T) {
	md := "# Heading\n\nFirst paragraph.\n\nSecond paragraph."
	htmlBody := `<div><a href="https://a.example">a</a><a href="relative">r</a><a href="/b">b</a></div>`

	rec, err := newTestNormalizer().Normalize("https://example.com", Structured("  Scraped Title ", md, htmlBody))
	require.NoError(t, err)
	assert.Equal(t, "Scraped Title", rec.Title)
	assert.Equal(t, md, rec.Body, "markdown is kept verbatim")
	assert.Equal(t, []string{"https://a.example", "/b"}, rec.Links)
}

func TestNormalizeStructuredFallbacks(t *testing.T) {
	rec, err := newTestNormalizer().Normalize("https://example.com", Structured("", "", "<p>only html</p>"))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", rec.Title)
	assert.Equal(t, "<p>only html</p>", rec.Body)
}

func TestNormalizeStructuredWithoutHTMLHasNoLinks(t *testing.T) {
	rec, err := newTestNormalizer().Normalize("https://example.com", Structured("T", "short", ""))
	require.NoError(t, err)
	assert.Equal(t, "short", rec.Body)
	assert.NotNil(t, rec.Links)
	assert.Empty(t, rec.Links)
}

func TestNormalizeEmptyDocument(t *testing.T) {
	rec, err := newTestNormalizer().Normalize("https://example.com/empty", RawHTML(""))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/empty", rec.Title)
	assert.Empty(t, rec.Body)
}
