package answer

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pagechat/models"
)

const gopherText = "The gopher mascot was designed by Renee French in 2009. " +
	"Go programs compile quickly into a single static binary! " +
	"Short one. " +
	"Does the toolchain include a formatter? It certainly ships gofmt for everyone."

func gopherEntry() models.ContextEntry {
	return models.ContextEntry{
		URL:   "https://go.example",
		Title: "Go Facts",
		Text:  gopherText,
		Links: []string{"https://go.dev", "/blog"},
	}
}

func TestClassifyPriority(t *testing.T) {
	tests := []struct {
		message string
		want    Intent
	}{
		{"Can you summarize this?", IntentSummary},
		{"give me a SUMMARY and all the links", IntentSummary},
		{"what is this page about", IntentSummary},
		{"list the links", IntentLinks},
		{"any link to docs?", IntentLinks},
		{"how are the sections organized, and links?", IntentLinks},
		{"describe the structure", IntentStructure},
		{"how is it organized", IntentStructure},
		{"who designed the gopher", IntentSearch},
		{"hi", IntentOverview},
		{"", IntentOverview},
		{"what is it", IntentOverview},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			got, _ := Classify(tt.message)
			assert.Equal(t, tt.want, got, "intent %s", got)
		})
	}
}

func TestSearchTerms(t *testing.T) {
	assert.Equal(t, []string{"gopher", "mascot"}, SearchTerms("What is the Gopher mascot about"))
	assert.Equal(t, []string{"alpha", "beta", "gamma", "delta", "epsilon"}, SearchTerms("alpha beta gamma delta epsilon zeta"))
	assert.Empty(t, SearchTerms("is it ok to do so"))
	assert.Equal(t, []string{"mascot?"}, SearchTerms("mascot?"), "punctuation is not stripped")
}

func TestSummaryExcludesShortSentences(t *testing.T) {
	entry := models.ContextEntry{URL: "https://example.com", Title: "Example", Text: "Sentence one is here. Sentence two is here. Short."}

	out := Respond("Can you summarize this?", []models.ContextEntry{entry})

	assert.True(t, strings.HasPrefix(out, "Here's a summary of the 1 website(s):\n\n"))
	assert.Contains(t, out, "**Example**")
	assert.Contains(t, out, "*Source: https://example.com*")
	assert.NotContains(t, out, "Short")
}

func TestSummaryKeepsLongSentences(t *testing.T) {
	out := Respond("summary please", []models.ContextEntry{gopherEntry()})

	want := "Here's a summary of the 1 website(s):\n\n" +
		"**Go Facts**\n" +
		"The gopher mascot was designed by Renee French in 2009. " +
		"Go programs compile quickly into a single static binary. " +
		"Does the toolchain include a formatter. " +
		"It certainly ships gofmt for everyone...\n" +
		"*Source: https://go.example*"
	assert.Equal(t, want, out)
}

func TestSummaryCapsSentencesAndJoinsEntries(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&b, "This is long sentence number %d here. ", i)
	}
	a := models.ContextEntry{URL: "https://a", Title: "A", Text: b.String()}
	c := models.ContextEntry{URL: "https://c", Title: "C", Text: b.String()}

	out := Respond("summarize", []models.ContextEntry{a, c})
	assert.Contains(t, out, "summary of the 2 website(s)")
	assert.Contains(t, out, "number 4 here")
	assert.NotContains(t, out, "number 5 here")
	assert.Contains(t, out, "*Source: https://a*\n\n**C**")
}

func TestLinksNoneFound(t *testing.T) {
	entry := models.ContextEntry{URL: "u", Title: "t", Text: "text"}
	assert.Equal(t, "I didn't find any external links in the scraped content.", Respond("list the links", []models.ContextEntry{entry}))
}

func TestLinksListing(t *testing.T) {
	// No trailing blank line is appended when every link is listed.
	out := Respond("show links", []models.ContextEntry{gopherEntry()})
	assert.Equal(t, "I found 2 links across the websites:\n\n• https://go.dev\n• /blog", out)
}

func TestLinksCapAndMore(t *testing.T) {
	var links []string
	for i := 0; i < 12; i++ {
		links = append(links, fmt.Sprintf("/l%d", i))
	}
	entries := []models.ContextEntry{
		{URL: "a", Title: "A", Links: links[:6]},
		{URL: "b", Title: "B", Links: links[6:]},
	}

	out := Respond("links?", entries)
	assert.True(t, strings.HasPrefix(out, "I found 12 links across the websites:"))
	assert.Equal(t, models.MaxListedLinks, strings.Count(out, "• "))
	assert.Contains(t, out, "• /l9")
	assert.NotContains(t, out, "/l10")
	assert.True(t, strings.HasSuffix(out, "\n\n...and more"))
}

func TestStructureAnalysis(t *testing.T) {
	entry := models.ContextEntry{URL: "https://s", Title: "S", Text: "one two three\n\nfour five\n \nsix", Links: []string{"/a"}}
	out := Respond("what sections does it have", []models.ContextEntry{entry})

	want := "Here's the structure analysis:\n\n" +
		"**S**\n- Word count: ~6\n- Sections: ~3\n- Links: 1\n*Source: https://s*"
	assert.Equal(t, want, out)
}

func TestStructureOfEmptyText(t *testing.T) {
	// Whitespace splitting counts empty text as zero words; it is still one section.
	entry := models.ContextEntry{URL: "https://e", Title: "E"}
	out := Respond("structure", []models.ContextEntry{entry})
	assert.Contains(t, out, "- Word count: ~0\n- Sections: ~1\n")
}

func longPage() string {
	var sb strings.Builder
	for i := 0; sb.Len() <= models.MaxContextChars; i++ {
		fmt.Fprintf(&sb, "Filler sentence number %d pads the page out. ", i)
	}
	sb.WriteString("The quokka lives mostly on Rottnest Island near Perth.")
	return sb.String()
}

func TestHeuristicReadsBeyondPromptCap(t *testing.T) {
	body := longPage()
	require.Greater(t, len([]rune(body)), models.MaxContextChars)
	src := mapSource{"https://long": {URL: "https://long", Title: "Long", Body: body}}
	e := newEngine(src, NewHeuristicStrategy())

	res := e.Answer(context.Background(), "quokka island", []string{"https://long"})
	require.True(t, res.Success)
	assert.Equal(t, "Here's what I found about \"quokka, island\":\n\n"+
		"**Long**\nThe quokka lives mostly on Rottnest Island near Perth\n*Source: https://long*", res.Response)

	res = e.Answer(context.Background(), "structure", []string{"https://long"})
	require.True(t, res.Success)
	assert.Contains(t, res.Response, fmt.Sprintf("- Word count: ~%d\n", len(strings.Fields(body))))
}

func TestKeywordSearch(t *testing.T) {
	out := Respond("Who designed the gopher", []models.ContextEntry{gopherEntry()})

	assert.True(t, strings.HasPrefix(out, `Here's what I found about "who, designed, gopher":`))
	assert.Contains(t, out, "**Go Facts**\nThe gopher mascot was designed by Renee French in 2009\n*Source: https://go.example*")
	assert.NotContains(t, out, "static binary")
}

func TestKeywordSearchCapsMatchesAndOmitsEmptyEntries(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 5; i++ {
		fmt.Fprintf(&b, "Widgets are discussed in paragraph %d. ", i)
	}
	hit := models.ContextEntry{URL: "https://hit", Title: "Hit", Text: b.String()}
	miss := models.ContextEntry{URL: "https://miss", Title: "Miss", Text: "Nothing relevant is mentioned on this page at all."}

	out := Respond("widgets", []models.ContextEntry{miss, hit})
	assert.NotContains(t, out, "Miss")
	assert.Contains(t, out, "paragraph 2")
	assert.NotContains(t, out, "paragraph 3")
}

func TestKeywordSearchNotFound(t *testing.T) {
	out := Respond("explain quantum chromodynamics", []models.ContextEntry{gopherEntry()})
	assert.Equal(t, `I couldn't find specific information about "explain, quantum, chromodynamics" in the scraped content. `+
		"Try asking about the main topics or request a summary instead.", out)
}

func TestOverview(t *testing.T) {
	other := models.ContextEntry{URL: "https://b", Title: "Other", Text: "three more words", Links: []string{"/x"}}
	out := Respond("hi", []models.ContextEntry{gopherEntry(), other})

	assert.True(t, strings.HasPrefix(out, "I have access to 2 website(s): Go Facts, Other.\n\n"))
	assert.Contains(t, out, fmt.Sprintf("Total content: ~%d words, 3 links.", len(strings.Fields(gopherText))+3))
	for _, item := range []string{"Summarize the content", "Find specific information", "Analyze the structure", "List available links", "Search for particular topics"} {
		assert.Contains(t, out, "• "+item)
	}
}

func TestHeuristicStrategyNeverFails(t *testing.T) {
	h := NewHeuristicStrategy()
	assert.Equal(t, "heuristic", h.Name())

	out, err := h.Answer(context.Background(), "summarize", []models.ContextEntry{gopherEntry()})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
