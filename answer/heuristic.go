package answer

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"pagechat/models"
)

// Intent is the kind of request the heuristic responder recognised.
type Intent int

const (
	IntentSummary Intent = iota
	IntentLinks
	IntentStructure
	IntentSearch
	IntentOverview
)

func (i Intent) String() string {
	switch i {
	case IntentSummary:
		return "summary"
	case IntentLinks:
		return "links"
	case IntentStructure:
		return "structure"
	case IntentSearch:
		return "search"
	default:
		return "overview"
	}
}

// NoLinksMessage is the whole reply to a links request when no entry has links.
const NoLinksMessage = "I didn't find any external links in the scraped content."

var (
	summaryKeywords   = []string{"summary", "summarize", "about"}
	linkKeywords      = []string{"link"} // also matches "links"
	structureKeywords = []string{"structure", "organize", "sections"}

	stopWords = map[string]bool{
		"what": true, "is": true, "are": true, "the": true, "about": true,
		"tell": true, "me": true, "can": true, "you": true, "how": true,
		"when": true, "where": true, "why": true, "do": true, "does": true,
	}

	sentenceBoundary = regexp.MustCompile(`[.!?]+`)
	paragraphBreak   = regexp.MustCompile(`\n\s*\n`)
)

// HeuristicStrategy answers without a model by lexical matching over the
// full stored text of each entry. It is deterministic and never fails.
type HeuristicStrategy struct{}

func NewHeuristicStrategy() *HeuristicStrategy {
	return &HeuristicStrategy{}
}

func (*HeuristicStrategy) Name() string { return "heuristic" }

func (h *HeuristicStrategy) Answer(_ context.Context, message string, entries []models.ContextEntry) (string, error) {
	return Respond(message, entries), nil
}

// Classify returns the intent of message and, for searches, the search terms.
// Keyword sets are checked in priority order and the first match wins.
func Classify(message string) (Intent, []string) {
	lower := strings.ToLower(message)
	switch {
	case containsAny(lower, summaryKeywords):
		return IntentSummary, nil
	case containsAny(lower, linkKeywords):
		return IntentLinks, nil
	case containsAny(lower, structureKeywords):
		return IntentStructure, nil
	}
	if terms := SearchTerms(message); len(terms) > 0 {
		return IntentSearch, terms
	}
	return IntentOverview, nil
}

// Respond builds the heuristic reply for message.
func Respond(message string, entries []models.ContextEntry) string {
	intent, terms := Classify(message)
	switch intent {
	case IntentSummary:
		return summarize(entries)
	case IntentLinks:
		return listLinks(entries)
	case IntentStructure:
		return analyzeStructure(entries)
	case IntentSearch:
		return search(terms, entries)
	default:
		return overview(entries)
	}
}

// SearchTerms lowercases message, splits it on whitespace and keeps up to five
// tokens longer than two characters that are not stop words.
func SearchTerms(message string) []string {
	var terms []string
	for _, word := range strings.Fields(strings.ToLower(message)) {
		if utf8.RuneCountInString(word) <= models.MinTermChars || stopWords[word] {
			continue
		}
		terms = append(terms, word)
		if len(terms) == models.MaxSearchTerms {
			break
		}
	}
	return terms
}

func summarize(entries []models.ContextEntry) string {
	fragments := make([]string, len(entries))
	for i, e := range entries {
		key := firstN(sentences(e.FullText()), models.MaxSummarySentences)
		fragments[i] = fmt.Sprintf("**%s**\n%s...\n%s", e.Title, strings.Join(key, ". "), sourceFooter(e.URL))
	}
	return fmt.Sprintf("Here's a summary of the %d website(s):\n\n%s", len(entries), strings.Join(fragments, "\n\n"))
}

func listLinks(entries []models.ContextEntry) string {
	var all []string
	for _, e := range entries {
		all = append(all, e.Links...)
	}
	if len(all) == 0 {
		return NoLinksMessage
	}

	shown := firstN(all, models.MaxListedLinks)
	lines := make([]string, len(shown))
	for i, l := range shown {
		lines[i] = "• " + l
	}
	out := fmt.Sprintf("I found %d links across the websites:\n\n%s", len(all), strings.Join(lines, "\n"))
	if len(all) > models.MaxListedLinks {
		out += "\n\n...and more"
	}
	return out
}

func analyzeStructure(entries []models.ContextEntry) string {
	fragments := make([]string, len(entries))
	for i, e := range entries {
		fragments[i] = fmt.Sprintf("**%s**\n- Word count: ~%d\n- Sections: ~%d\n- Links: %d\n%s",
			e.Title, wordCount(e.FullText()), paragraphCount(e.FullText()), len(e.Links), sourceFooter(e.URL))
	}
	return "Here's the structure analysis:\n\n" + strings.Join(fragments, "\n\n")
}

func search(terms []string, entries []models.ContextEntry) string {
	quoted := strings.Join(terms, ", ")

	var fragments []string
	for _, e := range entries {
		var matches []string
		for _, s := range sentences(e.FullText()) {
			if containsAny(strings.ToLower(s), terms) {
				matches = append(matches, s)
				if len(matches) == models.MaxMatchesPerEntry {
					break
				}
			}
		}
		if len(matches) == 0 {
			continue
		}
		fragments = append(fragments, fmt.Sprintf("**%s**\n%s\n%s", e.Title, strings.Join(matches, ". "), sourceFooter(e.URL)))
	}

	if len(fragments) == 0 {
		return fmt.Sprintf("I couldn't find specific information about \"%s\" in the scraped content. "+
			"Try asking about the main topics or request a summary instead.", quoted)
	}
	return fmt.Sprintf("Here's what I found about \"%s\":\n\n%s", quoted, strings.Join(fragments, "\n\n"))
}

func overview(entries []models.ContextEntry) string {
	titles := make([]string, len(entries))
	words, links := 0, 0
	for i, e := range entries {
		titles[i] = e.Title
		words += wordCount(e.FullText())
		links += len(e.Links)
	}
	return fmt.Sprintf("I have access to %d website(s): %s.\n\n"+
		"Total content: ~%d words, %d links.\n\n"+
		"You can ask me to:\n"+
		"• Summarize the content\n"+
		"• Find specific information\n"+
		"• Analyze the structure\n"+
		"• List available links\n"+
		"• Search for particular topics",
		len(entries), strings.Join(titles, ", "), words, links)
}

// sentences splits text on runs of '.', '!' and '?' and keeps the trimmed
// pieces longer than MinSentenceChars.
func sentences(text string) []string {
	var out []string
	for _, s := range sentenceBoundary.Split(text, -1) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) > models.MinSentenceChars {
			out = append(out, s)
		}
	}
	return out
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func paragraphCount(text string) int {
	return len(paragraphBreak.Split(text, -1))
}

func sourceFooter(url string) string {
	return "*Source: " + url + "*"
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func firstN[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
