package models

// Size and eviction limits applied across the pipeline.
const (
	// MaxBodyChars caps ContentRecord.Body at ingestion time.
	MaxBodyChars = 50000
	// MaxLinks caps ContentRecord.Links at ingestion time.
	MaxLinks = 20
	// MaxStoredRecords is the Content Store capacity.
	MaxStoredRecords = 10
	// MaxStoredMessages is the History Store capacity.
	MaxStoredMessages = 100
	// MaxContextChars caps ContextEntry.Text at prompt-assembly time.
	MaxContextChars = 2000

	// MaxSummarySentences is the number of sentences kept per entry in a summary.
	MaxSummarySentences = 5
	// MaxListedLinks is the number of links shown in a links listing.
	MaxListedLinks = 10
	// MaxMatchesPerEntry is the number of matching sentences shown per entry in a keyword search.
	MaxMatchesPerEntry = 3
	// MaxSearchTerms is the number of search terms kept from a question.
	MaxSearchTerms = 5
	// MinSentenceChars is the length a sentence must exceed to be kept.
	MinSentenceChars = 20
	// MinTermChars is the length a search term must exceed to be kept.
	MinTermChars = 2
)

// Truncate returns the first n characters (runes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
