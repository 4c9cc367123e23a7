// Package prompt assembles stored content into the context block sent to a
// completion model.
package prompt

import (
	"fmt"
	"strings"

	"pagechat/models"
)

const (
	entrySeparator = "\n---\n"

	template = "You are an intelligent assistant. Use the following website content to answer the user's question.\n\n%s\n\nUser question: %s\n\nAnswer:"
)

// RecordSource looks up stored content by URL.
type RecordSource interface {
	ByURL(url string) (models.ContentRecord, bool)
}

// Assemble returns one entry per URL with stored content, in the order given.
// URLs without content are skipped. An empty result means there is no usable
// context.
func Assemble(urls []string, src RecordSource) []models.ContextEntry {
	entries := make([]models.ContextEntry, 0, len(urls))
	for _, u := range urls {
		rec, ok := src.ByURL(u)
		if !ok {
			continue
		}
		entries = append(entries, FromRecord(rec))
	}
	return entries
}

// FromRecord projects a record into a context entry with Text capped.
func FromRecord(rec models.ContentRecord) models.ContextEntry {
	return models.ContextEntry{
		URL:   rec.URL,
		Title: rec.Title,
		Text:  models.Truncate(rec.Body, models.MaxContextChars),
		Links: rec.Links,
		Body:  rec.Body,
	}
}

// RenderContext formats entries as the context block. Entry text is capped
// again here because entries may arrive from outside Assemble.
func RenderContext(entries []models.ContextEntry) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("Title: %s\nURL: %s\nContent: %s\n",
			e.Title, e.URL, models.Truncate(e.Text, models.MaxContextChars))
	}
	return strings.Join(parts, entrySeparator)
}

// Render embeds the context block and the question in the instruction template.
func Render(entries []models.ContextEntry, message string) string {
	return fmt.Sprintf(template, RenderContext(entries), message)
}
