package models

// ContentRecord is the normalized representation of one fetched page.
// The JSON names match the records written by earlier browser builds so an
// exported cache can be imported unchanged.
type ContentRecord struct {
	URL       string   `json:"url"`
	Title     string   `json:"title"`
	Body      string   `json:"content"`
	Links     []string `json:"links"`
	FetchedAt int64    `json:"scrapedAt"` // epoch milliseconds
}

// ContextEntry is the prompt-ready projection of a ContentRecord. Text is
// capped for prompting; Body keeps the full stored text for local analysis
// and is never serialized.
type ContextEntry struct {
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Text  string   `json:"text"`
	Links []string `json:"links,omitempty"`
	Body  string   `json:"-"`
}

// FullText returns the uncapped body when known and Text otherwise.
func (e ContextEntry) FullText() string {
	if e.Body != "" {
		return e.Body
	}
	return e.Text
}
