package content

// Kind distinguishes the two document shapes the fetch capability returns.
type Kind int

const (
	// KindRawHTML is a page body returned by a plain HTTP fetch.
	KindRawHTML Kind = iota
	// KindStructured is a scraping-service result with markdown and metadata.
	KindStructured
)

// Document is the raw input of the Normalizer.
type Document struct {
	Kind     Kind
	HTML     string
	Markdown string
	Title    string // metadata title, structured results only
}

// RawHTML wraps a fetched HTML page.
func RawHTML(html string) Document {
	return Document{Kind: KindRawHTML, HTML: html}
}

// Structured wraps a scraping-service result.
func Structured(title, markdown, html string) Document {
	return Document{Kind: KindStructured, Title: title, Markdown: markdown, HTML: html}
}
