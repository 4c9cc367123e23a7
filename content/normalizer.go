// Package content turns fetched pages into ContentRecords and caches them.
package content

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"pagechat/models"
)

// nonContentSelectors lists elements stripped before extracting body text.
const nonContentSelectors = "script, style, nav, header, footer"

// Normalizer converts raw documents into ContentRecords.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer returns a Normalizer stamping records with the wall clock.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// WithClock overrides the clock used for FetchedAt.
func (n *Normalizer) WithClock(now func() time.Time) *Normalizer {
	n.now = now
	return n
}

// Normalize builds the ContentRecord for pageURL from doc. Parse failures are
// reported as models.ErrFetchFailed.
func (n *Normalizer) Normalize(pageURL string, doc Document) (models.ContentRecord, error) {
	var (
		title, body string
		links       []string
		err         error
	)

	switch doc.Kind {
	case KindStructured:
		title, body, links, err = normalizeStructured(doc)
	default:
		title, body, links, err = normalizeHTML(pageURL, doc.HTML)
	}
	if err != nil {
		return models.ContentRecord{}, fmt.Errorf("%w: %v", models.ErrFetchFailed, err)
	}

	if title == "" {
		title = pageURL
	}
	return models.ContentRecord{
		URL:       pageURL,
		Title:     title,
		Body:      models.Truncate(body, models.MaxBodyChars),
		Links:     links,
		FetchedAt: n.now().UnixMilli(),
	}, nil
}

func normalizeStructured(doc Document) (title, body string, links []string, err error) {
	links = []string{}
	body = doc.Markdown
	if body == "" {
		body = doc.HTML
	}
	if doc.HTML != "" {
		parsed, err := parse(doc.HTML)
		if err != nil {
			return "", "", nil, err
		}
		links = extractLinks(parsed)
	}
	return strings.TrimSpace(doc.Title), body, links, nil
}

func normalizeHTML(pageURL, raw string) (title, body string, links []string, err error) {
	doc, err := parse(raw)
	if err != nil {
		return "", "", nil, err
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())
	// Links come from the full document, navigation included.
	links = extractLinks(doc)
	body = extractBodyText(doc)

	if body == "" && strings.TrimSpace(raw) != "" {
		body = readabilityText(raw, pageURL)
	}
	return title, body, links, nil
}

func parse(raw string) (*goquery.Document, error) {
	root, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

// extractBodyText strips non-content elements and returns the body text with
// whitespace runs collapsed.
func extractBodyText(doc *goquery.Document) string {
	doc.Find(nonContentSelectors).Remove()

	sel := doc.Find("body").First()
	if sel.Length() == 0 {
		sel = doc.Selection
	}
	return collapseWhitespace(sel.Text())
}

// extractLinks returns hrefs starting with "http" or "/" in document order.
// Duplicates are kept.
func extractLinks(doc *goquery.Document) []string {
	links := []string{}
	doc.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, _ := a.Attr("href")
		if strings.HasPrefix(href, "http") || strings.HasPrefix(href, "/") {
			links = append(links, href)
		}
		return len(links) < models.MaxLinks
	})
	return links
}

// readabilityText is the last resort for pages whose text lives outside the
// elements the selector pass keeps.
func readabilityText(raw, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(raw), u)
	if err != nil {
		return ""
	}
	return collapseWhitespace(article.TextContent)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
