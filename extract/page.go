package extract

import (
	"bytes"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// Page is a fetched document: its final URL, raw body and parsed DOM.
type Page struct {
	URL  *url.URL
	Body []byte
	Doc  *goquery.Document
}

// NewPage parses body as HTML and binds it to rawURL, the page's resolved
// absolute URL.
func NewPage(rawURL string, body []byte) (*Page, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page URL: %w", err)
	}
	if !u.IsAbs() {
		return nil, fmt.Errorf("page URL %q is not absolute", rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Url = u

	return &Page{URL: u, Body: body, Doc: doc}, nil
}

// WithBody returns a copy of the page at the same URL with a new body.
func (p *Page) WithBody(body []byte) (*Page, error) {
	return NewPage(p.URL.String(), body)
}

// Resolve resolves a possibly relative link against the page URL.
func (p *Page) Resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("failed to parse link %q: %w", href, err)
	}
	return p.URL.ResolveReference(ref).String(), nil
}

// ID is the trailing path segment of the page URL.
func (p *Page) ID() string {
	return LastSegment(p.URL.String())
}
