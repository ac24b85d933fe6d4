package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/titanous/json5"
	"golang.org/x/net/html"
)

// ParseListing extracts event links from a fight center listing page. In
// most_recent mode only the first event is followed; in all mode every
// event is followed along with the next listing page, if any.
func (e *Extractor) ParseListing(page *Page) (*Result, error) {
	var eventURLs []string
	var entryErr error
	page.Doc.Find(e.sel.Listing.Entry).EachWithBreak(func(_ int, entry *goquery.Selection) bool {
		href, ok := entry.Find(e.sel.Listing.Link).First().Attr("href")
		if !ok {
			entryErr = schemaError(StageListing, page, "event_link", "listing entry has no event link")
			return false
		}
		link, err := page.Resolve(href)
		if err != nil {
			entryErr = err
			return false
		}
		eventURLs = append(eventURLs, link)
		return true
	})
	if entryErr != nil {
		return nil, entryErr
	}

	result := &Result{}

	if e.mode == ModeMostRecent {
		if len(eventURLs) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoEvents, page.URL)
		}
		result.Requests = append(result.Requests, Request{URL: eventURLs[0], Stage: StageEvent})
		return result, nil
	}

	for _, link := range eventURLs {
		result.Requests = append(result.Requests, Request{URL: link, Stage: StageEvent})
	}

	if href, ok := page.Doc.Find(e.sel.Listing.NextPage).First().Attr("href"); ok {
		next, err := page.Resolve(href)
		if err != nil {
			return nil, err
		}
		result.Requests = append(result.Requests, Request{
			URL:    next,
			Stage:  StagePagination,
			Header: paginationHeader(),
		})
	}

	return result, nil
}

var fragmentPattern = regexp.MustCompile(`html\((.*)\);`)

// jsOnlyEscapes rewrites escapes that JavaScript string literals allow but
// json5 rejects. Escaped backslashes are matched first so \\$ stays a
// backslash followed by $.
var jsOnlyEscapes = strings.NewReplacer(
	`\\`, `\\`,
	`\$`, `$`,
	"\\`", "`",
)

// ParseNextPage handles the asynchronous next-page response, which wraps
// the next listing fragment in an html("...") call. The fragment replaces
// the page body and is parsed as a regular listing page.
func (e *Extractor) ParseNextPage(page *Page) (*Result, error) {
	fragment, err := DecodeFragment(string(page.Body))
	if err != nil {
		return nil, schemaError(StagePagination, page, "fragment", "%v", err)
	}

	listing, err := page.WithBody([]byte(fragment))
	if err != nil {
		return nil, err
	}
	return e.ParseListing(listing)
}

// DecodeFragment extracts the HTML fragment from a body of the form
// html(<quoted string>);. The literal is decoded as a string, HTML entities
// are unescaped and any remaining \/ becomes /.
func DecodeFragment(body string) (string, error) {
	match := fragmentPattern.FindStringSubmatch(body)
	if match == nil {
		return "", fmt.Errorf("html(...) marker not found")
	}

	var literal string
	if err := json5.Unmarshal([]byte(jsOnlyEscapes.Replace(match[1])), &literal); err != nil {
		return "", fmt.Errorf("failed to decode fragment literal: %w", err)
	}

	return strings.ReplaceAll(html.UnescapeString(literal), `\/`, "/"), nil
}
