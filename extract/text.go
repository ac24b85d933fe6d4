package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ownTexts returns the direct child text nodes of every matched element,
// in document order, skipping whitespace-only nodes. This is the CSS
// ::text pseudo-element, not the full descendant text.
func ownTexts(sel *goquery.Selection) []string {
	var texts []string
	for _, node := range sel.Nodes {
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.TextNode {
				continue
			}
			if text := strings.TrimSpace(child.Data); text != "" {
				texts = append(texts, text)
			}
		}
	}
	return texts
}

// firstOwnText returns the first non-blank direct text of sel, or "".
func firstOwnText(sel *goquery.Selection) string {
	texts := ownTexts(sel)
	if len(texts) == 0 {
		return ""
	}
	return texts[0]
}

// strippedTexts returns the markup-free, trimmed text of each matched
// element.
func strippedTexts(sel *goquery.Selection) []string {
	texts := make([]string, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		texts = append(texts, strings.TrimSpace(s.Text()))
	})
	return texts
}

// hrefs returns the href attribute of each matched element that has one.
func hrefs(sel *goquery.Selection) []string {
	var links []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			links = append(links, href)
		}
	})
	return links
}

// findLinkID returns the trailing segment of the first link containing
// pattern.
func findLinkID(links []string, pattern string) (string, bool) {
	for _, link := range links {
		if strings.Contains(link, pattern) {
			return LastSegment(link), true
		}
	}
	return "", false
}
