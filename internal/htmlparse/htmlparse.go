// Package htmlparse turns a fetched HTML body into the two things the
// content pipeline needs: the page's visible text (for word counting,
// analytics, and SimHash fingerprinting) and its outbound links.
//
// Script, style, meta, and link subtrees never contribute to visible text —
// they carry no prose a crawler should index or fingerprint.
package htmlparse

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var chromeSelector = "script, style, meta, link"

// Document wraps a parsed page, holding just enough state for the content
// pipeline's text and link extraction steps.
type Document struct {
	doc *goquery.Document
}

// Parse decodes body as HTML. Malformed markup is tolerated the way
// golang.org/x/net/html always tolerates it: best-effort tree repair, never
// an error.
func Parse(body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return &Document{doc: doc}, nil
}

// VisibleText removes script/style/meta/link subtrees from a clone of the
// parsed document and returns the remaining text, whitespace-collapsed.
func (d *Document) VisibleText() string {
	clone := goquery.CloneDocument(d.doc)
	clone.Find(chromeSelector).Remove()
	return collapseWhitespace(clone.Text())
}

// WordCount counts whitespace-delimited tokens in VisibleText, the measure
// the content pipeline's low-content skip is based on.
func (d *Document) WordCount() int {
	return len(strings.Fields(d.VisibleText()))
}

// Hrefs returns every raw href attribute value on an <a> element, in
// document order, unresolved and unfiltered — the caller resolves each
// against the fetched URL and applies scheme/fragment/ASCII filtering.
func (d *Document) Hrefs() []string {
	var hrefs []string
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok {
			return
		}
		hrefs = append(hrefs, href)
	})
	return hrefs
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
