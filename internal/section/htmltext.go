package section

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// blockTags are the elements after which a newline is inserted when
// flattening hypertext to plain text, matching the original extractor's
// BLOCK_TAGS set.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "table": true,
	"thead": true, "tbody": true, "tfoot": true, "tr": true,
	"td": true, "th": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

var skipTags = map[string]bool{"script": true, "style": true, "noscript": true}

// HTMLToText flattens a filing's raw hypertext into normalized plain text:
// scripts/styles are dropped, <br> becomes a newline, and every other
// block-level element gets a trailing newline so paragraph structure
// survives the flattening. The result is passed through Normalize.
func HTMLToText(rawHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return Normalize(rawHTML)
	}

	var b strings.Builder
	body := doc.Find("body")
	var root *html.Node
	if body.Length() > 0 {
		root = body.Get(0)
	} else if len(doc.Nodes) > 0 {
		root = doc.Nodes[0]
	}
	if root != nil {
		flatten(root, &b)
	}
	return Normalize(b.String())
}

func flatten(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && skipTags[strings.ToLower(n.Data)] {
		return
	}
	if n.Type == html.ElementNode && strings.ToLower(n.Data) == "br" {
		b.WriteString("\n")
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		flatten(c, b)
	}
	if n.Type == html.ElementNode && blockTags[strings.ToLower(n.Data)] {
		b.WriteString("\n")
	}
}

// findByAnchorID finds an element whose id or name attribute equals id.
func findByAnchorID(doc *goquery.Document, id string) (*goquery.Selection, bool) {
	sel := doc.Find("#" + escapeCSSIdent(id))
	if sel.Length() > 0 {
		return sel.First(), true
	}
	var found *goquery.Selection
	doc.Find("[name]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, ok := s.Attr("name"); ok && v == id {
			found = s
			return false
		}
		return true
	})
	if found != nil {
		return found, true
	}
	return nil, false
}

// escapeCSSIdent escapes characters in an HTML id that would otherwise
// break a goquery/cascadia "#id" selector (EDGAR anchor ids routinely
// contain dots and colons).
func escapeCSSIdent(id string) string {
	var b strings.Builder
	for _, r := range id {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
