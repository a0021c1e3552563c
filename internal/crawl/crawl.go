// Package crawl extracts page metadata and product markup from HTML.
package crawl

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tjfontaine/marketin-sdk-go/internal/core/domain"
)

// Product data attributes.
const (
	AttrProduct         = "data-marketin-product"
	AttrProductName     = "data-marketin-product-name"
	AttrProductPrice    = "data-marketin-product-price"
	AttrProductCategory = "data-marketin-product-category"
)

// Parse reads an HTML document and builds its crawl snapshot. pageURL is
// reported as-is; the title comes from the document.
func Parse(r io.Reader, pageURL string) (domain.CrawlPayload, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return domain.CrawlPayload{}, fmt.Errorf("parse html: %w", err)
	}

	out := domain.CrawlPayload{URL: pageURL, Products: []domain.CrawledProduct{}}
	var titleSeen, descSeen, keywordsSeen bool

	for n := range doc.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}

		switch n.DataAtom {
		case atom.Title:
			if !titleSeen {
				titleSeen = true
				out.Title = strings.TrimSpace(text(n))
			}
		case atom.Meta:
			name, _ := attr(n, "name")
			content, _ := attr(n, "content")
			switch {
			case name == "description" && !descSeen:
				descSeen = true
				out.Meta.Description = content
			case name == "keywords" && !keywordsSeen:
				keywordsSeen = true
				out.Meta.Keywords = content
			}
		}

		if id, ok := attr(n, AttrProduct); ok {
			name, _ := attr(n, AttrProductName)
			category, _ := attr(n, AttrProductCategory)
			price, _ := attr(n, AttrProductPrice)
			if price == "" {
				price = "0"
			}
			out.Products = append(out.Products, domain.CrawledProduct{
				ID:       id,
				Name:     name,
				Price:    price,
				Category: category,
			})
		}
	}

	return out, nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func text(n *html.Node) string {
	var b strings.Builder
	for c := range n.Descendants() {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}
