package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/use-agent/ladle/fetcher"
)

// PageMeta is page-level metadata used to enrich a sparse candidate:
// a description when the recipe markup carries none, and the Open Graph
// image when no inline image was found.
type PageMeta struct {
	Title       string
	Description string
	Image       string
}

// ExtractPageMeta reads Open Graph tags and the meta description from the
// page, falling back to go-readability's excerpt for pages without either.
// It never fails; a page without metadata yields the zero value.
func ExtractPageMeta(doc *fetcher.Document) PageMeta {
	meta := PageMeta{}

	root, err := goquery.NewDocumentFromReader(strings.NewReader(doc.Body))
	if err != nil {
		return meta
	}

	root.Find("meta[property], meta[name]").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		if content = strings.TrimSpace(content); content == "" {
			return
		}
		prop, _ := s.Attr("property")
		name, _ := s.Attr("name")
		switch {
		case prop == "og:title" && meta.Title == "":
			meta.Title = content
		case prop == "og:description" && meta.Description == "":
			meta.Description = content
		case prop == "og:image" && meta.Image == "":
			meta.Image = content
		case name == "description" && meta.Description == "":
			meta.Description = content
		}
	})

	if meta.Description == "" || meta.Title == "" {
		if pageURL, err := url.Parse(doc.FinalURL); err == nil {
			if article, err := readability.FromReader(strings.NewReader(doc.Body), pageURL); err == nil {
				if meta.Title == "" {
					meta.Title = strings.TrimSpace(article.Title)
				}
				if meta.Description == "" {
					meta.Description = strings.TrimSpace(article.Excerpt)
				}
			}
		}
	}

	return meta
}
