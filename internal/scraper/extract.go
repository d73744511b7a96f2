package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"sjsage522/avitoworker/internal/search"
	errs "sjsage522/avitoworker/pkg/errors"
)

// Extractor locates ad nodes in fetched page markup and composes normalized
// records from their fields.
type Extractor struct {
	selectors Selectors
	baseURL   string
}

// NewExtractor creates an extractor. baseURL prefixes the relative ad links
// found in the markup.
func NewExtractor(selectors Selectors, baseURL string) *Extractor {
	return &Extractor{
		selectors: selectors,
		baseURL:   baseURL,
	}
}

// HasNoResultsMarker reports whether the page announces an empty result set
func (e *Extractor) HasNoResultsMarker(doc *goquery.Document) bool {
	found := false
	doc.Find("div").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), e.selectors.NoResultsText) {
			found = true
			return false
		}
		return true
	})
	return found
}

// AdNodes returns the listing nodes on the page. Result pages may end with a
// "related ads" section introduced by a marker block; every node at or after
// that marker is excluded, so only the ads that actually match the search
// survive.
func (e *Extractor) AdNodes(doc *goquery.Document) []*goquery.Selection {
	items := doc.Find(e.selectors.AdList)
	marker := doc.Find(e.selectors.RelatedMarker)

	var nodes []*goquery.Selection
	if marker.Length() == 0 {
		items.Each(func(_ int, s *goquery.Selection) {
			nodes = append(nodes, s)
		})
		return nodes
	}

	order := documentOrder(doc)
	cutoff := order[marker.Get(0)]
	items.Each(func(_ int, s *goquery.Selection) {
		if order[s.Get(0)] < cutoff {
			nodes = append(nodes, s)
		}
	})
	return nodes
}

// documentOrder assigns every node its depth-first position so selections
// from independent Find calls can be compared by document position.
func documentOrder(doc *goquery.Document) map[*html.Node]int {
	order := make(map[*html.Node]int)
	pos := 0
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		order[n] = pos
		pos++
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return order
}

// Extract composes one normalized record from a single ad node. now supplies
// the reference time for relative date resolution. A required field missing
// from the markup fails the whole record.
func (e *Extractor) Extract(s *goquery.Selection, now time.Time) (search.Ad, error) {
	titleLink := s.Find(e.selectors.TitleLink).First()
	if titleLink.Length() == 0 {
		return search.Ad{}, errs.NewMissingField("extract", "title")
	}

	title := strings.TrimSpace(titleLink.Text())
	if title == "" {
		return search.Ad{}, errs.NewMissingField("extract", "title")
	}

	href, ok := titleLink.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return search.Ad{}, errs.NewMissingField("extract", "link")
	}

	priceSel := s.Find(e.selectors.Price).First()
	if priceSel.Length() == 0 {
		return search.Ad{}, errs.NewMissingField("extract", "price")
	}

	rawDate, err := e.rawDate(s)
	if err != nil {
		return search.Ad{}, err
	}
	date, err := search.NormalizeDate(rawDate, now)
	if err != nil {
		return search.Ad{}, err
	}

	return search.Ad{
		Title: title,
		Link:  e.baseURL + href,
		Price: search.ParsePrice(priceSel.Text()),
		Date:  date,
	}, nil
}

// rawDate prefers the tooltip attribute, which carries the full timestamp,
// over the abbreviated visible text.
func (e *Extractor) rawDate(s *goquery.Selection) (string, error) {
	dateSel := s.Find(e.selectors.Date).First()
	if dateSel.Length() == 0 {
		return "", errs.NewMissingField("extract", "date")
	}
	if tooltip, ok := dateSel.Attr(e.selectors.DateTooltipAttr); ok && strings.TrimSpace(tooltip) != "" {
		return strings.TrimSpace(tooltip), nil
	}
	return strings.TrimSpace(dateSel.Text()), nil
}
