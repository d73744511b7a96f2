package scraper

import "sjsage522/avitoworker/internal/search"

// AdStream is a pull-based sequence of normalized ads. After Next returns
// false, Err reports nil for a naturally exhausted result set and non-nil
// when the stream was cut short; a rate-limit error means the source blocked
// the client.
type AdStream interface {
	Next() bool
	Ad() search.Ad
	Err() error
}

// AdSource starts searches and yields lazy ad streams
type AdSource interface {
	// Search validates the request and returns a stream of matching ads
	Search(req search.Request) (AdStream, error)

	// GetName returns the source's name for logging and identification
	GetName() string
}

// Selectors contains CSS selectors for the parts of a results page
type Selectors struct {
	AdList          string
	RelatedMarker   string
	TitleLink       string
	Price           string
	Date            string
	DateTooltipAttr string
	NoResultsText   string
}

// DefaultSelectors returns the selectors for the live site markup
func DefaultSelectors() Selectors {
	return Selectors{
		AdList:          "div.item_table-wrapper",
		RelatedMarker:   "div.extra-block__header",
		TitleLink:       `a[itemprop="url"]`,
		Price:           "span.snippet-price",
		Date:            "div.snippet-date-info",
		DateTooltipAttr: "data-tooltip",
		NoResultsText:   "Ничего не нашлось по запросу",
	}
}
