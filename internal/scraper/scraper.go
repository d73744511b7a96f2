package scraper

import (
	"time"

	"sjsage522/avitoworker/helpers"
	"sjsage522/avitoworker/internal/search"
	"sjsage522/avitoworker/logger"
	"sjsage522/avitoworker/services/cache"
)

// Config contains configuration for a Scraper
type Config struct {
	// SearchURL is the listing search endpoint, e.g. https://www.avito.ru/moskva
	SearchURL string
	// BaseURL prefixes the relative ad links found in result markup
	BaseURL string
	// BlockedURL is the redirect target that signals a temporary IP block
	BlockedURL string
	// PageDelay is an optional pause between successive page fetches
	PageDelay time.Duration
	// CacheKey and BlockTime control the block memo in the cache service
	CacheKey  string
	BlockTime time.Duration
	// Selectors override DefaultSelectors when non-zero
	Selectors Selectors
	// Fetch overrides helpers.FetchPage, used by tests
	Fetch FetchFunc
	// Now overrides time.Now as the reference clock for relative dates
	Now func() time.Time
}

// Scraper turns search requests into lazy streams of normalized ads
type Scraper struct {
	cfg       Config
	extractor *Extractor
	cacheSvc  cache.CacheService
	log       *logger.Logger
}

// New creates a scraper. cacheSvc may be nil, in which case blocks are not
// remembered across runs.
func New(cfg Config, cacheSvc cache.CacheService) *Scraper {
	if cfg.Selectors == (Selectors{}) {
		cfg.Selectors = DefaultSelectors()
	}
	if cfg.Fetch == nil {
		cfg.Fetch = helpers.FetchPage
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Scraper{
		cfg:       cfg,
		extractor: NewExtractor(cfg.Selectors, cfg.BaseURL),
		cacheSvc:  cacheSvc,
		log:       logger.ForScraper(),
	}
}

// GetName returns the scraper's name for logging and identification
func (s *Scraper) GetName() string {
	return "avito"
}

// Search validates the request and returns a lazy stream of matching ads.
// Invalid sort or owner values fail here, before any page is fetched. The
// stream holds its own position; a fresh Search call always starts at page 1.
func (s *Scraper) Search(req search.Request) (AdStream, error) {
	template, err := search.BuildURL(s.cfg.SearchURL, req)
	if err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("query", req.Query).
		Str("template", template).
		Msg("Starting search")

	return &AdIterator{
		pages: &PageIterator{
			fetch:      s.cfg.Fetch,
			extractor:  s.extractor,
			template:   template,
			blockedURL: s.cfg.BlockedURL,
			pause:      s.cfg.PageDelay,
			cacheSvc:   s.cacheSvc,
			cacheKey:   s.cfg.CacheKey,
			blockTime:  s.cfg.BlockTime,
		},
		extractor: s.extractor,
		now:       s.cfg.Now,
	}, nil
}

// AdIterator yields normalized ads one at a time. The next page is fetched
// only once every ad of the current page has been consumed, so a caller that
// stops early issues no further requests.
type AdIterator struct {
	pages     *PageIterator
	extractor *Extractor
	now       func() time.Time

	buf  []search.Ad
	cur  search.Ad
	err  error
	done bool
}

// Next advances to the next ad. It returns false when the result set is
// exhausted or the stream was cut short; Err distinguishes the two.
func (it *AdIterator) Next() bool {
	if it.done {
		return false
	}

	for len(it.buf) == 0 {
		if !it.pages.Next() {
			it.err = it.pages.Err()
			it.done = true
			return false
		}

		nodes := it.extractor.AdNodes(it.pages.Page())
		if len(nodes) == 0 {
			// A page without listings ends the stream even when the
			// no-results marker is absent
			it.done = true
			return false
		}

		now := it.now()
		for _, node := range nodes {
			ad, err := it.extractor.Extract(node, now)
			if err != nil {
				// Fail fast: a malformed record aborts the stream instead of
				// being dropped silently
				it.err = err
				it.done = true
				return false
			}
			it.buf = append(it.buf, ad)
		}
	}

	it.cur = it.buf[0]
	it.buf = it.buf[1:]
	return true
}

// Ad returns the record produced by the last successful Next call
func (it *AdIterator) Ad() search.Ad {
	return it.cur
}

// Err returns the error that terminated the stream, if any. A nil error
// after Next returns false means the result set ended naturally.
func (it *AdIterator) Err() error {
	return it.err
}
