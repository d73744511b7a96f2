package scraper

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"sjsage522/avitoworker/helpers"
	"sjsage522/avitoworker/internal/search"
	errs "sjsage522/avitoworker/pkg/errors"
	"sjsage522/avitoworker/services/cache"
)

// FetchFunc fetches one URL and reports the body plus the final URL after
// redirects. helpers.FetchPage satisfies it.
type FetchFunc func(url string) (*helpers.FetchResult, error)

// PageIterator walks the numbered result pages of one search, fetching a
// page only when the consumer asks for it. It terminates when a page carries
// the no-results marker and fails when the fetch lands on the block page.
// Iteration is not restartable; construct a new iterator for a new run.
type PageIterator struct {
	fetch      FetchFunc
	extractor  *Extractor
	template   string
	blockedURL string
	pause      time.Duration

	cacheSvc  cache.CacheService
	cacheKey  string
	blockTime time.Duration

	page int
	doc  *goquery.Document
	err  error
	done bool
}

// Next fetches and classifies the next page. It returns false at the natural
// end of the result set and on failure; Err tells the two apart.
func (it *PageIterator) Next() bool {
	if it.done {
		return false
	}

	if it.page == 0 {
		it.page = 1
	} else if it.pause > 0 {
		// Blocking pause between successive fetches to reduce ban risk
		time.Sleep(it.pause)
	}

	if it.blockMemoSet() {
		it.fail(errs.NewRateLimit("pager", "a recent run was blocked; not sending requests"))
		return false
	}

	url := strings.Replace(it.template, search.PagePlaceholder, strconv.Itoa(it.page), 1)
	result, err := it.fetch(url)
	if err != nil {
		it.fail(errs.NewNetwork("pager", fmt.Sprintf("failed to fetch page %d", it.page), err))
		return false
	}

	// Block classification happens on the final URL, before any content
	// inspection
	if result.FinalURL == it.blockedURL {
		it.rememberBlock()
		it.fail(errs.NewRateLimit("pager", "request redirected to "+it.blockedURL))
		return false
	}

	doc, err := goquery.NewDocumentFromReader(result.Body)
	if err != nil {
		it.fail(errs.NewParsing("pager", fmt.Sprintf("failed to parse page %d markup", it.page), err))
		return false
	}

	if it.extractor.HasNoResultsMarker(doc) {
		// Natural end of the result set
		it.done = true
		return false
	}

	it.doc = doc
	it.page++
	return true
}

// Page returns the document fetched by the last successful Next call
func (it *PageIterator) Page() *goquery.Document {
	return it.doc
}

// Err returns the error that terminated iteration, if any
func (it *PageIterator) Err() error {
	return it.err
}

func (it *PageIterator) fail(err error) {
	it.err = err
	it.done = true
}

// blockMemoSet reports whether a previous run recorded a block that has not
// expired yet
func (it *PageIterator) blockMemoSet() bool {
	if it.cacheSvc == nil || it.cacheKey == "" {
		return false
	}
	_, err := it.cacheSvc.Get(it.cacheKey)
	return err == nil
}

// rememberBlock records the block so later runs fail fast instead of
// hammering an already-blocking source
func (it *PageIterator) rememberBlock() {
	if it.cacheSvc == nil || it.cacheKey == "" {
		return
	}
	value := []byte(strconv.Itoa(int(it.blockTime / time.Second)))
	it.cacheSvc.Set(it.cacheKey, value, it.blockTime)
}
