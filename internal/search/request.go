package search

import (
	"fmt"
	"net/url"
	"strings"

	errs "sjsage522/avitoworker/pkg/errors"
)

// Sort selects the result ordering of a search
type Sort string

const (
	SortRelevance Sort = "relevance"
	SortDate      Sort = "date"
	SortPriceAsc  Sort = "price_asc"
	SortPriceDesc Sort = "price_desc"
)

// Owner filters results by the kind of seller
type Owner string

const (
	OwnerAny     Owner = "any"
	OwnerPrivate Owner = "private"
	OwnerCompany Owner = "company"
)

// Numeric codes the site expects for each enum value
var (
	sortCodes = map[Sort]string{
		SortRelevance: "101",
		SortDate:      "104",
		SortPriceAsc:  "1",
		SortPriceDesc: "2",
	}

	ownerCodes = map[Owner]string{
		OwnerAny:     "0",
		OwnerPrivate: "1",
		OwnerCompany: "2",
	}
)

// PagePlaceholder is the token in a built search URL that stands in for the
// page number. It is replaced literally rather than via fmt because the
// encoded query itself contains percent escapes.
const PagePlaceholder = "{page}"

// Request describes one listing search. The zero values of Sort and Owner
// mean "relevance" and "any".
type Request struct {
	Query      string
	Sort       Sort
	TitleOnly  bool
	WithImages bool
	Owner      Owner
}

// Validate checks the enum fields without building anything
func (r Request) Validate() error {
	if _, ok := sortCodes[r.Sort.orDefault()]; !ok {
		return errs.NewValidation("search", fmt.Sprintf("sorting by %q is not supported", r.Sort))
	}
	if _, ok := ownerCodes[r.Owner.orDefault()]; !ok {
		return errs.NewValidation("search", "owner can be only private or company")
	}
	return nil
}

func (s Sort) orDefault() Sort {
	if s == "" {
		return SortRelevance
	}
	return s
}

func (o Owner) orDefault() Owner {
	if o == "" {
		return OwnerAny
	}
	return o
}

// BuildURL builds the page-templated search URL for a request. The returned
// string contains PagePlaceholder exactly once; substituting a page number
// for it yields a fetchable URL. Enum values outside their vocabulary fail
// here, synchronously, before any page is fetched.
func BuildURL(searchURL string, r Request) (string, error) {
	sortCode, ok := sortCodes[r.Sort.orDefault()]
	if !ok {
		return "", errs.NewValidation("search", fmt.Sprintf("sorting by %q is not supported", r.Sort))
	}
	ownerCode, ok := ownerCodes[r.Owner.orDefault()]
	if !ok {
		return "", errs.NewValidation("search", "owner can be only private or company")
	}

	// QueryEscape turns spaces into '+'; the site expects %20
	query := strings.ReplaceAll(url.QueryEscape(r.Query), "+", "%20")

	return fmt.Sprintf("%s?s=%s&bt=%d&q=%s&i=%d&user=%s&p=%s",
		searchURL, sortCode, boolFlag(r.TitleOnly), query, boolFlag(r.WithImages), ownerCode, PagePlaceholder), nil
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}
