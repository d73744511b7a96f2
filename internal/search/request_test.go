package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	errs "sjsage522/avitoworker/pkg/errors"
)

const testSearchURL = "https://www.avito.ru/moskva"

func TestBuildURLDefaults(t *testing.T) {
	got, err := BuildURL(testSearchURL, Request{Query: "audi tt"})
	assert.NoError(t, err)

	// Page placeholder appears exactly once
	assert.Equal(t, 1, strings.Count(got, PagePlaceholder))

	// The free-text query is percent-encoded
	assert.Contains(t, got, "q=audi%20tt")

	// Zero values map to "relevance" ordering and "any" owner
	assert.Contains(t, got, "s=101")
	assert.Contains(t, got, "user=0")
	assert.Contains(t, got, "bt=0")
	assert.Contains(t, got, "i=0")
}

func TestBuildURLCodes(t *testing.T) {
	cases := []struct {
		name    string
		request Request
		expect  string
	}{
		{"sort by date", Request{Query: "q", Sort: SortDate}, "s=104"},
		{"sort by price ascending", Request{Query: "q", Sort: SortPriceAsc}, "s=1&"},
		{"sort by price descending", Request{Query: "q", Sort: SortPriceDesc}, "s=2&"},
		{"private owners only", Request{Query: "q", Owner: OwnerPrivate}, "user=1"},
		{"companies only", Request{Query: "q", Owner: OwnerCompany}, "user=2"},
		{"title only", Request{Query: "q", TitleOnly: true}, "bt=1"},
		{"with images", Request{Query: "q", WithImages: true}, "i=1"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BuildURL(testSearchURL, tc.request)
			assert.NoError(t, err)
			assert.Contains(t, got, tc.expect)
		})
	}
}

func TestBuildURLInvalidEnums(t *testing.T) {
	_, err := BuildURL(testSearchURL, Request{Query: "q", Sort: "cheapest"})
	assert.Error(t, err)
	assert.True(t, errs.IsValidation(err))

	_, err = BuildURL(testSearchURL, Request{Query: "q", Owner: "government"})
	assert.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}

func TestRequestValidate(t *testing.T) {
	assert.NoError(t, Request{Query: "q"}.Validate())
	assert.NoError(t, Request{Query: "q", Sort: SortDate, Owner: OwnerCompany}.Validate())
	assert.Error(t, Request{Query: "q", Sort: "newest"}.Validate())
	assert.Error(t, Request{Query: "q", Owner: "municipal"}.Validate())
}
