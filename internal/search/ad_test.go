package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	price := ParsePrice("1 234 567 ₽")
	if assert.NotNil(t, price) {
		assert.Equal(t, 1234567, *price)
	}

	price = ParsePrice("2 500 руб.")
	if assert.NotNil(t, price) {
		assert.Equal(t, 2500, *price)
	}

	// No digits at all means the price is absent, not zero
	assert.Nil(t, ParsePrice("Бесплатно"))
	assert.Nil(t, ParsePrice("Цена не указана"))
	assert.Nil(t, ParsePrice(""))

	// A literal zero is still a price
	price = ParsePrice("0 ₽")
	if assert.NotNil(t, price) {
		assert.Equal(t, 0, *price)
	}
}
