package search

import (
	"regexp"
	"strconv"
)

// Ad is one normalized classifieds record. Date is always in canonical
// "2006-01-02 15:04" or "2006-01-02" form.
type Ad struct {
	Title string `json:"title"`
	Link  string `json:"link"`
	Price *int   `json:"price,omitempty"`
	Date  string `json:"date"`
}

var nonDigits = regexp.MustCompile(`[^\d]`)

// ParsePrice strips everything but digits from raw price text and parses the
// remainder. Text with no digits at all ("Бесплатно", "Цена не указана")
// yields nil: the price is absent, not zero.
func ParsePrice(raw string) *int {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		return nil
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &value
}
