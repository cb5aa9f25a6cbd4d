package models

import (
	"regexp"
	"strconv"
)

// Source identifies which acquisition stage produced a product list. It is
// attached at display time and never persisted.
type Source string

const (
	SourceCache  Source = "cache"
	SourceRemote Source = "remote"
	SourceDemo   Source = "demo"
)

// PriceOnRequest is the sentinel shown when a listing has no usable price.
const PriceOnRequest = "Price on request"

// ImageRef holds one or more image locations in descending preference.
type ImageRef struct {
	Primary    string   `json:"primary,omitempty"`
	Alternates []string `json:"alternates,omitempty"`
}

// Product is the canonical listing shape flowing through the pipeline.
type Product struct {
	Title     string   `json:"title"`
	Price     string   `json:"price"`
	Condition string   `json:"condition"`
	Location  string   `json:"location"`
	Image     ImageRef `json:"image"`
	DetailURL string   `json:"detail_url"`
	Source    Source   `json:"source,omitempty"`
}

var leadingAmount = regexp.MustCompile(`\d+(?:\.\d+)?`)

// PriceAmount extracts the leading decimal number from a pre-formatted price
// string such as "USD 125.00" or "$89.99".
func PriceAmount(price string) (float64, bool) {
	match := leadingAmount.FindString(price)
	if match == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
