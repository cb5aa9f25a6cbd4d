// Package demo holds the embedded demonstration dataset served when both the
// cache and the remote marketplace are unavailable.
package demo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand"

	"github.com/Tiger884/retro-pc-store/internal/models"
)

//go:embed products.json
var productsJSON []byte

type Dataset struct {
	products []models.Product
}

func NewDataset() (*Dataset, error) {
	var products []models.Product
	if err := json.Unmarshal(productsJSON, &products); err != nil {
		return nil, fmt.Errorf("decode embedded products: %w", err)
	}
	return &Dataset{products: products}, nil
}

// Products returns a copy of the full dataset.
func (d *Dataset) Products() []models.Product {
	out := make([]models.Product, len(d.products))
	copy(out, d.products)
	return out
}

// Random returns up to n products in shuffled order.
func (d *Dataset) Random(n int) []models.Product {
	out := d.Products()
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}
