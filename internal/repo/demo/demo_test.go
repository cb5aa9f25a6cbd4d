package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatasetIsNeverEmpty(t *testing.T) {
	dataset, err := NewDataset()
	require.NoError(t, err)

	products := dataset.Products()
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.NotEmpty(t, p.Title)
		assert.NotEmpty(t, p.Price)
		assert.Contains(t, p.DetailURL, "#demo-product-")
	}
}

func TestProductsReturnsCopy(t *testing.T) {
	dataset, err := NewDataset()
	require.NoError(t, err)

	first := dataset.Products()
	first[0].Title = "mutated"

	assert.NotEqual(t, "mutated", dataset.Products()[0].Title)
}

func TestRandomCapsLength(t *testing.T) {
	dataset, err := NewDataset()
	require.NoError(t, err)
	total := len(dataset.Products())

	assert.Len(t, dataset.Random(3), 3)
	assert.Len(t, dataset.Random(total+5), total)

	// Every returned product comes from the dataset.
	titles := make(map[string]bool)
	for _, p := range dataset.Products() {
		titles[p.Title] = true
	}
	for _, p := range dataset.Random(total) {
		assert.True(t, titles[p.Title])
	}
}
