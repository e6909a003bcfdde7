package domain

import "fmt"

// Product is a catalog record referenced by orders. The ID is the seller's
// external product id; title, price and link are last-write-wins on upsert.
type Product struct {
	ID    int64
	Title string
	Price int64
	Link  string
}

// PlaceholderProduct stands in for a catalog entry that has been removed
// while orders still reference it. Price renders as zero.
func PlaceholderProduct(id int64) Product {
	return Product{
		ID:    id,
		Title: fmt.Sprintf("Product #%d", id),
	}
}
