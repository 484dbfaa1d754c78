package entity

// Product is a catalog item as loaded from the shop backend. The catalog is
// replaced wholesale on refresh; individual products are never mutated.
type Product struct {
	ID          string
	Title       string
	Description string
	Category    string
	// Price is nil when the product is not purchasable.
	Price *float64
	// Image is an absolute URL; the gateway resolves the relative path
	// returned by the backend against the CDN origin.
	Image string
}

// Purchasable reports whether the product carries a price.
func (p Product) Purchasable() bool {
	return p.Price != nil
}

// BasketLine is one entry of the user's basket. Title and Price are
// denormalized from the product at the time it was added; a nil product
// price becomes 0.
type BasketLine struct {
	ID    string
	Title string
	Price float64
}

// NewBasketLine derives a basket line from a product.
func NewBasketLine(p Product) BasketLine {
	line := BasketLine{ID: p.ID, Title: p.Title}
	if p.Price != nil {
		line.Price = *p.Price
	}
	return line
}
