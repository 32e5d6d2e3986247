package product

import (
	"github.com/go-faster/errors"
)

// Stock banner texts shown on the product card.
const (
	BannerInStock    = "In Stock"
	BannerAlmostGone = "Almost sold out"
	BannerOutOfStock = "Out of Stock"
)

// lowStockThreshold is the largest quantity still reported as almost sold out.
const lowStockThreshold = 10

var (
	// ErrNoVariants is returned by Validate for a product without variants.
	ErrNoVariants = errors.New("product has no variants")
	// ErrNegativeQuantity is returned by Validate when a variant has
	// negative stock.
	ErrNegativeQuantity = errors.New("variant quantity must not be negative")
)

// Variant is a purchasable color-specific configuration of a product.
type Variant struct {
	ID       int
	Color    string
	Image    string
	Quantity int
}

// Product holds the descriptive attributes and the fixed variant set of the
// displayed product.
type Product struct {
	Brand       string
	Name        string
	Description string
	AltText     string
	Link        string
	Details     []string
	Sizes       []string
	Variants    []Variant
	OnSale      bool
}

// Validate checks the invariants the product card relies on.
func (p Product) Validate() error {
	if len(p.Variants) == 0 {
		return ErrNoVariants
	}
	for _, v := range p.Variants {
		if v.Quantity < 0 {
			return errors.Wrapf(ErrNegativeQuantity, "variant %d", v.ID)
		}
	}
	return nil
}

// Banner maps a stock quantity to the banner shown next to the product.
func Banner(quantity int) string {
	switch {
	case quantity > lowStockThreshold:
		return BannerInStock
	case quantity > 0:
		return BannerAlmostGone
	default:
		return BannerOutOfStock
	}
}

// Default returns the product shown by the page.
func Default() Product {
	return Product{
		Brand:       "Vue Mastery",
		Name:        "Socks",
		Description: "fuzzy socks",
		AltText:     "A pair of socks",
		Link:        "https://www.vuemastery.com/images/challenges/vmSocks-green-onWhite.jpg",
		Details: []string{
			"80% Cotton",
			"20% Polyester",
			"Gender Neutral",
		},
		Sizes: []string{"S", "M", "XL"},
		Variants: []Variant{
			{ID: 2234, Color: "green", Image: "./assets/img/vmSocks-green.jpg", Quantity: 11},
			{ID: 2235, Color: "blue", Image: "./assets/img/vmSocks-blue.jpg", Quantity: 0},
		},
	}
}
