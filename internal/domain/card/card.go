// Package card implements the product card: variant selection, the values
// derived from it, cart intents and the review list fed by the event bus.
package card

import (
	"context"
	"fmt"
	"slices"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/xenking/product-page/internal/domain/product"
	"github.com/xenking/product-page/internal/domain/review"
	"github.com/xenking/product-page/pkg/eventbus"
)

// DefaultShippingFee is charged to visitors without premium membership.
var DefaultShippingFee = decimal.RequireFromString("2.99")

var (
	// ErrInvalidIndex is matched by every *InvalidIndexError.
	ErrInvalidIndex = errors.New("variant index out of range")
	// ErrOutOfStock is returned by AddToCart when the selected variant has
	// no stock.
	ErrOutOfStock = errors.New("selected variant is out of stock")
)

// InvalidIndexError reports a selection outside the variant list.
type InvalidIndexError struct {
	Index int
	Len   int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("variant index %d out of range [0, %d)", e.Index, e.Len)
}

// Is reports ErrInvalidIndex as a match.
func (e *InvalidIndexError) Is(target error) bool {
	return target == ErrInvalidIndex
}

// Intents receives the cart actions emitted by the card.
type Intents interface {
	AddToCart(variantID int)
	RemoveFromCart(variantID int)
}

// Options carries the host page configuration.
type Options struct {
	// Premium marks the visitor as a premium member (free shipping).
	Premium bool
	// ShippingFee overrides DefaultShippingFee when non-nil.
	ShippingFee *decimal.Decimal
}

// Shipping is the shipping cost shown on the card.
type Shipping struct {
	Free bool
	Fee  decimal.Decimal
}

func (s Shipping) String() string {
	if s.Free {
		return "Free"
	}
	return s.Fee.StringFixed(2)
}

// Card is the product card. It is not safe for concurrent use; the owning
// session serializes access.
type Card struct {
	product  product.Product
	selected int
	reviews  []review.Review

	premium bool
	fee     decimal.Decimal

	intents Intents
	sub     *eventbus.Subscription
}

// New builds a card for p and subscribes it to review submissions on bus
// for its whole lifetime.
func New(p product.Product, bus eventbus.Subscriber, intents Intents, opts Options) (*Card, error) {
	if err := p.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate product")
	}

	c := &Card{
		product: p,
		premium: opts.Premium,
		fee:     DefaultShippingFee,
		intents: intents,
	}
	if opts.ShippingFee != nil {
		c.fee = *opts.ShippingFee
	}
	c.sub = bus.Subscribe(review.TopicSubmitted, c.onReview)

	return c, nil
}

func (c *Card) onReview(_ context.Context, payload any) error {
	switch r := payload.(type) {
	case review.Review:
		c.reviews = append(c.reviews, r)
	case *review.Review:
		c.reviews = append(c.reviews, *r)
	default:
		return errors.Errorf("unexpected review payload %T", payload)
	}
	return nil
}

// Product returns the displayed product.
func (c *Card) Product() product.Product { return c.product }

// Variants returns the variant list.
func (c *Card) Variants() []product.Variant {
	return slices.Clone(c.product.Variants)
}

// SelectVariant makes the variant at index the selected one. An index
// outside the variant list is rejected and the selection is kept.
func (c *Card) SelectVariant(index int) error {
	if index < 0 || index >= len(c.product.Variants) {
		return &InvalidIndexError{Index: index, Len: len(c.product.Variants)}
	}
	c.selected = index
	return nil
}

// Selected returns the selected variant index.
func (c *Card) Selected() int { return c.selected }

func (c *Card) variant() product.Variant {
	return c.product.Variants[c.selected]
}

// Title is the brand followed by the product name.
func (c *Card) Title() string {
	return c.product.Brand + " " + c.product.Name
}

// Image returns the selected variant's image.
func (c *Card) Image() string { return c.variant().Image }

// StockLevel returns the selected variant's quantity.
func (c *Card) StockLevel() int { return c.variant().Quantity }

// InStock reports whether the selected variant can be added to the cart.
func (c *Card) InStock() bool { return c.StockLevel() > 0 }

// Banner returns the stock banner for the selected variant.
func (c *Card) Banner() string { return product.Banner(c.StockLevel()) }

// Shipping returns the shipping cost for the configured membership.
func (c *Card) Shipping() Shipping {
	if c.premium {
		return Shipping{Free: true}
	}
	return Shipping{Fee: c.fee}
}

// SaleMessage describes whether the product is on sale.
func (c *Card) SaleMessage() string {
	if c.product.OnSale {
		return c.Title() + " are on Sale !"
	}
	return c.Title() + " are not on Sale"
}

// AddToCart emits an add intent for the selected variant.
func (c *Card) AddToCart() (int, error) {
	if !c.InStock() {
		return 0, ErrOutOfStock
	}
	id := c.variant().ID
	c.intents.AddToCart(id)
	return id, nil
}

// RemoveFromCart emits a remove intent for the selected variant.
func (c *Card) RemoveFromCart() int {
	id := c.variant().ID
	c.intents.RemoveFromCart(id)
	return id
}

// Reviews returns the reviews received so far, oldest first.
func (c *Card) Reviews() []review.Review {
	return slices.Clone(c.reviews)
}

// Close drops the review subscription.
func (c *Card) Close() {
	c.sub.Unsubscribe()
}
