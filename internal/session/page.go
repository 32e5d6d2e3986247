// Package session keeps one component tree per visitor for the lifetime of
// their page session.
package session

import (
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/product-page/internal/domain/card"
	"github.com/xenking/product-page/internal/domain/cart"
	"github.com/xenking/product-page/internal/domain/product"
	"github.com/xenking/product-page/internal/domain/review"
	"github.com/xenking/product-page/internal/domain/tabs"
	"github.com/xenking/product-page/pkg/eventbus"
)

// ErrClosed is returned by Page.Do once the page has been evicted.
var ErrClosed = errors.New("session page closed")

// PageConfig is the host page configuration shared by every session.
type PageConfig struct {
	Product     product.Product
	Premium     bool
	ShippingFee decimal.Decimal
	// MeterProvider is passed to each session's event bus. Optional.
	MeterProvider metric.MeterProvider
}

// Page is the component tree of a single visitor: product card, review
// form, tab panel and cart, joined by a private event bus.
//
// Callers must hold the lock (Do) while touching any component.
type Page struct {
	mu     sync.Mutex
	closed bool

	Bus  *eventbus.Bus
	Cart *cart.Cart
	Card *card.Card
	Form *review.Form
	Tabs *tabs.Panel
}

// NewPage assembles a page. The card subscribes to the form's submissions
// through the page's own bus, and its cart intents feed the page's cart.
func NewPage(cfg PageConfig) (*Page, error) {
	var busOpts []eventbus.Option
	if cfg.MeterProvider != nil {
		busOpts = append(busOpts, eventbus.WithMeterProvider(cfg.MeterProvider))
	}
	bus := eventbus.New(busOpts...)
	c := cart.New()

	fee := cfg.ShippingFee
	crd, err := card.New(cfg.Product, bus, c, card.Options{
		Premium:     cfg.Premium,
		ShippingFee: &fee,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create card")
	}

	return &Page{
		Bus:  bus,
		Cart: c,
		Card: crd,
		Form: review.NewForm(bus),
		Tabs: tabs.New(),
	}, nil
}

// Do runs fn with exclusive access to the page, so events of one session
// are applied one at a time in arrival order. It returns ErrClosed without
// calling fn when the page was evicted.
func (p *Page) Do(fn func(p *Page) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrClosed
	}
	return fn(p)
}

func (p *Page) close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	p.Card.Close()
}
