// Package view renders the product page as templ components.
//
// Components read a PageData snapshot rather than live session state, so
// rendering happens without holding the session lock.
package view

import (
	"github.com/xenking/product-page/internal/domain/product"
	"github.com/xenking/product-page/internal/domain/review"
	"github.com/xenking/product-page/internal/domain/tabs"
	"github.com/xenking/product-page/internal/session"
)

// PageData is an immutable snapshot of one visitor's page.
type PageData struct {
	Title       string
	Image       string
	AltText     string
	Link        string
	Description string
	Shipping    string
	Banner      string
	StockLevel  int
	InStock     bool
	SaleMessage string
	Details     []string
	Sizes       []string
	Swatches    []Swatch
	Tabs        []Tab
	ActiveTab   tabs.Tab
	Reviews     []review.Review
	Form        FormData
	Cart        []int
}

// Swatch is one color box of the variant picker.
type Swatch struct {
	Index     int
	VariantID int
	Color     string
	Selected  bool
}

// Tab is one entry of the review tab strip.
type Tab struct {
	Name   tabs.Tab
	Active bool
}

// FormData mirrors the review form fields and its last errors.
type FormData struct {
	Name      string
	Text      string
	Rating    int
	Recommend review.Recommend
	Errors    []string
}

// OutOfStock reports whether the banner uses the out-of-stock state.
func (d PageData) OutOfStock() bool {
	return d.Banner == product.BannerOutOfStock
}

// Snapshot copies the state of p. The caller must hold the page lock.
func Snapshot(p *session.Page) PageData {
	c := p.Card
	prod := c.Product()

	swatches := make([]Swatch, 0, len(prod.Variants))
	for i, v := range prod.Variants {
		swatches = append(swatches, Swatch{
			Index:     i,
			VariantID: v.ID,
			Color:     v.Color,
			Selected:  i == c.Selected(),
		})
	}

	var tabList []Tab
	for _, t := range p.Tabs.Tabs() {
		tabList = append(tabList, Tab{Name: t, Active: p.Tabs.Showing(t)})
	}

	return PageData{
		Title:       c.Title(),
		Image:       c.Image(),
		AltText:     prod.AltText,
		Link:        prod.Link,
		Description: prod.Description,
		Shipping:    c.Shipping().String(),
		Banner:      c.Banner(),
		StockLevel:  c.StockLevel(),
		InStock:     c.InStock(),
		SaleMessage: c.SaleMessage(),
		Details:     append([]string(nil), prod.Details...),
		Sizes:       append([]string(nil), prod.Sizes...),
		Swatches:    swatches,
		Tabs:        tabList,
		ActiveTab:   p.Tabs.Active(),
		Reviews:     c.Reviews(),
		Form: FormData{
			Name:      p.Form.Name(),
			Text:      p.Form.Text(),
			Rating:    p.Form.Rating(),
			Recommend: p.Form.Recommend(),
			Errors:    p.Form.Errors(),
		},
		Cart: p.Cart.Items(),
	}
}
