package view

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/xenking/product-page/internal/domain/review"
	"github.com/xenking/product-page/internal/domain/tabs"
)

// NoReviews is shown under the Reviews tab while the list is empty.
const NoReviews = "There are no reviews yet"

// htmlWriter stops writing after the first error and reports it at the end.
type htmlWriter struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{ctx: ctx, w: w}
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) attr(name, value string) {
	h.raw(" " + name + `="`)
	h.text(value)
	h.raw(`"`)
}

func (h *htmlWriter) component(c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

func component(fn func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(ctx, w)
		fn(h)
		return h.err
	})
}

// ProductPage renders the complete HTML document.
func ProductPage(d PageData) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>`)
		h.text(d.Title)
		h.raw(`</title></head><body><div id="app">`)
		h.component(CartSummary(d.Cart))
		h.component(ProductCard(d))
		h.raw(`</div></body></html>`)
	})
}

// CartSummary shows the number of cart entries.
func CartSummary(items []int) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="cart-summary"><p>Cart(`)
		h.text(strconv.Itoa(len(items)))
		h.raw(`)</p></div>`)
	})
}

// ProductCard renders the product with its derived state, the variant
// picker, cart controls and the review tabs.
func ProductCard(d PageData) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="product"><div class="product-image"><img`)
		h.attr("src", d.Image)
		h.attr("alt", d.AltText)
		h.raw(`></div><div class="product-info"><h1>`)
		h.text(d.Title)
		h.raw(`</h1><p class="shipping">Shipping: `)
		h.text(d.Shipping)
		h.raw(`</p><p class="description">`)
		h.text(d.Description)
		h.raw(`</p><a`)
		h.attr("href", d.Link)
		h.raw(`>link</a><div class="section stock">`)
		if d.OutOfStock() {
			h.raw(`<p class="banner outOfStock">`)
		} else {
			h.raw(`<p class="banner">`)
		}
		h.text(d.Banner)
		h.raw(`</p><p class="sale">`)
		h.text(d.SaleMessage)
		h.raw(`</p></div><div class="section detail"><h2>Detail</h2>`)
		h.component(ProductDetails(d.Details))
		h.raw(`</div>`)
		h.component(Sizes(d.Sizes))
		h.component(ColorSwatches(d.Swatches))
		h.component(CartControls(d.InStock))
		h.raw(`</div>`)
		h.component(ReviewTabs(d))
		h.raw(`</div>`)
	})
}

// ProductDetails renders the material list.
func ProductDetails(details []string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<ul class="details">`)
		for _, d := range details {
			h.raw(`<li>`)
			h.text(d)
			h.raw(`</li>`)
		}
		h.raw(`</ul>`)
	})
}

// Sizes renders the available sizes.
func Sizes(sizes []string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="section size"><h2>Size</h2><ul>`)
		for _, s := range sizes {
			h.raw(`<li>`)
			h.text(s)
			h.raw(`</li>`)
		}
		h.raw(`</ul></div>`)
	})
}

// ColorSwatches renders one color box per variant. Activating a box selects
// that variant.
func ColorSwatches(swatches []Swatch) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="section variants"><h2>Colors</h2>`)
		for _, s := range swatches {
			h.raw(`<form method="post"`)
			h.attr("action", "/variants/"+strconv.Itoa(s.Index))
			h.raw(`><button type="submit"`)
			if s.Selected {
				h.attr("class", "color-box selected")
			} else {
				h.attr("class", "color-box")
			}
			h.attr("style", "background-color: "+s.Color)
			h.attr("title", s.Color)
			h.attr("data-variant-id", strconv.Itoa(s.VariantID))
			h.raw(`></button></form>`)
		}
		h.raw(`</div>`)
	})
}

// CartControls renders the add and remove buttons. Add is disabled while the
// selected variant is out of stock.
func CartControls(inStock bool) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="cart"><form method="post" action="/cart/add">`)
		if inStock {
			h.raw(`<button type="submit" class="add-to-cart">Add to Cart</button>`)
		} else {
			h.raw(`<button type="submit" class="add-to-cart disabledButton" disabled>Add to Cart</button>`)
		}
		h.raw(`</form><form method="post" action="/cart/remove">`)
		h.raw(`<button type="submit" class="remove-from-cart">Remove items</button></form></div>`)
	})
}

// ReviewTabs renders the tab strip and the content of the active tab only.
func ReviewTabs(d PageData) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="tabs"><form method="post" action="/tabs">`)
		for _, t := range d.Tabs {
			h.raw(`<button type="submit" name="tab"`)
			h.attr("value", string(t.Name))
			if t.Active {
				h.attr("class", "tab activeTab")
			} else {
				h.attr("class", "tab")
			}
			h.raw(`>`)
			h.text(string(t.Name))
			h.raw(`</button>`)
		}
		h.raw(`</form>`)

		switch d.ActiveTab {
		case tabs.MakeReview:
			h.component(ReviewForm(d.Form))
		default:
			h.component(ReviewList(d.Reviews))
		}
		h.raw(`</div>`)
	})
}

// ReviewList renders the submitted reviews or a placeholder.
func ReviewList(reviews []review.Review) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="reviews">`)
		if len(reviews) == 0 {
			h.raw(`<p class="no-reviews">`)
			h.text(NoReviews)
			h.raw(`</p>`)
		}
		h.raw(`<ul>`)
		for _, r := range reviews {
			h.raw(`<li class="review"><p class="review-name">`)
			h.text(r.Name)
			h.raw(`</p><p class="review-rating">Rating: `)
			h.text(strconv.Itoa(r.Rating))
			h.raw(`</p><p class="review-text">Review: `)
			h.text(r.Text)
			h.raw(`</p><p class="review-recommend">Recommend: `)
			h.text(string(r.Recommend))
			h.raw(`</p></li>`)
		}
		h.raw(`</ul></div>`)
	})
}

// ReviewForm renders the submission form with the current field values and
// the errors of the last failed attempt.
func ReviewForm(f FormData) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<form class="review-form" method="post" action="/reviews">`)

		h.raw(`<p><label for="name">Name :</label><input id="name" name="name" placeholder="name"`)
		h.attr("value", f.Name)
		h.raw(`></p>`)

		h.raw(`<p><label for="review">Review :</label><textarea id="review" name="review">`)
		h.text(f.Text)
		h.raw(`</textarea></p>`)

		h.raw(`<p><label for="rating">Rating :</label><select id="rating" name="rating">`)
		h.raw(`<option value=""></option>`)
		for r := review.MaxRating; r >= review.MinRating; r-- {
			v := strconv.Itoa(r)
			h.raw(`<option`)
			h.attr("value", v)
			if r == f.Rating {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(v)
			h.raw(`</option>`)
		}
		h.raw(`</select></p>`)

		h.raw(`<p>Would you recommend this product</p>`)
		for _, opt := range []review.Recommend{review.RecommendYes, review.RecommendNo} {
			h.raw(`<label>`)
			h.text(string(opt))
			h.raw(` <input type="radio" name="recommend"`)
			h.attr("value", string(opt))
			if opt == f.Recommend {
				h.raw(` checked`)
			}
			h.raw(`></label>`)
		}

		h.raw(`<p><input type="submit" value="Submit"></p>`)

		if len(f.Errors) > 0 {
			h.raw(`<div class="errors"><b>Please correct the following errors:</b><ul>`)
			for _, e := range f.Errors {
				h.raw(`<li>`)
				h.text(e)
				h.raw(`</li>`)
			}
			h.raw(`</ul></div>`)
		}
		h.raw(`</form>`)
	})
}
