package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/product-page/internal/domain/review"
	"github.com/xenking/product-page/internal/domain/tabs"
	"github.com/xenking/product-page/internal/session"
	"github.com/xenking/product-page/internal/view"
)

// respondPage applies fn to the visitor's page and responds with the
// resulting page state.
func (h *Handler) respondPage(w http.ResponseWriter, r *http.Request, fn func(p *session.Page) error) {
	var data view.PageData
	err := h.update(w, r, func(p *session.Page) error {
		if err := fn(p); err != nil {
			return err
		}
		data = view.Snapshot(p)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodePage(e, data) })
}

// APIPage returns the full page state.
func (h *Handler) APIPage(w http.ResponseWriter, r *http.Request) {
	var data view.PageData
	err := h.view(r, func(p *session.Page) error {
		data = view.Snapshot(p)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodePage(e, data) })
}

// APISelectVariant selects a variant: {"index": 1}.
func (h *Handler) APISelectVariant(w http.ResponseWriter, r *http.Request) {
	index := -1
	found := false
	err := decodeObject(w, r, func(d *jx.Decoder, key string) error {
		if key != "index" {
			return d.Skip()
		}
		v, err := d.Int()
		index, found = v, true
		return err
	})
	if err == nil && !found {
		err = errors.Wrap(ErrBadRequest, "index is required")
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.respondPage(w, r, func(p *session.Page) error {
		return p.Card.SelectVariant(index)
	})
}

// APISelectTab selects a review tab: {"tab": "Make a review"}.
func (h *Handler) APISelectTab(w http.ResponseWriter, r *http.Request) {
	var name string
	err := decodeObject(w, r, func(d *jx.Decoder, key string) error {
		if key != "tab" {
			return d.Skip()
		}
		v, err := d.Str()
		name = v
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	tab, ok := tabs.Parse(name)
	if !ok {
		writeError(w, r, errors.Wrapf(ErrBadRequest, "unknown tab %q", name))
		return
	}

	h.respondPage(w, r, func(p *session.Page) error {
		p.Tabs.Select(tab)
		return nil
	})
}

// APIAddToCart adds the selected variant to the cart.
func (h *Handler) APIAddToCart(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, func(p *session.Page) error {
		_, err := p.Card.AddToCart()
		return err
	})
}

// APIRemoveFromCart removes every entry of the selected variant.
func (h *Handler) APIRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.cartAction(w, r, func(p *session.Page) error {
		p.Card.RemoveFromCart()
		return nil
	})
}

func (h *Handler) cartAction(w http.ResponseWriter, r *http.Request, fn func(p *session.Page) error) {
	var items []int
	err := h.update(w, r, func(p *session.Page) error {
		if err := fn(p); err != nil {
			return err
		}
		items = p.Cart.Items()
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCart(e, items) })
}

// APISubmitReview submits a review:
// {"name": "...", "review": "...", "rating": 5, "recommend": "Yes"}.
// Missing fields may be absent or null.
func (h *Handler) APISubmitReview(w http.ResponseWriter, r *http.Request) {
	var (
		name, text, recommend string
		rating                int
	)
	err := decodeObject(w, r, func(d *jx.Decoder, key string) error {
		if d.Next() == jx.Null {
			return d.Null()
		}
		var err error
		switch key {
		case "name":
			name, err = d.Str()
		case "review":
			text, err = d.Str()
		case "rating":
			rating, err = d.Int()
		case "recommend":
			recommend, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	var submitted *review.Review
	err = h.update(w, r, func(p *session.Page) error {
		p.Form.SetName(name)
		p.Form.SetText(text)
		p.Form.SetRating(rating)
		p.Form.SetRecommend(recommend)

		rv, err := p.Form.Submit(r.Context())
		submitted = rv
		return err
	})

	var vErr *review.ValidationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusUnprocessableEntity, func(e *jx.Encoder) {
			e.ObjStart()
			e.FieldStart("code")
			e.Int(http.StatusUnprocessableEntity)
			e.FieldStart("message")
			e.Str(review.ErrValidation.Error())
			e.FieldStart("errors")
			encodeStrings(e, vErr.Messages)
			e.ObjEnd()
		})
	case err != nil && submitted == nil:
		writeError(w, r, err)
	default:
		// A subscriber failure after the review was created is reported by
		// the bus log; the review itself is accepted.
		writeJSON(w, http.StatusCreated, func(e *jx.Encoder) { encodeReview(e, *submitted) })
	}
}
