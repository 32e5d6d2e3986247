package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/product-page/internal/domain/review"
	"github.com/xenking/product-page/internal/domain/tabs"
	"github.com/xenking/product-page/internal/session"
	"github.com/xenking/product-page/internal/view"
)

// Index renders the product page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	var data view.PageData
	err := h.view(r, func(p *session.Page) error {
		data = view.Snapshot(p)
		return nil
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := view.ProductPage(data).Render(r.Context(), w); err != nil {
		zctx.From(r.Context()).Warn("Render page", zap.Error(err))
	}
}

// mutate applies fn to the visitor's page and redirects back to it.
func (h *Handler) mutate(w http.ResponseWriter, r *http.Request, fn func(p *session.Page) error) {
	if err := h.update(w, r, fn); err != nil {
		writeError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SelectVariant handles a click on a color swatch.
func (h *Handler) SelectVariant(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, errors.Wrap(ErrBadRequest, "variant index must be an integer"))
		return
	}
	h.mutate(w, r, func(p *session.Page) error {
		return p.Card.SelectVariant(index)
	})
}

// AddToCart handles the "Add to Cart" button.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(p *session.Page) error {
		_, err := p.Card.AddToCart()
		return err
	})
}

// RemoveFromCart handles the "Remove items" button.
func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, func(p *session.Page) error {
		p.Card.RemoveFromCart()
		return nil
	})
}

// SelectTab switches the review panel tab.
func (h *Handler) SelectTab(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	tab, ok := tabs.Parse(r.FormValue("tab"))
	if !ok {
		writeError(w, r, errors.Wrap(ErrBadRequest, "unknown tab"))
		return
	}
	h.mutate(w, r, func(p *session.Page) error {
		p.Tabs.Select(tab)
		return nil
	})
}

// SubmitReview handles the review form.
func (h *Handler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, r, errors.Wrap(ErrBadRequest, "parse form"))
		return
	}

	// An unparsable rating is treated as missing.
	rating, _ := strconv.Atoi(r.PostForm.Get("rating"))
	h.mutate(w, r, func(p *session.Page) error {
		p.Form.SetName(r.PostForm.Get("name"))
		p.Form.SetText(r.PostForm.Get("review"))
		p.Form.SetRating(rating)
		p.Form.SetRecommend(r.PostForm.Get("recommend"))
		// Validation errors are rendered from the form; a failing subscriber
		// does not undo an accepted review.
		if _, err := p.Form.Submit(r.Context()); err != nil && !errors.Is(err, review.ErrValidation) {
			zctx.From(r.Context()).Warn("Review subscribers failed", zap.Error(err))
		}
		return nil
	})
}
