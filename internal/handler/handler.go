// Package handler exposes the product page over HTTP: server-rendered HTML
// for browsers and a JSON API over the same session state.
package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/product-page/internal/domain/card"
	"github.com/xenking/product-page/internal/domain/review"
	"github.com/xenking/product-page/internal/session"
	"github.com/xenking/product-page/pkg/httpmiddleware"
)

// DefaultCookieName names the session cookie when Config leaves it empty.
const DefaultCookieName = "page_session"

// maxBodyBytes bounds JSON and form request bodies.
const maxBodyBytes = 64 << 10

// ErrBadRequest marks malformed request input.
var ErrBadRequest = errors.New("bad request")

// Config holds non-dependency configuration for the Handler.
type Config struct {
	// CookieName names the session cookie.
	CookieName string
	// SecureCookie sets the Secure attribute on the session cookie.
	SecureCookie bool
	// CookieTTL is the session cookie Max-Age. Zero makes it a browser
	// session cookie.
	CookieTTL time.Duration
}

// Handler serves the page and the API from the session store.
type Handler struct {
	store *session.Store
	cfg   Config
}

// New constructs a Handler.
func New(store *session.Store, cfg Config) *Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	return &Handler{store: store, cfg: cfg}
}

// Routes builds the router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Index)
	r.Post("/variants/{index}", h.SelectVariant)
	r.Post("/cart/add", h.AddToCart)
	r.Post("/cart/remove", h.RemoveFromCart)
	r.Post("/tabs", h.SelectTab)
	r.Post("/reviews", h.SubmitReview)

	r.Route("/api", func(r chi.Router) {
		r.Get("/page", h.APIPage)
		r.Put("/variant", h.APISelectVariant)
		r.Post("/cart", h.APIAddToCart)
		r.Delete("/cart", h.APIRemoveFromCart)
		r.Put("/tab", h.APISelectTab)
		r.Post("/reviews", h.APISubmitReview)
	})

	return r
}

func (h *Handler) sessionID(r *http.Request) string {
	if c, err := r.Cookie(h.cfg.CookieName); err == nil {
		return c.Value
	}
	return ""
}

// view runs fn on the visitor's page without starting a session.
func (h *Handler) view(r *http.Request, fn func(p *session.Page) error) error {
	return h.store.View(h.sessionID(r), fn)
}

// update runs fn on the visitor's page, starting a session and setting the
// cookie when the request carries none or an expired one.
func (h *Handler) update(w http.ResponseWriter, r *http.Request, fn func(p *session.Page) error) error {
	id := h.sessionID(r)
	newID, err := h.store.Update(r.Context(), id, fn)
	if newID != "" && newID != id {
		cookie := &http.Cookie{
			Name:     h.cfg.CookieName,
			Value:    newID,
			Path:     "/",
			HttpOnly: true,
			Secure:   h.cfg.SecureCookie,
			SameSite: http.SameSiteLaxMode,
		}
		if h.cfg.CookieTTL > 0 {
			cookie.MaxAge = int(h.cfg.CookieTTL.Seconds())
		}
		http.SetCookie(w, cookie)
	}
	return err
}

// mapError converts domain errors to an HTTP status and message. Unknown
// errors are logged and reported as 500.
func mapError(r *http.Request, err error) (int, string) {
	var iErr *card.InvalidIndexError
	switch {
	case errors.As(err, &iErr):
		return http.StatusUnprocessableEntity, iErr.Error()
	case errors.Is(err, card.ErrOutOfStock):
		return http.StatusConflict, err.Error()
	case errors.Is(err, review.ErrValidation):
		return http.StatusUnprocessableEntity, review.ErrValidation.Error()
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, session.ErrCapacity):
		return http.StatusServiceUnavailable, err.Error()
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := mapError(r, err)
	httpmiddleware.WriteError(w, code, msg)
}
