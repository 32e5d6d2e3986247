package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/product-page/internal/domain/review"
	"github.com/xenking/product-page/internal/view"
)

func encodeInts(e *jx.Encoder, ids []int) {
	e.ArrStart()
	for _, id := range ids {
		e.Int(id)
	}
	e.ArrEnd()
}

func encodeStrings(e *jx.Encoder, ss []string) {
	e.ArrStart()
	for _, s := range ss {
		e.Str(s)
	}
	e.ArrEnd()
}

func encodeReview(e *jx.Encoder, r review.Review) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(r.Name)
	e.FieldStart("review")
	e.Str(r.Text)
	e.FieldStart("rating")
	e.Int(r.Rating)
	e.FieldStart("recommend")
	e.Str(string(r.Recommend))
	e.ObjEnd()
}

func encodeCart(e *jx.Encoder, items []int) {
	e.ObjStart()
	e.FieldStart("items")
	encodeInts(e, items)
	e.FieldStart("count")
	e.Int(len(items))
	e.ObjEnd()
}

func encodePage(e *jx.Encoder, d view.PageData) {
	e.ObjStart()

	e.FieldStart("title")
	e.Str(d.Title)
	e.FieldStart("image")
	e.Str(d.Image)
	e.FieldStart("altText")
	e.Str(d.AltText)
	e.FieldStart("link")
	e.Str(d.Link)
	e.FieldStart("description")
	e.Str(d.Description)
	e.FieldStart("shipping")
	e.Str(d.Shipping)
	e.FieldStart("stockLevel")
	e.Int(d.StockLevel)
	e.FieldStart("banner")
	e.Str(d.Banner)
	e.FieldStart("inStock")
	e.Bool(d.InStock)
	e.FieldStart("sale")
	e.Str(d.SaleMessage)
	e.FieldStart("details")
	encodeStrings(e, d.Details)
	e.FieldStart("sizes")
	encodeStrings(e, d.Sizes)

	e.FieldStart("variants")
	e.ArrStart()
	for _, s := range d.Swatches {
		e.ObjStart()
		e.FieldStart("index")
		e.Int(s.Index)
		e.FieldStart("id")
		e.Int(s.VariantID)
		e.FieldStart("color")
		e.Str(s.Color)
		e.FieldStart("selected")
		e.Bool(s.Selected)
		e.ObjEnd()
	}
	e.ArrEnd()

	e.FieldStart("tabs")
	e.ArrStart()
	for _, t := range d.Tabs {
		e.Str(string(t.Name))
	}
	e.ArrEnd()
	e.FieldStart("activeTab")
	e.Str(string(d.ActiveTab))

	e.FieldStart("reviews")
	e.ArrStart()
	for _, r := range d.Reviews {
		encodeReview(e, r)
	}
	e.ArrEnd()

	e.FieldStart("form")
	e.ObjStart()
	e.FieldStart("name")
	e.Str(d.Form.Name)
	e.FieldStart("review")
	e.Str(d.Form.Text)
	e.FieldStart("rating")
	if d.Form.Rating == 0 {
		e.Null()
	} else {
		e.Int(d.Form.Rating)
	}
	e.FieldStart("recommend")
	if d.Form.Recommend == "" {
		e.Null()
	} else {
		e.Str(string(d.Form.Recommend))
	}
	e.FieldStart("errors")
	encodeStrings(e, d.Form.Errors)
	e.ObjEnd()

	e.FieldStart("cart")
	encodeCart(e, d.Cart)

	e.ObjEnd()
}

func writeJSON(w http.ResponseWriter, code int, fn func(e *jx.Encoder)) {
	var e jx.Encoder
	fn(&e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(e.Bytes())
}

// decodeObject reads a JSON object body and calls fn per field. Unknown
// fields must be skipped by fn.
func decodeObject(w http.ResponseWriter, r *http.Request, fn func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(ErrBadRequest, "read body")
	}
	if err := jx.DecodeBytes(body).Obj(fn); err != nil {
		return errors.Wrapf(ErrBadRequest, "decode body: %v", err)
	}
	return nil
}
