package review

import (
	"context"
	"html"
	"strings"

	"github.com/go-faster/errors"
	"github.com/microcosm-cc/bluemonday"

	"github.com/xenking/product-page/pkg/eventbus"
)

// Missing field messages, in the order they are reported.
const (
	MsgNameRequired      = "name required"
	MsgReviewRequired    = "review required"
	MsgRatingRequired    = "rating required"
	MsgRecommendRequired = "recommend required"
)

// Form collects review fields and publishes a Review on successful submit.
//
// A zero rating or empty recommend means the field is unset.
type Form struct {
	name      string
	text      string
	rating    int
	recommend Recommend
	errors    []string

	bus    eventbus.Publisher
	policy *bluemonday.Policy
}

// NewForm returns an empty form publishing on bus.
func NewForm(bus eventbus.Publisher) *Form {
	return &Form{
		bus:    bus,
		policy: bluemonday.StrictPolicy(),
	}
}

// SetName sets the reviewer name. Markup is stripped.
func (f *Form) SetName(s string) { f.name = f.clean(s) }

// SetText sets the review body. Markup is stripped.
func (f *Form) SetText(s string) { f.text = f.clean(s) }

// SetRating sets the rating; values outside 1..5 leave the field unset.
func (f *Form) SetRating(r int) {
	if !ValidRating(r) {
		r = 0
	}
	f.rating = r
}

// SetRecommend sets the recommendation; anything but "Yes" or "No" leaves
// the field unset.
func (f *Form) SetRecommend(s string) {
	r, _ := ParseRecommend(s)
	f.recommend = r
}

// clean reduces input to plain text. The strict policy escapes entities, so
// they are decoded again; rendering escapes once.
func (f *Form) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(f.policy.Sanitize(s)))
}

// Name returns the current name field.
func (f *Form) Name() string { return f.name }

// Text returns the current review field.
func (f *Form) Text() string { return f.text }

// Rating returns the current rating, 0 when unset.
func (f *Form) Rating() int { return f.rating }

// Recommend returns the current recommendation, empty when unset.
func (f *Form) Recommend() Recommend { return f.recommend }

// Errors returns the messages from the last failed submission.
func (f *Form) Errors() []string {
	out := make([]string, len(f.errors))
	copy(out, f.errors)
	return out
}

// Submit validates the form. On success the review is published on
// TopicSubmitted and every field is reset. On failure a *ValidationError is
// returned, the fields are kept and nothing is published.
func (f *Form) Submit(ctx context.Context) (*Review, error) {
	f.errors = f.errors[:0]

	if f.name == "" {
		f.errors = append(f.errors, MsgNameRequired)
	}
	if f.text == "" {
		f.errors = append(f.errors, MsgReviewRequired)
	}
	if f.rating == 0 {
		f.errors = append(f.errors, MsgRatingRequired)
	}
	if f.recommend == "" {
		f.errors = append(f.errors, MsgRecommendRequired)
	}
	if len(f.errors) > 0 {
		return nil, &ValidationError{Messages: f.Errors()}
	}

	r := &Review{
		Name:      f.name,
		Text:      f.text,
		Rating:    f.rating,
		Recommend: f.recommend,
	}
	f.reset()

	if err := f.bus.Publish(ctx, TopicSubmitted, *r); err != nil {
		return r, errors.Wrap(err, "publish review")
	}
	return r, nil
}

func (f *Form) reset() {
	f.name = ""
	f.text = ""
	f.rating = 0
	f.recommend = ""
}
