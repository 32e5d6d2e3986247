package review

import (
	"strings"

	"github.com/go-faster/errors"
)

// TopicSubmitted is the event bus topic a successful submission is published on.
const TopicSubmitted = "review-submitted"

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// Recommend is the reviewer's answer to "would you recommend this product".
type Recommend string

// Accepted Recommend values.
const (
	RecommendYes Recommend = "Yes"
	RecommendNo  Recommend = "No"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("review validation failed")

// Review is an immutable, successfully submitted review.
type Review struct {
	Name      string
	Text      string
	Rating    int
	Recommend Recommend
}

// ValidationError lists one human-readable message per missing field.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "review validation failed: " + strings.Join(e.Messages, ", ")
}

// Is reports ErrValidation as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ParseRecommend accepts exactly "Yes" or "No".
func ParseRecommend(s string) (Recommend, bool) {
	switch r := Recommend(s); r {
	case RecommendYes, RecommendNo:
		return r, true
	default:
		return "", false
	}
}

// ValidRating reports whether r is within MinRating..MaxRating.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
