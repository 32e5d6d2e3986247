//go:build property

package product

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestBannerProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("banner partitions quantities", prop.ForAll(
		func(q int) bool {
			switch b := Banner(q); {
			case q > 10:
				return b == BannerInStock
			case q > 0:
				return b == BannerAlmostGone
			default:
				return b == BannerOutOfStock
			}
		},
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}
