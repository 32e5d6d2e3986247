//go:build property

package card

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/xenking/product-page/internal/domain/product"
	"github.com/xenking/product-page/pkg/eventbus"
)

func TestCardProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("selection drives image and stock", prop.ForAll(
		func(quantities []int, pick int) bool {
			p := product.Default()
			p.Variants = make([]product.Variant, len(quantities))
			for i, q := range quantities {
				p.Variants[i] = product.Variant{ID: 3000 + i, Color: "c", Image: "img-" + string(rune('a'+i)), Quantity: q}
			}

			c, err := New(p, eventbus.New(), &mockIntents{}, Options{})
			if err != nil {
				return false
			}
			defer c.Close()

			i := pick % len(quantities)
			if err := c.SelectVariant(i); err != nil {
				return false
			}
			v := p.Variants[i]
			return c.Image() == v.Image &&
				c.StockLevel() == v.Quantity &&
				c.InStock() == (v.Quantity > 0) &&
				c.Banner() == product.Banner(v.Quantity)
		},
		gen.SliceOfN(5, gen.IntRange(0, 30)),
		gen.IntRange(0, 100),
	))

	properties.TestingRun(t)
}
