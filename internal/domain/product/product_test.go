package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBanner(t *testing.T) {
	tests := []struct {
		quantity int
		want     string
	}{
		{quantity: 0, want: BannerOutOfStock},
		{quantity: 1, want: BannerAlmostGone},
		{quantity: 10, want: BannerAlmostGone},
		{quantity: 11, want: BannerInStock},
		{quantity: 500, want: BannerInStock},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Banner(tt.quantity), "quantity %d", tt.quantity)
	}
}

func TestDefault(t *testing.T) {
	p := Default()
	require.NoError(t, p.Validate())

	require.Len(t, p.Variants, 2)
	assert.Equal(t, 2234, p.Variants[0].ID)
	assert.Equal(t, 11, p.Variants[0].Quantity)
	assert.Equal(t, 2235, p.Variants[1].ID)
	assert.Equal(t, 0, p.Variants[1].Quantity)
	assert.Equal(t, []string{"80% Cotton", "20% Polyester", "Gender Neutral"}, p.Details)
	assert.False(t, p.OnSale)
}

func TestValidate(t *testing.T) {
	require.ErrorIs(t, Product{}.Validate(), ErrNoVariants)

	p := Product{Variants: []Variant{{ID: 1, Quantity: -1}}}
	err := p.Validate()
	require.ErrorIs(t, err, ErrNegativeQuantity)
	assert.Contains(t, err.Error(), "variant 1")
}
