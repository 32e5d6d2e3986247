package card

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/product-page/internal/domain/product"
	"github.com/xenking/product-page/internal/domain/review"
	"github.com/xenking/product-page/pkg/eventbus"
)

type recordedIntent struct {
	action string
	id     int
}

type mockIntents struct {
	got []recordedIntent
}

func (m *mockIntents) AddToCart(id int)      { m.got = append(m.got, recordedIntent{"add", id}) }
func (m *mockIntents) RemoveFromCart(id int) { m.got = append(m.got, recordedIntent{"remove", id}) }

func newTestCard(t *testing.T, opts Options) (*Card, *eventbus.Bus, *mockIntents) {
	t.Helper()

	bus := eventbus.New()
	intents := &mockIntents{}
	c, err := New(product.Default(), bus, intents, opts)
	require.NoError(t, err)
	return c, bus, intents
}

func TestNew_InvalidProduct(t *testing.T) {
	_, err := New(product.Product{}, eventbus.New(), &mockIntents{}, Options{})
	require.ErrorIs(t, err, product.ErrNoVariants)
}

func TestDerivedState_Initial(t *testing.T) {
	c, _, _ := newTestCard(t, Options{})

	assert.Equal(t, "Vue Mastery Socks", c.Title())
	assert.Equal(t, 0, c.Selected())
	assert.Equal(t, "./assets/img/vmSocks-green.jpg", c.Image())
	assert.Equal(t, 11, c.StockLevel())
	assert.Equal(t, product.BannerInStock, c.Banner())
	assert.True(t, c.InStock())
	assert.Equal(t, "Vue Mastery Socks are not on Sale", c.SaleMessage())
}

func TestSelectVariant(t *testing.T) {
	c, _, _ := newTestCard(t, Options{})

	for i, v := range c.Variants() {
		require.NoError(t, c.SelectVariant(i))
		assert.Equal(t, v.Image, c.Image())
		assert.Equal(t, v.Quantity, c.StockLevel())
	}

	require.NoError(t, c.SelectVariant(1))
	assert.Equal(t, product.BannerOutOfStock, c.Banner())
	assert.False(t, c.InStock())
}

func TestSelectVariant_OutOfRange(t *testing.T) {
	c, _, _ := newTestCard(t, Options{})
	require.NoError(t, c.SelectVariant(1))

	for _, idx := range []int{-1, 2, 100} {
		err := c.SelectVariant(idx)
		require.ErrorIs(t, err, ErrInvalidIndex)

		var iErr *InvalidIndexError
		require.ErrorAs(t, err, &iErr)
		assert.Equal(t, idx, iErr.Index)
		assert.Equal(t, 2, iErr.Len)
	}
	assert.Equal(t, 1, c.Selected(), "selection is unchanged after a rejected index")
}

func TestShipping(t *testing.T) {
	premium, _, _ := newTestCard(t, Options{Premium: true})
	assert.Equal(t, "Free", premium.Shipping().String())
	assert.True(t, premium.Shipping().Free)

	regular, _, _ := newTestCard(t, Options{})
	assert.Equal(t, "2.99", regular.Shipping().String())
	assert.True(t, DefaultShippingFee.Equal(regular.Shipping().Fee))

	fee := decimal.RequireFromString("4.5")
	custom, _, _ := newTestCard(t, Options{ShippingFee: &fee})
	assert.Equal(t, "4.50", custom.Shipping().String())
}

func TestSaleMessage_OnSale(t *testing.T) {
	p := product.Default()
	p.OnSale = true
	c, err := New(p, eventbus.New(), &mockIntents{}, Options{})
	require.NoError(t, err)

	assert.Equal(t, "Vue Mastery Socks are on Sale !", c.SaleMessage())
}

func TestCartIntents(t *testing.T) {
	c, _, intents := newTestCard(t, Options{})

	id, err := c.AddToCart()
	require.NoError(t, err)
	assert.Equal(t, 2234, id)

	assert.Equal(t, 2234, c.RemoveFromCart())

	require.NoError(t, c.SelectVariant(1))
	_, err = c.AddToCart()
	require.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, 2235, c.RemoveFromCart())

	assert.Equal(t, []recordedIntent{
		{"add", 2234},
		{"remove", 2234},
		{"remove", 2235},
	}, intents.got)
}

func TestReviewsFromBus(t *testing.T) {
	c, bus, _ := newTestCard(t, Options{})
	form := review.NewForm(bus)
	ctx := context.Background()

	assert.Empty(t, c.Reviews())

	form.SetName("Ada")
	form.SetText("Warm")
	form.SetRating(5)
	form.SetRecommend("Yes")
	_, err := form.Submit(ctx)
	require.NoError(t, err)

	form.SetText("ok")
	form.SetRating(4)
	form.SetRecommend("Yes")
	_, err = form.Submit(ctx)
	require.ErrorIs(t, err, review.ErrValidation)

	reviews := c.Reviews()
	require.Len(t, reviews, 1)
	assert.Equal(t, "Ada", reviews[0].Name)
	assert.Equal(t, review.RecommendYes, reviews[0].Recommend)
}

func TestReviewsFromBus_BadPayload(t *testing.T) {
	c, bus, _ := newTestCard(t, Options{})

	err := bus.Publish(context.Background(), review.TopicSubmitted, "not a review")
	require.Error(t, err)
	assert.Empty(t, c.Reviews())

	require.NoError(t, bus.Publish(context.Background(), review.TopicSubmitted, &review.Review{Name: "p"}))
	assert.Len(t, c.Reviews(), 1)
}

func TestClose(t *testing.T) {
	c, bus, _ := newTestCard(t, Options{})
	require.Equal(t, 1, bus.Subscribers(review.TopicSubmitted))

	c.Close()
	assert.Zero(t, bus.Subscribers(review.TopicSubmitted))
}
