package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd(t *testing.T) {
	c := New()
	c.Add(2234)
	c.Add(2235)
	c.Add(2234)

	assert.Equal(t, []int{2234, 2235, 2234}, c.Items())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 2, c.Count(2234))
}

func TestRemove_AllOccurrences(t *testing.T) {
	c := New()
	for _, id := range []int{1, 2, 1, 1, 3, 1} {
		c.Add(id)
	}

	removed := c.Remove(1)
	assert.Equal(t, 4, removed)
	assert.Equal(t, []int{2, 3}, c.Items())
	assert.Zero(t, c.Count(1))
}

func TestRemove_Missing(t *testing.T) {
	c := New()
	c.Add(7)

	assert.Zero(t, c.Remove(8))
	assert.Equal(t, []int{7}, c.Items())
}

func TestItems_ReturnsCopy(t *testing.T) {
	c := New()
	c.Add(1)

	items := c.Items()
	items[0] = 99
	require.Equal(t, []int{1}, c.Items())
}

func TestIntents(t *testing.T) {
	c := New()
	c.AddToCart(5)
	c.AddToCart(5)
	c.RemoveFromCart(5)
	assert.Empty(t, c.Items())
}
