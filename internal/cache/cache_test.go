package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time { return f.t }

func newTestCache(ttl time.Duration, max int) (*Cache[float64], *fakeClock) {
	clk := &fakeClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)}
	c := New[float64](ttl, max)
	c.now = clk.now
	return c, clk
}

func TestGetReturnsValueAndAge(t *testing.T) {
	c, clk := newTestCache(5*time.Minute, 0)
	c.Put("AAPL", 189.5)

	clk.t = clk.t.Add(90 * time.Second)
	v, age, ok := c.Get("AAPL")
	require.True(t, ok)
	assert.Equal(t, 189.5, v)
	assert.Equal(t, 90*time.Second, age)
}

func TestGetMissesAfterTTL(t *testing.T) {
	c, clk := newTestCache(5*time.Minute, 0)
	c.Put("AAPL", 189.5)

	clk.t = clk.t.Add(5*time.Minute + time.Second)
	_, _, ok := c.Get("AAPL")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestPutReplacesAndResetsAge(t *testing.T) {
	c, clk := newTestCache(time.Minute, 0)
	c.Put("MSFT", 400)
	clk.t = clk.t.Add(50 * time.Second)
	c.Put("MSFT", 401)

	v, age, ok := c.Get("MSFT")
	require.True(t, ok)
	assert.Equal(t, 401.0, v)
	assert.Zero(t, age)
}

func TestEvictsOldestAtCapacity(t *testing.T) {
	c, _ := newTestCache(time.Hour, 2)
	c.Put("A", 1)
	c.Put("B", 2)
	c.Put("C", 3)

	_, _, ok := c.Get("A")
	assert.False(t, ok)
	_, _, ok = c.Get("C")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCleanup(t *testing.T) {
	c, clk := newTestCache(time.Minute, 0)
	c.Put("old", 1)
	clk.t = clk.t.Add(2 * time.Minute)
	c.Put("new", 2)

	c.Cleanup()
	assert.Equal(t, 1, c.Len())
}
