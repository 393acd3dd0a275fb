package utils

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderIDGenerator(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		at := time.UnixMilli(1_700_000_000_000)
		g := NewOrderIDGenerator(func() time.Time { return at })

		id := g.Next()
		assert.True(t, strings.HasPrefix(id, "N"), "Should start with N")

		ms, err := strconv.ParseInt(strings.TrimPrefix(id, "N"), 36, 64)
		require.NoError(t, err)
		assert.Equal(t, at.UnixMilli(), ms)
		assert.Equal(t, "N"+strconv.FormatInt(at.UnixMilli(), 36), id)
		assert.Equal(t, strings.ToLower(id[1:]), id[1:], "Should be lowercase base36")
	})

	t.Run("Uniqueness with a frozen clock", func(t *testing.T) {
		at := time.UnixMilli(1_700_000_000_000)
		g := NewOrderIDGenerator(func() time.Time { return at })

		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			id := g.Next()
			assert.False(t, seen[id], "duplicate id %s", id)
			seen[id] = true
		}
	})

	t.Run("Clock stepping back", func(t *testing.T) {
		times := []time.Time{time.UnixMilli(2000), time.UnixMilli(1000)}
		i := 0
		g := NewOrderIDGenerator(func() time.Time { t := times[i]; i++; return t })

		first, second := g.Next(), g.Next()
		a, _ := strconv.ParseInt(first[1:], 36, 64)
		b, _ := strconv.ParseInt(second[1:], 36, 64)
		assert.Greater(t, b, a)
	})

	t.Run("Real clock", func(t *testing.T) {
		g := NewOrderIDGenerator(nil)
		assert.NotEqual(t, g.Next(), g.Next())
	})
}
