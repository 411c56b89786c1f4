package previewcache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitForState(t *testing.T, c *Cache, key string, want State, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		c.Poll()
		if st, ok := c.State(key); ok && st == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("key %q did not reach state %v in time", key, want)
}

func TestCache_RequestThenPollReachesReady(t *testing.T) {
	c := New(4, func(key string) (any, error) {
		return "value:" + key, nil
	})
	defer c.Close()

	c.Request("a")
	st, ok := c.State("a")
	require.True(t, ok)
	require.Equal(t, Loading, st)

	waitForState(t, c, "a", Ready, time.Second)

	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, "value:a", v)
}

func TestCache_FailedLoadIsPermanentUntilInvalidate(t *testing.T) {
	c := New(4, func(key string) (any, error) {
		return nil, errors.New("boom")
	})
	defer c.Close()

	c.Request("a")
	waitForState(t, c, "a", Failed, time.Second)

	_, ok := c.Get("a")
	require.False(t, ok)

	c.Invalidate("a")
	_, ok = c.State("a")
	require.False(t, ok)
}

func TestCache_EvictsOldestReadyOnOverflow(t *testing.T) {
	c := New(2, func(key string) (any, error) { return key, nil })
	defer c.Close()

	for _, k := range []string{"a", "b", "c"} {
		c.Request(k)
		waitForState(t, c, k, Ready, time.Second)
	}

	// Inserting a 4th key with no loads in flight must evict the oldest
	// Ready entry ("a") to stay within capacity.
	c.Request("d")
	waitForState(t, c, "d", Ready, time.Second)

	_, ok := c.State("a")
	require.False(t, ok, "oldest ready entry should have been evicted")
	_, ok = c.Get("b")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
}

func TestCache_PrefetchAdjacentRequestsWithinRadius(t *testing.T) {
	c := New(10, func(key string) (any, error) { return key, nil })
	defer c.Close()

	list := []string{"0", "1", "2", "3", "4"}
	c.PrefetchAdjacent(list, 2, 1)

	for _, k := range []string{"1", "2", "3"} {
		_, ok := c.State(k)
		require.True(t, ok, "expected %s to be requested", k)
	}
	for _, k := range []string{"0", "4"} {
		_, ok := c.State(k)
		require.False(t, ok, "expected %s to be outside radius", k)
	}
}
