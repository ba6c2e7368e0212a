package workerchannel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConnection builds a Connection without dialing a real socket,
// for pool ordering/selection tests.
func newTestConnection(id string) *Connection {
	return newConnection(id, nil, nil)
}

func TestPoolAcquireIdleReturnsFirstIdleInOrder(t *testing.T) {
	pool := NewPool()
	a := newTestConnection("a")
	b := newTestConnection("b")
	pool.register(a)
	pool.register(b)

	a.setBusy()

	handle, ok := pool.AcquireIdle()
	require.True(t, ok)
	assert.Equal(t, "b", handle.ID())
}

func TestPoolAcquireIdleEmptyPool(t *testing.T) {
	pool := NewPool()
	_, ok := pool.AcquireIdle()
	assert.False(t, ok)
}

func TestPoolUnregisterRemovesFromOrder(t *testing.T) {
	pool := NewPool()
	a := newTestConnection("a")
	pool.register(a)
	assert.Equal(t, 1, pool.Size())

	pool.unregister("a")
	assert.Equal(t, 0, pool.Size())

	_, ok := pool.AcquireIdle()
	assert.False(t, ok)
}
