package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConn_EnqueueAfterCloseDropped(t *testing.T) {
	conn := NewConn(nil)

	conn.Enqueue("first")
	conn.CloseEvents()

	// Must not panic and must not deliver.
	conn.Enqueue("second")

	event, ok := <-conn.Events()
	require.True(t, ok)
	assert.Equal(t, "first", event)

	_, ok = <-conn.Events()
	assert.False(t, ok)
}

func TestConn_CloseEventsIdempotent(t *testing.T) {
	conn := NewConn(nil)

	conn.CloseEvents()
	conn.CloseEvents()
}

func TestConn_EnqueueDropsWhenFull(t *testing.T) {
	conn := NewConn(nil)

	// The buffer holds 16 events; further sends are dropped instead of
	// blocking the broadcaster.
	for i := 0; i < 32; i++ {
		conn.Enqueue(i)
	}

	conn.CloseEvents()

	count := 0
	for range conn.Events() {
		count++
	}
	assert.Equal(t, 16, count)
}
