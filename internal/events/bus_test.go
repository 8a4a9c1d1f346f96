package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_FanOut(t *testing.T) {
	b := NewBus(4)
	ch1, cancel1 := b.Subscribe()
	ch2, cancel2 := b.Subscribe()
	defer cancel1()
	defer cancel2()

	evt := Event{Collection: CollectionAppointments, Op: OpUpsert, UserID: "u1", Key: "2025-W10-0-4"}
	assert.True(t, b.Publish(evt))

	got1 := <-ch1
	got2 := <-ch2
	assert.Equal(t, evt, got1)
	assert.Equal(t, evt, got2)
}

func TestBus_DropsWhenFull(t *testing.T) {
	b := NewBus(1)
	ch, cancel := b.Subscribe()
	defer cancel()

	require.True(t, b.Publish(Event{Key: "a"}))
	assert.False(t, b.Publish(Event{Key: "b"}), "full buffer must drop, not block")

	got := <-ch
	assert.Equal(t, "a", got.Key)
}

func TestBus_CancelClosesChannel(t *testing.T) {
	b := NewBus(1)
	ch, cancel := b.Subscribe()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	// Publishing after cancel must not panic or deliver.
	assert.True(t, b.Publish(Event{Key: "x"}))

	// Cancel twice is safe.
	cancel()
}
