package sim

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusFanOut(t *testing.T) {
	t.Parallel()

	b := NewBus(nil)
	a, cancelA := b.Subscribe()
	c, cancelC := b.Subscribe()
	defer cancelA()
	defer cancelC()

	assert.Equal(t, 2, b.Subscribers())

	b.Publish(Event{Type: EventPriceUpdated})

	require.Len(t, drain(a), 1)
	require.Len(t, drain(c), 1)
}

func TestBusSlowSubscriberDropsOldest(t *testing.T) {
	t.Parallel()

	b := NewBus(nil)
	ch, cancel := b.Subscribe()
	defer cancel()

	for i := 0; i < subscriberBuffer+10; i++ {
		b.Publish(Event{Type: EventNewsPublished, Error: fmt.Sprintf("%d", i)})
	}

	evs := drain(ch)
	require.Len(t, evs, subscriberBuffer)
	// Oldest events were discarded, newest survive.
	assert.Equal(t, fmt.Sprintf("%d", subscriberBuffer+9), evs[len(evs)-1].Error)
}

func TestBusCancelClosesChannel(t *testing.T) {
	t.Parallel()

	b := NewBus(nil)
	ch, cancel := b.Subscribe()

	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.Subscribers())

	cancel() // idempotent
	b.Publish(Event{Type: EventPriceUpdated})
}
