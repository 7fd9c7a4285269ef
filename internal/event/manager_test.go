package event_test

import (
	"testing"
	"time"

	"github.com/cardnft/card-market-gateway/internal/event"
	"github.com/stretchr/testify/assert"
)

func TestEmitEvent_ReachesMatchingListenersOnly(t *testing.T) {
	cards := make(chan interface{}, 1)
	listings := make(chan interface{}, 1)

	event.AddEventListener(event.CardsChangedEvent, func(msg interface{}) {
		cards <- msg
	})
	event.AddEventListener(event.ListingChangedEvent, func(msg interface{}) {
		listings <- msg
	})

	event.EmitEvent(event.CardsChangedEvent, uint64(7))

	select {
	case msg := <-cards:
		assert.Equal(t, uint64(7), msg)
	case <-time.After(time.Second):
		t.Fatal("cards listener never fired")
	}

	select {
	case <-listings:
		t.Fatal("listings listener fired for a card event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestEmitEvent_NoListeners(t *testing.T) {
	// Must not block or panic.
	event.EmitEvent(event.SwapChangedEvent, nil)
}
