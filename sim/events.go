package sim

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rustyeddy/stocksim/market"
	"github.com/rustyeddy/stocksim/news"
	"github.com/rustyeddy/stocksim/portfolio"
)

// EventType labels engine notifications.
type EventType string

const (
	EventPriceUpdated         EventType = "priceUpdated"
	EventNewsPublished        EventType = "newsPublished"
	EventTransactionCompleted EventType = "transactionCompleted"
	EventTransactionFailed    EventType = "transactionFailed"
)

// Event is what the engine pushes to subscribers. Exactly one payload field
// is set, matching Type. The engine knows nothing about how subscribers
// render these.
type Event struct {
	Type        EventType              `json:"type"`
	Quotes      []market.Quote         `json:"quotes,omitempty"`
	Story       *news.Story            `json:"story,omitempty"`
	Transaction *portfolio.Transaction `json:"transaction,omitempty"`
	PortfolioID string                 `json:"portfolio_id,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// Bus fans events out to subscribers. Publishing never blocks: a
// subscriber that has fallen subscriberBuffer events behind loses the
// oldest notifications rather than stalling the simulation.
type Bus struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
	log  *logrus.Entry
}

const subscriberBuffer = 64

func NewBus(log *logrus.Logger) *Bus {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Bus{
		subs: make(map[int]chan Event),
		log:  log.WithField("component", "bus"),
	}
}

// Subscribe registers a listener. The returned cancel func releases it;
// after cancel returns the channel is closed.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan Event, subscriberBuffer)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber, dropping the oldest
// buffered event for any subscriber whose buffer is full.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
				b.log.WithField("subscriber", id).Warn("event dropped")
			}
		}
	}
}

// Subscribers reports the current listener count.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
