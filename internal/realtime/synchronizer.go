package realtime

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/laplataremata/remata-engine/internal/logging"
	"github.com/laplataremata/remata-engine/internal/models"
)

// PriceSink receives price replacements for tracked auctions. The sink
// decides what a stale id means; ApplyPrice reports whether the event
// changed anything.
type PriceSink interface {
	ApplyPrice(auctionID string, amount decimal.Decimal) bool
}

// Synchronizer keeps one bid subscription per tracked auction and maps
// every incoming bid event to a price replacement on the sink. It
// trusts the stream's ordering and the originating write path to have
// validated the bid, so it never recomputes from history.
type Synchronizer struct {
	feed BidFeed
	sink PriceSink

	mu   sync.Mutex
	subs map[string]Subscription
}

func NewSynchronizer(feed BidFeed, sink PriceSink) *Synchronizer {
	return &Synchronizer{
		feed: feed,
		sink: sink,
		subs: make(map[string]Subscription),
	}
}

// Track reconciles the open subscriptions with the given auction set,
// diffing by auction id: subscriptions for auctions that left the set
// are closed exactly once, auctions new to the set get a subscription.
// Subscription errors are logged and swallowed so a realtime outage
// does not block the rest of the UI.
func (s *Synchronizer) Track(ctx context.Context, auctions []models.Auction) {
	want := make(map[string]struct{}, len(auctions))
	for _, a := range auctions {
		want[a.ID] = struct{}{}
	}

	s.mu.Lock()
	stale := make([]Subscription, 0)
	for id, sub := range s.subs {
		if _, ok := want[id]; !ok {
			stale = append(stale, sub)
			delete(s.subs, id)
		}
	}
	missing := make([]string, 0)
	for id := range want {
		if _, ok := s.subs[id]; !ok {
			missing = append(missing, id)
		}
	}
	s.mu.Unlock()

	for _, sub := range stale {
		sub.Close()
	}

	for _, id := range missing {
		auctionID := id
		sub, err := s.feed.SubscribeBids(ctx, auctionID, func(ev models.BidEvent) {
			s.apply(auctionID, ev)
		})
		if err != nil {
			logging.Warn("bid subscription failed", map[string]any{"auction": auctionID, "error": err.Error()})
			continue
		}
		s.mu.Lock()
		s.subs[auctionID] = sub
		s.mu.Unlock()
	}
}

// apply replaces the cached price for a tracked auction. Events that
// arrive for an auction no longer tracked are dropped without side
// effects.
func (s *Synchronizer) apply(auctionID string, ev models.BidEvent) {
	if ev.AuctionID != auctionID {
		return
	}

	s.mu.Lock()
	_, tracked := s.subs[auctionID]
	s.mu.Unlock()
	if !tracked {
		return
	}

	if s.sink.ApplyPrice(auctionID, ev.Amount) {
		logging.Info("price synchronized from bid stream", map[string]any{
			"auction": auctionID,
			"amount":  ev.Amount.String(),
		})
	}
}

// Open reports the number of currently open subscriptions.
func (s *Synchronizer) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Shutdown closes every open subscription. Invoking it twice is safe:
// each handle closes at most once and a second pass finds nothing.
func (s *Synchronizer) Shutdown() {
	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[string]Subscription)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}
