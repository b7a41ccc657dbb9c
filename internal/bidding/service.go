// Package bidding implements the bid submission workflow: advisory
// client-side validation, bid creation, best-effort price sync and
// optimistic cache reconciliation.
package bidding

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/laplataremata/remata-engine/internal/auctionerrors"
	"github.com/laplataremata/remata-engine/internal/catalog"
	"github.com/laplataremata/remata-engine/internal/logging"
	"github.com/laplataremata/remata-engine/internal/models"
)

// Store is the record API surface the workflow needs.
type Store interface {
	CreateBid(ctx context.Context, token string, bid models.Bid) (models.Bid, error)
	UpdateAuctionPrice(ctx context.Context, token, auctionID string, amount decimal.Decimal) error
}

// SessionReader is the read-only session surface. The store behind it
// is the sole mutator of session state.
type SessionReader interface {
	IsAuthenticated() bool
	CurrentUser() (models.User, bool)
	Token() string
}

// Receipt is the result of an accepted bid. PriceSynced is false when
// the best-effort price update failed after the bid itself persisted;
// the caller renders that as a non-blocking advisory.
type Receipt struct {
	Bid         models.Bid
	PriceSynced bool
}

// Service validates and submits bids against the backend.
type Service struct {
	store   Store
	session SessionReader
	catalog *catalog.Catalog
}

func NewService(store Store, session SessionReader, cat *catalog.Catalog) *Service {
	return &Service{
		store:   store,
		session: session,
		catalog: cat,
	}
}

// SubmitBid places a bid on the auction. The client-side checks are
// advisory; the backend's rules are authoritative and any rejection
// from it is classified and returned without side effects.
//
// The bid create and the price update are not atomic: a bid can
// persist while the price update fails. The local cache is still
// reconciled to the bid amount, and the realtime stream or the next
// full reload repairs the remote price.
func (s *Service) SubmitBid(ctx context.Context, auction models.Auction, amount decimal.Decimal) (Receipt, error) {
	now := time.Now().UTC()

	user, ok := s.session.CurrentUser()
	if !ok {
		return s.reject(auction.ID, auctionerrors.New(auctionerrors.Unauthenticated,
			"Debes iniciar sesión para pujar"))
	}

	if amount.Cmp(auction.CurrentPrice) <= 0 {
		return s.reject(auction.ID, auctionerrors.Newf(auctionerrors.BidTooLow,
			"Tu puja debe ser mayor a %s", auction.CurrentPrice.String()))
	}

	if auction.OwnerID == user.ID {
		return s.reject(auction.ID, auctionerrors.New(auctionerrors.SelfBidForbidden,
			"No puedes pujar en tu propia subasta"))
	}

	if auction.Closed(now) {
		return s.reject(auction.ID, auctionerrors.New(auctionerrors.AuctionClosed,
			"La subasta ya ha finalizado"))
	}

	bid := models.Bid{
		AuctionID: auction.ID,
		UserID:    user.ID,
		Amount:    amount,
		CreatedAt: now,
	}

	created, err := s.store.CreateBid(ctx, s.session.Token(), bid)
	if err != nil {
		return s.reject(auction.ID, auctionerrors.Ensure(err))
	}

	// Best effort. The bid is the authoritative record; a failed price
	// update only leaves the remote price stale until the realtime
	// stream or the next reload repairs it.
	synced := true
	if err := s.store.UpdateAuctionPrice(ctx, s.session.Token(), auction.ID, amount); err != nil {
		synced = false
		logging.Warn("bid recorded but price update failed", map[string]any{
			"auction": auction.ID,
			"amount":  amount.String(),
			"error":   err.Error(),
		})
	}

	// Optimistic local reconciliation, regardless of the price sync
	s.catalog.ApplyPrice(auction.ID, amount)
	s.catalog.CloseBidForm(auction.ID)

	logging.Info("bid accepted", map[string]any{
		"auction": auction.ID,
		"user":    user.ID,
		"amount":  amount.String(),
	})

	return Receipt{Bid: created, PriceSynced: synced}, nil
}

// reject records the failure on the auction's draft and returns it.
// The cached price is left unchanged.
func (s *Service) reject(auctionID string, f *auctionerrors.Failure) (Receipt, error) {
	s.catalog.SetBidError(auctionID, f.Message)
	return Receipt{}, f
}
