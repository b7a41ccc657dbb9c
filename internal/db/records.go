package db

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/supabase-community/postgrest-go"

	"github.com/laplataremata/remata-engine/internal/auctionerrors"
	"github.com/laplataremata/remata-engine/internal/models"
)

// auctionColumns expands the owner relation for display.
const auctionColumns = "*,owner:profiles(id,name,email)"

// ListActiveAuctions returns all auctions that close after now, sorted
// by ascending end time. Reads are public, no token required.
func (c *Client) ListActiveAuctions(ctx context.Context, now time.Time) ([]models.Auction, error) {
	resp, _, err := c.rest("").
		From("auctions").
		Select(auctionColumns, "", false).
		Gt("end_time", now.UTC().Format(time.RFC3339)).
		Order("end_time", &postgrest.OrderOpts{Ascending: true}).
		ExecuteWithContext(ctx)
	if err != nil {
		return nil, classify(err, "auctions")
	}

	var auctions []models.Auction
	if err := json.Unmarshal(resp, &auctions); err != nil {
		return nil, auctionerrors.Wrap(auctionerrors.Unknown,
			"Respuesta inesperada del servicio al listar subastas.", err)
	}
	return auctions, nil
}

// CreateBid persists a bid on behalf of the authenticated user. The
// backend's create rule is authoritative; any rejection is classified
// and returned without side effects.
func (c *Client) CreateBid(ctx context.Context, token string, bid models.Bid) (models.Bid, error) {
	resp, _, err := c.rest(token).
		From("bids").
		Insert(bid, false, "", "representation", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return models.Bid{}, classify(err, "bids")
	}

	var created []models.Bid
	if err := json.Unmarshal(resp, &created); err != nil || len(created) == 0 {
		// The bid persisted even if the echo could not be decoded.
		return bid, nil
	}
	return created[0], nil
}

// UpdateAuctionPrice sets the auction's current price. Callers treat a
// failure here as non-fatal: the bid record is the authoritative state.
func (c *Client) UpdateAuctionPrice(ctx context.Context, token, auctionID string, amount decimal.Decimal) error {
	_, _, err := c.rest(token).
		From("auctions").
		Update(map[string]interface{}{"current_price": amount}, "", "").
		Eq("id", auctionID).
		ExecuteWithContext(ctx)
	if err != nil {
		return classify(err, "auctions")
	}
	return nil
}

// CreateAuction inserts a new auction owned by the authenticated user
// and returns the stored record.
func (c *Client) CreateAuction(ctx context.Context, token string, rec models.NewAuction) (models.Auction, error) {
	resp, _, err := c.rest(token).
		From("auctions").
		Insert(rec, false, "", "representation", "").
		ExecuteWithContext(ctx)
	if err != nil {
		return models.Auction{}, classify(err, "auctions")
	}

	var created []models.Auction
	if err := json.Unmarshal(resp, &created); err != nil || len(created) == 0 {
		return models.Auction{}, auctionerrors.Wrap(auctionerrors.Unknown,
			"Respuesta inesperada del servicio al crear la subasta.", err)
	}
	return created[0], nil
}
