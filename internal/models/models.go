package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a participant in the marketplace
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the authenticated identity and credential state of the
// current user. Owned exclusively by the session store; everything
// else reads it.
type Session struct {
	UserID        string
	DisplayName   string
	Email         string
	AuthToken     string
	Authenticated bool
}

// Condition is the declared state of the auctioned item.
type Condition string

const (
	ConditionNew        Condition = "nuevo"
	ConditionLikeNew    Condition = "como_nuevo"
	ConditionGood       Condition = "buen_estado"
	ConditionAcceptable Condition = "aceptable"
	ConditionFlawed     Condition = "con_detalles"
	ConditionForRepair  Condition = "para_reparar"
)

// Valid reports whether c is one of the known condition values.
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionGood,
		ConditionAcceptable, ConditionFlawed, ConditionForRepair:
		return true
	}
	return false
}

// Auction is a sellable item with a monotonically increasing price and
// a fixed closing time. CurrentPrice mutates only as a side effect of
// an accepted bid.
type Auction struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Condition    Condition       `json:"condition,omitempty"`
	ImagePath    string          `json:"image_path,omitempty"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	EndTime      time.Time       `json:"end_time"`
	OwnerID      string          `json:"owner_id"`

	// Expanded owner relation, present only on catalog reads
	Owner *User `json:"owner,omitempty"`
}

// Closed reports whether the auction is past its end time.
func (a Auction) Closed(now time.Time) bool {
	return !now.Before(a.EndTime)
}

// OwnerName returns the expanded owner's display name for rendering.
func (a Auction) OwnerName() string {
	if a.Owner != nil && a.Owner.Name != "" {
		return a.Owner.Name
	}
	return "Usuario desconocido"
}

// Bid is an offer to pay a given amount for an auction, immutable once
// created.
type Bid struct {
	ID        string          `json:"id,omitempty"`
	AuctionID string          `json:"auction_id"`
	UserID    string          `json:"user_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// BidEvent is a record-change notification from the realtime stream.
type BidEvent struct {
	BidID     string
	AuctionID string
	UserID    string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// BidDraft is the ephemeral per-auction bid form state, scoped to the
// catalog's in-memory session.
type BidDraft struct {
	FormVisible    bool
	ProposedAmount decimal.Decimal
	LastError      string
}

// NewAuction is the payload submitted when creating an auction.
type NewAuction struct {
	Title        string          `json:"title"`
	Description  string          `json:"description,omitempty"`
	Condition    Condition       `json:"condition"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	EndTime      time.Time       `json:"end_time"`
	OwnerID      string          `json:"owner_id"`
	ImagePath    string          `json:"image_path,omitempty"`
}
