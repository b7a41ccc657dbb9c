package catalog

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/laplataremata/remata-engine/internal/models"
)

// Catalog is the single owner of the in-memory auction list and the
// per-auction bid drafts. The backend is the source of truth; this is
// a cache that tolerates staleness. Updates happen only through whole
// replacement (Replace) or per-auction last-write-wins price replacement
// (ApplyPrice), keyed by auction id.
type Catalog struct {
	increment decimal.Decimal

	mu       sync.RWMutex
	auctions []models.Auction
	drafts   map[string]*models.BidDraft
}

func NewCatalog(increment decimal.Decimal) *Catalog {
	return &Catalog{
		increment: increment,
		drafts:    make(map[string]*models.BidDraft),
	}
}

// Replace swaps the whole auction set and seeds a fresh draft per
// auction: form hidden, proposed amount one increment above the
// current price.
func (c *Catalog) Replace(auctions []models.Auction) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.auctions = make([]models.Auction, len(auctions))
	copy(c.auctions, auctions)

	c.drafts = make(map[string]*models.BidDraft, len(auctions))
	for _, a := range auctions {
		c.drafts[a.ID] = &models.BidDraft{
			FormVisible:    false,
			ProposedAmount: a.CurrentPrice.Add(c.increment),
		}
	}
}

// ApplyPrice replaces the cached current price of one auction. Events
// for auctions outside the tracked set are ignored without side
// effects; the return value reports whether anything changed.
func (c *Catalog) ApplyPrice(auctionID string, amount decimal.Decimal) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.auctions {
		if c.auctions[i].ID == auctionID {
			c.auctions[i].CurrentPrice = amount
			return true
		}
	}
	return false
}

// Auctions returns a copy of the cached auction set.
func (c *Catalog) Auctions() []models.Auction {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Auction, len(c.auctions))
	copy(out, c.auctions)
	return out
}

// Len reports the number of cached auctions.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.auctions)
}

// Draft returns a copy of the bid draft for the given auction.
func (c *Catalog) Draft(auctionID string) (models.BidDraft, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	d, ok := c.drafts[auctionID]
	if !ok {
		return models.BidDraft{}, false
	}
	return *d, true
}

// ToggleBidForm shows or hides an auction's bid form. Unauthenticated
// callers get an inline error instead; previous errors clear on a
// successful toggle.
func (c *Catalog) ToggleBidForm(auctionID string, authenticated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.drafts[auctionID]
	if !ok {
		return
	}
	if !authenticated {
		d.LastError = "Debes iniciar sesión para pujar"
		return
	}
	d.FormVisible = !d.FormVisible
	d.LastError = ""
}

// CloseBidForm hides the form and clears its error state, as after a
// successful submission.
func (c *Catalog) CloseBidForm(auctionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.drafts[auctionID]; ok {
		d.FormVisible = false
		d.LastError = ""
	}
}

// SetProposedAmount records the user's edited bid amount.
func (c *Catalog) SetProposedAmount(auctionID string, amount decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.drafts[auctionID]; ok {
		d.ProposedAmount = amount
	}
}

// SetBidError records a per-auction submission error for rendering.
func (c *Catalog) SetBidError(auctionID, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.drafts[auctionID]; ok {
		d.LastError = message
	}
}
