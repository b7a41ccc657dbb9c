package catalog

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/laplataremata/remata-engine/internal/models"
)

func testAuctions() []models.Auction {
	end := time.Now().UTC().Add(time.Hour)
	return []models.Auction{
		{ID: "a1", Title: "Bicicleta", CurrentPrice: decimal.NewFromInt(1000), EndTime: end, OwnerID: "u1"},
		{ID: "a2", Title: "Guitarra", CurrentPrice: decimal.NewFromInt(5000), EndTime: end.Add(time.Hour), OwnerID: "u2"},
	}
}

func TestReplaceSeedsDrafts(t *testing.T) {
	cat := NewCatalog(decimal.NewFromInt(100))
	cat.Replace(testAuctions())

	require.Equal(t, 2, cat.Len())

	draft, ok := cat.Draft("a1")
	require.True(t, ok)
	require.False(t, draft.FormVisible)
	require.True(t, draft.ProposedAmount.Equal(decimal.NewFromInt(1100)))
	require.Empty(t, draft.LastError)

	draft, ok = cat.Draft("a2")
	require.True(t, ok)
	require.True(t, draft.ProposedAmount.Equal(decimal.NewFromInt(5100)))
}

func TestApplyPriceLastWriteWins(t *testing.T) {
	cat := NewCatalog(decimal.NewFromInt(100))
	cat.Replace(testAuctions())

	require.True(t, cat.ApplyPrice("a1", decimal.NewFromInt(1100)))
	require.True(t, cat.ApplyPrice("a1", decimal.NewFromInt(1300)))

	auctions := cat.Auctions()
	require.True(t, auctions[0].CurrentPrice.Equal(decimal.NewFromInt(1300)))
	// The other auction is untouched
	require.True(t, auctions[1].CurrentPrice.Equal(decimal.NewFromInt(5000)))
}

func TestApplyPriceIgnoresUnknownAuction(t *testing.T) {
	cat := NewCatalog(decimal.NewFromInt(100))
	cat.Replace(testAuctions())

	require.False(t, cat.ApplyPrice("ghost", decimal.NewFromInt(9999)))

	for _, a := range cat.Auctions() {
		require.False(t, a.CurrentPrice.Equal(decimal.NewFromInt(9999)))
	}
}

func TestToggleBidFormRequiresAuthentication(t *testing.T) {
	cat := NewCatalog(decimal.NewFromInt(100))
	cat.Replace(testAuctions())

	cat.ToggleBidForm("a1", false)
	draft, _ := cat.Draft("a1")
	require.False(t, draft.FormVisible)
	require.Equal(t, "Debes iniciar sesión para pujar", draft.LastError)

	cat.ToggleBidForm("a1", true)
	draft, _ = cat.Draft("a1")
	require.True(t, draft.FormVisible)
	require.Empty(t, draft.LastError)

	cat.ToggleBidForm("a1", true)
	draft, _ = cat.Draft("a1")
	require.False(t, draft.FormVisible)
}

func TestCloseBidFormClearsErrorState(t *testing.T) {
	cat := NewCatalog(decimal.NewFromInt(100))
	cat.Replace(testAuctions())

	cat.ToggleBidForm("a1", true)
	cat.SetBidError("a1", "Tu puja debe ser mayor a 1000")
	cat.CloseBidForm("a1")

	draft, _ := cat.Draft("a1")
	require.False(t, draft.FormVisible)
	require.Empty(t, draft.LastError)
}

func TestSetProposedAmount(t *testing.T) {
	cat := NewCatalog(decimal.NewFromInt(100))
	cat.Replace(testAuctions())

	cat.SetProposedAmount("a2", decimal.NewFromInt(6000))
	draft, _ := cat.Draft("a2")
	require.True(t, draft.ProposedAmount.Equal(decimal.NewFromInt(6000)))
}
