package guard

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradebot/gopaca/internal/alpaca"
)

type fakeClient struct {
	asset   *alpaca.Asset
	clock   *alpaca.Clock
	quote   *alpaca.LatestQuote
	account *alpaca.Account

	assetCalls   int
	clockCalls   int
	quoteCalls   int
	accountCalls int
}

func (f *fakeClient) Asset(ctx context.Context, symbol string) (*alpaca.Asset, error) {
	f.assetCalls++
	return f.asset, nil
}

func (f *fakeClient) Clock(ctx context.Context) (*alpaca.Clock, error) {
	f.clockCalls++
	return f.clock, nil
}

func (f *fakeClient) LatestQuote(ctx context.Context, symbol string) (*alpaca.LatestQuote, error) {
	f.quoteCalls++
	return f.quote, nil
}

func (f *fakeClient) Account(ctx context.Context) (*alpaca.Account, error) {
	f.accountCalls++
	return f.account, nil
}

func quoteWithAsk(ask string) *alpaca.LatestQuote {
	return &alpaca.LatestQuote{
		Symbol: "NVDA",
		Quote:  alpaca.Quote{AskPrice: decimal.RequireFromString(ask)},
	}
}

func accountWithCash(cash string) *alpaca.Account {
	return &alpaca.Account{Cash: decimal.RequireFromString(cash)}
}

func TestSymbolAllowListRejectsBeforeUpstream(t *testing.T) {
	c := &fakeClient{}
	allowed := NewAllowList([]string{"aapl", "NVDA"})

	_, err := Symbol(context.Background(), c, allowed, "msft")
	require.Error(t, err)
	assert.EqualError(t, err, "symbol 'MSFT' not allowed")
	assert.Zero(t, c.assetCalls, "rejection must happen before any upstream call")
}

func TestSymbolNormalizesAndAccepts(t *testing.T) {
	c := &fakeClient{asset: &alpaca.Asset{Symbol: "NVDA", Tradable: true}}

	got, err := Symbol(context.Background(), c, NewAllowList([]string{"NVDA"}), "nvda")
	require.NoError(t, err)
	assert.Equal(t, "NVDA", got)
	assert.Equal(t, 1, c.assetCalls)
}

func TestSymbolEmptyAllowListPermitsAnything(t *testing.T) {
	c := &fakeClient{asset: &alpaca.Asset{Symbol: "TSLA", Tradable: true}}

	got, err := Symbol(context.Background(), c, nil, "tsla")
	require.NoError(t, err)
	assert.Equal(t, "TSLA", got)
}

func TestSymbolNotTradable(t *testing.T) {
	c := &fakeClient{asset: &alpaca.Asset{Symbol: "NVDA", Tradable: false}}

	_, err := Symbol(context.Background(), c, nil, "NVDA")
	assert.EqualError(t, err, "asset 'NVDA' not tradable")
}

func TestSymbolEmpty(t *testing.T) {
	c := &fakeClient{}
	_, err := Symbol(context.Background(), c, nil, "  ")
	assert.EqualError(t, err, "symbol is required")
	assert.Zero(t, c.assetCalls)
}

func TestMarketOpen(t *testing.T) {
	c := &fakeClient{clock: &alpaca.Clock{IsOpen: true}}
	require.NoError(t, MarketOpen(context.Background(), c))

	c.clock.IsOpen = false
	assert.EqualError(t, MarketOpen(context.Background(), c), "market is closed")
}

func TestBuyingPowerNoLiveAsk(t *testing.T) {
	c := &fakeClient{quote: quoteWithAsk("0")}

	_, _, err := BuyingPower(context.Background(), c, "NVDA", 1, decimal.NewFromInt(1000))
	assert.EqualError(t, err, "no live ask for NVDA")
	assert.Zero(t, c.accountCalls)
}

func TestBuyingPowerCapExceededSkipsAccount(t *testing.T) {
	// 600 * 2 * 1.01 = 1212 > 1000; cash is never consulted.
	c := &fakeClient{quote: quoteWithAsk("600"), account: accountWithCash("1000000")}

	_, _, err := BuyingPower(context.Background(), c, "NVDA", 2, decimal.NewFromInt(1000))
	assert.EqualError(t, err, "order exceeds per-order cap $1000.00")
	assert.Zero(t, c.accountCalls, "cap rejection must not fetch the account")
}

func TestBuyingPowerInsufficientCash(t *testing.T) {
	// 100 * 2 * 1.01 = 202 > 100 cash, but under the cap.
	c := &fakeClient{quote: quoteWithAsk("100"), account: accountWithCash("100")}

	_, _, err := BuyingPower(context.Background(), c, "NVDA", 2, decimal.NewFromInt(1000))
	assert.EqualError(t, err, "insufficient cash: need ~$202.00, have $100.00")
}

func TestBuyingPowerOK(t *testing.T) {
	c := &fakeClient{quote: quoteWithAsk("100"), account: accountWithCash("5000")}

	ask, estCost, err := BuyingPower(context.Background(), c, "NVDA", 2, decimal.NewFromInt(1000))
	require.NoError(t, err)
	assert.True(t, ask.Equal(decimal.RequireFromString("100")), "ask = %s", ask)
	assert.True(t, estCost.Equal(decimal.RequireFromString("202")), "estCost = %s", estCost)
}

func TestGuardsAreIdempotent(t *testing.T) {
	c := &fakeClient{
		asset:   &alpaca.Asset{Symbol: "NVDA", Tradable: true},
		clock:   &alpaca.Clock{IsOpen: true},
		quote:   quoteWithAsk("100"),
		account: accountWithCash("5000"),
	}
	ctx := context.Background()
	allowed := NewAllowList([]string{"NVDA"})

	for i := 0; i < 2; i++ {
		got, err := Symbol(ctx, c, allowed, "nvda")
		require.NoError(t, err)
		assert.Equal(t, "NVDA", got)

		require.NoError(t, MarketOpen(ctx, c))

		_, estCost, err := BuyingPower(ctx, c, "NVDA", 2, decimal.NewFromInt(1000))
		require.NoError(t, err)
		assert.True(t, estCost.Equal(decimal.RequireFromString("202")))
	}
}
