package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tradebot/gopaca/internal/alpaca"
)

// MarketClient is the slice of the upstream client the guards consult.
// Guards only read; none of these operations mutate upstream state.
type MarketClient interface {
	Asset(ctx context.Context, symbol string) (*alpaca.Asset, error)
	Clock(ctx context.Context) (*alpaca.Clock, error)
	LatestQuote(ctx context.Context, symbol string) (*alpaca.LatestQuote, error)
	Account(ctx context.Context) (*alpaca.Account, error)
}

// ValidationError is a precondition failure meant for the caller: bad
// symbol, closed market, insufficient cash. The reason is always specific.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func invalidf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// AllowList is the optional set of permitted tickers. An empty list
// permits everything.
type AllowList map[string]struct{}

// NewAllowList builds the set from configured symbols, uppercasing and
// dropping blanks.
func NewAllowList(symbols []string) AllowList {
	a := make(AllowList, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s != "" {
			a[s] = struct{}{}
		}
	}
	return a
}

// Allows reports whether the symbol passes the list. Empty list means no
// restriction.
func (a AllowList) Allows(symbol string) bool {
	if len(a) == 0 {
		return true
	}
	_, ok := a[symbol]
	return ok
}

// slippage is the 1% buffer applied to estimated cost, covering price
// movement between quote and fill.
var slippage = decimal.RequireFromString("1.01")

// Symbol normalizes the ticker, applies the allow-list and checks
// tradability. The allow-list rejection happens before any upstream call.
func Symbol(ctx context.Context, c MarketClient, allowed AllowList, symbol string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	if s == "" {
		return "", invalidf("symbol is required")
	}
	if !allowed.Allows(s) {
		return "", invalidf("symbol '%s' not allowed", s)
	}
	asset, err := c.Asset(ctx, s)
	if err != nil {
		return "", err
	}
	if asset == nil || !asset.Tradable {
		return "", invalidf("asset '%s' not tradable", s)
	}
	return s, nil
}

// MarketOpen fails when the exchange clock reports the market closed.
func MarketOpen(ctx context.Context, c MarketClient) error {
	clock, err := c.Clock(ctx)
	if err != nil {
		return err
	}
	if !clock.IsOpen {
		return invalidf("market is closed")
	}
	return nil
}

// BuyingPower estimates the cost of a buy (ask * qty * 1.01) and checks it
// against the per-order cap first, then against available cash. Returns
// the live ask and the estimate on success. Sells never run this check.
func BuyingPower(ctx context.Context, c MarketClient, symbol string, qty int, maxOrderValue decimal.Decimal) (ask, estCost decimal.Decimal, err error) {
	quote, err := c.LatestQuote(ctx, symbol)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	ask = quote.Quote.AskPrice
	if !ask.IsPositive() {
		return decimal.Zero, decimal.Zero, invalidf("no live ask for %s", symbol)
	}

	estCost = ask.Mul(decimal.NewFromInt(int64(qty))).Mul(slippage)
	if estCost.GreaterThan(maxOrderValue) {
		return decimal.Zero, decimal.Zero, invalidf("order exceeds per-order cap $%s", maxOrderValue.StringFixed(2))
	}

	acct, err := c.Account(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if estCost.GreaterThan(acct.Cash) {
		return decimal.Zero, decimal.Zero, invalidf("insufficient cash: need ~$%s, have $%s",
			estCost.StringFixed(2), acct.Cash.StringFixed(2))
	}
	return ask, estCost, nil
}
