// Package command parses the constrained "buy TICKER --AMOUNT" text
// grammar into a structured order request.
package command

import (
	"strconv"
	"strings"

	"github.com/tradebot/gopaca/internal/guard"
	"github.com/tradebot/gopaca/internal/trading"
)

const quantityPrefix = "--"

var errFormat = &guard.ValidationError{
	Reason: "format must be: buy TICKER --AMOUNT (e.g. 'buy NVDA --2')",
}

// Parse accepts exactly `<side> <symbol> --<quantity>`. The quantity token
// is taken from the third position when it carries the -- prefix, else
// from the last token. That fallback accepts some malformed inputs with
// trailing tokens; it is kept deliberately.
func Parse(raw string) (trading.OrderRequest, error) {
	parts := strings.Fields(strings.TrimSpace(raw))
	if len(parts) < 3 {
		return trading.OrderRequest{}, errFormat
	}

	sideTok := strings.ToLower(parts[0])
	symbol := strings.ToUpper(parts[1])

	qtyTok := parts[2]
	if !strings.HasPrefix(qtyTok, quantityPrefix) {
		qtyTok = parts[len(parts)-1]
	}
	if !strings.HasPrefix(qtyTok, quantityPrefix) {
		return trading.OrderRequest{}, errFormat
	}
	qty, err := strconv.Atoi(strings.TrimPrefix(qtyTok, quantityPrefix))
	if err != nil {
		return trading.OrderRequest{}, errFormat
	}

	side, err := trading.ParseSide(sideTok)
	if err != nil {
		return trading.OrderRequest{}, err
	}
	if qty <= 0 {
		return trading.OrderRequest{}, &guard.ValidationError{Reason: "quantity must be > 0"}
	}

	return trading.OrderRequest{Symbol: symbol, Qty: qty, Side: side}, nil
}
