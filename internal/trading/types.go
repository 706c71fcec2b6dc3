package trading

import (
	"strings"

	"github.com/tradebot/gopaca/internal/alpaca"
	"github.com/tradebot/gopaca/internal/guard"
)

// Side is the order direction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide accepts "buy" or "sell", case-insensitively.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", &guard.ValidationError{Reason: "side must be 'buy' or 'sell'"}
	}
}

// OrderRequest is a structured order, either decoded from the /order body
// or produced by the text command parser. It lives for one submission and
// is never persisted.
type OrderRequest struct {
	Symbol string `json:"symbol"`
	Qty    int    `json:"qty"`
	Side   Side   `json:"side"`
}

// Validate enforces the request invariants before any guard runs and
// canonicalizes the side, so later dispatch and the wire value never see
// a mixed-case variant.
func (r *OrderRequest) Validate() error {
	if strings.TrimSpace(r.Symbol) == "" {
		return &guard.ValidationError{Reason: "symbol is required"}
	}
	if r.Qty <= 0 {
		return &guard.ValidationError{Reason: "quantity must be > 0"}
	}
	side, err := ParseSide(string(r.Side))
	if err != nil {
		return err
	}
	r.Side = side
	return nil
}

// SubmitResult is the outcome of a submission. Final is set when the order
// reached a terminal status inside the poll budget; otherwise Note carries
// the soft "check later" outcome.
type SubmitResult struct {
	Submitted *alpaca.Order `json:"submitted"`
	Final     *alpaca.Order `json:"final,omitempty"`
	Note      string        `json:"note,omitempty"`
}

// terminalStatuses are the order states after which nothing changes.
var terminalStatuses = map[string]struct{}{
	alpaca.OrderStatusFilled:   {},
	alpaca.OrderStatusCanceled: {},
	alpaca.OrderStatusRejected: {},
	alpaca.OrderStatusExpired:  {},
}

func isTerminal(status string) bool {
	_, ok := terminalStatuses[status]
	return ok
}
