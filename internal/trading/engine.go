package trading

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tradebot/gopaca/internal/alpaca"
	"github.com/tradebot/gopaca/internal/guard"
)

// BrokerClient is everything the engine needs from the upstream client.
type BrokerClient interface {
	guard.MarketClient
	PlaceOrder(ctx context.Context, req alpaca.PlaceOrderRequest) (*alpaca.Order, error)
	Order(ctx context.Context, id string) (*alpaca.Order, error)
}

// PollPolicy bounds the wait for an order to reach a terminal status.
type PollPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// DefaultPollPolicy matches the production behavior: up to 10 polls, one
// second apart.
var DefaultPollPolicy = PollPolicy{MaxAttempts: 10, Interval: time.Second}

// Engine runs the guarded order submission flow. It holds no per-request
// state; every submission re-fetches fresh upstream data.
type Engine struct {
	client        BrokerClient
	allowed       guard.AllowList
	maxOrderValue decimal.Decimal
	poll          PollPolicy
	log           *logrus.Entry
}

// NewEngine wires the flow. A zero-valued poll falls back to the default
// policy; tests inject a zero-interval one.
func NewEngine(client BrokerClient, allowed guard.AllowList, maxOrderValue decimal.Decimal, poll PollPolicy) *Engine {
	if poll.MaxAttempts <= 0 {
		poll = DefaultPollPolicy
	}
	return &Engine{
		client:        client,
		allowed:       allowed,
		maxOrderValue: maxOrderValue,
		poll:          poll,
		log:           logrus.WithField("module", "trading"),
	}
}

// Submit validates the request, runs the guards in fixed order (symbol,
// market-open, then buying-power for buys only), places a market/day order
// and polls it until terminal or the budget runs out. Any guard failure
// aborts before anything is submitted.
//
// Sells intentionally skip the buying-power guard; there is also no check
// that the account holds the position being sold. That asymmetry is
// carried over from the original behavior.
func (e *Engine) Submit(ctx context.Context, req OrderRequest) (*SubmitResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	symbol, err := guard.Symbol(ctx, e.client, e.allowed, req.Symbol)
	if err != nil {
		return nil, err
	}
	if err := guard.MarketOpen(ctx, e.client); err != nil {
		return nil, err
	}
	if req.Side == SideBuy {
		ask, estCost, err := guard.BuyingPower(ctx, e.client, symbol, req.Qty, e.maxOrderValue)
		if err != nil {
			return nil, err
		}
		e.log.WithFields(logrus.Fields{
			"symbol":   symbol,
			"qty":      req.Qty,
			"ask":      ask,
			"est_cost": estCost,
		}).Debug("buying power check passed")
	}

	submitted, err := e.client.PlaceOrder(ctx, alpaca.PlaceOrderRequest{
		Symbol:        symbol,
		Qty:           req.Qty,
		Side:          string(req.Side),
		Type:          alpaca.OrderTypeMarket,
		TimeInForce:   alpaca.TimeInForceDay,
		ClientOrderID: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}
	e.log.WithFields(logrus.Fields{
		"order_id": submitted.ID,
		"symbol":   symbol,
		"side":     req.Side,
		"qty":      req.Qty,
	}).Info("order submitted")

	return e.awaitTerminal(ctx, submitted)
}

// awaitTerminal polls the order by id. A terminal status on the first poll
// returns immediately; exhausting the budget is a soft outcome, not an
// error.
func (e *Engine) awaitTerminal(ctx context.Context, submitted *alpaca.Order) (*SubmitResult, error) {
	for attempt := 1; attempt <= e.poll.MaxAttempts; attempt++ {
		current, err := e.client.Order(ctx, submitted.ID)
		if err != nil {
			return nil, err
		}
		if isTerminal(current.Status) {
			e.log.WithFields(logrus.Fields{
				"order_id": current.ID,
				"status":   current.Status,
				"attempts": attempt,
			}).Info("order reached terminal status")
			return &SubmitResult{Submitted: submitted, Final: current}, nil
		}
		if attempt == e.poll.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(e.poll.Interval):
		}
	}

	e.log.WithField("order_id", submitted.ID).Warn("order still pending after poll budget")
	return &SubmitResult{Submitted: submitted, Note: "order pending; check status later"}, nil
}
