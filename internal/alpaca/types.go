package alpaca

import (
	"time"

	"github.com/shopspring/decimal"
)

// Upstream payloads are modeled with just the fields this service reads;
// anything else the API sends is ignored. Alpaca serializes money and
// quantities as JSON strings, which decimal.Decimal decodes directly.

// Account is the trading account snapshot.
type Account struct {
	AccountNumber  string          `json:"account_number"`
	Status         string          `json:"status"`
	Currency       string          `json:"currency"`
	Cash           decimal.Decimal `json:"cash"`
	BuyingPower    decimal.Decimal `json:"buying_power"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
}

// Position is one open position.
type Position struct {
	Symbol        string          `json:"symbol"`
	Qty           decimal.Decimal `json:"qty"`
	Side          string          `json:"side"`
	AvgEntryPrice decimal.Decimal `json:"avg_entry_price"`
	MarketValue   decimal.Decimal `json:"market_value"`
	CurrentPrice  decimal.Decimal `json:"current_price"`
	UnrealizedPL  decimal.Decimal `json:"unrealized_pl"`
}

// Clock reports whether the market is open.
type Clock struct {
	Timestamp time.Time `json:"timestamp"`
	IsOpen    bool      `json:"is_open"`
	NextOpen  time.Time `json:"next_open"`
	NextClose time.Time `json:"next_close"`
}

// Asset describes a tradable instrument.
type Asset struct {
	ID       string `json:"id"`
	Class    string `json:"class"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Tradable bool   `json:"tradable"`
}

// Quote is the inner quote record; AskPrice stays zero when there is no
// live ask.
type Quote struct {
	Timestamp time.Time       `json:"t"`
	AskPrice  decimal.Decimal `json:"ap"`
	AskSize   int64           `json:"as"`
	BidPrice  decimal.Decimal `json:"bp"`
	BidSize   int64           `json:"bs"`
}

// LatestQuote is the GET /stocks/{symbol}/quotes/latest envelope.
type LatestQuote struct {
	Symbol string `json:"symbol"`
	Quote  Quote  `json:"quote"`
}

// Bar is one OHLCV candle.
type Bar struct {
	Timestamp time.Time       `json:"t"`
	Open      decimal.Decimal `json:"o"`
	High      decimal.Decimal `json:"h"`
	Low       decimal.Decimal `json:"l"`
	Close     decimal.Decimal `json:"c"`
	Volume    int64           `json:"v"`
}

// Bars is the GET /stocks/{symbol}/bars envelope.
type Bars struct {
	Symbol        string `json:"symbol"`
	Bars          []Bar  `json:"bars"`
	NextPageToken string `json:"next_page_token"`
}

// BarsQuery selects the historical window. Start/End are optional RFC 3339
// timestamps passed through as-is.
type BarsQuery struct {
	Timeframe string
	Limit     int
	Start     string
	End       string
}

// Order statuses this service reacts to. The upstream emits more (e.g.
// pending_new, partially_filled); anything outside the terminal set keeps
// the poll loop going.
const (
	OrderStatusNew      = "new"
	OrderStatusFilled   = "filled"
	OrderStatusCanceled = "canceled"
	OrderStatusRejected = "rejected"
	OrderStatusExpired  = "expired"
)

// Order type and time-in-force values supported in v1.
const (
	OrderTypeMarket = "market"
	TimeInForceDay  = "day"
)

// Order is a submitted order as reported by the upstream.
type Order struct {
	ID             string           `json:"id"`
	ClientOrderID  string           `json:"client_order_id"`
	Symbol         string           `json:"symbol"`
	Qty            decimal.Decimal  `json:"qty"`
	FilledQty      decimal.Decimal  `json:"filled_qty"`
	FilledAvgPrice *decimal.Decimal `json:"filled_avg_price"`
	Side           string           `json:"side"`
	Type           string           `json:"type"`
	TimeInForce    string           `json:"time_in_force"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}

// PlaceOrderRequest is the POST /orders body. Type and TimeInForce are
// pinned to market/day by the submission flow.
type PlaceOrderRequest struct {
	Symbol        string `json:"symbol"`
	Qty           int    `json:"qty"`
	Side          string `json:"side"`
	Type          string `json:"type"`
	TimeInForce   string `json:"time_in_force"`
	ClientOrderID string `json:"client_order_id,omitempty"`
}
