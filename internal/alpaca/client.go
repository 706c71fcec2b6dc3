package alpaca

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Auth header names, per the Alpaca REST API.
const (
	headerAPIKey    = "APCA-API-KEY-ID"
	headerAPISecret = "APCA-API-SECRET-KEY"
)

// Client wraps the brokerage REST API. It holds no state beyond the
// connection settings, so a single instance is safe for concurrent use.
type Client struct {
	rc *resty.Client
}

// NewClient builds a client for the given base URL and key pair. Every
// request carries the two auth headers and is bounded by timeout.
func NewClient(baseURL, apiKey, apiSecret string, timeout time.Duration) *Client {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader(headerAPIKey, apiKey).
		SetHeader(headerAPISecret, apiSecret)
	return &Client{rc: rc}
}

// Account fetches the trading account snapshot.
func (c *Client) Account(ctx context.Context) (*Account, error) {
	var out Account
	if err := c.get(ctx, EndpointAccount, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Positions fetches all open positions.
func (c *Client) Positions(ctx context.Context) ([]Position, error) {
	out := []Position{}
	if err := c.get(ctx, EndpointPositions, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Clock fetches the market clock.
func (c *Client) Clock(ctx context.Context) (*Clock, error) {
	var out Clock
	if err := c.get(ctx, EndpointClock, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Asset fetches the asset record for a symbol. The symbol is uppercased
// before the call.
func (c *Client) Asset(ctx context.Context, symbol string) (*Asset, error) {
	var out Asset
	if err := c.get(ctx, EndpointAssets+strings.ToUpper(symbol), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LatestQuote fetches the most recent quote for a symbol.
func (c *Client) LatestQuote(ctx context.Context, symbol string) (*LatestQuote, error) {
	var out LatestQuote
	if err := c.get(ctx, quoteEndpoint(strings.ToUpper(symbol)), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Bars fetches historical candles for a symbol.
func (c *Client) Bars(ctx context.Context, symbol string, q BarsQuery) (*Bars, error) {
	if q.Timeframe == "" {
		q.Timeframe = "1Day"
	}
	if q.Limit <= 0 {
		q.Limit = 100
	}
	params := map[string]string{
		"timeframe": q.Timeframe,
		"limit":     strconv.Itoa(q.Limit),
	}
	if q.Start != "" {
		params["start"] = q.Start
	}
	if q.End != "" {
		params["end"] = q.End
	}

	var out Bars
	if err := c.get(ctx, barsEndpoint(strings.ToUpper(symbol)), params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PlaceOrder submits an order. This is the only operation with an external
// side effect: it creates a real order upstream.
func (c *Client) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	req.Symbol = strings.ToUpper(req.Symbol)

	resp, err := c.rc.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post(EndpointOrders)

	var out Order
	if err := c.check("place order", resp, err, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Order fetches an order by id.
func (c *Client) Order(ctx context.Context, id string) (*Order, error) {
	var out Order
	if err := c.get(ctx, EndpointOrder+id, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params map[string]string, out any) error {
	req := c.rc.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(endpoint)
	return c.check("get "+endpoint, resp, err, out)
}

// check maps the three failure classes: network errors become
// TransportError, status >= 400 becomes UpstreamError, and only then is
// the body decoded.
func (c *Client) check(op string, resp *resty.Response, err error, out any) error {
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return &UpstreamError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return errors.Wrapf(err, "decode %s response", op)
		}
	}
	return nil
}
