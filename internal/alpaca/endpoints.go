package alpaca

import "fmt"

// API endpoint paths, relative to the configured base URL.
const (
	EndpointAccount   = "/account"
	EndpointPositions = "/positions"
	EndpointClock     = "/clock"
	EndpointAssets    = "/assets/"
	EndpointOrders    = "/orders"
	EndpointOrder     = "/orders/"
)

func quoteEndpoint(symbol string) string {
	return fmt.Sprintf("/stocks/%s/quotes/latest", symbol)
}

func barsEndpoint(symbol string) string {
	return fmt.Sprintf("/stocks/%s/bars", symbol)
}
