package alpaca

import "fmt"

// UpstreamError is returned when the brokerage answers with a non-success
// status. The raw body is kept for diagnosis.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("alpaca error %d: %s", e.StatusCode, e.Body)
}

// TransportError is returned when the request never produced a response
// (timeout, connection refused, DNS failure).
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("alpaca %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
