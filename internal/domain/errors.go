package domain

import (
	"errors"
	"fmt"
)

// ErrMalformedPayload is reserved for datagrams of the correct length
// whose fields cannot be interpreted. The current fixed-width layout
// cannot produce it; callers handle it anyway so a framed format can be
// introduced without touching the ingest loop.
var ErrMalformedPayload = errors.New("malformed telemetry payload")

// InvalidLengthError reports a datagram whose size does not match the
// wire format.
type InvalidLengthError struct {
	Length int
}

func (e InvalidLengthError) Error() string {
	return fmt.Sprintf("invalid datagram length: %d bytes", e.Length)
}
