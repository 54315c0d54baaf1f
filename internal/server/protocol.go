package server

import (
	"github.com/rvg-labs/stock-trading/internal/types"
)

// FrameType discriminates the messages exchanged on a websocket stream.
type FrameType string

const (
	// FrameTypeSubscribe opens a quote subscription (client -> server).
	FrameTypeSubscribe FrameType = "subscribe"
	// FrameTypeOrder carries one order (client -> server).
	FrameTypeOrder FrameType = "order"
	// FrameTypeQuote carries one quote emission (server -> client).
	FrameTypeQuote FrameType = "quote"
	// FrameTypeStatus carries one per-order trade status (server -> client).
	FrameTypeStatus FrameType = "status"
	// FrameTypeSummary carries the terminal bulk order summary (server -> client).
	FrameTypeSummary FrameType = "summary"
	// FrameTypeComplete signals clean end of stream in either direction.
	FrameTypeComplete FrameType = "complete"
	// FrameTypeError signals an abort in either direction.
	FrameTypeError FrameType = "error"
)

// Frame is the envelope for every websocket message. Exactly one payload
// field is set, matching Type.
type Frame struct {
	Type    FrameType           `json:"type"`
	Symbol  string              `json:"symbol,omitempty"`
	Quote   *types.Quote        `json:"quote,omitempty"`
	Order   *types.Order        `json:"order,omitempty"`
	Status  *types.TradeStatus  `json:"status,omitempty"`
	Summary *types.OrderSummary `json:"summary,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// ErrorFrame builds an error frame from an error.
func ErrorFrame(err error) Frame {
	return Frame{Type: FrameTypeError, Error: err.Error()}
}

// CompleteFrame builds a completion frame.
func CompleteFrame() Frame {
	return Frame{Type: FrameTypeComplete}
}
