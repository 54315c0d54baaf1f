package server

import (
	"io"

	"github.com/gorilla/websocket"

	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/pkg/errors"
)

// wsQuoteSender adapts a websocket connection to trading.QuoteSender.
type wsQuoteSender struct {
	conn *websocket.Conn
}

func (s *wsQuoteSender) Send(quote types.Quote) error {
	return s.conn.WriteJSON(Frame{Type: FrameTypeQuote, Quote: &quote})
}

// wsStatusSender adapts a websocket connection to trading.StatusSender.
type wsStatusSender struct {
	conn *websocket.Conn
}

func (s *wsStatusSender) Send(status types.TradeStatus) error {
	return s.conn.WriteJSON(Frame{Type: FrameTypeStatus, Status: &status})
}

// wsOrderReceiver adapts inbound order frames to trading.OrderReceiver.
// A complete frame maps to io.EOF; an error frame, a malformed frame, or
// a closed connection map to an abort.
type wsOrderReceiver struct {
	conn *websocket.Conn
}

func (r *wsOrderReceiver) Recv() (types.Order, error) {
	var frame Frame
	if err := r.conn.ReadJSON(&frame); err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			// The peer closed without a complete frame: treat as abort,
			// not completion, so no terminal response is produced.
			return types.Order{}, errors.Wrap(errors.ErrCodeStreamAborted, "peer closed stream", err)
		}

		return types.Order{}, errors.Wrap(errors.ErrCodeTransportFailed, "failed to read order frame", err)
	}

	switch frame.Type {
	case FrameTypeComplete:
		return types.Order{}, io.EOF
	case FrameTypeError:
		return types.Order{}, errors.Newf(errors.ErrCodeStreamAborted, "caller signalled error: %s", frame.Error)
	case FrameTypeOrder:
		if frame.Order == nil {
			return types.Order{}, errors.New(errors.ErrCodeInvalidFrame, "order frame without order payload")
		}

		if err := frame.Order.Validate(); err != nil {
			return types.Order{}, err
		}

		return *frame.Order, nil
	default:
		return types.Order{}, errors.Newf(errors.ErrCodeUnknownFrameType, "unexpected frame type %q on order stream", frame.Type)
	}
}
