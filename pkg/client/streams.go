package client

import (
	"context"
	"io"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/rvg-labs/stock-trading/internal/server"
	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/pkg/errors"
)

// QuoteSubscription is one server-streamed quote feed. Quotes() yields
// each emission; the channel closes when the feed completes or fails, at
// which point Err() reports the terminal condition (nil on clean
// completion).
type QuoteSubscription struct {
	symbol  string
	conn    *websocket.Conn
	quotes  chan types.Quote
	done    chan struct{}
	closing chan struct{}

	closeOnce sync.Once
	mu        sync.Mutex
	err       error
}

// Quotes returns the channel of feed emissions.
func (s *QuoteSubscription) Quotes() <-chan types.Quote {
	return s.quotes
}

// Err reports the terminal error of the feed. Valid once Quotes() is
// closed.
func (s *QuoteSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// Close tears down the subscription. Safe to call at any time, from any
// goroutine, including while the consumer has stopped draining Quotes().
func (s *QuoteSubscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.closing)
	})

	return s.conn.Close()
}

func (s *QuoteSubscription) setErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err == nil {
		s.err = err
	}
}

// watch closes the connection when ctx is cancelled so the read loop
// unblocks promptly.
func (s *QuoteSubscription) watch(ctx context.Context) {
	select {
	case <-ctx.Done():
		s.setErr(errors.Wrap(errors.ErrCodeFeedTerminated, "subscription cancelled", ctx.Err()))
		s.Close()
	case <-s.done:
	}
}

func (s *QuoteSubscription) read() {
	defer close(s.quotes)
	defer close(s.done)
	defer s.conn.Close()

	for {
		var frame server.Frame
		if err := s.conn.ReadJSON(&frame); err != nil {
			s.setErr(errors.Wrapf(errors.ErrCodeTransportFailed, err, "quote feed for %s failed", s.symbol))

			return
		}

		switch frame.Type {
		case server.FrameTypeQuote:
			if frame.Quote != nil {
				select {
				case s.quotes <- *frame.Quote:
				case <-s.closing:
					return
				}
			}
		case server.FrameTypeComplete:
			return
		case server.FrameTypeError:
			s.setErr(errors.Newf(errors.ErrCodeFeedTerminated, "quote feed for %s failed: %s", s.symbol, frame.Error))

			return
		default:
			s.setErr(errors.Newf(errors.ErrCodeUnknownFrameType, "unexpected frame type %q on quote feed", frame.Type))

			return
		}
	}
}

// BulkOrderStream is one client-streamed bulk order upload.
type BulkOrderStream struct {
	conn *websocket.Conn
}

// Send submits one order on the stream.
func (s *BulkOrderStream) Send(order types.Order) error {
	if err := s.conn.WriteJSON(server.Frame{Type: server.FrameTypeOrder, Order: &order}); err != nil {
		return errors.Wrap(errors.ErrCodeTransportFailed, "failed to send order", err)
	}

	return nil
}

// CloseAndRecv signals completion and waits for the terminal summary.
func (s *BulkOrderStream) CloseAndRecv() (types.OrderSummary, error) {
	defer s.conn.Close()

	if err := s.conn.WriteJSON(server.CompleteFrame()); err != nil {
		return types.OrderSummary{}, errors.Wrap(errors.ErrCodeTransportFailed, "failed to complete order stream", err)
	}

	var frame server.Frame
	if err := s.conn.ReadJSON(&frame); err != nil {
		return types.OrderSummary{}, errors.Wrap(errors.ErrCodeTransportFailed, "failed to read order summary", err)
	}

	switch frame.Type {
	case server.FrameTypeSummary:
		if frame.Summary == nil {
			return types.OrderSummary{}, errors.New(errors.ErrCodeInvalidFrame, "summary frame without summary payload")
		}

		return *frame.Summary, nil
	case server.FrameTypeError:
		return types.OrderSummary{}, errors.Newf(errors.ErrCodeStreamAborted, "bulk order stream failed: %s", frame.Error)
	default:
		return types.OrderSummary{}, errors.Newf(errors.ErrCodeUnknownFrameType, "unexpected frame type %q on order stream", frame.Type)
	}
}

// Abort signals a caller-side failure. The server discards the partial
// aggregation and produces no summary.
func (s *BulkOrderStream) Abort(reason string) error {
	defer s.conn.Close()

	if err := s.conn.WriteJSON(server.Frame{Type: server.FrameTypeError, Error: reason}); err != nil {
		return errors.Wrap(errors.ErrCodeTransportFailed, "failed to abort order stream", err)
	}

	return nil
}

// LiveTradingSession is one bidirectional live trading stream. The
// server replies with exactly one status per order, in order; callers
// typically alternate Send and Recv.
type LiveTradingSession struct {
	conn *websocket.Conn
}

// Send submits one order on the session.
func (s *LiveTradingSession) Send(order types.Order) error {
	if err := s.conn.WriteJSON(server.Frame{Type: server.FrameTypeOrder, Order: &order}); err != nil {
		return errors.Wrap(errors.ErrCodeTransportFailed, "failed to send order", err)
	}

	return nil
}

// Recv waits for the next trade status. Returns io.EOF after the server
// acknowledges completion.
func (s *LiveTradingSession) Recv() (types.TradeStatus, error) {
	var frame server.Frame
	if err := s.conn.ReadJSON(&frame); err != nil {
		return types.TradeStatus{}, errors.Wrap(errors.ErrCodeTransportFailed, "failed to read trade status", err)
	}

	switch frame.Type {
	case server.FrameTypeStatus:
		if frame.Status == nil {
			return types.TradeStatus{}, errors.New(errors.ErrCodeInvalidFrame, "status frame without status payload")
		}

		return *frame.Status, nil
	case server.FrameTypeComplete:
		return types.TradeStatus{}, io.EOF
	case server.FrameTypeError:
		return types.TradeStatus{}, errors.Newf(errors.ErrCodeStreamAborted, "live trading session failed: %s", frame.Error)
	default:
		return types.TradeStatus{}, errors.Newf(errors.ErrCodeUnknownFrameType, "unexpected frame type %q on trading session", frame.Type)
	}
}

// CloseSend signals that no more orders will be sent. The server answers
// with a completion frame once every pending status has been delivered.
func (s *LiveTradingSession) CloseSend() error {
	if err := s.conn.WriteJSON(server.CompleteFrame()); err != nil {
		return errors.Wrap(errors.ErrCodeTransportFailed, "failed to complete trading session", err)
	}

	return nil
}

// Close releases the session's connection.
func (s *LiveTradingSession) Close() error {
	return s.conn.Close()
}
