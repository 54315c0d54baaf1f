// Package server exposes the trading service over HTTP and websocket
// endpoints: a unary quote lookup, a server-streamed quote subscription,
// a client-streamed bulk order upload, and a bidirectional live trading
// session. Each inbound connection is handled on its own goroutine; the
// only state shared across connections is the quote store behind the
// service.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/rvg-labs/stock-trading/internal/logger"
	"github.com/rvg-labs/stock-trading/internal/trading"
	"github.com/rvg-labs/stock-trading/pkg/errors"
)

// Server serves the four RPC shapes.
type Server struct {
	service  *trading.Service
	logger   *logger.Logger
	upgrader websocket.Upgrader

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a Server around the given service.
func NewServer(service *trading.Service, log *logger.Logger) *Server {
	return &Server{
		service: service,
		logger:  log,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		httpServer: nil,
		listener:   nil,
	}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/api/v1/quotes/{symbol}", s.handleGetQuote).Methods("GET")
	router.HandleFunc("/ws/quotes", s.handleSubscribeQuotes)
	router.HandleFunc("/ws/orders/bulk", s.handleBulkOrder)
	router.HandleFunc("/ws/trading/live", s.handleLiveTrading)

	return router
}

// Start begins serving on the given address. An empty address or ":0"
// picks a random port; Addr reports the bound address.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{Handler: s.Handler()}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("server stopped", zap.Error(err))
		}
	}()

	s.logger.Info("server listening", zap.String("address", s.Addr()))

	return nil
}

// Addr returns the bound address after Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Shutdown stops accepting connections and waits for in-flight requests
// up to the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// errorBody is the JSON body of a failed unary request.
type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	symbol := mux.Vars(r)["symbol"]

	quote, err := s.service.GetQuote(r.Context(), symbol)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.HasCode(err, errors.ErrCodeSymbolNotFound) {
			status = http.StatusNotFound
		}

		s.writeJSON(w, status, errorBody{Error: err.Error()})

		return
	}

	s.writeJSON(w, http.StatusOK, quote)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

// handleSubscribeQuotes upgrades the connection, reads one subscribe
// frame, then pushes the bounded quote feed. A reader goroutine watches
// for the consumer going away and cancels the feed promptly.
func (s *Server) handleSubscribeQuotes(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		return
	}

	if frame.Type != FrameTypeSubscribe || frame.Symbol == "" {
		s.writeFrame(conn, ErrorFrame(errors.New(errors.ErrCodeInvalidFrame, "expected subscribe frame with symbol")))

		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				cancel()

				return
			}
		}
	}()

	err = s.service.SubscribeQuotes(ctx, frame.Symbol, &wsQuoteSender{conn: conn})
	if err != nil {
		s.logger.Warn("quote subscription ended with error",
			zap.String("symbol", frame.Symbol),
			zap.Error(err))
		s.writeFrame(conn, ErrorFrame(err))

		return
	}

	s.writeFrame(conn, CompleteFrame())
	s.closeNormally(conn)
}

// handleBulkOrder upgrades the connection and aggregates inbound orders
// until the caller completes the stream, then replies with the summary.
// On abort nothing is sent back.
func (s *Server) handleBulkOrder(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	summary, err := s.service.BulkOrder(r.Context(), &wsOrderReceiver{conn: conn})
	if err != nil {
		s.logger.Warn("bulk order stream ended with error", zap.Error(err))
		s.writeFrame(conn, ErrorFrame(err))

		return
	}

	s.writeFrame(conn, Frame{Type: FrameTypeSummary, Summary: &summary})
	s.closeNormally(conn)
}

// handleLiveTrading upgrades the connection and runs a live trading
// session: one status frame per order frame, completion echoed after all
// statuses are delivered.
func (s *Server) handleLiveTrading(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	err = s.service.LiveTrading(r.Context(), &wsOrderReceiver{conn: conn}, &wsStatusSender{conn: conn})
	if err != nil {
		s.logger.Warn("live trading session ended with error", zap.Error(err))
		s.writeFrame(conn, ErrorFrame(err))

		return
	}

	s.writeFrame(conn, CompleteFrame())
	s.closeNormally(conn)
}

// writeFrame is best effort: the peer may already be gone on the error
// paths that use it.
func (s *Server) writeFrame(conn *websocket.Conn, frame Frame) {
	if err := conn.WriteJSON(frame); err != nil {
		s.logger.Debug("failed to write frame", zap.Error(err))
	}
}

func (s *Server) closeNormally(conn *websocket.Conn) {
	message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := conn.WriteMessage(websocket.CloseMessage, message); err != nil {
		s.logger.Debug("failed to write close message", zap.Error(err))
	}
}
