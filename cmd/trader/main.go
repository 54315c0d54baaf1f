// Command trader is a demo client exercising all four interaction shapes
// against a running server: a unary quote lookup, a bounded quote
// subscription, a bulk order upload, and a live trading session.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/rvg-labs/stock-trading/internal/types"
	"github.com/rvg-labs/stock-trading/internal/version"
	"github.com/rvg-labs/stock-trading/pkg/client"
)

func newClient(cmd *cli.Command) *client.Client {
	return client.New(cmd.String("server"))
}

func quoteAction(ctx context.Context, cmd *cli.Command) error {
	c := newClient(cmd)

	quote, err := c.GetQuote(ctx, cmd.String("symbol"))
	if err != nil {
		return err
	}

	fmt.Printf("%s: %.2f at %s\n", quote.Symbol, quote.Price, quote.Timestamp.Format(time.RFC3339))

	return nil
}

func subscribeAction(ctx context.Context, cmd *cli.Command) error {
	c := newClient(cmd)

	sub, err := c.SubscribeQuotes(ctx, cmd.String("symbol"))
	if err != nil {
		return err
	}
	defer sub.Close()

	for quote := range sub.Quotes() {
		fmt.Printf("%s: %.2f at %s\n", quote.Symbol, quote.Price, quote.Timestamp.Format(time.RFC3339))
	}

	if err := sub.Err(); err != nil {
		return err
	}

	fmt.Println("feed completed")

	return nil
}

func bulkAction(ctx context.Context, cmd *cli.Command) error {
	c := newClient(cmd)

	stream, err := c.BulkOrder(ctx)
	if err != nil {
		return err
	}

	orders := []types.Order{
		{OrderID: uuid.NewString(), Symbol: "AAPL", Side: types.OrderSideBuy, Price: 150.5, Quantity: 10},
		{OrderID: uuid.NewString(), Symbol: "GOOGL", Side: types.OrderSideBuy, Price: 2500.5, Quantity: 7},
		{OrderID: uuid.NewString(), Symbol: "TSLA", Side: types.OrderSideSell, Price: 300.0, Quantity: 5},
	}

	for _, order := range orders {
		fmt.Printf("sending order %s: %s %s x%d @ %.2f\n",
			order.OrderID, order.Side, order.Symbol, order.Quantity, order.Price)

		if err := stream.Send(order); err != nil {
			return err
		}
	}

	summary, err := stream.CloseAndRecv()
	if err != nil {
		return err
	}

	fmt.Printf("summary: %d orders, %d succeeded, total %.2f\n",
		summary.TotalOrders, summary.SuccessCount, summary.TotalAmount)

	return nil
}

func liveAction(ctx context.Context, cmd *cli.Command) error {
	c := newClient(cmd)

	session, err := c.LiveTrading(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	count := int(cmd.Int("orders"))

	for i := 0; i < count; i++ {
		order := types.Order{
			OrderID:  uuid.NewString(),
			Symbol:   "AAPL",
			Side:     types.OrderSideBuy,
			Price:    150.0 + float64(i),
			Quantity: int64(10 * i),
		}

		fmt.Printf("sending order %s: %s %s x%d @ %.2f\n",
			order.OrderID, order.Side, order.Symbol, order.Quantity, order.Price)

		if err := session.Send(order); err != nil {
			return err
		}

		status, err := session.Recv()
		if err != nil {
			return err
		}

		fmt.Printf("status %s: %s\n", status.Status, status.Message)

		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := session.CloseSend(); err != nil {
		return err
	}

	if _, err := session.Recv(); err != io.EOF {
		return err
	}

	fmt.Println("session closed")

	return nil
}

func main() {
	serverFlag := &cli.StringFlag{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Base URL of the streaming server",
		Value:   "http://localhost:8080",
	}
	symbolFlag := &cli.StringFlag{
		Name:  "symbol",
		Usage: "Stock ticker symbol",
		Value: "AAPL",
	}

	cmd := &cli.Command{
		Name:    "trader",
		Usage:   "Demo client for the stock trading streaming server",
		Version: version.Version,
		Commands: []*cli.Command{
			{
				Name:   "quote",
				Usage:  "Fetch a single quote",
				Flags:  []cli.Flag{serverFlag, symbolFlag},
				Action: quoteAction,
			},
			{
				Name:   "subscribe",
				Usage:  "Stream the bounded quote feed for a symbol",
				Flags:  []cli.Flag{serverFlag, symbolFlag},
				Action: subscribeAction,
			},
			{
				Name:   "bulk",
				Usage:  "Upload a batch of orders and print the summary",
				Flags:  []cli.Flag{serverFlag},
				Action: bulkAction,
			},
			{
				Name:  "live",
				Usage: "Run an interactive trading session, one order per second",
				Flags: []cli.Flag{
					serverFlag,
					&cli.IntFlag{
						Name:  "orders",
						Usage: "Number of orders to send",
						Value: 10,
					},
				},
				Action: liveAction,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
