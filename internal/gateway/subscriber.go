package gateway

import (
	"context"

	"github.com/rvg-labs/stock-trading/pkg/client"
)

// ClientSubscriber adapts *client.Client to the Subscriber interface.
type ClientSubscriber struct {
	Client *client.Client
}

// SubscribeQuotes implements Subscriber.
func (s ClientSubscriber) SubscribeQuotes(ctx context.Context, symbol string) (Subscription, error) {
	sub, err := s.Client.SubscribeQuotes(ctx, symbol)
	if err != nil {
		return nil, err
	}

	return sub, nil
}
