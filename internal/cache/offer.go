package cache

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
)

const (
	offerKey     = "offer:current"
	offerChannel = "offer:updates"
)

// OfferFeed holds the single mutable "current offer" string the shop
// owner controls, plus a change feed so storefront sessions learn about
// updates without polling.
type OfferFeed struct {
	redis *redis.Client
}

func NewOfferFeed(redis *redis.Client) *OfferFeed {
	return &OfferFeed{redis: redis}
}

// Get returns the current offer; empty string when none is set.
func (f *OfferFeed) Get(ctx context.Context) (string, error) {
	val, err := f.redis.Get(ctx, offerKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get offer: %w", err)
	}
	return val, nil
}

// Set stores the new offer and publishes it to subscribers. An empty
// value clears the offer.
func (f *OfferFeed) Set(ctx context.Context, offer string) error {
	if err := f.redis.Set(ctx, offerKey, offer, 0).Err(); err != nil {
		return fmt.Errorf("failed to set offer: %w", err)
	}
	if err := f.redis.Publish(ctx, offerChannel, offer).Err(); err != nil {
		return fmt.Errorf("failed to publish offer: %w", err)
	}
	return nil
}

// Subscribe yields each offer update until ctx is cancelled. The
// returned channel is closed on cancellation or subscription failure.
func (f *OfferFeed) Subscribe(ctx context.Context) <-chan string {
	sub := f.redis.Subscribe(ctx, offerChannel)
	return forward(ctx, sub.Channel(), sub.Close)
}

// forward pumps message payloads into a plain string channel. The
// output is closed, and the subscription released, when ctx is
// cancelled or the source channel closes.
func forward(ctx context.Context, in <-chan *redis.Message, closeSub func() error) <-chan string {
	out := make(chan string)

	go func() {
		defer close(out)
		defer closeSub()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-in:
				if !ok {
					log.Printf("offer subscription closed")
					return
				}
				select {
				case out <- msg.Payload:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out
}
