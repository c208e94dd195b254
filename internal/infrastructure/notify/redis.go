package notify

import (
	"context"
	"errors"
	"fmt"
	"os"

	redis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const changeChannel = "chat:conversation_changed"

// RedisChangeFeed relays conversation-change notifications across nodes over
// Redis pub/sub. Writers announce the conversation id after a message insert;
// listeners re-run the backing query and publish the fresh snapshot to their
// local livefeed hub. The payload is only the id, never message data.
type RedisChangeFeed struct {
	client *redis.Client
}

// NewRedisChangeFeedFromEnv constructs a change feed using the REDIS_URL env var.
func NewRedisChangeFeedFromEnv() (*RedisChangeFeed, error) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		return nil, errors.New("notify: REDIS_URL environment variable is not set")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("notify: parse url: %w", err)
	}
	return &RedisChangeFeed{client: redis.NewClient(opt)}, nil
}

// Announce publishes a change notification for the conversation.
func (f *RedisChangeFeed) Announce(ctx context.Context, conversationID string) error {
	return f.client.Publish(ctx, changeChannel, conversationID).Err()
}

// Listen blocks delivering conversation ids to fn until ctx is canceled.
func (f *RedisChangeFeed) Listen(ctx context.Context, fn func(conversationID string)) error {
	sub := f.client.Subscribe(ctx, changeChannel)
	defer func() {
		if err := sub.Close(); err != nil {
			logrus.WithError(err).Warn("notify: close subscription")
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return errors.New("notify: subscription channel closed")
			}
			fn(msg.Payload)
		}
	}
}

// Close releases the underlying client.
func (f *RedisChangeFeed) Close() error {
	return f.client.Close()
}
