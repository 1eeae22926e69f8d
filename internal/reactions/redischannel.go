package reactions

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisChannel broadcasts over a redis Pub/Sub channel, for deployments
// where sibling contexts share a local broker instead of a filesystem.
// Redis delivers publishes back to the publisher; the engine's sender
// filter handles that.
type RedisChannel struct {
	client *redis.Client
	name   string
	sub    *redis.PubSub
	log    *zap.Logger

	mu     sync.Mutex
	fns    []func([]byte)
	cancel context.CancelFunc
	done   sync.WaitGroup
}

// OpenRedisChannel subscribes to the named channel on client. The client
// stays owned by the caller; Close only tears down the subscription.
func OpenRedisChannel(ctx context.Context, client *redis.Client, name string, log *zap.Logger) (*RedisChannel, error) {
	if log == nil {
		log = zap.NewNop()
	}

	sub := client.Subscribe(ctx, name)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	ch := &RedisChannel{
		client: client,
		name:   name,
		sub:    sub,
		log:    log,
		cancel: cancel,
	}
	ch.done.Add(1)
	go ch.receiveLoop(loopCtx)
	return ch, nil
}

// Publish sends payload to every subscriber of the channel.
func (c *RedisChannel) Publish(payload []byte) error {
	return c.client.Publish(context.Background(), c.name, payload).Err()
}

// Subscribe registers fn for inbound payloads.
func (c *RedisChannel) Subscribe(fn func([]byte)) {
	c.mu.Lock()
	c.fns = append(c.fns, fn)
	c.mu.Unlock()
}

func (c *RedisChannel) receiveLoop(ctx context.Context) {
	defer c.done.Done()
	msgs := c.sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			c.mu.Lock()
			fns := append(([]func([]byte))(nil), c.fns...)
			c.mu.Unlock()
			for _, fn := range fns {
				fn([]byte(msg.Payload))
			}
		}
	}
}

// Close unsubscribes and stops the receive loop.
func (c *RedisChannel) Close() error {
	c.cancel()
	err := c.sub.Close()
	c.done.Wait()
	return err
}
