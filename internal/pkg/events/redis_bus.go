package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"
)

const defaultPublishTimeout = 2 * time.Second

// RedisBus publishes events as JSON on a Redis pub/sub channel.
type RedisBus struct {
	client  *redis.Client
	channel string
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRedisBus creates a bus publishing on channel.
func NewRedisBus(client *redis.Client, channel string) *RedisBus {
	return &RedisBus{
		client:  client,
		channel: channel,
		timeout: defaultPublishTimeout,
	}
}

// Emit publishes in the background and returns immediately. Failures are logged.
func (b *RedisBus) Emit(_ context.Context, name string, payload interface{}) {
	if b == nil || b.client == nil {
		return
	}
	data, err := json.Marshal(NewEvent(name, payload))
	if err != nil {
		log.Errorf("[Events] Could not encode %s event: %v", name, err)
		return
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		// detached from the caller: the request may finish before the publish does
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()
		if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
			log.Warnf("[Events] Publish %s to %s failed: %v", name, b.channel, err)
		}
	}()
}

// Wait blocks until in-flight publishes are done. Used on shutdown.
func (b *RedisBus) Wait() {
	if b == nil {
		return
	}
	b.wg.Wait()
}

// Subscribe decodes events from the channel until ctx is done.
func (b *RedisBus) Subscribe(ctx context.Context, handle func(Event)) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				log.Warnf("[Events] Dropping undecodable message on %s: %v", b.channel, err)
				continue
			}
			handle(ev)
		}
	}
}

// Trace logs every event seen on the channel at debug level until stop is
// called. stop blocks until the subscription is closed.
func (b *RedisBus) Trace(ctx context.Context) (stop func()) {
	if b == nil || b.client == nil {
		return func() {}
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		err := b.Subscribe(ctx, func(ev Event) {
			log.Debugf("[Events] Seen %s id=%s on %s", ev.Name, ev.ID, b.channel)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warnf("[Events] Trace on %s stopped: %v", b.channel, err)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}
