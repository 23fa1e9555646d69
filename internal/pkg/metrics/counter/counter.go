package counter

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/redis/go-redis/v9"

	"github.com/ManuelReschke/PostFox/app/repository"
	"github.com/ManuelReschke/PostFox/internal/pkg/events"
)

const promptImpressionsKey = "prompt:counters:impressions"

const defaultFlushInterval = 15 * time.Second

// PromptCounter buffers upgrade prompt impressions in a Redis hash and
// periodically moves them into the prompt_stats table.
type PromptCounter struct {
	client   *redis.Client
	repo     repository.PromptStatRepository
	key      string
	interval time.Duration

	ticker  *time.Ticker
	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
}

// NewPromptCounter creates a counter. A nil repo keeps impressions in Redis
// until a database is configured.
func NewPromptCounter(client *redis.Client, repo repository.PromptStatRepository, interval time.Duration) *PromptCounter {
	if interval <= 0 {
		interval = defaultFlushInterval
	}
	return &PromptCounter{
		client:   client,
		repo:     repo,
		key:      promptImpressionsKey,
		interval: interval,
	}
}

// AddImpression increments the pending impression counter of promptID.
func (c *PromptCounter) AddImpression(ctx context.Context, promptID string) error {
	if c == nil || c.client == nil || promptID == "" {
		return nil
	}
	return c.client.HIncrBy(ctx, c.key, promptID, 1).Err()
}

// Pending returns impressions not yet flushed, by prompt id.
func (c *PromptCounter) Pending(ctx context.Context) (map[string]int64, error) {
	if c == nil || c.client == nil {
		return map[string]int64{}, nil
	}
	data, err := c.client.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, err
	}
	return parseCounts(data), nil
}

// Flush drains the Redis hash and applies the increments to the database.
// The hash is renamed first so increments arriving during the flush land in
// a fresh hash and are not lost.
func (c *PromptCounter) Flush(ctx context.Context) error {
	if c == nil || c.client == nil || c.repo == nil {
		return nil
	}

	tmpKey := fmt.Sprintf("%s:tmp:%d", c.key, time.Now().UnixNano())
	if err := c.client.Rename(ctx, c.key, tmpKey).Err(); err != nil {
		if isNoSuchKey(err) {
			return nil
		}
		return err
	}

	data, err := c.client.HGetAll(ctx, tmpKey).Result()
	if err != nil {
		// leave tmpKey for inspection; it is not merged back automatically
		return err
	}
	counts := parseCounts(data)
	if len(counts) == 0 {
		c.client.Del(ctx, tmpKey)
		return nil
	}

	if err := c.repo.AddImpressions(counts); err != nil {
		c.restore(ctx, tmpKey, counts)
		return err
	}
	c.client.Del(ctx, tmpKey)
	log.Debugf("[PromptCounter] Flushed impressions for %d prompts", len(counts))
	return nil
}

// restore puts counts back into the live hash after a failed database write.
func (c *PromptCounter) restore(ctx context.Context, tmpKey string, counts map[string]int64) {
	pipe := c.client.TxPipeline()
	for id, n := range counts {
		pipe.HIncrBy(ctx, c.key, id, n)
	}
	pipe.Del(ctx, tmpKey)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Errorf("[PromptCounter] Could not restore impressions from %s: %v", tmpKey, err)
	}
}

func parseCounts(data map[string]string) map[string]int64 {
	counts := make(map[string]int64, len(data))
	for id, raw := range data {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n == 0 {
			continue
		}
		counts[id] = n
	}
	return counts
}

func isNoSuchKey(err error) bool {
	if err == redis.Nil {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such key")
}

// Start launches the periodic flush worker.
func (c *PromptCounter) Start() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return
	}
	c.ticker = time.NewTicker(c.interval)
	c.stopCh = make(chan struct{})
	c.running = true

	c.wg.Add(1)
	go c.flushWorker(c.ticker, c.stopCh)
	log.Infof("[PromptCounter] Started flush worker (interval: %s)", c.interval)
}

// Stop halts the worker and performs a final flush.
func (c *PromptCounter) Stop() {
	if c == nil {
		return
	}
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.ticker.Stop()
	close(c.stopCh)
	c.running = false
	c.mu.Unlock()

	c.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Flush(ctx); err != nil {
		log.Errorf("[PromptCounter] Final flush failed: %v", err)
	}
	log.Info("[PromptCounter] Stopped")
}

func (c *PromptCounter) flushWorker(ticker *time.Ticker, stopCh chan struct{}) {
	defer c.wg.Done()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), c.interval)
			if err := c.Flush(ctx); err != nil {
				log.Errorf("[PromptCounter] Flush failed: %v", err)
			}
			cancel()
		}
	}
}

// promptPayload is implemented by upgrade prompt event payloads.
type promptPayload interface {
	PromptID() string
}

// Sink returns a bus that counts every upgrade prompt event.
func (c *PromptCounter) Sink() events.Bus {
	if c == nil {
		return events.Nop
	}
	return events.BusFunc(func(ctx context.Context, name string, payload interface{}) {
		if name != events.UpgradePromptShow {
			return
		}
		p, ok := payload.(promptPayload)
		if !ok {
			return
		}
		if err := c.AddImpression(ctx, p.PromptID()); err != nil {
			log.Warnf("[PromptCounter] Could not count impression of %s: %v", p.PromptID(), err)
		}
	})
}
