// Package redisbus fans verified URL table updates out to every replica
// over a redis pub/sub channel.
package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/code-explainer-backend/internal/platform/logger"
)

const DefaultChannel = "concept-urls"

// ConceptUpdate is one table mutation. Origin identifies the publishing
// replica so it can skip its own echo.
type ConceptUpdate struct {
	Concept string    `json:"concept"`
	URL     string    `json:"url"`
	Origin  string    `json:"origin"`
	At      time.Time `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, u ConceptUpdate) error
	StartForwarder(ctx context.Context, onMsg func(u ConceptUpdate)) error
	Close() error
}

type Config struct {
	Addr    string
	Channel string
}

type bus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

// New connects and pings redis.
func New(ctx context.Context, cfg Config, log *logger.Logger) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(cfg.Channel)
	if ch == "" {
		ch = DefaultChannel
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &bus{
		log:     log.With("service", "RedisConceptBus", "channel", ch),
		rdb:     rdb,
		channel: ch,
	}, nil
}

// Client exposes the underlying connection for health collectors.
func Client(b Bus) *goredis.Client {
	if rb, ok := b.(*bus); ok && rb != nil {
		return rb.rdb
	}
	return nil
}

func (b *bus) Publish(ctx context.Context, u ConceptUpdate) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis concept bus not initialized")
	}
	raw, err := encode(u)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *bus) StartForwarder(ctx context.Context, onMsg func(u ConceptUpdate)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis concept bus not initialized")
	}
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				u, err := decode(m.Payload)
				if err != nil {
					b.log.Warn("bad concept update payload", "error", err)
					continue
				}
				onMsg(u)
			}
		}
	}()
	return nil
}

func (b *bus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}

func encode(u ConceptUpdate) ([]byte, error) {
	if strings.TrimSpace(u.Concept) == "" {
		return nil, fmt.Errorf("concept update missing concept")
	}
	if u.At.IsZero() {
		u.At = time.Now().UTC()
	}
	return json.Marshal(u)
}

func decode(payload string) (ConceptUpdate, error) {
	var u ConceptUpdate
	if err := json.Unmarshal([]byte(payload), &u); err != nil {
		return ConceptUpdate{}, err
	}
	if strings.TrimSpace(u.Concept) == "" || strings.TrimSpace(u.URL) == "" {
		return ConceptUpdate{}, fmt.Errorf("concept update missing concept or url")
	}
	return u, nil
}
