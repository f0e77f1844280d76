package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultChannel = "careerpath.events"

// RedisConfig configures the Redis-backed bus.
type RedisConfig struct {
	Addr    string
	Channel string
}

// RedisConfigFromEnv reads CAREERPATH_REDIS_ADDR and CAREERPATH_REDIS_CHANNEL.
func RedisConfigFromEnv() RedisConfig {
	return RedisConfig{
		Addr:    strings.TrimSpace(os.Getenv("CAREERPATH_REDIS_ADDR")),
		Channel: strings.TrimSpace(os.Getenv("CAREERPATH_REDIS_CHANNEL")),
	}
}

// redisBus publishes to a Redis channel and forwards everything received on
// it to local subscribers, so events published by other processes reach
// this one too.
type redisBus struct {
	local   *LocalBus
	rdb     *goredis.Client
	channel string
	log     *zap.Logger
	cancel  context.CancelFunc
}

// NewRedisBus connects to Redis and starts the forwarder.
func NewRedisBus(ctx context.Context, cfg RedisConfig, logger *zap.Logger) (Bus, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if cfg.Channel == "" {
		cfg.Channel = defaultChannel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	defer cancelPing()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	fwdCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	b := &redisBus{
		local:   NewLocalBus(),
		rdb:     rdb,
		channel: cfg.Channel,
		log:     logger.Named("notify"),
		cancel:  cancel,
	}
	if err := b.startForwarder(fwdCtx); err != nil {
		cancel()
		_ = rdb.Close()
		return nil, err
	}
	return b, nil
}

func (b *redisBus) Publish(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

func (b *redisBus) Subscribe(fn func(Event)) func() {
	return b.local.Subscribe(fn)
}

func (b *redisBus) startForwarder(ctx context.Context) error {
	sub := b.rdb.Subscribe(ctx, b.channel)

	// Wait for the subscription confirmation so no early publish is missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
					b.log.Warn("bad event payload", zap.Error(err))
					continue
				}
				b.local.deliver(ev)
			}
		}
	}()
	return nil
}

func (b *redisBus) Close() error {
	b.cancel()
	_ = b.local.Close()
	return b.rdb.Close()
}

// FromEnv returns a Redis bus when CAREERPATH_REDIS_ADDR is set and a local
// bus otherwise. A Redis connection failure falls back to the local bus.
func FromEnv(ctx context.Context, logger *zap.Logger) Bus {
	cfg := RedisConfigFromEnv()
	if cfg.Addr == "" {
		return NewLocalBus()
	}
	b, err := NewRedisBus(ctx, cfg, logger)
	if err != nil {
		if logger != nil {
			logger.Warn("redis event bus unavailable, using local bus", zap.Error(err))
		}
		return NewLocalBus()
	}
	return b
}
