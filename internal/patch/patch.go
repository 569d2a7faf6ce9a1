// Package patch resolves named control values against the Redis store
// and the per-channel tables of the configuration file.
package patch

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/copsvsninjas/eegsynth/internal/config"
	"github.com/copsvsninjas/eegsynth/internal/logger"
)

const (
	defaultScale  = 255
	defaultOffset = 0
)

// Patch связывает конфигурацию и Redis.
type Patch struct {
	logger logger.Logger
	cfg    *config.Config
	rdb    *redis.Client
}

// NewPatch конструктор.
func NewPatch(log logger.Logger, cfg *config.Config) *Patch {
	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})

	return &Patch{
		logger: log,
		cfg:    cfg,
		rdb:    rdb,
	}
}

// Ping verifies the Redis connection before the loop starts.
func (p *Patch) Ping(ctx context.Context) error {
	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s:%s: %w", p.cfg.Redis.Host, p.cfg.Redis.Port, err)
	}
	return nil
}

// ChannelKey returns the configuration key of a zero-based channel
// index: channel001 .. channel512.
func ChannelKey(channel int) string {
	return fmt.Sprintf("channel%03d", channel+1)
}

// ChannelValue fetches the current control value for a channel. The
// second return is false when the channel has no value this cycle:
// either no [input] entry maps it, or its Redis key is not set. That
// is not an error, the caller leaves the channel untouched.
func (p *Patch) ChannelValue(ctx context.Context, channel int) (float64, bool, error) {
	key, ok := p.cfg.Input[ChannelKey(channel)]
	if !ok {
		return 0, false, nil
	}

	raw, err := p.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get %q: %w", key, err)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, fmt.Errorf("value of %q is not a number: %w", key, err)
	}
	return v, true, nil
}

// Scale returns the scale for a channel, resolved once per call so that
// external edits between cycles take effect. Default 255.
func (p *Patch) Scale(ctx context.Context, channel int) float64 {
	return p.resolve(ctx, p.cfg.Scale, channel, defaultScale)
}

// Offset returns the offset for a channel. Default 0.
func (p *Patch) Offset(ctx context.Context, channel int) float64 {
	return p.resolve(ctx, p.cfg.Offset, channel, defaultOffset)
}

// resolve looks a channel up in a scale/offset table. A table entry is
// either a numeric literal or the name of a Redis key holding the
// number, which is what makes these options hot-reloadable.
func (p *Patch) resolve(ctx context.Context, table map[string]string, channel int, def float64) float64 {
	entry, ok := table[ChannelKey(channel)]
	if !ok {
		return def
	}

	if v, ok := ParseNumber(entry); ok {
		return v
	}

	raw, err := p.rdb.Get(ctx, entry).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			p.logger.With(logger.Fields{"module": "patch"}).Debugf("failed to get %q: %v", entry, err)
		}
		return def
	}
	if v, ok := ParseNumber(raw); ok {
		return v
	}
	return def
}

// ParseNumber reports whether s is a numeric literal.
func ParseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	return v, err == nil
}

// Close releases the Redis connection.
func (p *Patch) Close() error {
	return p.rdb.Close()
}
