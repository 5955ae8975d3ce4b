package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/cortex/internal/logging"
	"github.com/aretw0/cortex/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// ErrNoSnapshot is returned by Latest when nothing has been mirrored yet.
var ErrNoSnapshot = errors.New("no snapshot mirrored")

// Mirror copies brain snapshots into Redis for out-of-process renderers.
// Each snapshot is PUBLISHed on a channel and SET as the latest value of a key.
// The brain never reads the mirror back.
type Mirror struct {
	client  *backend.Client
	prefix  string
	channel string
	key     string
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger

	// latest holds at most one pending snapshot; newer ones replace it.
	latest chan domain.Snapshot
}

// Option defines a functional option for configuring the Mirror.
type Option func(*Mirror)

// WithPrefix sets a prefix prepended to the channel and the key.
func WithPrefix(prefix string) Option {
	return func(m *Mirror) {
		m.prefix = prefix
	}
}

// WithChannel sets the pub/sub channel (default "snapshots").
func WithChannel(channel string) Option {
	return func(m *Mirror) {
		if channel != "" {
			m.channel = channel
		}
	}
}

// WithKey sets the key holding the latest snapshot (default "snapshot").
func WithKey(key string) Option {
	return func(m *Mirror) {
		if key != "" {
			m.key = key
		}
	}
}

// WithTTL sets the expiration of the latest snapshot key. Zero means no expiration.
func WithTTL(ttl time.Duration) Option {
	return func(m *Mirror) {
		m.ttl = ttl
	}
}

// WithTimeout bounds each write to Redis.
func WithTimeout(d time.Duration) Option {
	return func(m *Mirror) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger sets the mirror logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mirror) {
		m.logger = logger
	}
}

// New creates a mirror connected to addr.
func New(addr string, opts ...Option) *Mirror {
	client := backend.NewClient(&backend.Options{
		Addr: addr,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a mirror using an existing Redis client.
func NewFromClient(client *backend.Client, opts ...Option) *Mirror {
	m := &Mirror{
		client:  client,
		channel: "snapshots",
		key:     "snapshot",
		timeout: 2 * time.Second,
		logger:  logging.NewNop(),
		latest:  make(chan domain.Snapshot, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Channel returns the full pub/sub channel name.
func (m *Mirror) Channel() string { return m.prefix + m.channel }

// Key returns the full key of the latest snapshot.
func (m *Mirror) Key() string { return m.prefix + m.key }

// Ping checks connectivity.
func (m *Mirror) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (m *Mirror) Close() error {
	return m.client.Close()
}

// OnSnapshot implements graph.Observer. It never performs I/O: the snapshot is
// queued for Run, replacing any snapshot that has not been written yet.
func (m *Mirror) OnSnapshot(s domain.Snapshot) {
	for {
		select {
		case m.latest <- s:
			return
		default:
		}
		select {
		case <-m.latest:
		default:
		}
	}
}

// Run writes queued snapshots until ctx is cancelled.
// Write failures are logged and do not stop the loop.
func (m *Mirror) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-m.latest:
			wctx, cancel := context.WithTimeout(ctx, m.timeout)
			if err := m.Mirror(wctx, s); err != nil {
				m.logger.Warn("snapshot mirror failed", "version", s.Version, "error", err)
			}
			cancel()
		}
	}
}

// Mirror writes one snapshot: SET latest then PUBLISH, in a single transaction.
func (m *Mirror) Mirror(ctx context.Context, s domain.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	_, err = m.client.TxPipelined(ctx, func(pipe backend.Pipeliner) error {
		pipe.Set(ctx, m.Key(), data, m.ttl)
		pipe.Publish(ctx, m.Channel(), data)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis error mirroring snapshot: %w", err)
	}
	return nil
}

// Latest reads the most recently mirrored snapshot.
func (m *Mirror) Latest(ctx context.Context) (domain.Snapshot, error) {
	data, err := m.client.Get(ctx, m.Key()).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.Snapshot{}, ErrNoSnapshot
		}
		return domain.Snapshot{}, fmt.Errorf("redis error reading snapshot: %w", err)
	}

	var s domain.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return s, nil
}
