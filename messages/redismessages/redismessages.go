// Package redismessages is a Redis-backed messages.Table for deployments
// where several hosts serve the same API and the exchange table must be
// shared. Entries are stored as JSON under one key per exchange.
//
// The Table contract reports absence, never transport failure; Redis errors
// are logged and surfaced to callers as "no mapping".
package redismessages

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/joeshaw/envdecode"
	"github.com/redis/go-redis/v9"

	"github.com/hypermedia-go/hyperapi/messages"
)

// Config for the Redis-backed table. Defaults can be loaded via envdecode.
type Config struct {
	// RedisAddr like "localhost:6379". ENV: REDIS_ADDR
	RedisAddr string `env:"REDIS_ADDR,default=localhost:6379"`
	// KeyPrefix for all keys. ENV: MESSAGES_KEY_PREFIX
	KeyPrefix string `env:"MESSAGES_KEY_PREFIX,default=naval:messages:"`
}

// Table implements messages.Table on Redis.
type Table struct {
	client    *redis.Client
	ownClient bool
	keyPrefix string
	log       *slog.Logger
}

var _ messages.Table = (*Table)(nil)

// TableOption configures a Table beyond what Config carries.
type TableOption func(*Table)

// WithClient supplies an existing Redis client instead of dialing
// Config.RedisAddr. The caller keeps ownership; Close becomes a no-op for
// the client.
func WithClient(client *redis.Client) TableOption {
	return func(t *Table) { t.client = client }
}

// WithLogger sets the logger receiving transport failures. Defaults to
// slog.Default().
func WithLogger(log *slog.Logger) TableOption {
	return func(t *Table) {
		if log != nil {
			t.log = log
		}
	}
}

type storedEntry struct {
	RequestID string   `json:"requestId"`
	Code      string   `json:"code"`
	Message   []string `json:"message"`
}

// New constructs a Table, dialing Redis unless WithClient provided one.
func New(cfg Config, opts ...TableOption) (*Table, error) {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = "naval:messages:"
	}
	t := &Table{keyPrefix: prefix, log: slog.Default()}
	for _, opt := range opts {
		opt(t)
	}
	if t.client == nil {
		addr := cfg.RedisAddr
		if addr == "" {
			addr = "localhost:6379"
		}
		t.client = redis.NewClient(&redis.Options{Addr: addr})
		t.ownClient = true
		if err := t.client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis ping: %w", err)
		}
	}
	return t, nil
}

// NewFromEnv builds a Table using envdecode to populate Config.
func NewFromEnv(opts ...TableOption) (*Table, error) {
	var cfg Config
	// Defaults are provided via struct tags.
	_ = envdecode.Decode(&cfg)
	return New(cfg, opts...)
}

// Close closes the Redis client when the table dialed it itself. A client
// supplied via WithClient stays open; its owner closes it.
func (t *Table) Close() error {
	if !t.ownClient {
		return nil
	}
	return t.client.Close()
}

func (t *Table) key(requestID, code string) string {
	return t.keyPrefix + requestID + ":" + code
}

// HasMessageForExchange implements messages.Table.
func (t *Table) HasMessageForExchange(ctx context.Context, requestID, code string) bool {
	n, err := t.client.Exists(ctx, t.key(requestID, code)).Result()
	if err != nil {
		t.log.Debug("redis exists failed", slog.String("request_id", requestID), slog.String("code", code), slog.String("err", err.Error()))
		return false
	}
	return n > 0
}

// GetMessageForExchange implements messages.Table.
func (t *Table) GetMessageForExchange(ctx context.Context, requestID, code string) *messages.Entry {
	raw, err := t.client.Get(ctx, t.key(requestID, code)).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		t.log.Debug("redis get failed", slog.String("request_id", requestID), slog.String("code", code), slog.String("err", err.Error()))
		return nil
	}
	var stored storedEntry
	if err := json.Unmarshal(raw, &stored); err != nil {
		t.log.Debug("stored entry is not valid JSON", slog.String("request_id", requestID), slog.String("code", code), slog.String("err", err.Error()))
		return nil
	}
	return messages.NewEntry(stored.RequestID, stored.Code, stored.Message)
}

// AddMessage implements messages.Table.
func (t *Table) AddMessage(ctx context.Context, entry *messages.Entry) {
	if entry == nil {
		return
	}
	raw, err := json.Marshal(storedEntry{
		RequestID: entry.RequestID(),
		Code:      entry.Code(),
		Message:   entry.Message(),
	})
	if err != nil {
		return
	}
	if err := t.client.Set(ctx, t.key(entry.RequestID(), entry.Code()), raw, 0).Err(); err != nil {
		t.log.Debug("redis set failed", slog.String("request_id", entry.RequestID()), slog.String("err", err.Error()))
	}
}

// Count implements messages.Table.
func (t *Table) Count(ctx context.Context) int {
	var (
		cursor uint64
		count  int
	)
	for {
		keys, next, err := t.client.Scan(ctx, cursor, t.keyPrefix+"*", 100).Result()
		if err != nil {
			t.log.Debug("redis scan failed", slog.String("err", err.Error()))
			return count
		}
		count += len(keys)
		if next == 0 {
			return count
		}
		cursor = next
	}
}
