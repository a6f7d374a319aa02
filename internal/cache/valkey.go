// Package cache provides Valkey (Redis-compatible) client initialization
// and the JSON cache for content-tree read endpoints.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultValkeyTimeout bounds dialing, each command, and the startup ping.
const DefaultValkeyTimeout = 3 * time.Second

// ValkeyOptions are the connection settings taken from configuration.
type ValkeyOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
	Timeout  time.Duration
}

// clientOptions maps o onto go-redis options. Cache and revocation calls
// sit on the request path, so a slow Valkey fails fast instead of holding
// requests.
func (o ValkeyOptions) clientOptions() *redis.Options {
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = DefaultValkeyTimeout
	}
	return &redis.Options{
		Addr:         net.JoinHostPort(o.Host, o.Port),
		Password:     o.Password,
		DB:           o.DB,
		ClientName:   "contentadmin",
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolTimeout:  timeout,
		MaxRetries:   1,
	}
}

// ConnectValkey creates a Valkey client and verifies the connection with a ping.
func ConnectValkey(o ValkeyOptions) (*redis.Client, error) {
	opts := o.clientOptions()
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s db %d: %w", opts.Addr, opts.DB, err)
	}

	slog.Info("valkey connected", "addr", opts.Addr, "db", opts.DB)
	return client, nil
}
