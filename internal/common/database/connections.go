package database

import (
	"context"
	"fmt"
	"time"

	"adoption-workers/internal/common/config"
	"adoption-workers/internal/common/logger"

	"go.uber.org/multierr"
)

// Connections bundles the stores the matching workers read from.
// Elasticsearch is nil when no addresses are configured.
type Connections struct {
	Postgres      *PostgresClient
	Redis         *RedisClient
	Elasticsearch *ElasticsearchClient
}

// Open creates every configured client, retrying each ping with a linear
// backoff.
func Open(ctx context.Context, cfg config.DatabaseConfig, log logger.Logger) (*Connections, error) {
	conns := &Connections{}

	pg, err := NewPostgres(cfg.Postgres)
	if err != nil {
		return nil, err
	}
	conns.Postgres = pg
	if err := retry(ctx, log, "postgres", 3, pg.Ping); err != nil {
		return nil, multierr.Append(err, conns.Close())
	}

	conns.Redis = NewRedis(cfg.Redis)
	if err := retry(ctx, log, "redis", 3, conns.Redis.Ping); err != nil {
		return nil, multierr.Append(err, conns.Close())
	}

	if cfg.Elasticsearch.Enabled() {
		es, err := NewElasticsearch(cfg.Elasticsearch)
		if err != nil {
			return nil, multierr.Append(err, conns.Close())
		}
		if err := retry(ctx, log, "elasticsearch", 3, es.Ping); err != nil {
			return nil, multierr.Append(err, conns.Close())
		}
		conns.Elasticsearch = es
	} else {
		log.Warn("Elasticsearch not configured, candidate search disabled", nil)
	}

	return conns, nil
}

// Close releases every open client and reports all failures.
func (c *Connections) Close() error {
	var err error
	if c.Postgres != nil {
		err = multierr.Append(err, c.Postgres.Close())
	}
	if c.Redis != nil {
		err = multierr.Append(err, c.Redis.Close())
	}
	return err
}

func retry(ctx context.Context, log logger.Logger, name string, attempts int, ping func(context.Context) error) error {
	var err error
	for i := 1; i <= attempts; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = ping(pingCtx)
		cancel()
		if err == nil {
			log.Info("Connected", map[string]interface{}{"store": name})
			return nil
		}

		log.Warn("Connection attempt failed", map[string]interface{}{
			"store":   name,
			"attempt": i,
			"error":   err.Error(),
		})
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(i) * 2 * time.Second):
		}
	}
	return fmt.Errorf("%s unavailable after %d attempts: %w", name, attempts, err)
}
