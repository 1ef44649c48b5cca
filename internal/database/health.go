package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Pinger reports whether the backing stores are reachable.
type Pinger struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

func NewPinger(pool *pgxpool.Pool, rdb *redis.Client) *Pinger {
	return &Pinger{pool: pool, rdb: rdb}
}

// Ping checks PostgreSQL and Redis with a short deadline.
func (p *Pinger) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := p.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: %w", err)
	}
	return nil
}
