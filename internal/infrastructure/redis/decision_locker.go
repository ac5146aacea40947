// Package redis provee el lock distribuido que serializa cruces y decisiones por factura
// cuando la API corre con varias réplicas.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/hotel-procurement-api/internal/application/procurement"
	"github.com/jhoicas/hotel-procurement-api/internal/domain"
	"github.com/jhoicas/hotel-procurement-api/pkg/config"
	"github.com/jhoicas/hotel-procurement-api/pkg/logger"
)

var _ procurement.DecisionLocker = (*DecisionLocker)(nil)

// DecisionLocker implementa procurement.DecisionLocker sobre bsm/redislock.
type DecisionLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewClient abre el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// NewDecisionLocker construye el locker. ttl acota cuánto puede durar una decisión
// si la réplica que la tomó muere sin liberar.
func NewDecisionLocker(client goredis.UniversalClient, ttl time.Duration, log *logger.Logger) *DecisionLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &DecisionLocker{locker: redislock.New(client), ttl: ttl, log: log}
}

// Acquire toma el lock sin reintentos. Si otra réplica lo tiene devuelve domain.ErrConflict.
func (l *DecisionLocker) Acquire(ctx context.Context, key string) (func(context.Context), error) {
	lock, err := l.locker.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: la factura está siendo procesada", domain.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener lock %s: %w", key, err)
	}
	return func(ctx context.Context) {
		if err := lock.Release(ctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("key", key).Msg("no se pudo liberar el lock")
		}
	}, nil
}
