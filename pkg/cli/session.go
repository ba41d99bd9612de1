package cli

import (
	"context"
	"errors"

	"github.com/getmockd/mockrr/pkg/cache"
	"github.com/getmockd/mockrr/pkg/metrics"
	"github.com/getmockd/mockrr/pkg/mockrr"
)

// session is an orchestrator on top of the configured pool.
type session struct {
	*mockrr.Mockrr
	pool cache.Pool
}

// openSession connects to the configured backend. mt may be nil.
func openSession(ctx context.Context, mt *metrics.Metrics) (*session, error) {
	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	pool, err := cfg.Cache.OpenPool(ctx, logger)
	if err != nil {
		return nil, err
	}
	m, err := mockrr.New(pool,
		mockrr.WithRegistry(reg),
		mockrr.WithContentType(cfg.ContentType),
		mockrr.WithCharset(cfg.Charset),
		mockrr.WithVersioning(cfg.Versioning),
		mockrr.WithLogger(logger),
		mockrr.WithMetrics(mt),
	)
	if err != nil {
		return nil, errors.Join(err, pool.Close())
	}
	return &session{Mockrr: m, pool: pool}, nil
}

func (s *session) Close() error {
	return s.pool.Close()
}
