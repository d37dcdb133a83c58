package postgres

import (
	"context"
	"fmt"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/spanish-quiz-bot/internal/infra/postgres/repository"
)

// ContentSource connects, reads the quiz content in one snapshot and
// disconnects. Content is loaded once, so no pool outlives Load.
type ContentSource struct {
	dsn string
	cfg PoolConfig
}

func NewContentSource(dsn string, cfg PoolConfig) *ContentSource {
	return &ContentSource{dsn: dsn, cfg: cfg}
}

func (s *ContentSource) Load(ctx context.Context) (*entities.Content, error) {
	pool, err := NewPool(ctx, s.dsn, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()

	return repository.NewContentRepository(NewTransactor(pool)).Load(ctx)
}
