package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatlens/pkg/log"
)

type StoreConfig struct {
	Capacity          int           `env:"STORE_CAPACITY" envDefault:"1000"`
	RetentionWindow   time.Duration `env:"RETENTION_WINDOW" envDefault:"168h"`
	RetentionSchedule string        `env:"RETENTION_SCHEDULE" envDefault:"@daily"`
	IngestQueueSize   int           `env:"INGEST_QUEUE_SIZE" envDefault:"256"`
	DedupTTL          time.Duration `env:"DEDUP_TTL" envDefault:"24h"`
	VocabularyPath    string        `env:"VOCABULARY_PATH"`

	PersistEnabled bool   `env:"PERSIST_ENABLED" envDefault:"false"`
	Driver         string `env:"STORE_DRIVER" envDefault:"sqlite"`
}

func LoadStoreConfig() (*StoreConfig, error) {
	c := &StoreConfig{}
	if err := env.Parse(c); err != nil {
		return nil, err
	}
	if c.Capacity <= 0 {
		return nil, fmt.Errorf("STORE_CAPACITY must be positive, got %d", c.Capacity)
	}
	if c.IngestQueueSize <= 0 {
		return nil, fmt.Errorf("INGEST_QUEUE_SIZE must be positive, got %d", c.IngestQueueSize)
	}
	switch c.Driver {
	case "sqlite", "sqlite3":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", c.Driver)
	}
	return c, nil
}

func NewStoreConfig(ctx context.Context) *StoreConfig {
	c, err := LoadStoreConfig()
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Store config")
	}
	return c
}
