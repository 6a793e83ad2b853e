package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/chatlens/pkg/log"
)

type HTTPConfig struct {
	Addr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	BodyLimit   int           `env:"HTTP_BODY_LIMIT" envDefault:"1048576"`
	ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	// AskTimeout bounds /api/ask on top of AI_TIMEOUT.
	AskTimeout time.Duration `env:"HTTP_ASK_TIMEOUT" envDefault:"90s"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
