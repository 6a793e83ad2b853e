package srv

import (
	"context"
	"errors"
	"time"

	"github.com/sandevgo/chatlens/pkg/log"
)

const shutdownTimeout = 10 * time.Second

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// StartServices runs every service in its own goroutine. A failing
// service is fatal. If stop is not nil it is called when any service
// returns, so an interactive console quitting brings the process down.
func StartServices(ctx context.Context, services []Service, stop context.CancelFunc) {
	logger := log.FromCtx(ctx)
	for _, service := range services {
		go func(service Service) {
			err := service.Start(ctx)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Fatal().Err(err).Msgf("%T failed to start", service)
			}
			if stop != nil {
				if _, ok := service.(interface{ Interactive() bool }); ok {
					stop()
				}
			}
		}(service)
	}
}

// ShutdownServices blocks until ctx is done, then shuts services down
// in reverse order under a fresh deadline.
func ShutdownServices(ctx context.Context, services []Service) {
	<-ctx.Done()

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(sctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}
