package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/kambaz-client/internal/apiclient"
	"github.com/SAP-F-2025/kambaz-client/internal/cache"
	"github.com/SAP-F-2025/kambaz-client/internal/cli"
	"github.com/SAP-F-2025/kambaz-client/internal/config"
	"github.com/SAP-F-2025/kambaz-client/internal/events"
	"github.com/SAP-F-2025/kambaz-client/internal/services"
	"github.com/SAP-F-2025/kambaz-client/internal/store"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
	"github.com/SAP-F-2025/kambaz-client/internal/validator"
	"github.com/SAP-F-2025/kambaz-client/pkg"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string) int {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return 1
	}
	logger := utils.NewLogger(os.Stderr, cfg.Environment, cfg.LogLevel)

	publisher, err := cfg.Events.CreateEventPublisher(utils.ToSlogLogger(logger))
	if err != nil {
		logger.Warn("Failed to create event publisher, events disabled", "error", err)
		publisher = events.NewMockEventPublisher(utils.ToSlogLogger(logger))
	}
	defer publisher.Close()

	sessions, closeSessions, err := openSessionCache(ctx, cfg, logger)
	if err != nil {
		logger.Warn("Session cache unavailable, the session will not outlive this command", "cache", cfg.SessionCache, "error", err)
	}
	defer closeSessions()

	var opts []apiclient.Option
	if sessions != nil {
		jar, err := apiclient.NewPersistentJar(sessions, cfg.SessionTTL, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", err)
			return 1
		}
		opts = append(opts, apiclient.WithJar(jar))
	}

	client, err := apiclient.New(cfg, logger, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		return 1
	}
	if err := client.RestoreSession(ctx); err != nil {
		logger.Warn("Failed to restore session", "error", err)
	}

	state := store.NewState(publisher, logger)
	svc := services.NewServiceManager(client, state, logger, validator.New())

	bus, _ := publisher.(events.EventSubscriber)
	commandLine := cli.New(svc, bus, os.Stdin, os.Stdout)
	if err := commandLine.Run(ctx, args); err != nil {
		if errors.Is(err, cli.ErrHelp) {
			return 2
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// openSessionCache returns where session cookies are kept between commands, or nil
// when they are not kept at all
func openSessionCache(ctx context.Context, cfg *config.Config, logger utils.Logger) (cache.CacheService, func(), error) {
	noop := func() {}

	switch cfg.SessionCache {
	case config.SessionCacheFile:
		c, err := cache.NewFileCache(cfg.SessionFile)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	case config.SessionCacheMemory:
		return cache.NewMemoryCache(), noop, nil
	case config.SessionCacheRedis:
		client, err := pkg.NewRedisClient(ctx, cfg.RedisURL, cfg.HTTPTimeout)
		if err != nil {
			return nil, noop, err
		}
		closeClient := func() {
			if err := client.Close(); err != nil {
				logger.Warn("Failed to close redis client", "error", err)
			}
		}
		return cache.NewRedisCache(client, utils.ToSlogLogger(logger)), closeClient, nil
	default:
		return nil, noop, nil
	}
}
