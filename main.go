package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"

	"chick-bot/bot"
	"chick-bot/config"
	"chick-bot/grpc"
	"chick-bot/handlers"
	"chick-bot/profile"
	"chick-bot/utils"
	"chick-bot/web"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig(os.Args[1:], nil)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.Debug)
	slog.SetDefault(logger)

	b, err := bot.New(*cfg, logger)
	if err != nil {
		return fmt.Errorf("error initializing bot: %w", err)
	}

	profiles := profile.NewClient(cfg.Profiles.CheckerURL, cfg.Profiles.EggtrayURL, time.Hour, nil, logger)
	h, err := handlers.New(*cfg, b.Actions, b.Interests, profiles, b.Reporter, logger)
	if err != nil {
		return err
	}
	handlers.Register(b.Session, h)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	issues := web.NewGitHubIssues(cfg.GitHub.Owner, cfg.GitHub.Repo, cfg.GitHub.APIKey, nil)
	server := web.NewServer(issues, logger, cfg.Debug)
	go func() {
		addr := net.JoinHostPort(cfg.Web.Host, strconv.Itoa(cfg.Web.Port))
		if err := server.Start(addr); err != nil {
			logger.Error("http server failed", "error", err)
			cancel()
		}
	}()

	var health *grpc.HealthServer
	if cfg.GRPC.Listen != "" {
		health = grpc.NewHealthServer(logger)
		go func() {
			if err := health.ListenAndServe(cfg.GRPC.Listen); err != nil {
				logger.Error("gRPC health server failed", "error", err)
			}
		}()
	}

	if err := b.Start(ctx); err != nil {
		return fmt.Errorf("error starting bot: %w", err)
	}
	if health != nil {
		health.SetServing(true)
	}

	bot.Wait(ctx)
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if health != nil {
		health.Stop(shutdownCtx)
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server shutdown", "error", err)
	}
	// Aborts a feed refresh in flight so the scheduler can stop.
	cancel()
	b.Stop()
	return nil
}
