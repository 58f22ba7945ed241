/* main.go
 * The "main" method for running the hackathon engine. Starts the HTTP API, the Discord bot, or both, over the
 * configured store. Configuration is read from the environment and an optional .env file, see config/config.go
 * Usage: go run . -mode=<web|bot|all> -env=<path to .env>
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hackathon-engine/api/api"
	"hackathon-engine/api/metrics"
	"hackathon-engine/api/shared"
	"hackathon-engine/bot"
	"hackathon-engine/config"
	"hackathon-engine/web"

	"go.uber.org/zap"
)

func main() {
	//Flags
	modePtr := flag.String("mode", "all", "Surfaces to run: web, bot or all")
	envPtr := flag.String("env", ".env", "Path of the .env file, ignored if it does not exist")
	flag.Parse()

	mode, err := parseRunMode(*modePtr)
	if err != nil {
		log.Fatal(err)
	}
	cfg, err := config.Load(*envPtr)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := newLogger(cfg.Dev)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(mode, cfg, logger); err != nil {
		logger.Fatal("hackathon engine stopped", zap.Error(err))
	}
}

// run wires the store, API and surfaces together and blocks until an interrupt or a surface fails
func run(mode runMode, cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	s, err := openStore(connectCtx, cfg)
	cancel()
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Close(closeCtx); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()

	metrics.Register()
	apiPtr, err := api.NewAPI(s, shared.NewAdminSet(cfg.Admins()...),
		api.WithLogger(logger.Named("api")),
		api.WithMaxMembers(cfg.MaxMembers),
	)
	if err != nil {
		return err
	}
	logger.Info("hackathon engine starting",
		zap.String("mode", string(mode)),
		zap.String("store", cfg.StoreBackend),
		zap.Int("admins", len(apiPtr.Admins)),
	)

	errCh := make(chan error, 2)
	running := 0
	if mode.runsWeb() {
		running++
		go func() {
			errCh <- web.Start(ctx, web.Config{
				Addr:        cfg.HTTPAddr,
				API:         apiPtr,
				CORSOrigins: cfg.CORSOrigins,
				Logger:      logger.Named("web"),
			})
		}()
	}
	if mode.runsBot() {
		b, err := bot.NewBot(cfg.DiscordToken, apiPtr,
			bot.WithAnnounceChannel(cfg.AnnounceChannelID),
			bot.WithCommandsPerMinute(cfg.BotCommandsPerMinute),
			bot.WithLogger(logger.Named("bot")),
		)
		switch {
		case err == nil:
			running++
			go func() { errCh <- b.Run(ctx) }()
		case mode == modeAll:
			logger.Warn("discord bot disabled", zap.Error(err))
		default:
			return err
		}
	}
	if running == 0 {
		return errors.New("nothing to run")
	}

	// the first surface to stop takes the others down with it
	var firstErr error
	for i := 0; i < running; i++ {
		if err := <-errCh; err != nil && firstErr == nil {
			firstErr = err
		}
		stop()
	}
	return firstErr
}
