/* utils.go
 * Utility functions used by main: run mode parsing, logger construction and store selection
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"fmt"
	"hackathon-engine/api/store"
	"hackathon-engine/config"
	"strings"

	"go.uber.org/zap"
)

// runMode selects which presentation surfaces are started
type runMode string

const (
	modeWeb runMode = "web"
	modeBot runMode = "bot"
	modeAll runMode = "all"
)

// parseRunMode converts the -mode flag into a runMode
// Preconditions: Receives a string containing web, bot or all (case insensitive)
// Postconditions: Returns the runMode or an error if the string is not a known mode
func parseRunMode(str string) (runMode, error) {
	mode := runMode(strings.ToLower(strings.TrimSpace(str)))
	switch mode {
	case modeWeb, modeBot, modeAll:
		return mode, nil
	}
	return "", fmt.Errorf("invalid mode '%s', expected web, bot or all", str)
}

func (m runMode) runsWeb() bool { return m == modeWeb || m == modeAll }
func (m runMode) runsBot() bool { return m == modeBot || m == modeAll }

// newLogger builds a development logger when dev is set and a production JSON logger otherwise
func newLogger(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// openStore opens the configured store backend. The mongo backend has its indexes created before it is returned
// Preconditions: Receives a context and a validated config
// Postconditions: Returns the store, or an error if the connection or index creation fails
func openStore(ctx context.Context, cfg config.Config) (store.Interface, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return store.NewMemoryStore(), nil
	case config.BackendMongo:
		s, err := store.NewStore(ctx, cfg.DBName, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		if err := s.Ping(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("failed to reach mongo: %w", err)
		}
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend '%s'", cfg.StoreBackend)
	}
}
