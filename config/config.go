/* config.go
 * Contains the typed configuration read from the environment. A .env file is loaded first if present
 * Authors: Zachary Bower
 */

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store backends
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Config holds every setting the engine reads at start up
type Config struct {
	MongoURI     string `env:"MONGO_URI"`
	DBName       string `env:"DB_NAME" envDefault:"hackathon"`
	StoreBackend string `env:"STORE_BACKEND" envDefault:"mongo"`

	// AdminIDs is the set of trusted administrator principal ids
	AdminIDs   []string `env:"ADMIN_IDS" envSeparator:","`
	MaxMembers int      `env:"MAX_TEAM_MEMBERS" envDefault:"4"`

	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"*"`

	DiscordToken         string `env:"DISCORD_TOKEN"`
	AnnounceChannelID    string `env:"DISCORD_ANNOUNCE_CHANNEL"`
	BotCommandsPerMinute int    `env:"BOT_COMMANDS_PER_MINUTE" envDefault:"20"`

	Dev bool `env:"DEV" envDefault:"false"`
}

// Load reads the optional .env file at path and parses the environment into a Config
// Preconditions: Receives the path of the .env file, which may not exist
// Postconditions: Returns the validated Config, or an error if parsing or validation fails
func Load(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings that depend on each other
func (c Config) Validate() error {
	switch c.StoreBackend {
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_BACKEND is %s", BackendMongo)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND '%s', expected %s or %s", c.StoreBackend, BackendMongo, BackendMemory)
	}
	if c.MaxMembers < 1 {
		return fmt.Errorf("MAX_TEAM_MEMBERS must be at least 1, got %d", c.MaxMembers)
	}
	if c.BotCommandsPerMinute < 1 {
		return fmt.Errorf("BOT_COMMANDS_PER_MINUTE must be at least 1, got %d", c.BotCommandsPerMinute)
	}
	return nil
}

// Admins returns the trimmed, non empty admin ids
func (c Config) Admins() []string {
	var ids []string
	for _, id := range c.AdminIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
