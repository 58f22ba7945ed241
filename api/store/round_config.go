/* round_config.go
 * Contains the methods for interacting with the round_config collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"
	"hackathon-engine/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetRoundConfig fetches the configuration for a round
// Preconditions: Receives a context and the round number
// Postconditions: Returns the config, a not found error if the round has not been configured, or the underlying error
func (s *Store) GetRoundConfig(ctx context.Context, round int) (shared.RoundConfig, error) {
	var cfg shared.RoundConfig
	err := s.Collections.RoundConfig.FindOne(ctx, bson.M{"_id": round}).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.RoundConfig{}, shared.NotFoundError(fmt.Sprintf("round %d is not configured", round))
		}
		return shared.RoundConfig{}, fmt.Errorf("error fetching round %d config: %w", round, err)
	}
	return cfg, nil
}

// StoreRoundConfig creates or replaces the configuration for a round
// Preconditions: Receives a context and the config to store
// Postconditions: Config is upserted, or an error is returned
func (s *Store) StoreRoundConfig(ctx context.Context, cfg shared.RoundConfig) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.Collections.RoundConfig.ReplaceOne(ctx, bson.M{"_id": cfg.Round}, cfg, opts)
	if err != nil {
		return fmt.Errorf("error storing round %d config: %w", cfg.Round, err)
	}
	return nil
}
