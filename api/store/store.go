/* store.go
 * Contains the MongoDB backed Store struct and NewStore function. The methods for this package were split into
 * files per collection: accounts, teams, round_config and submissions, plus batch.go for atomic multi document writes
 * and watch.go for change stream subscriptions. Transactions and change streams require a replica set deployment
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections holds the collections used by the Store
type Collections struct {
	Accounts    *mongo.Collection
	Teams       *mongo.Collection
	RoundConfig *mongo.Collection
	Submissions *mongo.Collection
}

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections Collections
}

// NewStore initialises the db connection and collection handles
// Preconditions: Receives a context, the database name and the mongo connection string
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(ctx context.Context, dbName string, mongoURI string) (*Store, error) {
	if dbName == "" || mongoURI == "" {
		return nil, fmt.Errorf("dbName and mongoURI are required")
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	return newStoreFromDatabase(client, client.Database(dbName)), nil
}

func newStoreFromDatabase(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{
		Client:   client,
		Database: db,
		Collections: Collections{
			Accounts:    db.Collection("accounts"),
			Teams:       db.Collection("teams"),
			RoundConfig: db.Collection("round_config"),
			Submissions: db.Collection("submissions"),
		},
	}
}

// EnsureIndexes creates the secondary indexes used by the equality queries
// Preconditions: Store has been initialised
// Postconditions: Indexes exist on accounts.email, teams.status and submissions.team_id, or an error is returned
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []struct {
		coll  *mongo.Collection
		field string
	}{
		{s.Collections.Accounts, "email"},
		{s.Collections.Teams, "status"},
		{s.Collections.Submissions, "team_id"},
	}
	for _, idx := range indexes {
		_, err := idx.coll.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: idx.field, Value: 1}}})
		if err != nil {
			return fmt.Errorf("failed to create index on %s.%s: %w", idx.coll.Name(), idx.field, err)
		}
	}
	return nil
}

// Ping checks the deployment is reachable
func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, nil)
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	if s.Client == nil {
		return nil
	}
	return s.Client.Disconnect(ctx)
}
