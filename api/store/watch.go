/* watch.go
 * Contains the change stream subscriptions. Each subscription re-reads the watched documents after every change
 * event so handlers always receive the latest committed value
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"hackathon-engine/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// WatchAccount subscribes to a single account
// Preconditions: Receives a context bounding the subscription, the principal id and a handler
// Postconditions: Handler is called with the current account, then after every change, until unsubscribed
func (s *Store) WatchAccount(ctx context.Context, principalID string, handler func(shared.Account, error)) (Subscription, error) {
	return s.watch(ctx, s.Collections.Accounts, matchDocument(principalID), func(ctx context.Context, streamErr error) {
		if streamErr != nil {
			handler(shared.Account{}, streamErr)
			return
		}
		handler(s.GetAccount(ctx, principalID))
	})
}

// WatchTeam subscribes to a single team
// Preconditions: Receives a context bounding the subscription, the team id and a handler
// Postconditions: Handler is called with the current team, then after every change, until unsubscribed
func (s *Store) WatchTeam(ctx context.Context, teamID string, handler func(shared.Team, error)) (Subscription, error) {
	return s.watch(ctx, s.Collections.Teams, matchDocument(teamID), func(ctx context.Context, streamErr error) {
		if streamErr != nil {
			handler(shared.Team{}, streamErr)
			return
		}
		handler(s.GetTeam(ctx, teamID))
	})
}

// WatchTeams subscribes to the whole teams collection
// Preconditions: Receives a context bounding the subscription and a handler
// Postconditions: Handler is called with every team, then again after any team changes, until unsubscribed
func (s *Store) WatchTeams(ctx context.Context, handler func([]shared.Team, error)) (Subscription, error) {
	return s.watch(ctx, s.Collections.Teams, mongo.Pipeline{}, func(ctx context.Context, streamErr error) {
		if streamErr != nil {
			handler(nil, streamErr)
			return
		}
		handler(s.ListTeams(ctx))
	})
}

func matchDocument(id string) mongo.Pipeline {
	return mongo.Pipeline{{{Key: "$match", Value: bson.D{{Key: "documentKey._id", Value: id}}}}}
}

// watch opens the change stream before the initial read so no change between the two is missed
func (s *Store) watch(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline, deliver func(context.Context, error)) (Subscription, error) {
	stream, err := coll.Watch(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to open change stream on %s: %w", coll.Name(), err)
	}

	sub := newSubscription(ctx)
	go func() {
		defer sub.finish()
		defer stream.Close(context.Background())

		deliver(sub.ctx, nil)
		for stream.Next(sub.ctx) {
			deliver(sub.ctx, nil)
		}
		if err := stream.Err(); err != nil && sub.ctx.Err() == nil {
			deliver(sub.ctx, fmt.Errorf("change stream on %s failed: %w", coll.Name(), err))
		}
	}()
	return sub, nil
}
