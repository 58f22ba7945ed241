/* batch.go
 * Contains CommitBatch which applies a list of writes inside a single MongoDB transaction
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"
	"hackathon-engine/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CommitBatch applies every write of the batch in one transaction
// Preconditions: Receives a context and a batch. The deployment must support transactions
// Postconditions: Either every write is applied or none is. Returns the first write's error (not found or conflict
// for domain failures) or the driver error
func (s *Store) CommitBatch(ctx context.Context, batch Batch) error {
	if len(batch.Writes) == 0 {
		return nil
	}

	session, err := s.Client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for i, w := range batch.Writes {
			if err := s.applyWrite(sc, w); err != nil {
				return nil, fmt.Errorf("write %d of batch: %w", i, err)
			}
		}
		return nil, nil
	})
	return err
}

func (s *Store) applyWrite(ctx context.Context, w Write) error {
	switch w := w.(type) {
	case InsertTeam:
		_, err := s.Collections.Teams.InsertOne(ctx, w.Team)
		if mongo.IsDuplicateKeyError(err) {
			return shared.ConflictError(fmt.Sprintf("team %s already exists", w.Team.ID))
		}
		return err
	case PushMember:
		return s.pushMember(ctx, w)
	case PullMember:
		return s.updateTeam(ctx, w.TeamID, bson.M{"$pull": bson.M{"members": bson.M{"principal_id": w.PrincipalID}}})
	case SetAccountTeam:
		update := bson.M{"$set": bson.M{"team_id": w.TeamID}}
		if w.TeamID == "" {
			update = bson.M{"$unset": bson.M{"team_id": ""}}
		}
		res, err := s.Collections.Accounts.UpdateOne(ctx, bson.M{"_id": w.PrincipalID}, update)
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return shared.NotFoundError(fmt.Sprintf("no account for principal %s", w.PrincipalID))
		}
		return nil
	case SetTeamStatus:
		return s.setTeamStatus(ctx, s.Collections.Teams, w)
	case PutSubmission:
		opts := options.Replace().SetUpsert(true)
		_, err := s.Collections.Submissions.ReplaceOne(ctx, bson.M{"_id": w.Submission.ID}, w.Submission, opts)
		return err
	default:
		return fmt.Errorf("unsupported write %T", w)
	}
}

// pushMember appends a roster entry only while the principal is absent and the roster is below the limit.
// A team that exists but fails the filter is reported as a conflict
func (s *Store) pushMember(ctx context.Context, w PushMember) error {
	filter := pushMemberFilter(w)
	res, err := s.Collections.Teams.UpdateOne(ctx, filter, bson.M{"$push": bson.M{"members": w.Member}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := s.Collections.Teams.CountDocuments(ctx, bson.M{"_id": w.TeamID})
	if err != nil {
		return err
	}
	if n == 0 {
		return shared.NotFoundError(fmt.Sprintf("team %s does not exist", w.TeamID))
	}
	return shared.ConflictError(fmt.Sprintf("team %s is full or already lists %s", w.TeamID, w.Member.PrincipalID))
}

func pushMemberFilter(w PushMember) bson.M {
	filter := bson.M{
		"_id":                  w.TeamID,
		"members.principal_id": bson.M{"$ne": w.Member.PrincipalID},
	}
	if w.MaxMembers > 0 {
		// an element at index MaxMembers-1 means the roster is already full
		filter[fmt.Sprintf("members.%d", w.MaxMembers-1)] = bson.M{"$exists": false}
	}
	return filter
}

func (s *Store) updateTeam(ctx context.Context, teamID string, update bson.M) error {
	res, err := s.Collections.Teams.UpdateOne(ctx, bson.M{"_id": teamID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return shared.NotFoundError(fmt.Sprintf("team %s does not exist", teamID))
	}
	return nil
}
