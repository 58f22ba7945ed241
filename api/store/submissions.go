/* submissions.go
 * Contains the methods for reading the submissions collection. Ledger entries are only written through CommitBatch
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

// GetSubmission fetches the ledger entry for a team, round and kind
// Preconditions: Receives a context, team id, round number and submission kind
// Postconditions: Returns the entry, a not found error if nothing was submitted, or the underlying error
func (s *Store) GetSubmission(ctx context.Context, teamID string, round int, kind shared.SubmissionKind) (shared.Submission, error) {
	id := shared.SubmissionID(teamID, round, kind)
	var sub shared.Submission
	err := s.Collections.Submissions.FindOne(ctx, bson.M{"_id": id}).Decode(&sub)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.Submission{}, shared.NotFoundError(fmt.Sprintf("no %s submission for team %s in round %d", kind, teamID, round))
		}
		return shared.Submission{}, fmt.Errorf("error fetching submission %s: %w", id, err)
	}
	return sub, nil
}

// ListSubmissions returns every ledger entry of a team ordered by round then kind
// Preconditions: Receives a context and the team id
// Postconditions: Returns the entries (possibly empty), or an error if it occurs
func (s *Store) ListSubmissions(ctx context.Context, teamID string) ([]shared.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "round", Value: 1}, {Key: "kind", Value: 1}})
	cursor, err := s.Collections.Submissions.Find(ctx, bson.M{"team_id": teamID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying submissions of team %s: %w", teamID, err)
	}
	defer cursor.Close(ctx)

	subs := []shared.Submission{}
	if err := cursor.All(ctx, &subs); err != nil {
		return nil, fmt.Errorf("error decoding submissions: %w", err)
	}
	return subs, nil
}
