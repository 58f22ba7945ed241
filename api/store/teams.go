/* teams.go
 * Contains the methods for interacting with the teams collection
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

// GetTeam fetches a single team
// Preconditions: Receives a context and the team id
// Postconditions: Returns the team, a not found error if it does not exist, or the underlying error
func (s *Store) GetTeam(ctx context.Context, teamID string) (shared.Team, error) {
	var team shared.Team
	err := s.Collections.Teams.FindOne(ctx, bson.M{"_id": teamID}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.Team{}, shared.NotFoundError(fmt.Sprintf("team %s does not exist", teamID))
		}
		return shared.Team{}, fmt.Errorf("error fetching team %s: %w", teamID, err)
	}
	return team, nil
}

// ListTeams returns every team ordered by creation time
// Preconditions: Receives a context
// Postconditions: Returns the teams (possibly empty), or an error if it occurs
func (s *Store) ListTeams(ctx context.Context) ([]shared.Team, error) {
	return s.findTeams(ctx, bson.M{})
}

// ListTeamsByStatus returns every team whose status equals the given status, ordered by creation time
// Preconditions: Receives a context and a status
// Postconditions: Returns the matching teams (possibly empty), or an error if it occurs
func (s *Store) ListTeamsByStatus(ctx context.Context, status shared.Status) ([]shared.Team, error) {
	return s.findTeams(ctx, bson.M{"status": status})
}

func (s *Store) findTeams(ctx context.Context, filter bson.M) ([]shared.Team, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.Collections.Teams.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying teams: %w", err)
	}
	defer cursor.Close(ctx)

	teams := []shared.Team{}
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, fmt.Errorf("error decoding teams: %w", err)
	}
	return teams, nil
}

// UpdateTeamStatus is a compare and set on a team's status
// Preconditions: Receives a context, the team id, the status the caller read and the status to write
// Postconditions: Status is updated if it still equals from. Returns a conflict error if it changed in the
// meantime, a not found error if the team does not exist, or the underlying error
func (s *Store) UpdateTeamStatus(ctx context.Context, teamID string, from shared.Status, to shared.Status) error {
	return s.setTeamStatus(ctx, s.Collections.Teams, SetTeamStatus{TeamID: teamID, From: from, To: to})
}

// setTeamStatus is shared by UpdateTeamStatus and batches. ctx may be a session context
func (s *Store) setTeamStatus(ctx context.Context, coll *mongo.Collection, w SetTeamStatus) error {
	set := bson.M{"status": w.To}
	if w.Round1Score != nil {
		set["round1_score"] = *w.Round1Score
	}

	res, err := coll.UpdateOne(ctx, bson.M{"_id": w.TeamID, "status": w.From}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("error updating status of team %s: %w", w.TeamID, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// Nothing matched: either the team is gone or its status moved on
	count, err := coll.CountDocuments(ctx, bson.M{"_id": w.TeamID})
	if err != nil {
		return fmt.Errorf("error checking team %s: %w", w.TeamID, err)
	}
	if count == 0 {
		return shared.NotFoundError(fmt.Sprintf("team %s does not exist", w.TeamID))
	}
	return shared.ConflictError(fmt.Sprintf("team %s is no longer %s", w.TeamID, w.From.Label()))
}
