/* accounts.go
 * Contains the methods for interacting with the accounts collection
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
)

// GetAccount fetches the account for a principal
// Preconditions: Receives a context and the principal id
// Postconditions: Returns the account, a not found error if no account exists, or the underlying error
func (s *Store) GetAccount(ctx context.Context, principalID string) (shared.Account, error) {
	var account shared.Account
	err := s.Collections.Accounts.FindOne(ctx, bson.M{"_id": principalID}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.Account{}, shared.NotFoundError(fmt.Sprintf("no account for principal %s", principalID))
		}
		return shared.Account{}, fmt.Errorf("error fetching account %s: %w", principalID, err)
	}
	return account, nil
}

// FindAccountByEmail looks up an account using its normalized email
// Preconditions: Receives a context and an email address
// Postconditions: Returns the account, a not found error if no account uses the email, or the underlying error
func (s *Store) FindAccountByEmail(ctx context.Context, email string) (shared.Account, error) {
	email = shared.NormalizeEmail(email)
	var account shared.Account
	err := s.Collections.Accounts.FindOne(ctx, bson.M{"email": email}).Decode(&account)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.Account{}, shared.NotFoundError(fmt.Sprintf("no account registered with %s", email))
		}
		return shared.Account{}, fmt.Errorf("error looking up account by email: %w", err)
	}
	return account, nil
}

// CreateAccount inserts the account if one does not already exist for the principal
// Preconditions: Receives a context and the account to insert
// Postconditions: Returns true if the account was created, false if it already existed, or an error if it occurs
func (s *Store) CreateAccount(ctx context.Context, account shared.Account) (bool, error) {
	account.Email = shared.NormalizeEmail(account.Email)
	_, err := s.Collections.Accounts.InsertOne(ctx, account)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("error creating account %s: %w", account.ID, err)
	}
	return true, nil
}
