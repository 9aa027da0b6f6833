// internal/app/store/users/fetcher.go
package userstore

import (
	"context"
	"errors"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FetchSessionUser implements auth.UserFetcher. A malformed or unknown id
// yields auth.ErrUserGone so the session is treated as signed out.
func (s *Store) FetchSessionUser(ctx context.Context, userID string) (*auth.SessionUser, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, auth.ErrUserGone
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	cred, err := s.GetByID(ctx, oid)
	if errors.Is(err, records.ErrNotFound) {
		return nil, auth.ErrUserGone
	}
	if err != nil {
		return nil, err
	}
	return SessionUserFor(cred), nil
}
