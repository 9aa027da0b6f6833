// internal/app/store/users/userstore.go
//
// Package userstore owns sign-in credentials: registration, credential
// verification, and the password scheme behind them. It talks to
// persistence only through records.Store.
package userstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/authutil"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateUsername is returned by Register when the username is taken.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrInvalidCredentials is returned by Authenticate for an unknown user
	// or a wrong password; the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrPasswordTooLong is returned by Register under the bcrypt scheme for
	// a password over authutil.MaxBcryptPassword bytes.
	ErrPasswordTooLong = errors.New("password too long")
)

// The dummy hash is compared against when a username is unknown under the
// bcrypt scheme so that the miss costs about as much as a wrong password.
var (
	dummyOnce sync.Once
	dummyHash string
)

func dummyBcrypt() string {
	dummyOnce.Do(func() {
		dummyHash, _ = authutil.HashPassword("unknown-user-placeholder")
	})
	return dummyHash
}

type Store struct {
	recs   records.Store
	scheme string
	log    *zap.Logger

	// hash produces the stored form of a password for the active scheme.
	hash func(string) (string, error)

	onUpgrade func(context.Context, primitive.ObjectID)
}

// New returns a credential store using the given password scheme
// (authutil.SchemeLegacy or authutil.SchemeBcrypt). An unknown scheme
// falls back to legacy so existing hashes keep working.
func New(recs records.Store, scheme string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{recs: recs, scheme: scheme, log: log}
	switch scheme {
	case authutil.SchemeBcrypt:
		s.hash = authutil.HashPassword
	default:
		s.scheme = authutil.SchemeLegacy
		s.hash = func(pw string) (string, error) { return authutil.LegacyDigest(pw), nil }
	}
	return s
}

// OnHashUpgrade registers fn to run after a legacy digest is rewritten as
// bcrypt during sign-in.
func (s *Store) OnHashUpgrade(fn func(ctx context.Context, id primitive.ObjectID)) {
	s.onUpgrade = fn
}

// Scheme reports the active password scheme.
func (s *Store) Scheme() string { return s.scheme }

// PasswordFits reports whether password can be stored under the active
// scheme. Legacy digests take any length.
func (s *Store) PasswordFits(password string) bool {
	return s.scheme != authutil.SchemeBcrypt || len(password) <= authutil.MaxBcryptPassword
}

// HashPassword returns the stored form of password under the active scheme.
// For the legacy scheme this is deterministic.
func (s *Store) HashPassword(password string) (string, error) {
	return s.hash(password)
}

// Register creates a credential with role "User" and returns its id.
//
// The username lookup runs before any hashing, so a duplicate costs no hash
// and writes nothing. A concurrent registration that slips past the lookup
// is caught by the unique index and reported the same way.
func (s *Store) Register(ctx context.Context, username, password string) (primitive.ObjectID, error) {
	if !s.PasswordFits(password) {
		return primitive.NilObjectID, ErrPasswordTooLong
	}

	var existing models.UserCredential
	err := s.recs.FindOne(ctx, models.CollCredentials, records.Filter{"username": username}, &existing)
	switch {
	case err == nil:
		return primitive.NilObjectID, ErrDuplicateUsername
	case !errors.Is(err, records.ErrNotFound):
		return primitive.NilObjectID, fmt.Errorf("lookup username: %w", err)
	}

	hash, err := s.hash(password)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("hash password: %w", err)
	}

	cred := models.UserCredential{
		Username:     username,
		UsernameCI:   text.Fold(username),
		PasswordHash: hash,
		Role:         models.RoleUser,
		CreatedAt:    time.Now().UTC(),
	}
	id, err := s.recs.Insert(ctx, models.CollCredentials, cred)
	if err != nil {
		if errors.Is(err, records.ErrDuplicate) {
			return primitive.NilObjectID, ErrDuplicateUsername
		}
		return primitive.NilObjectID, fmt.Errorf("insert credential: %w", err)
	}
	return id, nil
}

// Authenticate returns the credential for username when password matches.
// Any mismatch yields ErrInvalidCredentials; store failures are returned wrapped.
func (s *Store) Authenticate(ctx context.Context, username, password string) (models.UserCredential, error) {
	if s.scheme == authutil.SchemeBcrypt {
		return s.authenticateBcrypt(ctx, username, password)
	}

	// Single compound lookup: the digest is part of the query, so no
	// stored hash is ever read back for comparison.
	var cred models.UserCredential
	err := s.recs.FindOne(ctx, models.CollCredentials, records.Filter{
		"username":      username,
		"password_hash": authutil.LegacyDigest(password),
	}, &cred)
	if errors.Is(err, records.ErrNotFound) {
		return models.UserCredential{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.UserCredential{}, fmt.Errorf("lookup credential: %w", err)
	}
	return cred, nil
}

func (s *Store) authenticateBcrypt(ctx context.Context, username, password string) (models.UserCredential, error) {
	var cred models.UserCredential
	err := s.recs.FindOne(ctx, models.CollCredentials, records.Filter{"username": username}, &cred)
	if errors.Is(err, records.ErrNotFound) {
		authutil.CheckPassword(password, dummyBcrypt())
		return models.UserCredential{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.UserCredential{}, fmt.Errorf("lookup credential: %w", err)
	}

	if authutil.IsBcryptHash(cred.PasswordHash) {
		if !authutil.CheckPassword(password, cred.PasswordHash) {
			return models.UserCredential{}, ErrInvalidCredentials
		}
		return cred, nil
	}

	// Legacy digest from before the scheme switch: verify, then upgrade.
	if !authutil.CheckLegacy(password, cred.PasswordHash) {
		return models.UserCredential{}, ErrInvalidCredentials
	}
	if upgraded, err := authutil.HashPassword(password); err == nil {
		cred.PasswordHash = upgraded
		if err := s.recs.Update(ctx, models.CollCredentials, cred.ID, cred); err != nil {
			// Sign-in still succeeds; the upgrade is retried next time.
			s.log.Warn("password hash upgrade failed",
				zap.String("user_id", cred.ID.Hex()), zap.Error(err))
		} else {
			s.log.Info("password hash upgraded to bcrypt", zap.String("user_id", cred.ID.Hex()))
			if s.onUpgrade != nil {
				s.onUpgrade(ctx, cred.ID)
			}
		}
	}
	return cred, nil
}

// GetByID loads a credential by id. Returns records.ErrNotFound when absent.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.UserCredential, error) {
	var cred models.UserCredential
	err := s.recs.FindOne(ctx, models.CollCredentials, records.ByID(id), &cred)
	return cred, err
}

// GetByUsername loads a credential by exact username. Returns
// records.ErrNotFound when absent.
func (s *Store) GetByUsername(ctx context.Context, username string) (models.UserCredential, error) {
	var cred models.UserCredential
	err := s.recs.FindOne(ctx, models.CollCredentials, records.Filter{"username": username}, &cred)
	return cred, err
}

// SetRole changes the role on an existing credential. Sessions pick the
// change up on their next request through FetchSessionUser.
func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	cred, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cred.Role == role {
		return nil
	}
	cred.Role = role
	if err := s.recs.Update(ctx, models.CollCredentials, id, cred); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// CountByUsername returns how many credentials carry username.
func (s *Store) CountByUsername(ctx context.Context, username string) (int64, error) {
	return s.recs.Count(ctx, models.CollCredentials, records.Filter{"username": username})
}

// SessionUserFor builds the session identity for a credential.
func SessionUserFor(cred models.UserCredential) *auth.SessionUser {
	return &auth.SessionUser{
		ID:      cred.ID.Hex(),
		Name:    cred.Username,
		LoginID: cred.Username,
		Role:    cred.Role,
	}
}
