package userstore_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/reliefhub/internal/app/store/records"
	userstore "github.com/dalemusser/reliefhub/internal/app/store/users"
	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/authutil"
	"github.com/dalemusser/reliefhub/internal/app/system/indexes"
	"github.com/dalemusser/reliefhub/internal/domain/models"
	"github.com/dalemusser/reliefhub/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	authutil.BcryptCost = 4
}

func newMemoryStore(t *testing.T, scheme string) (*userstore.Store, *records.Memory) {
	t.Helper()
	mem := records.NewMemory()
	mem.EnsureUnique(models.CollCredentials, "username")
	return userstore.New(mem, scheme, nil), mem
}

func TestRegister_ThenAuthenticate(t *testing.T) {
	for _, scheme := range []string{authutil.SchemeLegacy, authutil.SchemeBcrypt} {
		t.Run(scheme, func(t *testing.T) {
			s, _ := newMemoryStore(t, scheme)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			id, err := s.Register(ctx, "alice", "Secret123!")
			require.NoError(t, err)
			assert.False(t, id.IsZero())

			cred, err := s.Authenticate(ctx, "alice", "Secret123!")
			require.NoError(t, err)
			assert.Equal(t, id, cred.ID)
			assert.Equal(t, "alice", cred.Username)
			assert.Equal(t, models.RoleUser, cred.Role)
		})
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s, _ := newMemoryStore(t, authutil.SchemeLegacy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := s.Register(ctx, "alice", "Secret123!")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "Other1!")
	assert.ErrorIs(t, err, userstore.ErrDuplicateUsername)

	n, err := s.CountByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	// The original password still works; the rejected one does not.
	_, err = s.Authenticate(ctx, "alice", "Secret123!")
	assert.NoError(t, err)
	_, err = s.Authenticate(ctx, "alice", "Other1!")
	assert.ErrorIs(t, err, userstore.ErrInvalidCredentials)
}

func TestRegister_UsernameIsCaseSensitive(t *testing.T) {
	s, _ := newMemoryStore(t, authutil.SchemeLegacy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	_, err = s.Register(ctx, "Alice", "pw")
	assert.NoError(t, err)
}

func TestRegister_BcryptRejectsOverlongPassword(t *testing.T) {
	s, mem := newMemoryStore(t, authutil.SchemeBcrypt)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := s.Register(ctx, "carol", strings.Repeat("a", authutil.MaxBcryptPassword+1))
	require.ErrorIs(t, err, userstore.ErrPasswordTooLong)

	n, err := mem.Count(ctx, models.CollCredentials, nil)
	require.NoError(t, err)
	assert.Zero(t, n, "no credential stored")

	_, err = s.Register(ctx, "carol", strings.Repeat("a", authutil.MaxBcryptPassword))
	require.NoError(t, err, "72 bytes still fits")
}

func TestRegister_LegacyTakesAnyLength(t *testing.T) {
	s, _ := newMemoryStore(t, authutil.SchemeLegacy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	long := strings.Repeat("a", 200)
	_, err := s.Register(ctx, "dave", long)
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, "dave", long)
	require.NoError(t, err)
}

func TestRegister_UsernameIsExact(t *testing.T) {
	s, _ := newMemoryStore(t, authutil.SchemeLegacy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := s.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	_, err = s.Register(ctx, " alice", "pw")
	require.NoError(t, err, "padded name is a different account")

	_, err = s.Authenticate(ctx, "alice ", "pw")
	assert.ErrorIs(t, err, userstore.ErrInvalidCredentials)
}

func TestRegister_ConcurrentSameUsername(t *testing.T) {
	s, mem := newMemoryStore(t, authutil.SchemeLegacy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Register(ctx, "racer", "pw")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, userstore.ErrDuplicateUsername):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, n-1, dup)

	count, err := mem.Count(ctx, models.CollCredentials, records.Filter{"username": "racer"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestAuthenticate_WrongPasswordAndUnknownUser(t *testing.T) {
	for _, scheme := range []string{authutil.SchemeLegacy, authutil.SchemeBcrypt} {
		t.Run(scheme, func(t *testing.T) {
			s, _ := newMemoryStore(t, scheme)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			_, err := s.Register(ctx, "bob", "right")
			require.NoError(t, err)

			_, wrongPw := s.Authenticate(ctx, "bob", "wrong")
			_, noUser := s.Authenticate(ctx, "nobody", "right")
			_, empty := s.Authenticate(ctx, "", "")

			assert.ErrorIs(t, wrongPw, userstore.ErrInvalidCredentials)
			assert.ErrorIs(t, noUser, userstore.ErrInvalidCredentials)
			assert.ErrorIs(t, empty, userstore.ErrInvalidCredentials)
			assert.Equal(t, wrongPw, noUser, "failures must be indistinguishable")
		})
	}
}

func TestHashPassword_LegacyDeterministic(t *testing.T) {
	s, _ := newMemoryStore(t, authutil.SchemeLegacy)

	a, err := s.HashPassword("Secret123!")
	require.NoError(t, err)
	b, err := s.HashPassword("Secret123!")
	require.NoError(t, err)
	c, err := s.HashPassword("Other1!")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, authutil.LegacyDigest("Secret123!"), a)
}

func TestNew_UnknownSchemeFallsBackToLegacy(t *testing.T) {
	s := userstore.New(records.NewMemory(), "rot13", nil)
	assert.Equal(t, authutil.SchemeLegacy, s.Scheme())
}

func TestLegacyStore_StoresDigest(t *testing.T) {
	s, _ := newMemoryStore(t, authutil.SchemeLegacy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := s.Register(ctx, "carol", "pw")
	require.NoError(t, err)

	cred, err := s.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, authutil.LegacyDigest("pw"), cred.PasswordHash)
	assert.Equal(t, "carol", cred.UsernameCI)
	assert.False(t, cred.CreatedAt.IsZero())
}

func TestBcrypt_UpgradesLegacyHashOnSignIn(t *testing.T) {
	mem := records.NewMemory()
	mem.EnsureUnique(models.CollCredentials, "username")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	legacy := userstore.New(mem, authutil.SchemeLegacy, nil)
	id, err := legacy.Register(ctx, "dave", "pw")
	require.NoError(t, err)

	upgraded := userstore.New(mem, authutil.SchemeBcrypt, nil)
	var hooked []primitive.ObjectID
	upgraded.OnHashUpgrade(func(_ context.Context, uid primitive.ObjectID) {
		hooked = append(hooked, uid)
	})
	_, err = upgraded.Authenticate(ctx, "dave", "nope")
	assert.ErrorIs(t, err, userstore.ErrInvalidCredentials)

	cred, err := upgraded.Authenticate(ctx, "dave", "pw")
	require.NoError(t, err)
	assert.Equal(t, id, cred.ID)

	stored, err := upgraded.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, authutil.IsBcryptHash(stored.PasswordHash))
	assert.Equal(t, models.RoleUser, stored.Role)

	// Still signs in after the upgrade, and the hook fired exactly once.
	_, err = upgraded.Authenticate(ctx, "dave", "pw")
	assert.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{id}, hooked)
}

// failingStore reports an infrastructure failure on every read.
type failingStore struct {
	records.Store
}

var errStoreDown = errors.New("store unavailable")

func (failingStore) FindOne(ctx context.Context, coll string, f records.Filter, out any) error {
	return errStoreDown
}

func TestStoreFailuresPropagate(t *testing.T) {
	s := userstore.New(failingStore{Store: records.NewMemory()}, authutil.SchemeLegacy, nil)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := s.Register(ctx, "erin", "pw")
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, userstore.ErrDuplicateUsername)

	_, err = s.Authenticate(ctx, "erin", "pw")
	assert.ErrorIs(t, err, errStoreDown)
	assert.NotErrorIs(t, err, userstore.ErrInvalidCredentials)
}

func TestFetchSessionUser(t *testing.T) {
	s, _ := newMemoryStore(t, authutil.SchemeLegacy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := s.Register(ctx, "frank", "pw")
	require.NoError(t, err)

	su, err := s.FetchSessionUser(ctx, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, "frank", su.Name)
	assert.Equal(t, models.RoleUser, su.Role)

	_, err = s.FetchSessionUser(ctx, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, auth.ErrUserGone)

	_, err = s.FetchSessionUser(ctx, "bogus")
	assert.ErrorIs(t, err, auth.ErrUserGone)
}

func TestSetRole(t *testing.T) {
	s, _ := newMemoryStore(t, authutil.SchemeLegacy)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id, err := s.Register(ctx, "grace", "pw")
	require.NoError(t, err)
	require.NoError(t, s.SetRole(ctx, id, models.RoleAdmin))

	cred, err := s.GetByUsername(ctx, "grace")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, cred.Role)

	// Password is untouched by a role change.
	_, err = s.Authenticate(ctx, "grace", "pw")
	assert.NoError(t, err)

	err = s.SetRole(ctx, primitive.NewObjectID(), models.RoleAdmin)
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestRegister_Mongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	require.NoError(t, indexes.EnsureAll(ctx, db))

	s := userstore.New(records.NewMongo(db), authutil.SchemeLegacy, nil)
	_, err := s.Register(ctx, "alice", "Secret123!")
	require.NoError(t, err)
	_, err = s.Register(ctx, "alice", "Other1!")
	assert.ErrorIs(t, err, userstore.ErrDuplicateUsername)

	n, err := db.Collection(models.CollCredentials).CountDocuments(ctx, map[string]any{"username": "alice"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = s.Authenticate(ctx, "alice", "Secret123!")
	assert.NoError(t, err)
}
