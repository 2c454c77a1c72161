package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvoronin/library-catalog/backend/internal/models"
	"github.com/mvoronin/library-catalog/backend/internal/store"
)

// fakeUserStore is an in-memory UserStore for tests.
type fakeUserStore struct {
	byUsername map[string]*models.User
	byEmail    map[string]*models.User
	createErr  error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byUsername: make(map[string]*models.User),
		byEmail:    make(map[string]*models.User),
	}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, u *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *u
	f.byUsername[u.Username] = &cp
	f.byEmail[u.Email] = &cp
	return nil
}

func (f *fakeUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.byUsername[username]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func newTestService(users *fakeUserStore) *Service {
	return NewService(users, NewUsernameTokenIssuer(users))
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestService(users)

	user, err := svc.Register(context.Background(), "alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)

	// The stored credential is a hash, never the plaintext.
	stored := users.byUsername["alice"]
	require.NotNil(t, stored)
	require.NotEqual(t, "s3cret", stored.Password)
	require.True(t, CheckPassword("s3cret", stored.Password))
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestService(users)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "alice", "other@example.com", "pw")
	require.ErrorIs(t, err, store.ErrDuplicateUsername)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestService(users)

	_, err := svc.Register(context.Background(), "alice", "shared@example.com", "pw")
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), "bob", "shared@example.com", "pw")
	require.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestRegisterUsernameCheckedBeforeEmail(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestService(users)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	// Both fields collide; only the username violation is reported.
	_, err = svc.Register(context.Background(), "alice", "alice@example.com", "pw")
	require.ErrorIs(t, err, store.ErrDuplicateUsername)
}

func TestRegisterRacedUniqueViolation(t *testing.T) {
	t.Parallel()

	// Pre-insert checks pass on an empty directory, but the insert itself
	// reports a duplicate, as happens when two registrations race. The
	// store's translated error must come back unchanged.
	users := newFakeUserStore()
	users.createErr = store.ErrDuplicateEmail
	svc := newTestService(users)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw")
	require.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestLoginFailuresIndistinguishable(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestService(users)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "right")
	require.NoError(t, err)

	_, errUnknown := svc.Login(context.Background(), "nobody", "whatever")
	_, errWrongPw := svc.Login(context.Background(), "alice", "wrong")

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrongPw, ErrInvalidCredentials)
	require.Equal(t, errUnknown, errWrongPw)
}

func TestLoginIssuesUsernameToken(t *testing.T) {
	t.Parallel()

	users := newFakeUserStore()
	svc := newTestService(users)

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "pw")
	require.NoError(t, err)

	token, err := svc.Login(context.Background(), "alice", "pw")
	require.NoError(t, err)
	require.Equal(t, "alice", token)
}
