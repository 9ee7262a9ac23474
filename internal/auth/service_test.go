package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-hms/meridian-hms/internal/shared"
)

type stubRepository struct {
	users   map[string]*User
	tenants map[int64][]int64
}

func (s *stubRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *stubRepository) ListTenantIDs(ctx context.Context, userID int64) ([]int64, error) {
	return s.tenants[userID], nil
}

func newStubRepository(t *testing.T) *stubRepository {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return &stubRepository{
		users: map[string]*User{
			"front@meridian.local":  {ID: 1, Email: "front@meridian.local", PasswordHash: string(hash), IsActive: true},
			"closed@meridian.local": {ID: 2, Email: "closed@meridian.local", PasswordHash: string(hash), IsActive: false},
		},
		tenants: map[int64][]int64{1: {7, 9}},
	}
}

func TestAuthenticate(t *testing.T) {
	svc := NewService(newStubRepository(t))

	user, err := svc.Authenticate(context.Background(), "front@meridian.local", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, int64(1), user.ID)
}

func TestAuthenticateFailuresCollapse(t *testing.T) {
	svc := NewService(newStubRepository(t))
	ctx := context.Background()

	_, err := svc.Authenticate(ctx, "front@meridian.local", "wrong")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "ghost@meridian.local", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "closed@meridian.local", "correct-horse")
	require.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestMemberships(t *testing.T) {
	svc := NewService(newStubRepository(t))

	tenants, err := svc.Memberships(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, []int64{7, 9}, tenants)
}
