package auth

import (
	"context"

	"github.com/mvoronin/library-catalog/backend/internal/models"
)

// TokenIssuer turns an authenticated user into a bearer credential and
// resolves a presented credential back to a user. Handlers and middleware
// only see this interface, so the credential scheme can be swapped for a
// signed or expiring one without touching them.
type TokenIssuer interface {
	Issue(ctx context.Context, user *models.User) (string, error)
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// UsernameTokenIssuer issues the username itself as the credential: no
// signature, no expiry, no revocation. Resolve is a plain directory lookup.
type UsernameTokenIssuer struct {
	users UserStore
}

func NewUsernameTokenIssuer(users UserStore) *UsernameTokenIssuer {
	return &UsernameTokenIssuer{users: users}
}

func (i *UsernameTokenIssuer) Issue(ctx context.Context, user *models.User) (string, error) {
	return user.Username, nil
}

func (i *UsernameTokenIssuer) Resolve(ctx context.Context, token string) (*models.User, error) {
	return i.users.GetUserByUsername(ctx, token)
}
