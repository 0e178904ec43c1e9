package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/shutterpro/internal/client/models"
	"github.com/dmitrijs2005/shutterpro/internal/common"
	"github.com/dmitrijs2005/shutterpro/internal/logging"
	"github.com/dmitrijs2005/shutterpro/internal/password"
)

// LocalVerifier checks credentials against the local credential store.
// Unknown email and wrong password are indistinguishable to the caller:
// both cost one hash comparison and both return
// common.ErrInvalidCredentials.
type LocalVerifier struct {
	users CredentialStore
}

// NewLocalVerifier returns a verifier backed by the given store.
func NewLocalVerifier(users CredentialStore) *LocalVerifier {
	return &LocalVerifier{users: users}
}

// Verify implements Verifier. The returned record has the password hash
// blanked so it never travels past the login path.
func (v *LocalVerifier) Verify(ctx context.Context, email, plain string) (*models.UserRecord, error) {
	user, err := v.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			password.CompareDummy([]byte(plain))
			return nil, common.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := password.Compare(user.PasswordHash, []byte(plain)); err != nil {
		return nil, err
	}

	u := *user
	u.PasswordHash = ""
	return &u, nil
}

// FallbackVerifier tries the primary verifier first and falls back to the
// secondary when the primary could not reach a verdict. A definite verdict
// from the primary, success or common.ErrInvalidCredentials, is final and
// never retried locally.
type FallbackVerifier struct {
	primary   Verifier
	secondary Verifier
	logger    logging.Logger
}

// NewFallbackVerifier composes two verifiers with fallback semantics.
func NewFallbackVerifier(primary, secondary Verifier, logger logging.Logger) *FallbackVerifier {
	return &FallbackVerifier{
		primary:   primary,
		secondary: secondary,
		logger:    logger.With("module", "verifier"),
	}
}

// Verify implements Verifier.
func (v *FallbackVerifier) Verify(ctx context.Context, email, plain string) (*models.UserRecord, error) {
	user, err := v.primary.Verify(ctx, email, plain)
	if err == nil {
		return user, nil
	}
	if errors.Is(err, common.ErrInvalidCredentials) {
		return nil, err
	}

	v.logger.Warn(ctx, "primary verifier unavailable, falling back", "error", err)
	return v.secondary.Verify(ctx, email, plain)
}
