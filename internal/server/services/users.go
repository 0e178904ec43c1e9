// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential verification, password
// changes, and mints the JWTs handed out at login.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/shutterpro/internal/common"
	"github.com/dmitrijs2005/shutterpro/internal/dbx"
	"github.com/dmitrijs2005/shutterpro/internal/password"
	"github.com/dmitrijs2005/shutterpro/internal/server/auth"
	"github.com/dmitrijs2005/shutterpro/internal/server/config"
	"github.com/dmitrijs2005/shutterpro/internal/server/models"
	"github.com/dmitrijs2005/shutterpro/internal/server/repositories/repomanager"
)

// LoginResult is what a successful credential check yields: the account
// record with the hash blanked, plus a bearer token for subsequent calls.
type LoginResult struct {
	User  *models.User
	Token string
}

// UserService provides authentication-related operations.
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	jwtSecret             []byte
	tokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a new user with a freshly hashed password.
func (s *UserService) Register(ctx context.Context, email, plain, name, company, phone string) (*models.User, error) {
	hash, err := password.Hash([]byte(plain))
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: hash, Name: name, Company: company, Phone: phone}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	u.PasswordHash = ""
	return u, nil
}

// Login verifies the credentials and, on success, returns the account and a
// signed token. An unknown email burns the same bcrypt work as a mismatch so
// the two are indistinguishable, and both yield ErrorUnauthorized.
func (s *UserService) Login(ctx context.Context, email, plain string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			password.CompareDummy([]byte(plain))
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := password.Compare(user.PasswordHash, []byte(plain)); err != nil {
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, Token: token}, nil
}

// ChangePassword verifies the current password for the given user and
// replaces the stored hash. The check and the update run in one transaction
// so a concurrent change cannot slip in between them. A mismatch yields
// ErrorUnauthorized; an unknown id yields ErrorNotFound.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return common.ErrorInternal
		}

		if err := password.Compare(user.PasswordHash, []byte(current)); err != nil {
			return common.ErrorUnauthorized
		}

		hash, err := password.Hash([]byte(next))
		if err != nil {
			return fmt.Errorf("error hashing password: %w", err)
		}

		if err := repo.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
			return common.ErrorInternal
		}
		return nil
	})
}
