// Package services contains server-side business logic. AccountService
// handles registration, login, profile lookup, updates, deletion, and the
// SMS-subscription toggle.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/textping/accountd/internal/common"
	"github.com/textping/accountd/internal/dbx"
	"github.com/textping/accountd/internal/server/auth"
	"github.com/textping/accountd/internal/server/config"
	"github.com/textping/accountd/internal/server/models"
	"github.com/textping/accountd/internal/server/repositories/repomanager"
)

// AccountService provides the account operations backing the HTTP API:
// - Register: create an account and hand out its first token
// - Login: verify credentials and rotate the stored token
// - ProfileByToken: bearer-capability lookup by the raw token
// - UpdateEmail / Delete: per-id mutations
// - Subscribe: enable SMS notifications for the token's account
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
	}
}

// Register validates the email, hashes the password, and inserts the new
// account with a freshly issued token in a single statement. A duplicate
// email surfaces as common.ErrorAlreadyExists.
func (s *AccountService) Register(ctx context.Context, email, password string) (*models.Account, string, error) {
	if email == "" || password == "" {
		return nil, "", common.ErrorValidation
	}
	if !isValidEmail(email) {
		return nil, "", common.ErrorInvalidEmail
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	token, err := auth.GenerateToken(email, s.jwtSecret)
	if err != nil {
		return nil, "", common.ErrorInternal
	}

	account := &models.Account{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
		Token:        token,
	}

	repo := s.repomanager.Accounts(s.db)
	account, err = repo.Create(ctx, account)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", err
		}
		return nil, "", fmt.Errorf("error creating account: %w", err)
	}

	return account, token, nil
}

// Login verifies the credentials and, on success, issues a new token and
// overwrites the stored one. The verify-then-update pair runs in one
// transaction so a concurrent login cannot interleave. An unknown email or
// a wrong password both yield common.ErrorUnauthorized; the stored token is
// left untouched in either case.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.Account, string, error) {
	if email == "" || password == "" {
		return nil, "", common.ErrorValidation
	}
	if !isValidEmail(email) {
		return nil, "", common.ErrorInvalidEmail
	}

	var account *models.Account
	var token string

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		acc, err := repo.FindByEmail(ctx, email)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorUnauthorized
			}
			return common.ErrorInternal
		}

		if !passwordMatches(acc.PasswordHash, password) {
			return common.ErrorUnauthorized
		}

		token, err = auth.GenerateToken(email, s.jwtSecret)
		if err != nil {
			return common.ErrorInternal
		}

		if err := repo.UpdateToken(ctx, email, token); err != nil {
			return common.ErrorInternal
		}

		acc.Token = token
		account = acc
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	return account, token, nil
}

// ProfileByToken resolves the account holding the given token. The raw
// token is used as a store key (bearer-capability model); no signature
// check happens here.
func (s *AccountService) ProfileByToken(ctx context.Context, token string) (*models.Account, error) {
	if token == "" {
		return nil, common.ErrorNotFound
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	return account, nil
}

// UpdateEmail replaces the email of the account with the given id.
func (s *AccountService) UpdateEmail(ctx context.Context, id int64, email string) error {
	if !isValidEmail(email) {
		return common.ErrorInvalidEmail
	}

	repo := s.repomanager.Accounts(s.db)
	if err := repo.UpdateEmail(ctx, id, email); err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrorAlreadyExists) {
			return err
		}
		return common.ErrorInternal
	}

	return nil
}

// Delete removes the account with the given id and returns its prior values.
func (s *AccountService) Delete(ctx context.Context, id int64) (*models.Account, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, common.ErrorInternal
	}

	return account, nil
}

// Subscribe enables SMS notifications for the account holding the bearer
// token, setting phone number, delivery time, and the active flag together.
func (s *AccountService) Subscribe(ctx context.Context, token, textTime, phoneNumber string) error {
	if textTime == "" || phoneNumber == "" {
		return common.ErrorValidation
	}
	if token == "" {
		return common.ErrorUnauthorized
	}

	repo := s.repomanager.Accounts(s.db)

	account, err := repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return common.ErrorInternal
	}

	if err := repo.SetSubscription(ctx, account.ID, textTime, phoneNumber); err != nil {
		return common.ErrorInternal
	}

	return nil
}
