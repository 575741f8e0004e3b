package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/textping/accountd/internal/common"
	"github.com/textping/accountd/internal/dbx"
	"github.com/textping/accountd/internal/server/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint
// violation, raised when a duplicate email is inserted.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (email, password, created_on, jwt)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Email, account.PasswordHash, account.CreatedAt, account.Token).Scan(&account.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, password, created_on, jwt, phone_number, text_time, active_sub
		 FROM accounts
		 WHERE email = $1
		 `

	return r.scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresRepository) FindByToken(ctx context.Context, token string) (*models.Account, error) {
	query :=
		`SELECT id, email, password, created_on, jwt, phone_number, text_time, active_sub
		 FROM accounts
		 WHERE jwt = $1
		 `

	return r.scanAccount(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) UpdateToken(ctx context.Context, email string, token string) error {
	query :=
		`UPDATE accounts SET jwt = $1
		 WHERE email = $2
		 `

	res, err := r.db.ExecContext(ctx, query, token, email)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRowAffected(res)
}

func (r *PostgresRepository) UpdateEmail(ctx context.Context, id int64, email string) error {
	query :=
		`UPDATE accounts SET email = $1
		 WHERE id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, email, id)
	if err != nil {
		if isUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return requireRowAffected(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (*models.Account, error) {
	query :=
		`DELETE FROM accounts
		 WHERE id = $1
		 RETURNING id, email, password, created_on, jwt, phone_number, text_time, active_sub
		 `

	return r.scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) SetSubscription(ctx context.Context, id int64, textTime string, phoneNumber string) error {
	query :=
		`UPDATE accounts SET text_time = $1, phone_number = $2, active_sub = true
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, textTime, phoneNumber, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return requireRowAffected(res)
}

// scanAccount maps a single-row result onto a model, folding NULL columns
// into zero values and sql.ErrNoRows into common.ErrorNotFound.
func (r *PostgresRepository) scanAccount(row *sql.Row) (*models.Account, error) {
	account := &models.Account{}
	var token, phone, textTime sql.NullString

	err := row.Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt,
		&token, &phone, &textTime, &account.ActiveSub)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.Token = token.String
	account.PhoneNumber = phone.String
	account.TextTime = textTime.String

	return account, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
