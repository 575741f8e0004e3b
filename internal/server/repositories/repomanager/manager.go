package repomanager

import (
	"context"
	"database/sql"

	"github.com/textping/accountd/internal/dbx"
	"github.com/textping/accountd/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
