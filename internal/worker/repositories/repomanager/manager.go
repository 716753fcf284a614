package repomanager

import (
	"context"
	"database/sql"

	"github.com/beaumontjonathan/words/internal/dbx"
	"github.com/beaumontjonathan/words/internal/worker/repositories/accounts"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
