package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/beaumontjonathan/words/internal/common"
	"github.com/beaumontjonathan/words/internal/dbx"
	"github.com/beaumontjonathan/words/internal/worker/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {

	query :=
		`INSERT INTO accounts (username, password_digest)
		 VALUES ($1, $2)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		account.Username, account.PasswordDigest).Scan(&account.ID)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) ByUsername(ctx context.Context, username string) (*models.Account, error) {
	query :=
		`SELECT id, username, password_digest FROM accounts
		 WHERE username = $1
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(&account.ID, &account.Username, &account.PasswordDigest)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

// AddWord resolves the account and inserts in one statement; the unique
// index on (account_id, word) absorbs a concurrent duplicate, which then
// shows up as zero affected rows.
func (r *PostgresRepository) AddWord(ctx context.Context, username, word string) (bool, error) {
	query :=
		`INSERT INTO words (account_id, word)
		 SELECT id, $2 FROM accounts WHERE username = $1
		 ON CONFLICT (account_id, word) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, username, word)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n == 1, nil
}

func (r *PostgresRepository) RemoveWord(ctx context.Context, username, word string) (bool, error) {
	query :=
		`DELETE FROM words
		 WHERE account_id = (SELECT id FROM accounts WHERE username = $1)
		   AND word = $2
		 `

	res, err := r.db.ExecContext(ctx, query, username, word)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return n > 0, nil
}

func (r *PostgresRepository) ListWords(ctx context.Context, username string) ([]models.Word, error) {
	query :=
		`SELECT w.id, w.account_id, w.word FROM words w
		 JOIN accounts a ON a.id = w.account_id
		 WHERE a.username = $1
		 ORDER BY w.id
		 `

	rows, err := r.db.QueryContext(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var words []models.Word
	for rows.Next() {
		var w models.Word
		if err := rows.Scan(&w.ID, &w.AccountID, &w.Word); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		words = append(words, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return words, nil
}

func (r *PostgresRepository) WordExists(ctx context.Context, username, word string) (bool, error) {
	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM words w
		   JOIN accounts a ON a.id = w.account_id
		   WHERE a.username = $1 AND w.word = $2
		 )`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, username, word).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
