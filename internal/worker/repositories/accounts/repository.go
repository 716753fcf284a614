package accounts

import (
	"context"

	"github.com/beaumontjonathan/words/internal/worker/models"
)

// Repository is the persistence contract for accounts and their words.
// All word operations are scoped to a single account by username.
//
// Errors: Create returns common.ErrorConflict when the username is taken;
// ByUsername returns common.ErrorNotFound for unknown usernames. The word
// mutations report "nothing changed" through their boolean result rather
// than an error, since a missing account or a lost duplicate race are
// ordinary outcomes there.
type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	ByUsername(ctx context.Context, username string) (*models.Account, error)

	// AddWord inserts the word for the account, reporting false when the
	// account does not exist or the word is already present. The insert is
	// atomic with respect to concurrent duplicates.
	AddWord(ctx context.Context, username, word string) (bool, error)

	// RemoveWord deletes the word for the account, reporting false when
	// nothing was deleted.
	RemoveWord(ctx context.Context, username, word string) (bool, error)

	ListWords(ctx context.Context, username string) ([]models.Word, error)
	WordExists(ctx context.Context, username, word string) (bool, error)
}
