package accounts

import (
	"context"
	"sync"

	"github.com/beaumontjonathan/words/internal/common"
	"github.com/beaumontjonathan/words/internal/worker/models"
)

// MemoryRepository is an in-memory Repository used by tests. It counts every
// call, so tests can assert that a rejected request never reached the store,
// and it can be primed to fail to exercise store-error handling.
type MemoryRepository struct {
	mu            sync.Mutex
	accounts      map[string]*models.Account
	words         map[string][]models.Word
	nextAccountID int64
	nextWordID    int64
	calls         int

	// FailWith, when non-nil, is returned by every operation. Set it to
	// simulate a store outage.
	FailWith error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		accounts: make(map[string]*models.Account),
		words:    make(map[string][]models.Word),
	}
}

// CallCount reports how many repository operations have been invoked.
func (r *MemoryRepository) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *MemoryRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.FailWith != nil {
		return nil, r.FailWith
	}

	if _, ok := r.accounts[account.Username]; ok {
		return nil, common.ErrorConflict
	}

	r.nextAccountID++
	stored := &models.Account{
		ID:             r.nextAccountID,
		Username:       account.Username,
		PasswordDigest: account.PasswordDigest,
	}
	r.accounts[account.Username] = stored
	return stored, nil
}

func (r *MemoryRepository) ByUsername(ctx context.Context, username string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.FailWith != nil {
		return nil, r.FailWith
	}

	account, ok := r.accounts[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return account, nil
}

func (r *MemoryRepository) AddWord(ctx context.Context, username, word string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.FailWith != nil {
		return false, r.FailWith
	}

	account, ok := r.accounts[username]
	if !ok {
		return false, nil
	}
	for _, w := range r.words[username] {
		if w.Word == word {
			return false, nil
		}
	}

	r.nextWordID++
	r.words[username] = append(r.words[username], models.Word{
		ID:        r.nextWordID,
		AccountID: account.ID,
		Word:      word,
	})
	return true, nil
}

func (r *MemoryRepository) RemoveWord(ctx context.Context, username, word string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.FailWith != nil {
		return false, r.FailWith
	}

	words := r.words[username]
	for i, w := range words {
		if w.Word == word {
			r.words[username] = append(words[:i:i], words[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) ListWords(ctx context.Context, username string) ([]models.Word, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.FailWith != nil {
		return nil, r.FailWith
	}

	words := make([]models.Word, len(r.words[username]))
	copy(words, r.words[username])
	return words, nil
}

func (r *MemoryRepository) WordExists(ctx context.Context, username, word string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.FailWith != nil {
		return false, r.FailWith
	}

	for _, w := range r.words[username] {
		if w.Word == word {
			return true, nil
		}
	}
	return false, nil
}

var _ Repository = (*MemoryRepository)(nil)
