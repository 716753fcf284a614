// Package models holds the persisted entities of the words store.
package models

// Account is a registered user. The username is unique and immutable once
// created; the password is stored only as a bcrypt digest.
type Account struct {
	ID             int64
	Username       string
	PasswordDigest []byte
}

// Word is one word belonging to an account.
type Word struct {
	ID        int64
	AccountID int64
	Word      string
}
