// Package protocol defines the logical message set exchanged between
// clients, worker nodes and the master relay: the request/response pairs of
// the words API and the relay messages used for cross-worker propagation.
//
// Every response carries an explicit "success" boolean plus zero or more
// explanatory flags. Clients branch on the most specific true flag to
// produce a message, falling back to a generic error when none is set.
package protocol

// Word is one word record belonging to an account. IDs are assigned by the
// store and are unique per account.
type Word struct {
	ID   int64  `json:"id"`
	Word string `json:"word"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Success           bool `json:"success"`
	AlreadyLoggedIn   bool `json:"alreadyLoggedIn,omitempty"`
	InvalidUsername   bool `json:"invalidUsername,omitempty"`
	InvalidPassword   bool `json:"invalidPassword,omitempty"`
	IncorrectUsername bool `json:"incorrectUsername,omitempty"`
	IncorrectPassword bool `json:"incorrectPassword,omitempty"`
}

type LogoutResponse struct {
	Success     bool `json:"success"`
	WasLoggedIn bool `json:"wasLoggedIn"`
}

type CreateAccountRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateAccountResponse struct {
	Success         bool `json:"success"`
	InvalidUsername bool `json:"invalidUsername,omitempty"`
	InvalidPassword bool `json:"invalidPassword,omitempty"`
	UsernameTaken   bool `json:"usernameTaken,omitempty"`
}

type AddWordRequest struct {
	Word string `json:"word"`
}

type AddWordResponse struct {
	Success          bool   `json:"success"`
	Word             string `json:"word"`
	IsLoggedIn       bool   `json:"isLoggedIn"`
	IsValidWord      bool   `json:"isValidWord"`
	WordAlreadyAdded bool   `json:"wordAlreadyAdded"`
}

// AddWordsRequest is the bulk form of AddWordRequest.
type AddWordsRequest struct {
	Words []string `json:"words"`
}

// AddWordsSubResponse reports the outcome of one word within a bulk add.
type AddWordsSubResponse struct {
	Success          bool   `json:"success"`
	Word             string `json:"word"`
	IsValidWord      bool   `json:"isValidWord"`
	WordAlreadyAdded bool   `json:"wordAlreadyAdded"`
}

type AddWordsResponse struct {
	Success              bool                  `json:"success"`
	IsLoggedIn           bool                  `json:"isLoggedIn"`
	InvalidNumberOfWords bool                  `json:"invalidNumberOfWords"`
	AddWordResponses     []AddWordsSubResponse `json:"addWordResponses,omitempty"`
}

type RemoveWordRequest struct {
	Word string `json:"word"`
}

type RemoveWordResponse struct {
	Success         bool   `json:"success"`
	Word            string `json:"word"`
	IsLoggedIn      bool   `json:"isLoggedIn"`
	IsValidWord     bool   `json:"isValidWord"`
	WordNotYetAdded bool   `json:"wordNotYetAdded"`
}

type GetWordsResponse struct {
	Success    bool   `json:"success"`
	IsLoggedIn bool   `json:"isLoggedIn"`
	Words      []Word `json:"words,omitempty"`
}

// AddWordRelay carries a successful add from its originating worker to the
// master, and from the master back out to every other worker. The response
// is rebroadcast verbatim so sibling sessions see exactly what the
// originating session saw.
type AddWordRelay struct {
	Username string          `json:"username"`
	Res      AddWordResponse `json:"res"`
}

// RemoveWordRelay is the removal counterpart of AddWordRelay.
type RemoveWordRelay struct {
	Username string             `json:"username"`
	Res      RemoveWordResponse `json:"res"`
}
