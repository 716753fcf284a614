package words

import "regexp"

// Request field formats. Checked before any store access; a failure
// short-circuits the request with the matching response flag.
var (
	// 1 letter then 4-31 alphanumeric/underscore, 5-32 chars total.
	usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{4,31}$`)

	// 5-31 chars from the permitted set.
	passwordPattern = regexp.MustCompile(`^[A-Za-z0-9 !"£$%^&*()]{5,31}$`)

	// 1-31 letters or dashes. Underscores are not words.
	wordPattern = regexp.MustCompile(`^[A-Za-z-]{1,31}$`)
)

func validUsername(username string) bool { return usernamePattern.MatchString(username) }

func validPassword(password string) bool { return passwordPattern.MatchString(password) }

func validWord(word string) bool { return wordPattern.MatchString(word) }
