package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/beaumontjonathan/words/internal/protocol"
)

// credentials resolves the username and password for login and account
// creation: positional arguments first, interactive prompts for whatever
// was left out.
func (a *App) credentials(args []string) (string, string, error) {
	var username, password string
	var err error

	if len(args) > 0 {
		username = args[0]
	} else {
		username, err = GetSimpleText(a.reader, "Enter username", os.Stdout)
		if err != nil {
			return "", "", err
		}
	}

	if len(args) > 1 {
		password = args[1]
	} else {
		password, err = GetPassword(os.Stdout)
		if err != nil {
			return "", "", err
		}
	}

	return username, password, nil
}

func (a *App) Login(ctx context.Context, args []string) error {
	username, password, err := a.credentials(args)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	res, err := a.api.Login(ctx, username, password)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	if res.Success {
		a.userName = username
	}
	printlnFn(loginMessage(username, res))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	res, err := a.api.Logout(ctx)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	a.userName = ""
	if res.WasLoggedIn {
		printlnFn("Logged out")
	} else {
		printlnFn("You were not logged in")
	}
	return nil
}

func (a *App) CreateAccount(ctx context.Context, args []string) error {
	username, password, err := a.credentials(args)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	res, err := a.api.CreateAccount(ctx, username, password)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	printlnFn(createAccountMessage(username, res))
	return nil
}

func (a *App) AddWord(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: add word <word>")
		return nil
	}

	res, err := a.api.AddWord(ctx, args[0])
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	printlnFn(addWordMessage(res))
	return nil
}

func (a *App) AddWords(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: add words <word> ...")
		return nil
	}

	res, err := a.api.AddWords(ctx, args)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	switch {
	case !res.IsLoggedIn:
		printlnFn("You are not logged in")
	case res.InvalidNumberOfWords:
		printlnFn("Between 1 and 10 words, please")
	default:
		for _, sub := range res.AddWordResponses {
			printlnFn(addWordsSubMessage(sub))
		}
	}
	return nil
}

func (a *App) RemoveWord(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: remove word <word>")
		return nil
	}

	res, err := a.api.RemoveWord(ctx, args[0])
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	printlnFn(removeWordMessage(res))
	return nil
}

func (a *App) GetWords(ctx context.Context) error {
	res, err := a.api.GetWords(ctx)
	if err != nil {
		printlnFn("error:", err)
		return err
	}

	if !res.Success {
		printlnFn("You are not logged in")
		return nil
	}

	if len(res.Words) == 0 {
		printlnFn("No words yet")
		return nil
	}

	words := make([]string, len(res.Words))
	for i, w := range res.Words {
		words[i] = w.Word
	}
	printlnFn("Your words:", strings.Join(words, ", "))
	return nil
}

func loginMessage(username string, res protocol.LoginResponse) string {
	switch {
	case res.Success:
		return fmt.Sprintf("Logged in as %s", username)
	case res.AlreadyLoggedIn:
		return "You are already logged in"
	case res.InvalidUsername:
		return "Invalid username"
	case res.InvalidPassword:
		return "Invalid password"
	case res.IncorrectUsername:
		return "Unknown username"
	case res.IncorrectPassword:
		return "Incorrect password"
	default:
		return "Login failed"
	}
}

func createAccountMessage(username string, res protocol.CreateAccountResponse) string {
	switch {
	case res.Success:
		return fmt.Sprintf("Account %s created", username)
	case res.InvalidUsername:
		return "Invalid username"
	case res.InvalidPassword:
		return "Invalid password"
	case res.UsernameTaken:
		return "That username is taken"
	default:
		return "Could not create account"
	}
}

func addWordMessage(res protocol.AddWordResponse) string {
	switch {
	case res.Success:
		return fmt.Sprintf("Added %q", res.Word)
	case !res.IsLoggedIn:
		return "You are not logged in"
	case !res.IsValidWord:
		return fmt.Sprintf("%q is not a valid word", res.Word)
	case res.WordAlreadyAdded:
		return fmt.Sprintf("%q is already in your words", res.Word)
	default:
		return fmt.Sprintf("Could not add %q", res.Word)
	}
}

func addWordsSubMessage(res protocol.AddWordsSubResponse) string {
	switch {
	case res.Success:
		return fmt.Sprintf("Added %q", res.Word)
	case !res.IsValidWord:
		return fmt.Sprintf("%q is not a valid word", res.Word)
	case res.WordAlreadyAdded:
		return fmt.Sprintf("%q is already in your words", res.Word)
	default:
		return fmt.Sprintf("Could not add %q", res.Word)
	}
}

func removeWordMessage(res protocol.RemoveWordResponse) string {
	switch {
	case res.Success:
		return fmt.Sprintf("Removed %q", res.Word)
	case !res.IsLoggedIn:
		return "You are not logged in"
	case !res.IsValidWord:
		return fmt.Sprintf("%q is not a valid word", res.Word)
	case res.WordNotYetAdded:
		return fmt.Sprintf("%q is not in your words", res.Word)
	default:
		return fmt.Sprintf("Could not remove %q", res.Word)
	}
}
