package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/beaumontjonathan/words/internal/client/client"
	"github.com/beaumontjonathan/words/internal/client/config"
	"github.com/beaumontjonathan/words/internal/protocol"
)

// wordsAPI is the slice of the words client the CLI commands need. The real
// client.Client satisfies it; tests provide a stub.
type wordsAPI interface {
	Login(ctx context.Context, username, password string) (protocol.LoginResponse, error)
	Logout(ctx context.Context) (protocol.LogoutResponse, error)
	CreateAccount(ctx context.Context, username, password string) (protocol.CreateAccountResponse, error)
	AddWord(ctx context.Context, word string) (protocol.AddWordResponse, error)
	AddWords(ctx context.Context, words []string) (protocol.AddWordsResponse, error)
	RemoveWord(ctx context.Context, word string) (protocol.RemoveWordResponse, error)
	GetWords(ctx context.Context) (protocol.GetWordsResponse, error)
}

type App struct {
	config   *config.Config
	api      wordsAPI
	conn     *client.Client
	reader   *bufio.Reader
	userName string
}

func NewApp(c *config.Config) (*App, error) {

	conn := client.NewClient(c.ServerAddr, c.ResponseTimeout)

	a := &App{config: c, api: conn, conn: conn, reader: bufio.NewReader(os.Stdin)}
	conn.OnPush(a.printPush)

	return a, nil
}

func (a *App) Run(ctx context.Context) {

	if err := a.conn.Connect(ctx); err != nil {
		log.Printf("could not connect to %s: %v", a.config.ServerAddr, err)
		return
	}
	defer a.conn.Close()

	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	if a.userName == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", a.userName)
}

// printPush renders updates made in the user's other sessions, which arrive
// on the same actions as direct responses but answer no local request.
func (a *App) printPush(env protocol.Envelope) {
	switch env.Action {
	case protocol.ActionAddWord:
		var res protocol.AddWordResponse
		if err := env.Decode(&res); err != nil {
			return
		}
		printlnFn(fmt.Sprintf("* word %q added in another session", res.Word))
	case protocol.ActionRemoveWord:
		var res protocol.RemoveWordResponse
		if err := env.Decode(&res); err != nil {
			return
		}
		printlnFn(fmt.Sprintf("* word %q removed in another session", res.Word))
	}
}
