// Package words implements the worker node's request pipeline: input
// validation, the login/session gate, database-mediated word mutations,
// and fan-out of successful mutations to the user's other sessions, both
// on this worker and (via the master relay) on every sibling worker.
package words

import (
	"context"
	"errors"

	"github.com/beaumontjonathan/words/internal/common"
	"github.com/beaumontjonathan/words/internal/logging"
	"github.com/beaumontjonathan/words/internal/protocol"
	"github.com/beaumontjonathan/words/internal/worker/models"
	"github.com/beaumontjonathan/words/internal/worker/repositories/accounts"
	"github.com/beaumontjonathan/words/internal/worker/session"
	"golang.org/x/crypto/bcrypt"
)

// Bulk addWords bounds. A request outside them is rejected with
// invalidNumberOfWords before any word is examined.
const (
	minWordsPerRequest = 1
	maxWordsPerRequest = 10
)

// Publisher forwards successful mutations to the master relay. A message
// published while the master is unreachable is silently dropped; sibling
// sessions stay stale until their next getWords.
type Publisher interface {
	PublishAdd(rel protocol.AddWordRelay)
	PublishRemove(rel protocol.RemoveWordRelay)
}

// Service handles the words API for one worker process. It holds no
// per-connection state beyond what the session registry tracks: a
// connection either has an authenticated username or it does not.
type Service struct {
	repo      accounts.Repository
	registry  *session.Registry
	publisher Publisher
	logger    logging.Logger
}

func NewService(repo accounts.Repository, registry *session.Registry, publisher Publisher, logger logging.Logger) *Service {
	return &Service{
		repo:      repo,
		registry:  registry,
		publisher: publisher,
		logger:    logger.With("module", "words_service"),
	}
}

// Login authenticates the connection. The already-logged-in check runs
// before any credential work; format validation runs before any store
// access. A nonexistent username reports both incorrect flags, since the
// password cannot be checked against anything.
func (s *Service) Login(ctx context.Context, conn session.Conn, req protocol.LoginRequest) protocol.LoginResponse {
	var res protocol.LoginResponse

	if s.registry.IsConnLoggedIn(conn.ID()) {
		res.AlreadyLoggedIn = true
		return res
	}

	res.InvalidUsername = !validUsername(req.Username)
	res.InvalidPassword = !validPassword(req.Password)
	if res.InvalidUsername || res.InvalidPassword {
		return res
	}

	account, err := s.repo.ByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			res.IncorrectUsername = true
			res.IncorrectPassword = true
			return res
		}
		s.logger.Error(ctx, "login store error", "username", req.Username, "error", err)
		return res
	}

	if bcrypt.CompareHashAndPassword(account.PasswordDigest, []byte(req.Password)) != nil {
		res.IncorrectPassword = true
		return res
	}

	s.registry.Login(req.Username, conn)
	s.logger.Info(ctx, "logged in", "username", req.Username, "conn", conn.ID())
	res.Success = true
	return res
}

// Logout ends the connection's session. Success mirrors wasLoggedIn:
// removal only succeeds when a session existed.
func (s *Service) Logout(ctx context.Context, conn session.Conn) protocol.LogoutResponse {
	wasLoggedIn := s.registry.Logout(conn.ID())
	if wasLoggedIn {
		s.logger.Info(ctx, "logged out", "conn", conn.ID())
	}
	return protocol.LogoutResponse{Success: wasLoggedIn, WasLoggedIn: wasLoggedIn}
}

// CreateAccount registers a new account after format validation. The
// username collision surfaces as usernameTaken, not an error.
func (s *Service) CreateAccount(ctx context.Context, req protocol.CreateAccountRequest) protocol.CreateAccountResponse {
	var res protocol.CreateAccountResponse

	res.InvalidUsername = !validUsername(req.Username)
	res.InvalidPassword = !validPassword(req.Password)
	if res.InvalidUsername || res.InvalidPassword {
		return res
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error(ctx, "password hashing error", "error", err)
		return res
	}

	_, err = s.repo.Create(ctx, &models.Account{Username: req.Username, PasswordDigest: digest})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			res.UsernameTaken = true
			return res
		}
		s.logger.Error(ctx, "create account store error", "username", req.Username, "error", err)
		return res
	}

	s.logger.Info(ctx, "account created", "username", req.Username)
	res.Success = true
	return res
}

// AddWord adds one word for the connection's user. Gates run in order:
// logged-in, word format, duplicate check, insert. On success the caller
// delivers the response to the originating connection, while this method
// fans the same response out to the user's other local sessions and
// publishes it to the master for sibling workers.
func (s *Service) AddWord(ctx context.Context, conn session.Conn, req protocol.AddWordRequest) protocol.AddWordResponse {
	username, ok := s.registry.Username(conn.ID())
	if !ok {
		return protocol.AddWordResponse{Word: req.Word}
	}
	return s.addWordForUser(ctx, username, req.Word, conn.ID())
}

// AddWords is the bulk form: the count gate replaces per-request word
// validation, then each word runs the single-add pipeline, fanning out and
// relaying individually so sibling sessions converge word by word.
func (s *Service) AddWords(ctx context.Context, conn session.Conn, req protocol.AddWordsRequest) protocol.AddWordsResponse {
	var res protocol.AddWordsResponse

	username, ok := s.registry.Username(conn.ID())
	if !ok {
		return res
	}
	res.IsLoggedIn = true

	if len(req.Words) < minWordsPerRequest || len(req.Words) > maxWordsPerRequest {
		res.InvalidNumberOfWords = true
		return res
	}

	res.Success = true
	for _, word := range req.Words {
		sub := s.addWordForUser(ctx, username, word, conn.ID())
		res.AddWordResponses = append(res.AddWordResponses, protocol.AddWordsSubResponse{
			Success:          sub.Success,
			Word:             sub.Word,
			IsValidWord:      sub.IsValidWord,
			WordAlreadyAdded: sub.WordAlreadyAdded,
		})
		if !sub.Success {
			res.Success = false
		}
	}
	return res
}

func (s *Service) addWordForUser(ctx context.Context, username, word, originConnID string) protocol.AddWordResponse {
	res := protocol.AddWordResponse{Word: word, IsLoggedIn: true}

	if !validWord(word) {
		return res
	}
	res.IsValidWord = true

	exists, err := s.repo.WordExists(ctx, username, word)
	if err != nil {
		s.logger.Error(ctx, "add word store error", "username", username, "word", word, "error", err)
		return res
	}
	if exists {
		res.WordAlreadyAdded = true
		return res
	}

	inserted, err := s.repo.AddWord(ctx, username, word)
	if err != nil {
		s.logger.Error(ctx, "add word store error", "username", username, "word", word, "error", err)
		return res
	}
	if !inserted {
		// Lost a concurrent duplicate race or the account vanished.
		return res
	}

	res.Success = true
	s.fanout(username, originConnID, protocol.ActionAddWord, res)
	s.publisher.PublishAdd(protocol.AddWordRelay{Username: username, Res: res})
	return res
}

// RemoveWord mirrors AddWord with wordNotYetAdded as the pre-check flag.
func (s *Service) RemoveWord(ctx context.Context, conn session.Conn, req protocol.RemoveWordRequest) protocol.RemoveWordResponse {
	res := protocol.RemoveWordResponse{Word: req.Word}

	username, ok := s.registry.Username(conn.ID())
	if !ok {
		return res
	}
	res.IsLoggedIn = true

	if !validWord(req.Word) {
		return res
	}
	res.IsValidWord = true

	exists, err := s.repo.WordExists(ctx, username, req.Word)
	if err != nil {
		s.logger.Error(ctx, "remove word store error", "username", username, "word", req.Word, "error", err)
		return res
	}
	if !exists {
		res.WordNotYetAdded = true
		return res
	}

	removed, err := s.repo.RemoveWord(ctx, username, req.Word)
	if err != nil {
		s.logger.Error(ctx, "remove word store error", "username", username, "word", req.Word, "error", err)
		return res
	}
	if !removed {
		return res
	}

	res.Success = true
	s.fanout(username, conn.ID(), protocol.ActionRemoveWord, res)
	s.publisher.PublishRemove(protocol.RemoveWordRelay{Username: username, Res: res})
	return res
}

// GetWords returns the user's full current list. The store is the source
// of truth; no cache is consulted.
func (s *Service) GetWords(ctx context.Context, conn session.Conn) protocol.GetWordsResponse {
	var res protocol.GetWordsResponse

	username, ok := s.registry.Username(conn.ID())
	if !ok {
		return res
	}
	res.IsLoggedIn = true

	stored, err := s.repo.ListWords(ctx, username)
	if err != nil {
		s.logger.Error(ctx, "get words store error", "username", username, "error", err)
		return res
	}

	res.Words = make([]protocol.Word, 0, len(stored))
	for _, w := range stored {
		res.Words = append(res.Words, protocol.Word{ID: w.ID, Word: w.Word})
	}
	res.Success = true
	return res
}

// Disconnect cleans up the connection's session. Called by the transport
// when the peer drops, so no dangling sessions survive a disconnect.
func (s *Service) Disconnect(ctx context.Context, conn session.Conn) {
	if s.registry.Logout(conn.ID()) {
		s.logger.Info(ctx, "session cleaned up on disconnect", "conn", conn.ID())
	}
}

// ApplyAddEcho delivers a mutation relayed from another worker to every
// local session of the user. The master never echoes back to the
// originating worker, so there is no connection to exclude here.
func (s *Service) ApplyAddEcho(rel protocol.AddWordRelay) {
	s.fanout(rel.Username, "", protocol.ActionAddWord, rel.Res)
}

// ApplyRemoveEcho is the removal counterpart of ApplyAddEcho.
func (s *Service) ApplyRemoveEcho(rel protocol.RemoveWordRelay) {
	s.fanout(rel.Username, "", protocol.ActionRemoveWord, rel.Res)
}

// fanout pushes a mutation result to every local session of username except
// the originating connection, so two tabs on the same worker both update
// without waiting on the relay round trip.
func (s *Service) fanout(username, originConnID, action string, payload any) {
	env, err := protocol.NewEnvelope(action, payload)
	if err != nil {
		s.logger.Error(context.Background(), "fanout encode error", "action", action, "error", err)
		return
	}
	s.registry.ForEachConn(username, func(c session.Conn) {
		if c.ID() == originConnID {
			return
		}
		c.Send(env)
	})
}
