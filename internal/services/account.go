package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fluffle/apiserver/internal/apperr"
	"github.com/fluffle/apiserver/internal/creds"
	"github.com/fluffle/apiserver/internal/store"
	"github.com/fluffle/apiserver/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	UpdatePasswordHash(ctx context.Context, username, passwordHash string) error
	SecurityQuestions(ctx context.Context, username string) ([2]string, error)
	SecurityAnswerHashes(ctx context.Context, username string) ([2]string, error)
}

// AccountService encapsulates registration, login, and password-reset
// use-cases.
type AccountService struct {
	repo UserRepository
}

func NewAccountService(repo UserRepository) *AccountService {
	return &AccountService{repo: repo}
}

// RegisterParams carries the inputs for a registration attempt. QuestionIDs
// and Answers are positional: index 0 is the first question, index 1 the
// second.
type RegisterParams struct {
	Username    string
	Email       string
	Password    string
	QuestionIDs []int
	Answers     []string
}

// Register validates the params, hashes the password and both answers, and
// creates the user. Duplicate usernames and emails surface as distinct
// conflict errors.
func (s *AccountService) Register(ctx context.Context, params RegisterParams) (types.PublicUser, error) {
	username := strings.TrimSpace(params.Username)
	email := strings.ToLower(strings.TrimSpace(params.Email))

	if !creds.ValidUsername(username) {
		return types.PublicUser{}, apperr.Validation("You must provide a valid username.")
	}
	if !creds.ValidEmail(email) {
		return types.PublicUser{}, apperr.Validation("You must provide a valid email address.")
	}
	if !creds.ValidPassword(params.Password) {
		return types.PublicUser{}, apperr.Validation("You must provide a valid password.")
	}

	if len(params.QuestionIDs) < 2 {
		return types.PublicUser{}, apperr.Validation("You must select two security questions to register an account.")
	}
	for i, id := range params.QuestionIDs[:2] {
		if id <= 0 {
			return types.PublicUser{}, apperr.Validation(fmt.Sprintf("Question %d must be a positive integer", i))
		}
	}
	if params.QuestionIDs[0] == params.QuestionIDs[1] {
		return types.PublicUser{}, apperr.Validation("You must select two different security questions.")
	}

	if len(params.Answers) < 2 {
		return types.PublicUser{}, apperr.Validation("You must answer two security questions to register an account.")
	}
	var answerHashes [2]string
	for i, answer := range params.Answers[:2] {
		answer = strings.TrimSpace(answer)
		if answer == "" {
			return types.PublicUser{}, apperr.Validation(fmt.Sprintf("Answer %d must be valid", i))
		}
		hash, err := creds.HashSecret(answer)
		if err != nil {
			return types.PublicUser{}, apperr.Storage("Failed to register the account", err)
		}
		answerHashes[i] = hash
	}

	passwordHash, err := creds.HashSecret(params.Password)
	if err != nil {
		return types.PublicUser{}, apperr.Storage("Failed to register the account", err)
	}

	user, err := s.repo.Create(ctx, types.User{
		Username:              username,
		Email:                 email,
		PasswordHash:          passwordHash,
		SecurityQuestionOne:   params.QuestionIDs[0],
		SecurityQuestionTwo:   params.QuestionIDs[1],
		SecurityAnswerHashOne: answerHashes[0],
		SecurityAnswerHashTwo: answerHashes[1],
	})
	if err != nil {
		return types.PublicUser{}, err
	}
	return user.Public(), nil
}

// Login verifies the credentials and returns the public user view. Unknown
// usernames and wrong passwords produce the same generic error.
func (s *AccountService) Login(ctx context.Context, username, password string) (types.PublicUser, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return types.PublicUser{}, apperr.Validation("You must provide a username.")
	}
	if password == "" {
		return types.PublicUser{}, apperr.Validation("You must provide a password.")
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.PublicUser{}, apperr.Auth("Invalid username or password")
		}
		return types.PublicUser{}, err
	}
	if !creds.VerifySecret(password, user.PasswordHash) {
		return types.PublicUser{}, apperr.Auth("Invalid username or password")
	}
	return user.Public(), nil
}

// FetchUserSecurityQuestions returns the two prompts associated with the
// username, for the password-reset flow.
func (s *AccountService) FetchUserSecurityQuestions(ctx context.Context, username string) ([2]string, error) {
	username = strings.TrimSpace(username)
	if !creds.ValidUsername(username) {
		return [2]string{}, apperr.Validation("You must provide a valid username.")
	}

	questions, err := s.repo.SecurityQuestions(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return [2]string{}, apperr.NotFound("Failed to find security questions for this user.")
		}
		return [2]string{}, err
	}
	return questions, nil
}

// ResetPassword replaces the stored password hash after both security
// answers verify. A failed answer check stops the flow before any mutation.
func (s *AccountService) ResetPassword(ctx context.Context, username, newPassword string, answers []string) error {
	username = strings.TrimSpace(username)
	if !creds.ValidUsername(username) {
		return apperr.Validation("You must provide a valid username.")
	}
	if !creds.ValidPassword(newPassword) {
		return apperr.Validation("Your new password must be valid.")
	}
	if len(answers) < 2 {
		return apperr.Validation("You must answer the two security questions assigned to this account.")
	}
	for i, answer := range answers[:2] {
		if strings.TrimSpace(answer) == "" {
			return apperr.Validation(fmt.Sprintf("Answer %d must be valid", i))
		}
	}

	hashes, err := s.repo.SecurityAnswerHashes(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperr.Auth("Failed to change the password. Check the username and answers you provided.")
		}
		return err
	}
	if !creds.VerifySecret(strings.TrimSpace(answers[0]), hashes[0]) ||
		!creds.VerifySecret(strings.TrimSpace(answers[1]), hashes[1]) {
		return apperr.Auth("Failed to change the password. Check the username and answers you provided.")
	}

	passwordHash, err := creds.HashSecret(newPassword)
	if err != nil {
		return apperr.Storage("Failed to change the password", err)
	}
	return s.repo.UpdatePasswordHash(ctx, username, passwordHash)
}
