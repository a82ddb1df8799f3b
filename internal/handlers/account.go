package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/fluffle/apiserver/internal/services"
	"github.com/fluffle/apiserver/internal/session"
	"github.com/fluffle/apiserver/types"
	"github.com/go-chi/chi/v5"
)

// AccountHandler provides the account endpoints: registration, login,
// logout, current-user, and the password-reset flow.
type AccountHandler struct {
	accounts *services.AccountService
	sessions *session.Manager
}

// NewAccountHandler constructs an AccountHandler with the provided dependencies.
func NewAccountHandler(accounts *services.AccountService, sessions *session.Manager) *AccountHandler {
	return &AccountHandler{accounts: accounts, sessions: sessions}
}

// AccountRouter registers account routes on the given router.
func AccountRouter(r chi.Router, accounts *services.AccountService, sessions *session.Manager) {
	handler := NewAccountHandler(accounts, sessions)

	r.Get("/whoIsLoggedIn", handler.WhoIsLoggedIn)
	r.Get("/register", handler.Register)
	r.Get("/login", handler.Login)
	r.Get("/logout", handler.Logout)
	r.Get("/fetchUserSecurityQuestions", handler.FetchUserSecurityQuestions)
	r.Get("/resetPassword", handler.ResetPassword)
}

// UserResponse wraps the session's user view; User is null when anonymous.
type UserResponse struct {
	User *types.PublicUser `json:"user"`
}

type QuestionsResponse struct {
	UserQuestions [2]string `json:"userQuestions"`
}

type SuccessResponse struct {
	Success string `json:"success"`
}

// WhoIsLoggedIn returns the session user, or null. Never fails.
func (h *AccountHandler) WhoIsLoggedIn(w http.ResponseWriter, r *http.Request) {
	if user, ok := session.UserFrom(r.Context()); ok {
		writeJSON(w, http.StatusOK, UserResponse{User: &user})
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: nil})
}

// Register creates a new account and immediately authenticates the session
// with the same credentials.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	questionIDs := make([]int, 0, 2)
	for _, raw := range queryAll(r, "questions") {
		// non-numeric ids become 0 and fail positive-id validation
		id, _ := strconv.Atoi(strings.TrimSpace(raw))
		questionIDs = append(questionIDs, id)
	}

	params := services.RegisterParams{
		Username:    queryString(r, "username"),
		Email:       queryString(r, "email"),
		Password:    r.URL.Query().Get("password"),
		QuestionIDs: questionIDs,
		Answers:     queryAll(r, "answers"),
	}

	user, err := h.accounts.Register(r.Context(), params)
	if err != nil {
		writeAppError(w, err)
		return
	}

	if err := h.sessions.Issue(r.Context(), w, user); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: &user})
}

// Login verifies credentials and starts a session.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	user, err := h.accounts.Login(r.Context(), queryString(r, "username"), r.URL.Query().Get("password"))
	if err != nil {
		writeAppError(w, err)
		return
	}

	if err := h.sessions.Issue(r.Context(), w, user); err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{User: &user})
}

// Logout clears the session unconditionally. Idempotent.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(r.Context(), w, r)
	writeJSON(w, http.StatusOK, UserResponse{User: nil})
}

// FetchUserSecurityQuestions returns the two prompts for a username.
func (h *AccountHandler) FetchUserSecurityQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := h.accounts.FetchUserSecurityQuestions(r.Context(), queryString(r, "username"))
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, QuestionsResponse{UserQuestions: questions})
}

// ResetPassword updates the password after both security answers verify.
func (h *AccountHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	err := h.accounts.ResetPassword(
		r.Context(),
		queryString(r, "username"),
		r.URL.Query().Get("password"),
		queryAll(r, "answers"),
	)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: "Password successfully changed!"})
}
