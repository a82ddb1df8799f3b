package types

import "time"

// User represents an account in the system.
// It contains identity, credential, and password-recovery data.
type User struct {
	// ID is the unique identifier of the user.
	ID int `json:"id" db:"id"`

	// Username is the unique login name chosen by the user.
	Username string `json:"username" db:"username"`

	// Email is the user's email address, stored lowercased.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the hashed representation of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// SecurityQuestionOne and SecurityQuestionTwo reference the two
	// distinct security questions chosen at registration.
	SecurityQuestionOne int `json:"-" db:"security_question_one"`
	SecurityQuestionTwo int `json:"-" db:"security_question_two"`

	// SecurityAnswerHashOne and SecurityAnswerHashTwo store the hashed
	// answers to the chosen questions. Never exposed in API responses.
	SecurityAnswerHashOne string `json:"-" db:"security_answer_hash_one"`
	SecurityAnswerHashTwo string `json:"-" db:"security_answer_hash_two"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the user account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PublicUser is the view of a user safe to hand to clients and to keep in
// the session. It carries no credential material.
type PublicUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the client-facing view of the user.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}
