package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fluffle/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (types.User, error) {
	const query = `
		SELECT id, username, email, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1`
	var user types.User
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (
			username, email, password_hash,
			security_question_one, security_question_two,
			security_answer_hash_one, security_answer_hash_two,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.SecurityQuestionOne,
		user.SecurityQuestionTwo,
		user.SecurityAnswerHashOne,
		user.SecurityAnswerHashTwo,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID); err != nil {
		return types.User{}, translateConstraint(err)
	}
	return user, nil
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, username, passwordHash string) error {
	const query = `
		UPDATE users
		SET password_hash = $1,
			updated_at = $2
		WHERE username = $3`
	result, err := r.db.ExecContext(ctx, query, passwordHash, time.Now(), username)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// SecurityQuestions returns the prompts of the two questions the user chose
// at registration, in order.
func (r *UserRepository) SecurityQuestions(ctx context.Context, username string) ([2]string, error) {
	const query = `
		SELECT a.question, b.question
		FROM users
		JOIN security_questions a ON users.security_question_one = a.id
		JOIN security_questions b ON users.security_question_two = b.id
		WHERE users.username = $1`
	var questions [2]string
	err := r.db.QueryRowContext(ctx, query, username).Scan(&questions[0], &questions[1])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return [2]string{}, ErrNotFound
		}
		return [2]string{}, err
	}
	return questions, nil
}

// SecurityAnswerHashes returns the stored answer digests for the user's two
// questions, in order.
func (r *UserRepository) SecurityAnswerHashes(ctx context.Context, username string) ([2]string, error) {
	const query = `
		SELECT security_answer_hash_one, security_answer_hash_two
		FROM users
		WHERE username = $1`
	var hashes [2]string
	err := r.db.QueryRowContext(ctx, query, username).Scan(&hashes[0], &hashes[1])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return [2]string{}, ErrNotFound
		}
		return [2]string{}, err
	}
	return hashes, nil
}
