package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fluffle/apiserver/internal/apperr"
	"github.com/fluffle/apiserver/types"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserRepoWithMock(t *testing.T) (*UserRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewUserRepository(db), mock, db
}

func TestUserGetByUsernameFound(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(7, "alice", "alice@example.com", "digest", time.Now(), time.Now())
	mock.ExpectQuery(`SELECT id, username, email, password_hash.*FROM users.*WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(rows)

	user, err := repo.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "digest", user.PasswordHash)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByUsernameNotFound(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, username, email, password_hash.*FROM users`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	_, err := repo.Create(context.Background(), types.User{Username: "alice"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "An account with this username is already registered", err.Error())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	_, err := repo.Create(context.Background(), types.User{Email: "alice@example.com"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Equal(t, "An account with this email address is already registered", err.Error())
}

func TestUserCreateSuccess(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))

	user, err := repo.Create(context.Background(), types.User{Username: "alice"})
	require.NoError(t, err)
	assert.Equal(t, 12, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUpdatePasswordHashMissingUser(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE users.*SET password_hash`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdatePasswordHash(context.Background(), "ghost", "digest")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSecurityAnswerHashes(t *testing.T) {
	repo, mock, db := newUserRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"security_answer_hash_one", "security_answer_hash_two"}).
		AddRow("hash-one", "hash-two")
	mock.ExpectQuery(`SELECT security_answer_hash_one, security_answer_hash_two.*FROM users`).
		WithArgs("alice").
		WillReturnRows(rows)

	hashes, err := repo.SecurityAnswerHashes(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, [2]string{"hash-one", "hash-two"}, hashes)
}
