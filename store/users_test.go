package store

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectUser = "SELECT id, username, display_name, avatar, bio, location, is_onboarded, created_at, updated_at FROM users WHERE id = ?"

func newUserStore(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db), mock
}

func userRow(id, username string, onboarded bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "username", "display_name", "avatar", "bio", "location", "is_onboarded", "created_at", "updated_at"}).
		AddRow(id, username, username, "", "", "", onboarded, now, now)
}

func TestGetUser(t *testing.T) {
	s, mock := newUserStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUser)).
		WithArgs("u1").
		WillReturnRows(userRow("u1", "alice", true))

	u, err := s.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.IsOnboarded)
}

func TestGetUserMissing(t *testing.T) {
	s, mock := newUserStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(selectUser)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "display_name", "avatar", "bio", "location", "is_onboarded", "created_at", "updated_at"}))

	_, err := s.GetUser("ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListOnboardedExcludesCaller(t *testing.T) {
	s, mock := newUserStore(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "username", "display_name", "avatar", "bio", "location", "is_onboarded", "created_at", "updated_at"}).
		AddRow("u2", "bob", "Bob", "", "", "", true, now, now).
		AddRow("u3", "carol", "Carol", "", "", "", true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, username, display_name, avatar, bio, location, is_onboarded, created_at, updated_at FROM users WHERE id != ? AND is_onboarded = 1 ORDER BY username")).
		WithArgs("u1").
		WillReturnRows(rows)

	list, err := s.ListOnboarded("u1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, u := range list {
		assert.NotEqual(t, "u1", u.ID)
		assert.True(t, u.IsOnboarded)
	}
}

func TestCompleteOnboardingMissingUser(t *testing.T) {
	s, mock := newUserStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	err := s.CompleteOnboarding("ghost", "Ghost", "", "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteOnboarding(t *testing.T) {
	s, mock := newUserStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, s.CompleteOnboarding("u1", "Alice", "", "hi", "Lisbon"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
