package store

import (
	"database/sql"
	"time"

	"linkup/models"
)

// UserStore is the user directory. The relationship engine only reads from
// it; the auth surface owns the writes.
type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = "id, username, display_name, avatar, bio, location, is_onboarded, created_at, updated_at"

func scanUser(row *sql.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.Username, &u.DisplayName, &u.Avatar, &u.Bio, &u.Location,
		&u.IsOnboarded, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) GetUser(id string) (*models.User, error) {
	row := s.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE id = ?",
		id,
	)
	return scanUser(row)
}

func (s *UserStore) GetByUsername(username string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRow(
		"SELECT "+userColumns+", password FROM users WHERE username = ?",
		username,
	).Scan(
		&u.ID, &u.Username, &u.DisplayName, &u.Avatar, &u.Bio, &u.Location,
		&u.IsOnboarded, &u.CreatedAt, &u.UpdatedAt, &u.Password,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *UserStore) UsernameExists(username string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)",
		username,
	).Scan(&exists)
	if err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (s *UserStore) Exists(id string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(
		"SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)",
		id,
	).Scan(&exists)
	if err != nil {
		return false, translate(err)
	}
	return exists, nil
}

func (s *UserStore) Create(id, username, displayName, avatar, hashedPassword string) error {
	now := time.Now()
	_, err := s.db.Exec(
		"INSERT INTO users (id, username, display_name, avatar, password, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		id, username, displayName, avatar, hashedPassword, now, now,
	)
	return translate(err)
}

func (s *UserStore) UpdateProfile(id, displayName, avatar, bio, location string) error {
	_, err := s.db.Exec(
		`UPDATE users SET
			display_name = COALESCE(NULLIF(?, ''), display_name),
			avatar       = COALESCE(NULLIF(?, ''), avatar),
			bio          = COALESCE(NULLIF(?, ''), bio),
			location     = COALESCE(NULLIF(?, ''), location),
			updated_at   = ?
		WHERE id = ?`,
		displayName, avatar, bio, location, time.Now(), id,
	)
	return translate(err)
}

// CompleteOnboarding fills in the profile and flips is_onboarded. The flag
// only ever moves false to true; completing again just rewrites the profile.
func (s *UserStore) CompleteOnboarding(id, displayName, avatar, bio, location string) error {
	exists, err := s.Exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}

	_, err = s.db.Exec(
		`UPDATE users SET
			display_name = ?,
			avatar       = COALESCE(NULLIF(?, ''), avatar),
			bio          = ?,
			location     = ?,
			is_onboarded = 1,
			updated_at   = ?
		WHERE id = ?`,
		displayName, avatar, bio, location, time.Now(), id,
	)
	return translate(err)
}

// ListOnboarded returns every onboarded user except the excluded one, in
// username order. Semantically a set; the order is only a stable iteration
// for a fixed directory snapshot.
func (s *UserStore) ListOnboarded(excluding string) ([]models.User, error) {
	rows, err := s.db.Query(
		"SELECT "+userColumns+" FROM users WHERE id != ? AND is_onboarded = 1 ORDER BY username",
		excluding,
	)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (s *UserStore) Search(excluding, query string, limit int) ([]models.User, error) {
	rows, err := s.db.Query(
		"SELECT "+userColumns+" FROM users WHERE id != ? AND (username LIKE ? OR display_name LIKE ?) LIMIT ?",
		excluding, "%"+query+"%", "%"+query+"%", limit,
	)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(
			&u.ID, &u.Username, &u.DisplayName, &u.Avatar, &u.Bio, &u.Location,
			&u.IsOnboarded, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, translate(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err)
	}
	return users, nil
}
