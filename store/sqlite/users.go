package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// User is an identity record. Subject is the opaque identifier supplied by
// the authentication layer (the token's sub claim).
type User struct {
	ID        string
	Subject   string
	Email     string
	Name      string
	CreatedAt time.Time
}

// UpsertUserBySubject returns the user for the given auth subject, creating
// the record on first sight. Email and name are filled in on creation only.
func (s *Store) UpsertUserBySubject(ctx context.Context, subject, email, name string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.getUserBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &User{
		ID:        NewID("user"),
		Subject:   subject,
		Email:     email,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, subject, email, name, created_at) VALUES (?, ?, ?, ?, ?)`,
		user.ID, user.Subject, nullString(user.Email), nullString(user.Name), formatTime(user.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetUser returns a user by id, or nil when absent.
func (s *Store) GetUser(ctx context.Context, id string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, subject, email, name, created_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// ListUsers returns all users. Used by the background reminder sweep.
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject, email, name, created_at FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func (s *Store) getUserBySubject(ctx context.Context, subject string) (*User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, subject, email, name, created_at FROM users WHERE subject = ?`, subject)
	return scanUser(row)
}

func scanUser(row rowsScanner) (*User, error) {
	var (
		user      User
		email     sql.NullString
		name      sql.NullString
		createdAt string
	)
	err := row.Scan(&user.ID, &user.Subject, &email, &name, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	user.Email = email.String
	user.Name = name.String
	user.CreatedAt = parseTimeCol(createdAt)
	return &user, nil
}
