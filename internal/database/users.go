package database

import (
	"context"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Username     string
	PasswordHash string
	Role         string
	Active       bool
}

const getUserByUsername = `
SELECT id, username, password_hash, role, active
FROM users
WHERE username = $1
`

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByUsername, username).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Active)
	return u, err
}

const getUserByID = `
SELECT id, username, password_hash, role, active
FROM users
WHERE id = $1
`

func (q *Queries) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := q.db.QueryRow(ctx, getUserByID, id).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &u.Active)
	return u, err
}
