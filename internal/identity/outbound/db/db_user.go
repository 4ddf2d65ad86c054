package db

import (
	"context"

	"github.com/wishbox/wishbox/internal/identity/entity"
)

const sqlCreateUser = `
INSERT INTO users (id, name, email)
VALUES ($1, $2, $3)`

func (s *DB) CreateUser(ctx context.Context, user entity.User) (err error) {
	ctx, span := s.startSpan(ctx, "CreateUser")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, sqlCreateUser, user.ID, user.Name, user.Email)
	err = s.mapError(err)
	return err
}

const sqlGetUserByEmail = `
SELECT id, name, email
FROM users
WHERE email = $1`

func (s *DB) GetUserByEmail(ctx context.Context, email string) (user *entity.User, err error) {
	ctx, span := s.startSpan(ctx, "GetUserByEmail")
	defer func() { s.endSpan(span, err) }()

	var u entity.User
	err = s.conn.QueryRow(ctx, sqlGetUserByEmail, email).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		return nil, s.mapError(err)
	}

	return &u, nil
}
