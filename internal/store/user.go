// File: internal/store/user.go
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"messenger-user-management/internal/database"
	"messenger-user-management/internal/model"

	"github.com/jackc/pgx/v5"
)

var (
	// ErrUserExists is returned when an insert hits the username uniqueness
	// constraint.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when no row matches the given id.
	ErrUserNotFound = errors.New("user not found")
)

// queryTimeout bounds every store call. Handlers otherwise inherit the request
// context, which carries no deadline of its own.
const queryTimeout = 3 * time.Second

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, queryTimeout)
}

// CreateUser inserts a new user and returns the stored projection, including
// the generated id. The insert-or-ignore conflict policy maps a duplicate
// username to ErrUserExists; RETURNING hands back the row in the same round
// trip, so there is no window for a concurrent delete to lose the row.
func CreateUser(ctx context.Context, db database.DB, u *model.User) (*model.UserInfo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := db.QueryRow(ctx,
		`INSERT INTO messenger_schema.users (username, first_name, last_name, email, password)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (username) DO NOTHING
		 RETURNING id, username, first_name, last_name, email`,
		u.Username,
		u.FirstName,
		u.LastName,
		u.Email,
		u.Password,
	)
	info := &model.UserInfo{}
	if err := row.Scan(
		&info.ID,
		&info.Username,
		&info.FirstName,
		&info.LastName,
		&info.Email,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("CreateUser: %w", err)
	}
	return info, nil
}

// GetUserByID fetches the projection of one user by id.
func GetUserByID(ctx context.Context, db database.DB, userID int) (*model.UserInfo, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := db.QueryRow(ctx,
		`SELECT id, username, first_name, last_name, email
		 FROM messenger_schema.users WHERE id = $1`,
		userID,
	)
	info := &model.UserInfo{}
	if err := row.Scan(
		&info.ID,
		&info.Username,
		&info.FirstName,
		&info.LastName,
		&info.Email,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("GetUserByID: %w", err)
	}
	return info, nil
}

// UpdateUser replaces all mutable fields of the user identified by u.ID.
func UpdateUser(ctx context.Context, db database.DB, u *model.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := db.Exec(ctx,
		`UPDATE messenger_schema.users
		 SET username = $1, first_name = $2, last_name = $3, email = $4, password = $5
		 WHERE id = $6`,
		u.Username,
		u.FirstName,
		u.LastName,
		u.Email,
		u.Password,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("UpdateUser: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user identified by id.
func DeleteUser(ctx context.Context, db database.DB, userID int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := db.Exec(ctx,
		`DELETE FROM messenger_schema.users WHERE id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteUser: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
