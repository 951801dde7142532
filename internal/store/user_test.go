package store

import (
	"context"
	"errors"
	"testing"

	"messenger-user-management/internal/database"
	"messenger-user-management/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

// fakeRow implements pgx.Row for single-row scans.
type fakeRow struct {
	scanErr error
	info    *model.UserInfo
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.scanErr != nil {
		return r.scanErr
	}
	if len(dest) != 5 {
		panic("fakeRow.Scan: unexpected number of dest")
	}
	*dest[0].(*int) = r.info.ID
	*dest[1].(*string) = r.info.Username
	*dest[2].(*string) = r.info.FirstName
	*dest[3].(*string) = r.info.LastName
	*dest[4].(*string) = r.info.Email
	return nil
}

func sampleUser() *model.User {
	return &model.User{
		Username:  "alice",
		FirstName: "A",
		LastName:  "L",
		Email:     "a@x.com",
		Password:  "p",
	}
}

func TestCreateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotArgs []any
		db := &database.FakeDB{
			QueryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				_, hasDeadline := ctx.Deadline()
				require.True(t, hasDeadline)
				require.Contains(t, sql, "ON CONFLICT (username) DO NOTHING")
				require.Contains(t, sql, "RETURNING id, username, first_name, last_name, email")
				gotArgs = args
				return &fakeRow{info: &model.UserInfo{
					ID: 7, Username: "alice", FirstName: "A", LastName: "L", Email: "a@x.com",
				}}
			},
		}
		info, err := CreateUser(context.Background(), db, sampleUser())
		require.NoError(t, err)
		require.Equal(t, 7, info.ID)
		require.Equal(t, "alice", info.Username)
		require.Equal(t, []any{"alice", "A", "L", "a@x.com", "p"}, gotArgs)
	})

	t.Run("conflict maps to ErrUserExists", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := CreateUser(context.Background(), db, sampleUser())
		require.ErrorIs(t, err, ErrUserExists)
	})

	t.Run("query error wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeRow{scanErr: boom}
			},
		}
		_, err := CreateUser(context.Background(), db, sampleUser())
		require.ErrorIs(t, err, boom)
		require.Contains(t, err.Error(), "CreateUser")
	})
}

func TestGetUserByID(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
				require.Equal(t, []any{5}, args)
				require.Contains(t, sql, "FROM messenger_schema.users WHERE id = $1")
				return &fakeRow{info: &model.UserInfo{
					ID: 5, Username: "bob", FirstName: "B", LastName: "O", Email: "b@x.com",
				}}
			},
		}
		info, err := GetUserByID(context.Background(), db, 5)
		require.NoError(t, err)
		require.Equal(t, "bob", info.Username)
	})

	t.Run("missing row maps to ErrUserNotFound", func(t *testing.T) {
		db := &database.FakeDB{
			QueryRowFn: func(context.Context, string, ...any) pgx.Row {
				return &fakeRow{scanErr: pgx.ErrNoRows}
			},
		}
		_, err := GetUserByID(context.Background(), db, 5)
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
				require.Equal(t, []any{"alice", "A", "L", "a@x.com", "p", 3}, args)
				return pgconn.NewCommandTag("UPDATE 1"), nil
			},
		}
		u := sampleUser()
		u.ID = 3
		require.NoError(t, UpdateUser(context.Background(), db, u))
	})

	t.Run("no match maps to ErrUserNotFound", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("UPDATE 0"), nil
			},
		}
		require.ErrorIs(t, UpdateUser(context.Background(), db, sampleUser()), ErrUserNotFound)
	})

	t.Run("exec error wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		db := &database.FakeDB{
			ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.CommandTag{}, boom
			},
		}
		require.ErrorIs(t, UpdateUser(context.Background(), db, sampleUser()), boom)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
				require.Contains(t, sql, "DELETE FROM messenger_schema.users WHERE id = $1")
				require.Equal(t, []any{9}, args)
				return pgconn.NewCommandTag("DELETE 1"), nil
			},
		}
		require.NoError(t, DeleteUser(context.Background(), db, 9))
	})

	t.Run("no match maps to ErrUserNotFound", func(t *testing.T) {
		db := &database.FakeDB{
			ExecFn: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
				return pgconn.NewCommandTag("DELETE 0"), nil
			},
		}
		require.ErrorIs(t, DeleteUser(context.Background(), db, 9), ErrUserNotFound)
	})
}
