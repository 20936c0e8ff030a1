package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventplanner-backend/pkg/models"
)

func newMockStore(t *testing.T) (*SQLDatabase, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return newSQLDatabase(sqlx.NewDb(db, "postgres"), DriverPostgres, false), mock
}

func TestCreateUser(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("returns the generated id", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users \(username,password_hash,created_at\) VALUES \(\$1,\$2,\$3\) RETURNING id`).
			WithArgs("alice", "hash", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		u := &models.User{Username: "alice", PasswordHash: "hash"}
		require.NoError(t, store.CreateUser(ctx, u))
		assert.Equal(t, int64(1), u.ID)
		assert.False(t, u.CreatedAt.IsZero())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateKey", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

		err := store.CreateUser(ctx, &models.User{Username: "alice", PasswordHash: "hash"})
		require.Error(t, err)
		assert.True(t, IsDuplicateKey(err))

		var dbErr *Error
		require.True(t, errors.As(err, &dbErr))
		assert.Equal(t, "users_username_key", dbErr.Constraint)
		assert.Equal(t, "users", dbErr.Table)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetUserByID(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT id, username, password_hash, created_at FROM users WHERE id = \$1`).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(4, "bob", "hash", now()))

		u, err := store.GetUserByID(ctx, 4)
		require.NoError(t, err)
		assert.Equal(t, "bob", u.Username)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows(userColumns))

		u, err := store.GetUserByID(ctx, 99)
		assert.Nil(t, u)
		assert.True(t, IsNotFound(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListTasksByRoomJoinsAuthor(t *testing.T) {
	store, mock := newMockStore(t)

	roomID := int64(2)
	mock.ExpectQuery(`SELECT i.id, i.text, i.created_at, i.author_id, i.room_id, u.username AS author_name FROM tasks i JOIN users u ON u.id = i.author_id WHERE i.room_id = \$1 ORDER BY i.id`).
		WithArgs(roomID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "created_at", "author_id", "room_id", "author_name"}).
			AddRow(1, "book venue", now(), 5, roomID, "carol").
			AddRow(2, "send invites", now(), 6, roomID, "dave"))

	tasks, err := store.ListTasksByRoom(context.Background(), roomID)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "carol", tasks[0].AuthorName)
	assert.Equal(t, roomID, *tasks[1].RoomID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTaskTextMissingRow(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE tasks SET text = \$1 WHERE id = \$2`).
		WithArgs("new text", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.UpdateTaskText(context.Background(), 9, "new text")
	assert.True(t, IsNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRoomCascadesInTransaction(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	t.Run("commits", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM comments WHERE room_id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec(`DELETE FROM tasks WHERE room_id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM rooms WHERE id = \$1`).WithArgs(int64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, store.DeleteRoom(ctx, 3))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the room is gone", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM comments`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM tasks`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(`DELETE FROM rooms`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := store.DeleteRoom(ctx, 3)
		assert.True(t, IsNotFound(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestParseError(t *testing.T) {
	assert.Nil(t, parseError(nil, "op", "t"))

	fk := parseError(&pq.Error{Code: "23503", Constraint: "tasks_author_id_fkey"}, "create task", "tasks")
	assert.True(t, errors.Is(fk, ErrForeignKey))

	unique := parseError(sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, "create room", "rooms")
	assert.True(t, errors.Is(unique, ErrDuplicateKey))

	other := errors.New("boom")
	wrapped := parseError(other, "ping", "")
	assert.True(t, errors.Is(wrapped, other))
	assert.Contains(t, wrapped.Error(), "db: ping")
}

func TestSQLitePlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := newSQLDatabase(sqlx.NewDb(db, "sqlite3"), DriverSQLite, false)
	mock.ExpectExec(`DELETE FROM comments WHERE id = \?`).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.DeleteComment(context.Background(), 1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddConnectionParams(t *testing.T) {
	assert.Equal(t, "postgres://h/db?connect_timeout=10", addConnectionParams("postgres://h/db", "connect_timeout=10"))
	assert.Equal(t, "postgres://h/db?sslmode=disable&connect_timeout=10", addConnectionParams("postgres://h/db?sslmode=disable", "connect_timeout=10"))
	assert.Equal(t, "host=h dbname=db sslmode=require connect_timeout=10", addConnectionParams("host=h dbname=db", "sslmode=require&connect_timeout=10"))
	assert.Equal(t, "x", addConnectionParams("x", ""))
}
