package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventplanner-backend/pkg/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const (
	tableUsers    = "users"
	tableRooms    = "rooms"
	tableTasks    = "tasks"
	tableComments = "comments"
)

var (
	userColumns = []string{"id", "username", "password_hash", "created_at"}
	roomColumns = []string{"id", "name", "owner_id", "created_at"}
	itemColumns = []string{"id", "text", "created_at", "author_id", "room_id"}
)

// SQLDatabase implements DatabaseInterface on top of sqlx. The same queries serve
// Postgres and SQLite; only the placeholder format differs.
type SQLDatabase struct {
	db     *sqlx.DB
	sb     sq.StatementBuilderType
	driver string
	debug  bool
}

// newSQLDatabase wraps an open connection. driverName is the database/sql driver name.
func newSQLDatabase(db *sqlx.DB, driver string, debug bool) *SQLDatabase {
	var placeholder sq.PlaceholderFormat = sq.Question
	if driver == DriverPostgres {
		placeholder = sq.Dollar
	}
	return &SQLDatabase{
		db:     db,
		sb:     sq.StatementBuilder.PlaceholderFormat(placeholder),
		driver: driver,
		debug:  debug,
	}
}

// Driver returns "postgres" or "sqlite"
func (s *SQLDatabase) Driver() string {
	return s.driver
}

func (s *SQLDatabase) trace(op, query string, args []interface{}) {
	if s.debug {
		log.Debug().Str("op", op).Str("sql", query).Interface("args", args).Msg("query")
	}
}

// now is truncated so both drivers round-trip the same value
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// insertReturningID runs an INSERT ... RETURNING id and stores the new id in dest
func (s *SQLDatabase) insertReturningID(ctx context.Context, op, table string, b sq.InsertBuilder, dest *int64) error {
	query, args, err := b.Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	s.trace(op, query, args)

	if err := s.db.QueryRowxContext(ctx, query, args...).Scan(dest); err != nil {
		return parseError(err, op, table)
	}
	return nil
}

func (s *SQLDatabase) get(ctx context.Context, op, table string, dest interface{}, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	s.trace(op, query, args)

	if err := s.db.GetContext(ctx, dest, query, args...); err != nil {
		return parseError(err, op, table)
	}
	return nil
}

func (s *SQLDatabase) list(ctx context.Context, op, table string, dest interface{}, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	s.trace(op, query, args)

	if err := s.db.SelectContext(ctx, dest, query, args...); err != nil {
		return parseError(err, op, table)
	}
	return nil
}

// execOne runs a statement that must touch exactly one row
func execOne(ctx context.Context, ext sqlx.ExecerContext, op, table string, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}

	res, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return parseError(err, op, table)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return parseError(err, op, table)
	}
	if n == 0 {
		return &Error{Op: op, Table: table, Err: ErrNotFound}
	}
	return nil
}

// CreateUser 创建用户
func (s *SQLDatabase) CreateUser(ctx context.Context, user *models.User) error {
	user.CreatedAt = now()
	b := s.sb.Insert(tableUsers).
		Columns("username", "password_hash", "created_at").
		Values(user.Username, user.PasswordHash, user.CreatedAt)
	return s.insertReturningID(ctx, "create user", tableUsers, b, &user.ID)
}

// GetUserByID 根据ID获取用户
func (s *SQLDatabase) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	b := s.sb.Select(userColumns...).From(tableUsers).Where(sq.Eq{"id": id})
	if err := s.get(ctx, "get user", tableUsers, &u, b); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername 根据用户名获取用户
func (s *SQLDatabase) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	b := s.sb.Select(userColumns...).From(tableUsers).Where(sq.Eq{"username": username})
	if err := s.get(ctx, "get user by username", tableUsers, &u, b); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *SQLDatabase) CreateRoom(ctx context.Context, room *models.Room) error {
	room.CreatedAt = now()
	b := s.sb.Insert(tableRooms).
		Columns("name", "owner_id", "created_at").
		Values(room.Name, room.OwnerID, room.CreatedAt)
	return s.insertReturningID(ctx, "create room", tableRooms, b, &room.ID)
}

func (s *SQLDatabase) GetRoomByID(ctx context.Context, id int64) (*models.Room, error) {
	var r models.Room
	b := s.sb.Select(roomColumns...).From(tableRooms).Where(sq.Eq{"id": id})
	if err := s.get(ctx, "get room", tableRooms, &r, b); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLDatabase) GetRoomByName(ctx context.Context, name string) (*models.Room, error) {
	var r models.Room
	b := s.sb.Select(roomColumns...).From(tableRooms).Where(sq.Eq{"name": name})
	if err := s.get(ctx, "get room by name", tableRooms, &r, b); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *SQLDatabase) ListRoomsByOwner(ctx context.Context, ownerID int64) ([]models.Room, error) {
	rooms := []models.Room{}
	b := s.sb.Select(roomColumns...).From(tableRooms).Where(sq.Eq{"owner_id": ownerID}).OrderBy("id")
	if err := s.list(ctx, "list rooms", tableRooms, &rooms, b); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (s *SQLDatabase) CountRooms(ctx context.Context) (int, error) {
	var n int
	b := s.sb.Select("COUNT(*)").From(tableRooms)
	if err := s.get(ctx, "count rooms", tableRooms, &n, b); err != nil {
		return 0, err
	}
	return n, nil
}

// DeleteRoom 删除房间及其任务和评论
func (s *SQLDatabase) DeleteRoom(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return parseError(err, "begin delete room", tableRooms)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, table := range []string{tableComments, tableTasks} {
		query, args, err := s.sb.Delete(table).Where(sq.Eq{"room_id": id}).ToSql()
		if err != nil {
			return fmt.Errorf("build delete %s: %w", table, err)
		}
		s.trace("delete room "+table, query, args)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return parseError(err, "delete room "+table, table)
		}
	}

	if err := execOne(ctx, tx, "delete room", tableRooms, s.sb.Delete(tableRooms).Where(sq.Eq{"id": id})); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return parseError(err, "commit delete room", tableRooms)
	}
	return nil
}

func (s *SQLDatabase) CreateTask(ctx context.Context, task *models.Task) error {
	task.CreatedAt = now()
	b := s.sb.Insert(tableTasks).
		Columns("text", "created_at", "author_id", "room_id").
		Values(task.Text, task.CreatedAt, task.AuthorID, task.RoomID)
	return s.insertReturningID(ctx, "create task", tableTasks, b, &task.ID)
}

func (s *SQLDatabase) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	var t models.Task
	b := s.sb.Select(itemColumns...).From(tableTasks).Where(sq.Eq{"id": id})
	if err := s.get(ctx, "get task", tableTasks, &t, b); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *SQLDatabase) UpdateTaskText(ctx context.Context, id int64, text string) error {
	return execOne(ctx, s.db, "update task", tableTasks,
		s.sb.Update(tableTasks).Set("text", text).Where(sq.Eq{"id": id}))
}

func (s *SQLDatabase) DeleteTask(ctx context.Context, id int64) error {
	return execOne(ctx, s.db, "delete task", tableTasks,
		s.sb.Delete(tableTasks).Where(sq.Eq{"id": id}))
}

// withAuthor selects item columns from table joined to the author's username
func (s *SQLDatabase) withAuthor(table string) sq.SelectBuilder {
	return s.sb.Select(
		"i.id", "i.text", "i.created_at", "i.author_id", "i.room_id",
		"u.username AS author_name",
	).
		From(table + " i").
		Join(tableUsers + " u ON u.id = i.author_id").
		OrderBy("i.id")
}

func (s *SQLDatabase) ListTasksByAuthor(ctx context.Context, authorID int64) ([]models.Task, error) {
	tasks := []models.Task{}
	b := s.withAuthor(tableTasks).Where(sq.Eq{"i.author_id": authorID})
	if err := s.list(ctx, "list tasks by author", tableTasks, &tasks, b); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *SQLDatabase) ListTasksByRoom(ctx context.Context, roomID int64) ([]models.Task, error) {
	tasks := []models.Task{}
	b := s.withAuthor(tableTasks).Where(sq.Eq{"i.room_id": roomID})
	if err := s.list(ctx, "list tasks by room", tableTasks, &tasks, b); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *SQLDatabase) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.CreatedAt = now()
	b := s.sb.Insert(tableComments).
		Columns("text", "created_at", "author_id", "room_id").
		Values(comment.Text, comment.CreatedAt, comment.AuthorID, comment.RoomID)
	return s.insertReturningID(ctx, "create comment", tableComments, b, &comment.ID)
}

func (s *SQLDatabase) GetComment(ctx context.Context, id int64) (*models.Comment, error) {
	var c models.Comment
	b := s.sb.Select(itemColumns...).From(tableComments).Where(sq.Eq{"id": id})
	if err := s.get(ctx, "get comment", tableComments, &c, b); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLDatabase) DeleteComment(ctx context.Context, id int64) error {
	return execOne(ctx, s.db, "delete comment", tableComments,
		s.sb.Delete(tableComments).Where(sq.Eq{"id": id}))
}

func (s *SQLDatabase) ListCommentsByRoom(ctx context.Context, roomID int64) ([]models.Comment, error) {
	comments := []models.Comment{}
	b := s.withAuthor(tableComments).Where(sq.Eq{"i.room_id": roomID})
	if err := s.list(ctx, "list comments", tableComments, &comments, b); err != nil {
		return nil, err
	}
	return comments, nil
}

// HealthCheck 健康检查
func (s *SQLDatabase) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return parseError(err, "ping", "")
	}
	return nil
}

func (s *SQLDatabase) Stats() sql.DBStats {
	return s.db.Stats()
}

// Close 关闭数据库连接
func (s *SQLDatabase) Close() error {
	return s.db.Close()
}
