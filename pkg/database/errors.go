package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// Common errors
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key violation")
	ErrForeignKey   = errors.New("foreign key violation")
	ErrTimeout      = errors.New("operation timeout")
)

// Error wraps a driver error with the operation and table that produced it
type Error struct {
	Op         string // Operation that failed
	Table      string // Table involved
	Constraint string // Constraint name (if known)
	Err        error  // Underlying error
}

func (e *Error) Error() string {
	parts := []string{fmt.Sprintf("db: %s", e.Op)}

	if e.Table != "" {
		parts = append(parts, fmt.Sprintf("table=%s", e.Table))
	}
	if e.Constraint != "" {
		parts = append(parts, fmt.Sprintf("constraint=%s", e.Constraint))
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// parseError maps driver errors from lib/pq and go-sqlite3 onto the sentinel errors above
func parseError(err error, op, table string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Op: op, Table: table, Err: ErrNotFound}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &Error{Op: op, Table: table, Err: fmt.Errorf("%w: %v", ErrTimeout, err)}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505": // unique_violation
			return &Error{Op: op, Table: table, Constraint: pqErr.Constraint, Err: ErrDuplicateKey}
		case "23503": // foreign_key_violation
			return &Error{Op: op, Table: table, Constraint: pqErr.Constraint, Err: ErrForeignKey}
		}
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &Error{Op: op, Table: table, Constraint: sqliteConstraint(liteErr), Err: ErrDuplicateKey}
		case sqlite3.ErrConstraintForeignKey:
			return &Error{Op: op, Table: table, Err: ErrForeignKey}
		}
	}

	return &Error{Op: op, Table: table, Err: err}
}

// sqliteConstraint pulls "users.username" out of "UNIQUE constraint failed: users.username"
func sqliteConstraint(err sqlite3.Error) string {
	msg := err.Error()
	if idx := strings.LastIndex(msg, ": "); idx != -1 {
		return msg[idx+2:]
	}
	return ""
}

// IsNotFound reports whether err is (or wraps) ErrNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDuplicateKey reports whether err is (or wraps) ErrDuplicateKey
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}
