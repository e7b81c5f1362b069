package databaseutils

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"
)

// SQLExecutor defines the common methods implemented by both *sql.DB and *sql.Tx.
// Data-access functions receive one explicitly, so the same function runs
// standalone against the pool or as a step of a larger transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Session wraps the connection pool and hands out executors.
type Session interface {
	// Executor returns the pool itself, for statements that auto-commit.
	Executor() SQLExecutor

	// DoTransactionally runs fn inside a new transaction. The transaction is
	// committed if fn returns nil and rolled back otherwise (including panics).
	DoTransactionally(ctx context.Context, fn func(tx SQLExecutor) error) error
}

type sqlSession struct {
	db *sql.DB
}

// NewSession creates a new Session wrapping the provided *sql.DB.
func NewSession(db *sql.DB) Session {
	return &sqlSession{db: db}
}

func (s *sqlSession) Executor() SQLExecutor {
	return s.db
}

func (s *sqlSession) DoTransactionally(ctx context.Context, fn func(tx SQLExecutor) error) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return xerrors.Newf("session: failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				err = xerrors.Newf("session: rollback failed: %v (original error: %w)", rollbackErr, err)
			}
			return
		}
		if commitErr := tx.Commit(); commitErr != nil {
			err = xerrors.Newf("session: failed to commit transaction: %w", commitErr)
		}
	}()

	err = fn(tx)
	return err
}

// DoTransactionally is the value-returning form of Session.DoTransactionally.
func DoTransactionally[T any](ctx context.Context, session Session, fn func(tx SQLExecutor) (T, error)) (T, error) {
	var result T
	err := session.DoTransactionally(ctx, func(tx SQLExecutor) error {
		r, err := fn(tx)
		result = r
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
