package databaseutils_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siahsang/realworld/internal/database/databasetest"
	"github.com/siahsang/realworld/internal/utils/databaseutils"
)

func insertUser(ctx context.Context, q databaseutils.SQLExecutor, username, email string) error {
	_, err := q.ExecContext(ctx, `INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3)`,
		username, email, []byte("hash"))
	return err
}

func countUsers(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&n))
	return n
}

func TestParamsNumbersPlaceholdersInOrder(t *testing.T) {
	var p databaseutils.Params
	assert.Equal(t, "$1", p.Add("a"))
	assert.Equal(t, "$2, $3, $4", databaseutils.AddAll(&p, []int64{10, 20, 30}))
	assert.Equal(t, "$5", p.Add(true))
	assert.Equal(t, []any{"a", int64(10), int64(20), int64(30), true}, p.Args())
}

func TestDoTransactionallyCommits(t *testing.T) {
	db := databasetest.NewSQLite(t)
	session := databaseutils.NewSession(db)
	ctx := context.Background()

	err := session.DoTransactionally(ctx, func(tx databaseutils.SQLExecutor) error {
		if err := insertUser(ctx, tx, "jake", "jake@jake.jake"); err != nil {
			return err
		}
		return insertUser(ctx, tx, "anna", "anna@anna.anna")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, countUsers(t, db))
}

func TestDoTransactionallyRollsBackOnError(t *testing.T) {
	db := databasetest.NewSQLite(t)
	session := databaseutils.NewSession(db)
	ctx := context.Background()
	boom := errors.New("boom")

	err := session.DoTransactionally(ctx, func(tx databaseutils.SQLExecutor) error {
		if err := insertUser(ctx, tx, "jake", "jake@jake.jake"); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countUsers(t, db))
}

func TestDoTransactionallyRollsBackOnPanic(t *testing.T) {
	db := databasetest.NewSQLite(t)
	session := databaseutils.NewSession(db)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = session.DoTransactionally(ctx, func(tx databaseutils.SQLExecutor) error {
			if err := insertUser(ctx, tx, "jake", "jake@jake.jake"); err != nil {
				return err
			}
			panic("boom")
		})
	})
	assert.Equal(t, 0, countUsers(t, db))
}

func TestGenericDoTransactionallyReturnsValue(t *testing.T) {
	db := databasetest.NewSQLite(t)
	session := databaseutils.NewSession(db)
	ctx := context.Background()

	id, err := databaseutils.DoTransactionally(ctx, session, func(tx databaseutils.SQLExecutor) (int64, error) {
		var id int64
		err := tx.QueryRowContext(ctx,
			`INSERT INTO users (username, email, password_hash) VALUES ($1, $2, $3) RETURNING id`,
			"jake", "jake@jake.jake", []byte("hash")).Scan(&id)
		return id, err
	})
	require.NoError(t, err)
	assert.Positive(t, id)
}

func TestExecuteSingleQueryNoRows(t *testing.T) {
	db := databasetest.NewSQLite(t)

	_, err := databaseutils.ExecuteSingleQuery(context.Background(), db,
		`SELECT username FROM users WHERE id = $1`,
		func(rows *sql.Rows) (string, error) {
			var s string
			return s, rows.Scan(&s)
		}, 1)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestUniqueViolation(t *testing.T) {
	db := databasetest.NewSQLite(t)
	ctx := context.Background()

	require.NoError(t, insertUser(ctx, db, "jake", "jake@jake.jake"))

	err := insertUser(ctx, db, "jake", "other@jake.jake")
	require.Error(t, err)
	assert.True(t, databaseutils.UniqueViolation(err, "users", "username"))
	assert.False(t, databaseutils.UniqueViolation(err, "users", "email"))

	err = insertUser(ctx, db, "other", "jake@jake.jake")
	require.Error(t, err)
	assert.True(t, databaseutils.UniqueViolation(err, "users", "email"))

	assert.False(t, databaseutils.UniqueViolation(errors.New("users.email"), "users", "email"))
}
