package databaseutils

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const pqUniqueViolation = "23505"

// UniqueViolation reports whether err is a unique-constraint violation and,
// if so, whether it concerns the given table column. Postgres reports the
// constraint name (users_email_key), SQLite the column (users.email).
func UniqueViolation(err error, table, column string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pqUniqueViolation &&
			strings.Contains(pqErr.Constraint, table+"_"+column)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique &&
			strings.Contains(sqliteErr.Error(), table+"."+column)
	}

	return false
}
