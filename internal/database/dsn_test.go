package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLiteDSN(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"file:realworld.db", "file:realworld.db?_txlock=immediate"},
		{"file:realworld.db?_foreign_keys=on", "file:realworld.db?_foreign_keys=on&_txlock=immediate"},
		{"file:realworld.db?_txlock=exclusive", "file:realworld.db?_txlock=exclusive"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sqliteDSN(tt.dsn), tt.dsn)
	}
}
