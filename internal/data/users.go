package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/auth"
	"github.com/siahsang/realworld/internal/utils/databaseutils"
)

type UserModel struct{}

const userColumns = `id, email, username, password_hash, bio, image`

func scanUser(rows *sql.Rows) (*auth.User, error) {
	var user = &auth.User{}

	if err := rows.Scan(
		&user.ID,
		&user.Email,
		&user.Username,
		&user.PasswordHash,
		&user.Bio,
		&user.Image,
	); err != nil {
		return nil, xerrors.New(err)
	}
	return user, nil
}

func classifyUserWriteError(err error) error {
	switch {
	case databaseutils.UniqueViolation(err, "users", "email"):
		return xerrors.New(ErrDuplicateEmail)
	case databaseutils.UniqueViolation(err, "users", "username"):
		return xerrors.New(ErrDuplicateUsername)
	default:
		return xerrors.New(err)
	}
}

func (UserModel) Insert(ctx context.Context, q databaseutils.SQLExecutor, user *auth.User) error {
	const query = `
		INSERT INTO users (username, email, password_hash, bio, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.Bio, user.Image).Scan(&user.ID)
	if err != nil {
		return classifyUserWriteError(err)
	}
	return nil
}

func (m UserModel) getBy(ctx context.Context, q databaseutils.SQLExecutor, column string, value any) (*auth.User, error) {
	// column is one of the constants passed by the exported getters below.
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = $1`

	user, err := databaseutils.ExecuteSingleQuery(ctx, q, query, scanUser, value)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, xerrors.New(ErrRecordNotFound)
		default:
			return nil, xerrors.New(err)
		}
	}
	return user, nil
}

func (m UserModel) GetByID(ctx context.Context, q databaseutils.SQLExecutor, id int64) (*auth.User, error) {
	return m.getBy(ctx, q, "id", id)
}

func (m UserModel) GetByEmail(ctx context.Context, q databaseutils.SQLExecutor, email string) (*auth.User, error) {
	return m.getBy(ctx, q, "email", email)
}

func (m UserModel) GetByUsername(ctx context.Context, q databaseutils.SQLExecutor, username string) (*auth.User, error) {
	return m.getBy(ctx, q, "username", username)
}

// Update writes username, email, bio and image. The password hash is not
// touched here.
func (UserModel) Update(ctx context.Context, q databaseutils.SQLExecutor, user *auth.User) error {
	const query = `
		UPDATE users
		SET username = $1, email = $2, bio = $3, image = $4
		WHERE id = $5
	`

	result, err := q.ExecContext(ctx, query, user.Username, user.Email, user.Bio, user.Image, user.ID)
	if err != nil {
		return classifyUserWriteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return xerrors.New(err)
	}
	if affected == 0 {
		return xerrors.New(ErrRecordNotFound)
	}
	return nil
}
