package core

import (
	"context"
	"errors"

	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/auth"
	"github.com/siahsang/realworld/internal/utils/databaseutils"
)

// UserUpdate carries the fields a user may change on their own account. Nil
// means unchanged; bio and image are set to the pointed-to value, which may
// be empty.
type UserUpdate struct {
	Username *string
	Email    *string
	Bio      *string
	Image    *string
}

func (c *Core) Register(ctx context.Context, username, email, password string) (*auth.User, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	user := &auth.User{
		Username: username,
		Email:    email,
	}
	if err := user.SetPassword(password, c.cfg.PasswordCost); err != nil {
		return nil, err
	}

	if err := c.models.Users.Insert(ctx, c.session.Executor(), user); err != nil {
		return nil, translate(err)
	}

	c.log.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks the credentials. An unknown email and a wrong password both
// yield ErrInvalidCredentials.
func (c *Core) Login(ctx context.Context, email, password string) (*auth.User, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	user, err := c.models.Users.GetByEmail(ctx, c.session.Executor(), email)
	if err != nil {
		if errors.Is(translate(err), ErrNotFound) {
			return nil, xerrors.New(ErrInvalidCredentials)
		}
		return nil, err
	}

	match, err := user.IsPasswordMatch(password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, xerrors.New(ErrInvalidCredentials)
	}
	return user, nil
}

func (c *Core) GetUser(ctx context.Context, id int64) (*auth.User, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	user, err := c.models.Users.GetByID(ctx, c.session.Executor(), id)
	if err != nil {
		return nil, translate(err)
	}
	return user, nil
}

func (c *Core) UpdateUser(ctx context.Context, id int64, update UserUpdate) (*auth.User, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var user *auth.User
	err := c.session.DoTransactionally(ctx, func(tx databaseutils.SQLExecutor) error {
		var err error
		user, err = c.models.Users.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}

		if update.Username != nil {
			user.Username = *update.Username
		}
		if update.Email != nil {
			user.Email = *update.Email
		}
		if update.Bio != nil {
			user.Bio = update.Bio
		}
		if update.Image != nil {
			user.Image = update.Image
		}

		return c.models.Users.Update(ctx, tx, user)
	})
	if err != nil {
		return nil, translate(err)
	}

	c.log.Info("user updated", "user_id", user.ID)
	return user, nil
}
