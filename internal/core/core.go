// Package core is the query and aggregation layer. It owns transaction
// boundaries and per-call deadlines, composes the data-access models and
// turns storage outcomes into the errors the API reports.
package core

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/data"
	"github.com/siahsang/realworld/internal/utils/databaseutils"
)

var (
	ErrNotFound           = xerrors.Message("resource not found")
	ErrForbidden          = xerrors.Message("forbidden")
	ErrInvalidCredentials = xerrors.Message("invalid email or password")
	ErrDuplicateEmail     = xerrors.Message("duplicate email")
	ErrDuplicateUsername  = xerrors.Message("duplicate username")
	ErrDuplicateSlug      = xerrors.Message("duplicate slug")
	ErrInvalidTitle       = xerrors.Message("title yields an empty slug")
)

type Config struct {
	// PasswordCost is the bcrypt cost for new password hashes.
	PasswordCost int
	// QueryTimeout bounds every operation, including the wait for a pooled
	// connection. Zero disables the deadline.
	QueryTimeout time.Duration
	// RandomSlugSuffix appends a short random suffix to every slug.
	RandomSlugSuffix bool
}

type Core struct {
	log     *slog.Logger
	session databaseutils.Session
	models  data.Models
	slugs   *SlugGenerator
	cfg     Config
	now     func() time.Time
}

func NewCore(db *sql.DB, log *slog.Logger, cfg Config) *Core {
	return &Core{
		log:     log,
		session: databaseutils.NewSession(db),
		models:  data.NewModels(),
		slugs:   NewSlugGenerator(cfg.RandomSlugSuffix),
		cfg:     cfg,
		now:     time.Now,
	}
}

func (c *Core) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.QueryTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.cfg.QueryTimeout)
}

// timestamp is the current time as stored: UTC, millisecond precision.
func (c *Core) timestamp() time.Time {
	return c.now().UTC().Truncate(time.Millisecond)
}

// translate maps data-layer sentinels onto the ones core exposes.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, data.ErrRecordNotFound):
		return xerrors.New(ErrNotFound)
	case errors.Is(err, data.ErrDuplicateEmail):
		return xerrors.New(ErrDuplicateEmail)
	case errors.Is(err, data.ErrDuplicateUsername):
		return xerrors.New(ErrDuplicateUsername)
	case errors.Is(err, data.ErrDuplicateSlug):
		return xerrors.New(ErrDuplicateSlug)
	default:
		return err
	}
}
