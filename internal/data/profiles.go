package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/utils/databaseutils"
	"github.com/siahsang/realworld/models"
)

type ProfileModel struct{}

func scanProfile(rows *sql.Rows) (*models.Profile, error) {
	var profile = &models.Profile{}
	if err := rows.Scan(&profile.ID, &profile.Username, &profile.Bio, &profile.Image, &profile.Following); err != nil {
		return nil, xerrors.New(err)
	}
	return profile, nil
}

func (ProfileModel) get(ctx context.Context, q databaseutils.SQLExecutor, column string, value any, viewerID *int64) (*models.Profile, error) {
	query := `
		SELECT u.id, u.username, u.bio, u.image,
			EXISTS (SELECT 1 FROM follows fo WHERE fo.followed_id = u.id AND fo.follower_id = $1) AS following
		FROM users u
		WHERE u.` + column + ` = $2
	`

	profile, err := databaseutils.ExecuteSingleQuery(ctx, q, query, scanProfile, nullableID(viewerID), value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, xerrors.New(ErrRecordNotFound)
		}
		return nil, xerrors.New(err)
	}
	return profile, nil
}

// GetByUsername loads the profile of username as seen by viewerID (nil for
// anonymous viewers, who never follow anyone).
func (m ProfileModel) GetByUsername(ctx context.Context, q databaseutils.SQLExecutor, username string, viewerID *int64) (*models.Profile, error) {
	return m.get(ctx, q, "username", username, viewerID)
}

func (m ProfileModel) GetByID(ctx context.Context, q databaseutils.SQLExecutor, id int64, viewerID *int64) (*models.Profile, error) {
	return m.get(ctx, q, "id", id, viewerID)
}

// Follow records that followerID follows followedID. Following twice is a
// no-op; the result reports whether a row was written.
func (ProfileModel) Follow(ctx context.Context, q databaseutils.SQLExecutor, followerID, followedID int64) (bool, error) {
	const query = `
		INSERT INTO follows (follower_id, followed_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	return execAffected(ctx, q, query, followerID, followedID)
}

// Unfollow removes the relation; the result reports whether one existed.
func (ProfileModel) Unfollow(ctx context.Context, q databaseutils.SQLExecutor, followerID, followedID int64) (bool, error) {
	const query = `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`
	return execAffected(ctx, q, query, followerID, followedID)
}

func execAffected(ctx context.Context, q databaseutils.SQLExecutor, query string, args ...any) (bool, error) {
	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return false, xerrors.New(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, xerrors.New(err)
	}
	return affected > 0, nil
}
