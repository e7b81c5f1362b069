package core

import (
	"context"

	"github.com/siahsang/realworld/internal/utils/databaseutils"
	"github.com/siahsang/realworld/models"
)

// GetProfile returns the profile of username; following is relative to
// viewer and always false for anonymous viewers.
func (c *Core) GetProfile(ctx context.Context, username string, viewer *int64) (*models.Profile, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	profile, err := c.models.Profiles.GetByUsername(ctx, c.session.Executor(), username, viewer)
	if err != nil {
		return nil, translate(err)
	}
	return profile, nil
}

func (c *Core) FollowUser(ctx context.Context, username string, followerID int64) (*models.Profile, error) {
	return c.setFollowing(ctx, username, followerID, true)
}

func (c *Core) UnfollowUser(ctx context.Context, username string, followerID int64) (*models.Profile, error) {
	return c.setFollowing(ctx, username, followerID, false)
}

func (c *Core) setFollowing(ctx context.Context, username string, followerID int64, follow bool) (*models.Profile, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	profile, err := databaseutils.DoTransactionally(ctx, c.session, func(tx databaseutils.SQLExecutor) (*models.Profile, error) {
		profile, err := c.models.Profiles.GetByUsername(ctx, tx, username, &followerID)
		if err != nil {
			return nil, err
		}

		if follow {
			_, err = c.models.Profiles.Follow(ctx, tx, followerID, profile.ID)
		} else {
			_, err = c.models.Profiles.Unfollow(ctx, tx, followerID, profile.ID)
		}
		if err != nil {
			return nil, err
		}

		profile.Following = follow
		return profile, nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return profile, nil
}
