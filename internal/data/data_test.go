package data_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siahsang/realworld/internal/auth"
	"github.com/siahsang/realworld/internal/data"
	"github.com/siahsang/realworld/internal/database/databasetest"
	"github.com/siahsang/realworld/models"
)

type fixture struct {
	ctx    context.Context
	db     *sql.DB
	models data.Models
}

func newFixture(t *testing.T) *fixture {
	return &fixture{
		ctx:    context.Background(),
		db:     databasetest.NewSQLite(t),
		models: data.NewModels(),
	}
}

func (f *fixture) user(t *testing.T, username string) *auth.User {
	t.Helper()
	u := &auth.User{Username: username, Email: username + "@example.com", PasswordHash: []byte("hash")}
	require.NoError(t, f.models.Users.Insert(f.ctx, f.db, u))
	return u
}

func (f *fixture) article(t *testing.T, author *auth.User, slug string, createdAt time.Time, tags ...string) *models.Article {
	t.Helper()
	a := &models.Article{
		Slug: slug, Title: slug, Description: "d", Body: "b",
		AuthorID: author.ID, CreatedAt: createdAt, UpdatedAt: createdAt,
	}
	require.NoError(t, f.models.Articles.Insert(f.ctx, f.db, a))

	tagRows, err := f.models.Tags.Upsert(f.ctx, f.db, tags)
	require.NoError(t, err)
	require.NoError(t, f.models.Tags.SetArticleTags(f.ctx, f.db, a.ID, tagRows))
	return a
}

func ptr[T any](v T) *T { return &v }

func TestUserInsertRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.user(t, "jake")

	err := f.models.Users.Insert(f.ctx, f.db, &auth.User{Username: "jake", Email: "other@example.com", PasswordHash: []byte("x")})
	assert.ErrorIs(t, err, data.ErrDuplicateUsername)

	err = f.models.Users.Insert(f.ctx, f.db, &auth.User{Username: "other", Email: "jake@example.com", PasswordHash: []byte("x")})
	assert.ErrorIs(t, err, data.ErrDuplicateEmail)
}

func TestUserGetAndUpdate(t *testing.T) {
	f := newFixture(t)
	jake := f.user(t, "jake")

	byEmail, err := f.models.Users.GetByEmail(f.ctx, f.db, "jake@example.com")
	require.NoError(t, err)
	assert.Equal(t, jake.ID, byEmail.ID)
	assert.Nil(t, byEmail.Bio)

	byEmail.Bio = ptr("I work at statefarm")
	byEmail.Username = "jacob"
	require.NoError(t, f.models.Users.Update(f.ctx, f.db, byEmail))

	byID, err := f.models.Users.GetByID(f.ctx, f.db, jake.ID)
	require.NoError(t, err)
	assert.Equal(t, "jacob", byID.Username)
	assert.Equal(t, "I work at statefarm", *byID.Bio)

	_, err = f.models.Users.GetByUsername(f.ctx, f.db, "jake")
	assert.ErrorIs(t, err, data.ErrRecordNotFound)

	err = f.models.Users.Update(f.ctx, f.db, &auth.User{ID: 999, Username: "ghost", Email: "ghost@example.com"})
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestFollowIsIdempotent(t *testing.T) {
	f := newFixture(t)
	jake, anna := f.user(t, "jake"), f.user(t, "anna")

	written, err := f.models.Profiles.Follow(f.ctx, f.db, jake.ID, anna.ID)
	require.NoError(t, err)
	assert.True(t, written)

	written, err = f.models.Profiles.Follow(f.ctx, f.db, jake.ID, anna.ID)
	require.NoError(t, err)
	assert.False(t, written)

	profile, err := f.models.Profiles.GetByUsername(f.ctx, f.db, "anna", &jake.ID)
	require.NoError(t, err)
	assert.True(t, profile.Following)

	anonymous, err := f.models.Profiles.GetByUsername(f.ctx, f.db, "anna", nil)
	require.NoError(t, err)
	assert.False(t, anonymous.Following)

	removed, err := f.models.Profiles.Unfollow(f.ctx, f.db, jake.ID, anna.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = f.models.Profiles.Unfollow(f.ctx, f.db, jake.ID, anna.ID)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestArticleSlugIsUnique(t *testing.T) {
	f := newFixture(t)
	jake := f.user(t, "jake")
	f.article(t, jake, "how-to-train-your-dragon", time.Now().UTC())

	err := f.models.Articles.Insert(f.ctx, f.db, &models.Article{
		Slug: "how-to-train-your-dragon", Title: "t", AuthorID: jake.ID,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	})
	assert.ErrorIs(t, err, data.ErrDuplicateSlug)
}

func TestFindViewsFiltersAndCounts(t *testing.T) {
	f := newFixture(t)
	jake, anna := f.user(t, "jake"), f.user(t, "anna")
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := f.article(t, jake, "first", base, "dragons", "training")
	second := f.article(t, jake, "second", base.Add(time.Hour), "dragons")
	third := f.article(t, anna, "third", base.Add(2*time.Hour), "training")

	views, total, err := f.models.Articles.FindViews(f.ctx, f.db, data.ArticleQuery{Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, views, 3)
	assert.Equal(t, []int64{third.ID, second.ID, first.ID}, []int64{views[0].ID, views[1].ID, views[2].ID})

	views, total, err = f.models.Articles.FindViews(f.ctx, f.db, data.ArticleQuery{Tag: ptr("dragons"), Author: ptr("jake"), Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, views, 1)
	assert.Equal(t, "second", views[0].Slug)
	assert.Equal(t, "jake", views[0].Author.Username)

	_, err = f.models.Articles.AddFavorite(f.ctx, f.db, anna.ID, first.ID)
	require.NoError(t, err)
	views, total, err = f.models.Articles.FindViews(f.ctx, f.db, data.ArticleQuery{FavoritedBy: &anna.ID, Viewer: &anna.ID, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, views, 1)
	assert.True(t, views[0].Favorited)

	_, err = f.models.Profiles.Follow(f.ctx, f.db, anna.ID, jake.ID)
	require.NoError(t, err)
	views, _, err = f.models.Articles.FindViews(f.ctx, f.db, data.ArticleQuery{FollowedBy: &anna.ID, Viewer: &anna.ID, Limit: 20})
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.True(t, v.Author.Following)
	}

	views, total, err = f.models.Articles.FindViews(f.ctx, f.db, data.ArticleQuery{Limit: 20, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, views)
	assert.Zero(t, total)

	count, err := f.models.Articles.Count(f.ctx, f.db, data.ArticleQuery{Tag: ptr("training")})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestFavoritesCounterMovesWithRows(t *testing.T) {
	f := newFixture(t)
	jake := f.user(t, "jake")
	a := f.article(t, jake, "first", time.Now().UTC())

	require.NoError(t, f.models.Articles.AdjustFavoritesCount(f.ctx, f.db, a.ID, 1))
	err := f.models.Articles.AdjustFavoritesCount(f.ctx, f.db, a.ID, -2)
	assert.Error(t, err)

	require.NoError(t, f.models.Articles.AdjustFavoritesCount(f.ctx, f.db, a.ID, -1))
	got, err := f.models.Articles.GetBySlug(f.ctx, f.db, "first")
	require.NoError(t, err)
	assert.Zero(t, got.FavoritesCount)
}

func TestTagsKeepOrderAndDistinct(t *testing.T) {
	f := newFixture(t)
	jake := f.user(t, "jake")
	a := f.article(t, jake, "first", time.Now().UTC(), "zeta", "alpha", "mid")
	b := f.article(t, jake, "second", time.Now().UTC(), "alpha")

	_, err := f.models.Tags.Upsert(f.ctx, f.db, []string{"orphan"})
	require.NoError(t, err)

	byArticle, err := f.models.Tags.ByArticleIDs(f.ctx, f.db, []int64{a.ID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, byArticle[a.ID])
	assert.Equal(t, []string{"alpha"}, byArticle[b.ID])

	names, err := f.models.Tags.Distinct(f.ctx, f.db)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestArticleDeleteRemovesDependents(t *testing.T) {
	f := newFixture(t)
	jake := f.user(t, "jake")
	a := f.article(t, jake, "first", time.Now().UTC(), "dragons")
	_, err := f.models.Articles.AddFavorite(f.ctx, f.db, jake.ID, a.ID)
	require.NoError(t, err)
	require.NoError(t, f.models.Comments.Insert(f.ctx, f.db, &models.Comment{
		Body: "hi", ArticleID: a.ID, AuthorID: jake.ID, CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}))

	require.NoError(t, f.models.Articles.Delete(f.ctx, f.db, a.ID))

	_, err = f.models.Articles.GetBySlug(f.ctx, f.db, "first")
	assert.ErrorIs(t, err, data.ErrRecordNotFound)

	for _, table := range []string{"article_tags", "favorites", "comments"} {
		var n int
		require.NoError(t, f.db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
		assert.Zero(t, n, table)
	}
}

func TestCommentsOldestFirst(t *testing.T) {
	f := newFixture(t)
	jake, anna := f.user(t, "jake"), f.user(t, "anna")
	a := f.article(t, jake, "first", time.Now().UTC())
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	var ids []int64
	for i, body := range []string{"one", "two"} {
		c := &models.Comment{Body: body, ArticleID: a.ID, AuthorID: anna.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Minute), UpdatedAt: base}
		require.NoError(t, f.models.Comments.Insert(f.ctx, f.db, c))
		ids = append(ids, c.ID)
	}

	views, err := f.models.Comments.ViewsByArticle(f.ctx, f.db, a.ID, nil)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "one", views[0].Body)
	assert.Equal(t, "anna", views[0].Author.Username)
	assert.True(t, base.Equal(views[0].CreatedAt.Time()))

	removed, err := f.models.Comments.Delete(f.ctx, f.db, ids[0], a.ID+1)
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = f.models.Comments.Delete(f.ctx, f.db, ids[0], a.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	_, err = f.models.Comments.ViewByID(f.ctx, f.db, ids[0], nil)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}
