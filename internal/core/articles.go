package core

import (
	"context"
	"errors"
	"strings"

	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/data"
	"github.com/siahsang/realworld/internal/filter"
	"github.com/siahsang/realworld/internal/utils/collectionutils"
	"github.com/siahsang/realworld/internal/utils/databaseutils"
	"github.com/siahsang/realworld/internal/utils/functional"
	"github.com/siahsang/realworld/models"
)

type NewArticle struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// ArticleUpdate is a partial update; nil fields are left as they are.
type ArticleUpdate struct {
	Title       *string
	Description *string
	Body        *string
	TagList     *[]string
}

// ArticleFilters narrows a listing. Set filters must all match.
type ArticleFilters struct {
	Tag       *string
	Author    *string
	Favorited *string

	filter.Filter
}

// normalizeTags trims names, drops blanks and keeps the first occurrence of
// each name.
func normalizeTags(tags []string) []string {
	trimmed := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			trimmed = append(trimmed, tag)
		}
	}
	return collectionutils.Distinct(trimmed)
}

func (c *Core) attachTags(ctx context.Context, q databaseutils.SQLExecutor, views []*models.ArticleView) error {
	ids := functional.Map(views, func(v *models.ArticleView) int64 { return v.ID })
	tagsByArticle, err := c.models.Tags.ByArticleIDs(ctx, q, ids)
	if err != nil {
		return err
	}

	for _, view := range views {
		view.TagList = collectionutils.GetOrDefault(tagsByArticle, view.ID, []string{})
	}
	return nil
}

func (c *Core) articleView(ctx context.Context, q databaseutils.SQLExecutor, slug string, viewer *int64) (*models.ArticleView, error) {
	views, _, err := c.models.Articles.FindViews(ctx, q, data.ArticleQuery{Slug: &slug, Viewer: viewer})
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, xerrors.New(ErrNotFound)
	}

	if err := c.attachTags(ctx, q, views); err != nil {
		return nil, err
	}
	return views[0], nil
}

func (c *Core) setTags(ctx context.Context, tx databaseutils.SQLExecutor, articleID int64, names []string) error {
	tags, err := c.models.Tags.Upsert(ctx, tx, normalizeTags(names))
	if err != nil {
		return err
	}
	return c.models.Tags.SetArticleTags(ctx, tx, articleID, tags)
}

func (c *Core) CreateArticle(ctx context.Context, authorID int64, input NewArticle) (*models.ArticleView, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	slug, err := c.withUniqueSlug(input.Title, func(slug string) error {
		return c.session.DoTransactionally(ctx, func(tx databaseutils.SQLExecutor) error {
			now := c.timestamp()
			article := &models.Article{
				Slug:        slug,
				Title:       input.Title,
				Description: input.Description,
				Body:        input.Body,
				AuthorID:    authorID,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := c.models.Articles.Insert(ctx, tx, article); err != nil {
				return err
			}
			return c.setTags(ctx, tx, article.ID, input.TagList)
		})
	})
	if err != nil {
		return nil, err
	}

	c.log.Info("article created", "slug", slug, "author_id", authorID)
	return c.articleView(ctx, c.session.Executor(), slug, &authorID)
}

// GetArticle returns the article as seen by viewer (nil for anonymous).
func (c *Core) GetArticle(ctx context.Context, slug string, viewer *int64) (*models.ArticleView, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	return c.articleView(ctx, c.session.Executor(), slug, viewer)
}

// FindArticles lists articles newest first. total counts every matching
// article regardless of limit and offset.
func (c *Core) FindArticles(ctx context.Context, filters ArticleFilters, viewer *int64) ([]*models.ArticleView, int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	q := c.session.Executor()
	query := data.ArticleQuery{
		Tag:    filters.Tag,
		Author: filters.Author,
		Viewer: viewer,
		Limit:  filters.Limit,
		Offset: filters.Offset,
	}

	if filters.Favorited != nil {
		fan, err := c.models.Users.GetByUsername(ctx, q, *filters.Favorited)
		if err != nil {
			if errors.Is(err, data.ErrRecordNotFound) {
				return []*models.ArticleView{}, 0, nil
			}
			return nil, 0, err
		}
		query.FavoritedBy = &fan.ID
	}

	views, total, err := c.models.Articles.FindViews(ctx, q, query)
	if err != nil {
		return nil, 0, err
	}

	// A page past the end carries no window count.
	if len(views) == 0 && query.Offset > 0 {
		if total, err = c.models.Articles.Count(ctx, q, query); err != nil {
			return nil, 0, err
		}
	}

	if err := c.attachTags(ctx, q, views); err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Feed lists articles by authors viewerID follows, newest first.
func (c *Core) Feed(ctx context.Context, viewerID int64, f filter.Filter) ([]*models.ArticleView, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	q := c.session.Executor()
	views, _, err := c.models.Articles.FindViews(ctx, q, data.ArticleQuery{
		FollowedBy: &viewerID,
		Viewer:     &viewerID,
		Limit:      f.Limit,
		Offset:     f.Offset,
	})
	if err != nil {
		return nil, err
	}

	if err := c.attachTags(ctx, q, views); err != nil {
		return nil, err
	}
	return views, nil
}

func (c *Core) FavoriteArticle(ctx context.Context, slug string, userID int64) (*models.ArticleView, error) {
	return c.setFavorite(ctx, slug, userID, true)
}

func (c *Core) UnfavoriteArticle(ctx context.Context, slug string, userID int64) (*models.ArticleView, error) {
	return c.setFavorite(ctx, slug, userID, false)
}

// setFavorite adds or removes the favorite and moves the counter in the same
// transaction. The counter only moves when the favorite row changed, so
// repeating the call is a no-op.
func (c *Core) setFavorite(ctx context.Context, slug string, userID int64, favorite bool) (*models.ArticleView, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	view, err := databaseutils.DoTransactionally(ctx, c.session, func(tx databaseutils.SQLExecutor) (*models.ArticleView, error) {
		article, err := c.models.Articles.GetBySlug(ctx, tx, slug)
		if err != nil {
			return nil, err
		}

		var (
			changed bool
			delta   int64 = 1
		)
		if favorite {
			changed, err = c.models.Articles.AddFavorite(ctx, tx, userID, article.ID)
		} else {
			changed, err = c.models.Articles.RemoveFavorite(ctx, tx, userID, article.ID)
			delta = -1
		}
		if err != nil {
			return nil, err
		}

		if changed {
			if err := c.models.Articles.AdjustFavoritesCount(ctx, tx, article.ID, delta); err != nil {
				return nil, err
			}
		}

		return c.articleView(ctx, tx, slug, &userID)
	})
	if err != nil {
		return nil, translate(err)
	}
	return view, nil
}

// UpdateArticle applies update to the article at slug. Only its author may
// change it. A new title regenerates the slug.
func (c *Core) UpdateArticle(ctx context.Context, slug string, userID int64, update ArticleUpdate) (*models.ArticleView, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	write := func(newSlug string) error {
		return c.session.DoTransactionally(ctx, func(tx databaseutils.SQLExecutor) error {
			article, err := c.models.Articles.GetBySlug(ctx, tx, slug)
			if err != nil {
				return err
			}
			if article.AuthorID != userID {
				return xerrors.New(ErrForbidden)
			}

			if update.Title != nil {
				article.Title = *update.Title
				article.Slug = newSlug
			}
			if update.Description != nil {
				article.Description = *update.Description
			}
			if update.Body != nil {
				article.Body = *update.Body
			}
			article.UpdatedAt = c.timestamp()

			if err := c.models.Articles.Update(ctx, tx, article); err != nil {
				return err
			}
			if update.TagList != nil {
				return c.setTags(ctx, tx, article.ID, *update.TagList)
			}
			return nil
		})
	}

	newSlug := slug
	var err error
	if update.Title != nil {
		newSlug, err = c.withUniqueSlug(*update.Title, write)
	} else {
		err = translate(write(slug))
	}
	if err != nil {
		return nil, err
	}

	return c.articleView(ctx, c.session.Executor(), newSlug, &userID)
}

// DeleteArticle removes the article at slug with its tags links, favorites
// and comments. Only its author may delete it.
func (c *Core) DeleteArticle(ctx context.Context, slug string, userID int64) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	err := c.session.DoTransactionally(ctx, func(tx databaseutils.SQLExecutor) error {
		article, err := c.models.Articles.GetBySlug(ctx, tx, slug)
		if err != nil {
			return err
		}
		if article.AuthorID != userID {
			return xerrors.New(ErrForbidden)
		}
		return c.models.Articles.Delete(ctx, tx, article.ID)
	})
	if err != nil {
		return translate(err)
	}

	c.log.Info("article deleted", "slug", slug, "user_id", userID)
	return nil
}
