package core

import (
	"context"

	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/utils/databaseutils"
	"github.com/siahsang/realworld/models"
)

func (c *Core) AddComment(ctx context.Context, slug string, authorID int64, body string) (*models.CommentView, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	view, err := databaseutils.DoTransactionally(ctx, c.session, func(tx databaseutils.SQLExecutor) (*models.CommentView, error) {
		article, err := c.models.Articles.GetBySlug(ctx, tx, slug)
		if err != nil {
			return nil, err
		}

		now := c.timestamp()
		comment := &models.Comment{
			Body:      body,
			ArticleID: article.ID,
			AuthorID:  authorID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := c.models.Comments.Insert(ctx, tx, comment); err != nil {
			return nil, err
		}

		return c.models.Comments.ViewByID(ctx, tx, comment.ID, &authorID)
	})
	if err != nil {
		return nil, translate(err)
	}
	return view, nil
}

// GetComments lists the comments of the article at slug, oldest first.
func (c *Core) GetComments(ctx context.Context, slug string, viewer *int64) ([]*models.CommentView, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	q := c.session.Executor()
	article, err := c.models.Articles.GetBySlug(ctx, q, slug)
	if err != nil {
		return nil, translate(err)
	}

	return c.models.Comments.ViewsByArticle(ctx, q, article.ID, viewer)
}

// DeleteComment removes a comment of the article at slug. Only the article's
// author may remove comments.
func (c *Core) DeleteComment(ctx context.Context, slug string, userID, commentID int64) error {
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

		removed, err := c.models.Comments.Delete(ctx, tx, commentID, article.ID)
		if err != nil {
			return err
		}
		if !removed {
			return xerrors.New(ErrNotFound)
		}
		return nil
	})
	return translate(err)
}
