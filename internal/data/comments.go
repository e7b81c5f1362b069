package data

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/utils/databaseutils"
	"github.com/siahsang/realworld/models"
)

type CommentModel struct{}

func (CommentModel) Insert(ctx context.Context, q databaseutils.SQLExecutor, comment *models.Comment) error {
	const query = `
		INSERT INTO comments (body, article_id, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, query,
		comment.Body, comment.ArticleID, comment.AuthorID, comment.CreatedAt, comment.UpdatedAt,
	).Scan(&comment.ID)
	if err != nil {
		return xerrors.New(err)
	}
	return nil
}

const commentViewSelect = `
		SELECT c.id, c.created_at, c.updated_at, c.body,
			u.id, u.username, u.bio, u.image,
			EXISTS (SELECT 1 FROM follows fo WHERE fo.followed_id = u.id AND fo.follower_id = $1) AS following
		FROM comments c
		JOIN users u ON u.id = c.author_id`

func scanCommentView(rows *sql.Rows) (*models.CommentView, error) {
	var (
		view      = &models.CommentView{}
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	err := rows.Scan(
		&view.ID, &createdAt, &updatedAt, &view.Body,
		&view.Author.ID, &view.Author.Username, &view.Author.Bio, &view.Author.Image, &view.Author.Following,
	)
	if err != nil {
		return nil, xerrors.New(err)
	}

	view.CreatedAt = models.Timestamp(createdAt.Time)
	view.UpdatedAt = models.Timestamp(updatedAt.Time)
	return view, nil
}

// ViewsByArticle lists the comments of an article, oldest first.
func (CommentModel) ViewsByArticle(ctx context.Context, q databaseutils.SQLExecutor, articleID int64, viewerID *int64) ([]*models.CommentView, error) {
	query := commentViewSelect + `
		WHERE c.article_id = $2
		ORDER BY c.created_at, c.id
	`

	views, err := databaseutils.ExecuteQuery(ctx, q, query, scanCommentView, nullableID(viewerID), articleID)
	if err != nil {
		return nil, xerrors.New(err)
	}
	if views == nil {
		views = []*models.CommentView{}
	}
	return views, nil
}

func (CommentModel) ViewByID(ctx context.Context, q databaseutils.SQLExecutor, id int64, viewerID *int64) (*models.CommentView, error) {
	query := commentViewSelect + `
		WHERE c.id = $2
	`

	view, err := databaseutils.ExecuteSingleQuery(ctx, q, query, scanCommentView, nullableID(viewerID), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, xerrors.New(ErrRecordNotFound)
		}
		return nil, xerrors.New(err)
	}
	return view, nil
}

// Delete removes comment id if it belongs to articleID. It reports whether a
// row was removed.
func (CommentModel) Delete(ctx context.Context, q databaseutils.SQLExecutor, id, articleID int64) (bool, error) {
	const query = `DELETE FROM comments WHERE id = $1 AND article_id = $2`
	return execAffected(ctx, q, query, id, articleID)
}
