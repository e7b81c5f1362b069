package data

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/utils/databaseutils"
	"github.com/siahsang/realworld/models"
)

type ArticleModel struct{}

// ArticleQuery selects articles. Every set field is one more required
// predicate (AND). Limit 0 means no paging.
type ArticleQuery struct {
	Slug        *string
	Tag         *string
	Author      *string
	FavoritedBy *int64
	FollowedBy  *int64

	// Viewer decides the favorited and following flags of each row.
	Viewer *int64

	Limit  int64
	Offset int64
}

const articleFrom = `
		FROM articles a
		JOIN users u ON u.id = a.author_id`

// where appends the filter predicates to p. It must be called after every
// placeholder that precedes the WHERE clause has been added.
func (aq ArticleQuery) where(p *databaseutils.Params) string {
	var conditions []string

	if aq.Slug != nil {
		conditions = append(conditions, `a.slug = `+p.Add(*aq.Slug))
	}
	if aq.Author != nil {
		conditions = append(conditions, `u.username = `+p.Add(*aq.Author))
	}
	if aq.Tag != nil {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM article_tags atg JOIN tags t ON t.id = atg.tag_id
			WHERE atg.article_id = a.id AND t.name = `+p.Add(*aq.Tag)+`)`)
	}
	if aq.FavoritedBy != nil {
		conditions = append(conditions, `EXISTS (
			SELECT 1 FROM favorites fv
			WHERE fv.article_id = a.id AND fv.user_id = `+p.Add(*aq.FavoritedBy)+`)`)
	}
	if aq.FollowedBy != nil {
		conditions = append(conditions, `a.author_id IN (
			SELECT fw.followed_id FROM follows fw WHERE fw.follower_id = `+p.Add(*aq.FollowedBy)+`)`)
	}

	if len(conditions) == 0 {
		return ""
	}
	return "\n\t\tWHERE " + strings.Join(conditions, "\n\t\t  AND ")
}

type articleRow struct {
	view  *models.ArticleView
	total int64
}

func scanArticleRow(rows *sql.Rows) (articleRow, error) {
	var (
		view      = &models.ArticleView{TagList: []string{}}
		createdAt sql.NullTime
		updatedAt sql.NullTime
		row       = articleRow{view: view}
	)

	err := rows.Scan(
		&view.ID, &view.Slug, &view.Title, &view.Description, &view.Body,
		&createdAt, &updatedAt, &view.FavoritesCount,
		&view.Author.ID, &view.Author.Username, &view.Author.Bio, &view.Author.Image,
		&view.Favorited, &view.Author.Following,
		&row.total,
	)
	if err != nil {
		return row, xerrors.New(err)
	}

	view.CreatedAt = models.Timestamp(createdAt.Time)
	view.UpdatedAt = models.Timestamp(updatedAt.Time)
	return row, nil
}

// FindViews runs the query and returns the page together with the number of
// rows matching before limit/offset, counted by the same statement.
func (ArticleModel) FindViews(ctx context.Context, q databaseutils.SQLExecutor, aq ArticleQuery) ([]*models.ArticleView, int64, error) {
	var p databaseutils.Params
	viewer := p.Add(nullableID(aq.Viewer))

	query := `
		SELECT a.id, a.slug, a.title, a.description, a.body,
			a.created_at, a.updated_at, a.favorites_count,
			u.id, u.username, u.bio, u.image,
			EXISTS (SELECT 1 FROM favorites f WHERE f.article_id = a.id AND f.user_id = ` + viewer + `) AS favorited,
			EXISTS (SELECT 1 FROM follows fo WHERE fo.followed_id = u.id AND fo.follower_id = ` + viewer + `) AS following,
			COUNT(*) OVER () AS total` +
		articleFrom +
		aq.where(&p) + `
		ORDER BY a.created_at DESC, a.id DESC`

	if aq.Limit > 0 {
		query += `
		LIMIT ` + p.Add(aq.Limit) + ` OFFSET ` + p.Add(aq.Offset)
	}

	rows, err := databaseutils.ExecuteQuery(ctx, q, query, scanArticleRow, p.Args()...)
	if err != nil {
		return nil, 0, xerrors.New(err)
	}

	views := make([]*models.ArticleView, len(rows))
	var total int64
	for i, row := range rows {
		views[i] = row.view
		total = row.total
	}
	return views, total, nil
}

// Count returns how many articles match, ignoring paging and viewer.
func (ArticleModel) Count(ctx context.Context, q databaseutils.SQLExecutor, aq ArticleQuery) (int64, error) {
	var p databaseutils.Params
	query := `SELECT COUNT(*)` + articleFrom + aq.where(&p)

	var count int64
	if err := q.QueryRowContext(ctx, query, p.Args()...).Scan(&count); err != nil {
		return 0, xerrors.New(err)
	}
	return count, nil
}

func (ArticleModel) Insert(ctx context.Context, q databaseutils.SQLExecutor, article *models.Article) error {
	const insertSQL = `
		INSERT INTO articles (slug, title, description, body, author_id, created_at, updated_at, favorites_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0)
		RETURNING id
	`

	err := q.QueryRowContext(ctx, insertSQL,
		article.Slug, article.Title, article.Description, article.Body,
		article.AuthorID, article.CreatedAt, article.UpdatedAt,
	).Scan(&article.ID)
	if err != nil {
		if databaseutils.UniqueViolation(err, "articles", "slug") {
			return xerrors.New(ErrDuplicateSlug)
		}
		return xerrors.New(err)
	}
	return nil
}

func (ArticleModel) GetBySlug(ctx context.Context, q databaseutils.SQLExecutor, slug string) (*models.Article, error) {
	const query = `
		SELECT id, slug, title, description, body, author_id, created_at, updated_at, favorites_count
		FROM articles
		WHERE slug = $1
	`

	article, err := databaseutils.ExecuteSingleQuery(ctx, q, query, func(rows *sql.Rows) (*models.Article, error) {
		var a models.Article
		if err := rows.Scan(&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body, &a.AuthorID,
			&a.CreatedAt, &a.UpdatedAt, &a.FavoritesCount); err != nil {
			return nil, xerrors.New(err)
		}
		return &a, nil
	}, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, xerrors.New(ErrRecordNotFound)
		}
		return nil, xerrors.New(err)
	}
	return article, nil
}

// Update writes the editable columns of article. favorites_count is only
// changed through AdjustFavoritesCount.
func (ArticleModel) Update(ctx context.Context, q databaseutils.SQLExecutor, article *models.Article) error {
	const updateSQL = `
		UPDATE articles
		SET slug = $1, title = $2, description = $3, body = $4, updated_at = $5
		WHERE id = $6
	`

	_, err := q.ExecContext(ctx, updateSQL,
		article.Slug, article.Title, article.Description, article.Body, article.UpdatedAt, article.ID)
	if err != nil {
		if databaseutils.UniqueViolation(err, "articles", "slug") {
			return xerrors.New(ErrDuplicateSlug)
		}
		return xerrors.New(err)
	}
	return nil
}

// Delete removes an article together with everything hanging off it.
func (ArticleModel) Delete(ctx context.Context, q databaseutils.SQLExecutor, articleID int64) error {
	statements := []string{
		`DELETE FROM article_tags WHERE article_id = $1`,
		`DELETE FROM favorites WHERE article_id = $1`,
		`DELETE FROM comments WHERE article_id = $1`,
		`DELETE FROM articles WHERE id = $1`,
	}
	for _, stmt := range statements {
		if _, err := q.ExecContext(ctx, stmt, articleID); err != nil {
			return xerrors.New(err)
		}
	}
	return nil
}

// AddFavorite inserts the favorites row; it reports false when the user had
// already favorited the article.
func (ArticleModel) AddFavorite(ctx context.Context, q databaseutils.SQLExecutor, userID, articleID int64) (bool, error) {
	const query = `
		INSERT INTO favorites (user_id, article_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`
	return execAffected(ctx, q, query, userID, articleID)
}

// RemoveFavorite deletes the favorites row; it reports false when there was none.
func (ArticleModel) RemoveFavorite(ctx context.Context, q databaseutils.SQLExecutor, userID, articleID int64) (bool, error) {
	const query = `DELETE FROM favorites WHERE user_id = $1 AND article_id = $2`
	return execAffected(ctx, q, query, userID, articleID)
}

// AdjustFavoritesCount moves the denormalized counter by delta (+1 or -1).
// The counter never drops below zero. It must run in the same transaction
// as the matching AddFavorite/RemoveFavorite.
func (ArticleModel) AdjustFavoritesCount(ctx context.Context, q databaseutils.SQLExecutor, articleID int64, delta int64) error {
	const query = `
		UPDATE articles
		SET favorites_count = favorites_count + $1
		WHERE id = $2 AND favorites_count + $1 >= 0
	`

	updated, err := execAffected(ctx, q, query, delta, articleID)
	if err != nil {
		return err
	}
	if !updated {
		return xerrors.Newf("favorites_count of article %d cannot move by %d", articleID, delta)
	}
	return nil
}
