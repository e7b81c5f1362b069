package data

import (
	"context"
	"database/sql"

	"github.com/mdobak/go-xerrors"

	"github.com/siahsang/realworld/internal/utils/collectionutils"
	"github.com/siahsang/realworld/internal/utils/databaseutils"
	"github.com/siahsang/realworld/internal/utils/functional"
	"github.com/siahsang/realworld/models"
)

type TagModel struct{}

// Upsert makes sure every name exists in tags and returns them in the order
// given.
func (TagModel) Upsert(ctx context.Context, q databaseutils.SQLExecutor, names []string) ([]*models.Tag, error) {
	const insertSQL = `INSERT INTO tags (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`
	const selectSQL = `SELECT id, name FROM tags WHERE name = $1`

	tags := make([]*models.Tag, 0, len(names))
	for _, name := range names {
		if _, err := q.ExecContext(ctx, insertSQL, name); err != nil {
			return nil, xerrors.Newf("insert tag %q: %w", name, err)
		}

		tag := &models.Tag{}
		if err := q.QueryRowContext(ctx, selectSQL, name).Scan(&tag.ID, &tag.Name); err != nil {
			return nil, xerrors.Newf("load tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}

	return tags, nil
}

// SetArticleTags replaces the tag list of an article, keeping tags' order.
func (TagModel) SetArticleTags(ctx context.Context, q databaseutils.SQLExecutor, articleID int64, tags []*models.Tag) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM article_tags WHERE article_id = $1`, articleID); err != nil {
		return xerrors.New(err)
	}

	const insertSQL = `INSERT INTO article_tags (article_id, tag_id, position) VALUES ($1, $2, $3)`
	for position, tag := range tags {
		if _, err := q.ExecContext(ctx, insertSQL, articleID, tag.ID, position); err != nil {
			return xerrors.Newf("link tag %q: %w", tag.Name, err)
		}
	}
	return nil
}

type articleTag struct {
	articleID int64
	name      string
}

// ByArticleIDs returns the ordered tag list of each article.
func (TagModel) ByArticleIDs(ctx context.Context, q databaseutils.SQLExecutor, articleIDs []int64) (map[int64][]string, error) {
	if len(articleIDs) == 0 {
		return map[int64][]string{}, nil
	}

	var p databaseutils.Params
	query := `
		SELECT atg.article_id, t.name
		FROM article_tags atg
		JOIN tags t ON t.id = atg.tag_id
		WHERE atg.article_id IN (` + databaseutils.AddAll(&p, articleIDs) + `)
		ORDER BY atg.article_id, atg.position
	`

	rows, err := databaseutils.ExecuteQuery(ctx, q, query, func(rows *sql.Rows) (articleTag, error) {
		var at articleTag
		err := rows.Scan(&at.articleID, &at.name)
		return at, err
	}, p.Args()...)
	if err != nil {
		return nil, xerrors.New(err)
	}

	grouped := collectionutils.GroupBy(rows, func(at articleTag) int64 { return at.articleID })
	result := make(map[int64][]string, len(grouped))
	for id, tags := range grouped {
		result[id] = functional.Map(tags, func(at articleTag) string { return at.name })
	}
	return result, nil
}

// Distinct lists every tag used by at least one article.
func (TagModel) Distinct(ctx context.Context, q databaseutils.SQLExecutor) ([]string, error) {
	const query = `
		SELECT DISTINCT t.name
		FROM tags t
		JOIN article_tags atg ON atg.tag_id = t.id
		ORDER BY t.name
	`

	names, err := databaseutils.ExecuteQuery(ctx, q, query, func(rows *sql.Rows) (string, error) {
		var name string
		err := rows.Scan(&name)
		return name, err
	})
	if err != nil {
		return nil, xerrors.New(err)
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
