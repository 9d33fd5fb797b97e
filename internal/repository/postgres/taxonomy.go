package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jamieblog/catalog-service/internal/model"
)

type taxonomyRepo struct {
	db DBTX
}

func newTaxonomyRepo(db *pgxpool.Pool) Taxonomy {
	return &taxonomyRepo{
		db: db,
	}
}

func (r *taxonomyRepo) Categories(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.db.Query(ctx, "SELECT c.id, c.name FROM categories c ORDER BY c.name")
	if err != nil {
		return nil, err
	}

	return scanCategories(rows)
}

func (r *taxonomyRepo) Tags(ctx context.Context) ([]*model.Tag, error) {
	rows, err := r.db.Query(ctx, "SELECT t.id, t.name FROM tags t ORDER BY t.name")
	if err != nil {
		return nil, err
	}

	return scanTags(rows)
}

func (r *taxonomyRepo) RandomCategories(ctx context.Context, count int, excludeIDs []int64) ([]*model.Category, error) {
	query, args, err := buildRandomPickQuery("categories", "c", count, excludeIDs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return scanCategories(rows)
}

func (r *taxonomyRepo) RandomTags(ctx context.Context, count int, excludeIDs []int64) ([]*model.Tag, error) {
	query, args, err := buildRandomPickQuery("tags", "t", count, excludeIDs)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return scanTags(rows)
}

// buildRandomPickQuery samples rows, leaving out the excluded IDs. An
// empty exclusion list must skip the predicate entirely: pgx encodes a
// nil slice as a NULL array, and NOT (id = ANY(NULL)) rejects every row.
func buildRandomPickQuery(table string, alias string, count int, excludeIDs []int64) (string, []interface{}, error) {
	q := psql.Select(alias+".id", alias+".name").From(table + " " + alias)
	if len(excludeIDs) > 0 {
		q = q.Where(sq.Expr("NOT ("+alias+".id = ANY(?))", excludeIDs))
	}

	return q.OrderBy("RANDOM()").Limit(uint64(count)).ToSql()
}

func (r *taxonomyRepo) ResolveCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, "SELECT c.id FROM categories c WHERE c.name = $1", name).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *taxonomyRepo) ResolveTag(ctx context.Context, name string) (int64, error) {
	var id int64
	if err := r.db.QueryRow(ctx, "SELECT t.id FROM tags t WHERE t.name = $1", name).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *taxonomyRepo) ReplaceAssociations(ctx context.Context, postID int64, categoryIDs []int64, tagIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := replaceAssociations(ctx, tx, postID, categoryIDs, tagIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *taxonomyRepo) ListAssociations(ctx context.Context, postID int64) (*model.Associations, error) {
	associations := &model.Associations{
		Categories: []string{},
		Tags:       []string{},
	}

	categoryRows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT c.name
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = $1`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	if associations.Categories, err = scanNames(categoryRows); err != nil {
		return nil, err
	}

	tagRows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT t.name
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = $1`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	if associations.Tags, err = scanNames(tagRows); err != nil {
		return nil, err
	}

	return associations, nil
}

func scanCategories(rows pgx.Rows) ([]*model.Category, error) {
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		var category model.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

func scanTags(rows pgx.Rows) ([]*model.Tag, error) {
	defer rows.Close()

	var tags []*model.Tag
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}

	return tags, rows.Err()
}

func scanNames(rows pgx.Rows) ([]string, error) {
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}

	return names, rows.Err()
}
