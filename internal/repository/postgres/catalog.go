package postgres

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jamieblog/catalog-service/internal/model"
)

type catalogRepo struct {
	db DBTX
}

func newCatalogRepo(db *pgxpool.Pool) Catalog {
	return &catalogRepo{
		db: db,
	}
}

func (r *catalogRepo) List(ctx context.Context, filter model.CatalogFilter, limit int, offset int) ([]*model.PostView, error) {
	query, args, err := buildListQuery(filter, limit, offset)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	views, err := scanPostViews(rows, true)
	if err != nil {
		return nil, err
	}

	if err := r.attachAssociations(ctx, views); err != nil {
		return nil, err
	}

	return views, nil
}

func (r *catalogRepo) Count(ctx context.Context, filter model.CatalogFilter) (int64, error) {
	query, args, err := buildCountQuery(filter)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}

	return count, nil
}

func (r *catalogRepo) FindByID(ctx context.Context, id int64) (*model.PostView, error) {
	query, args, err := selectPostViews().Where(sq.Eq{"p.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	views, err := scanPostViews(rows, false)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, pgx.ErrNoRows
	}

	if err := r.attachAssociations(ctx, views); err != nil {
		return nil, err
	}

	return views[0], nil
}

func (r *catalogRepo) FindOwnerPosts(ctx context.Context, ownerID uuid.UUID, sortColumn string, order string) ([]*model.PostView, error) {
	// sortColumn and order are allow-list checked by the service before
	// this query is ever built.
	query, args, err := selectPostViews().
		Where(sq.Eq{"p.user_id": ownerID}).
		OrderBy(sortColumn + " " + order).
		ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryViews(ctx, query, args)
}

func (r *catalogRepo) Random(ctx context.Context, count int) ([]*model.PostView, error) {
	query, args, err := selectPostViews().OrderBy("RANDOM()").Limit(uint64(count)).ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryViews(ctx, query, args)
}

func (r *catalogRepo) Latest(ctx context.Context, count int) ([]*model.PostView, error) {
	query, args, err := selectPostViews().OrderBy("p.created_at DESC").Limit(uint64(count)).ToSql()
	if err != nil {
		return nil, err
	}

	return r.queryViews(ctx, query, args)
}

func (r *catalogRepo) Search(ctx context.Context, text string, limit int, offset int) ([]*model.PostView, int64, error) {
	query, args, err := buildSearchQuery(text, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views, err := r.queryViews(ctx, query, args)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := buildSearchCountQuery(text)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return views, total, nil
}

func (r *catalogRepo) queryViews(ctx context.Context, query string, args []interface{}) ([]*model.PostView, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	views, err := scanPostViews(rows, false)
	if err != nil {
		return nil, err
	}

	if err := r.attachAssociations(ctx, views); err != nil {
		return nil, err
	}

	return views, nil
}

func scanPostViews(rows pgx.Rows, withRelevance bool) ([]*model.PostView, error) {
	defer rows.Close()

	var views []*model.PostView
	for rows.Next() {
		view := &model.PostView{
			Categories: []string{},
			Tags:       []string{},
		}

		dest := []interface{}{
			&view.ID,
			&view.UserID,
			&view.Title,
			&view.Content,
			&view.ImagePath,
			&view.CreatedAt,
			&view.UpdatedAt,
			&view.DisplayName,
			&view.PopularPoint,
		}
		if withRelevance {
			var relevance float64
			dest = append(dest, &relevance)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		views = append(views, view)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}

// attachAssociations resolves category and tag names for a page of
// views with one query per association kind, folding the rows back onto
// the views by post ID.
func (r *catalogRepo) attachAssociations(ctx context.Context, views []*model.PostView) error {
	if len(views) == 0 {
		return nil
	}

	viewMap := make(map[int64]*model.PostView, len(views))
	ids := make([]int64, 0, len(views))
	for _, view := range views {
		viewMap[view.ID] = view
		ids = append(ids, view.ID)
	}

	categoryRows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT pc.post_id, c.name
		FROM post_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return err
	}
	if err := foldNames(categoryRows, viewMap, func(view *model.PostView, name string) {
		view.Categories = append(view.Categories, name)
	}); err != nil {
		return err
	}

	tagRows, err := r.db.Query(
		ctx,
		`SELECT DISTINCT pt.post_id, t.name
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)`,
		ids,
	)
	if err != nil {
		return err
	}

	return foldNames(tagRows, viewMap, func(view *model.PostView, name string) {
		view.Tags = append(view.Tags, name)
	})
}

func foldNames(rows pgx.Rows, viewMap map[int64]*model.PostView, apply func(*model.PostView, string)) error {
	defer rows.Close()

	for rows.Next() {
		var (
			postID int64
			name   string
		)
		if err := rows.Scan(&postID, &name); err != nil {
			return err
		}

		if view, exists := viewMap[postID]; exists {
			apply(view, name)
		}
	}

	return rows.Err()
}
