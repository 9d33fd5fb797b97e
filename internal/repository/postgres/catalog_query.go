package postgres

import (
	sq "github.com/Masterminds/squirrel"
	"github.com/jamieblog/catalog-service/internal/model"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// popularPointExpr derives the endorsement score at read time: +1 per
// positive vote, -1 per negative one. It is never materialized.
const popularPointExpr = "COALESCE((SELECT SUM(CASE WHEN e.endorsement THEN 1 ELSE -1 END) FROM endorsements e WHERE e.post_id = p.id), 0) AS popular_point"

const (
	categoryMatchExpr = "(SELECT COUNT(*) FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = ANY(?))"
	tagMatchExpr      = "(SELECT COUNT(*) FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ANY(?))"

	categoryExistsExpr = "EXISTS (SELECT 1 FROM post_categories pc WHERE pc.post_id = p.id AND pc.category_id = ANY(?))"
	tagExistsExpr      = "EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ANY(?))"
)

func selectPostViews() sq.SelectBuilder {
	return psql.
		Select(
			"p.id", "p.user_id", "p.title", "p.content", "p.image_path",
			"p.created_at", "p.updated_at", "u.display_name",
		).
		Column(popularPointExpr).
		From("posts p").
		Join("users u ON u.id = p.user_id")
}

// relevanceColumn weighs a post's associations against the requested
// filter: 3 points per matching category row, 1.5 per matching tag row.
// With no filter every post scores 0 and ranking degrades to recency.
func relevanceColumn(filter model.CatalogFilter) sq.Sqlizer {
	switch {
	case len(filter.CategoryIDs) > 0 && len(filter.TagIDs) > 0:
		return sq.Expr(categoryMatchExpr+" * 3.0 + "+tagMatchExpr+" * 1.5 AS relevance", filter.CategoryIDs, filter.TagIDs)
	case len(filter.CategoryIDs) > 0:
		return sq.Expr(categoryMatchExpr+" * 3.0 AS relevance", filter.CategoryIDs)
	case len(filter.TagIDs) > 0:
		return sq.Expr(tagMatchExpr+" * 1.5 AS relevance", filter.TagIDs)
	default:
		return sq.Expr("0 AS relevance")
	}
}

// filterPredicate keeps only posts that match at least one requested
// category or tag. It must stay in lockstep with relevanceColumn so the
// count endpoint and the listing agree on what "matching" means.
func filterPredicate(filter model.CatalogFilter) sq.Sqlizer {
	var conds sq.Or
	if len(filter.CategoryIDs) > 0 {
		conds = append(conds, sq.Expr(categoryExistsExpr, filter.CategoryIDs))
	}
	if len(filter.TagIDs) > 0 {
		conds = append(conds, sq.Expr(tagExistsExpr, filter.TagIDs))
	}

	if len(conds) == 0 {
		return nil
	}
	return conds
}

func buildListQuery(filter model.CatalogFilter, limit int, offset int) (string, []interface{}, error) {
	q := selectPostViews().Column(relevanceColumn(filter))
	if pred := filterPredicate(filter); pred != nil {
		q = q.Where(pred)
	}

	return q.
		OrderBy("relevance DESC", "p.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
}

func buildCountQuery(filter model.CatalogFilter) (string, []interface{}, error) {
	q := psql.Select("COUNT(*)").From("posts p")
	if pred := filterPredicate(filter); pred != nil {
		q = q.Where(pred)
	}

	return q.ToSql()
}

func buildSearchQuery(text string, limit int, offset int) (string, []interface{}, error) {
	return selectPostViews().
		Where(searchPredicate(text)).
		OrderBy("p.created_at DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
}

func buildSearchCountQuery(text string) (string, []interface{}, error) {
	return psql.Select("COUNT(*)").From("posts p").Where(searchPredicate(text)).ToSql()
}

func searchPredicate(text string) sq.Sqlizer {
	return sq.Expr("(p.title ILIKE '%' || ? || '%' OR p.content ILIKE '%' || ? || '%')", text, text)
}
