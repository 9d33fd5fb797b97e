package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jamieblog/catalog-service/internal/model"
)

type postRepo struct {
	db DBTX
}

func newPostRepo(db *pgxpool.Pool) Post {
	return &postRepo{
		db: db,
	}
}

func (r *postRepo) Create(ctx context.Context, post model.Post, categoryIDs []int64, tagIDs []int64) (*model.Post, error) {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(
		ctx,
		"INSERT INTO posts(user_id, title, content, image_path, created_at, updated_at) VALUES($1, $2, $3, $4, $5, $6) RETURNING id",
		post.UserID,
		post.Title,
		post.Content,
		post.ImagePath,
		post.CreatedAt,
		post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return nil, err
	}

	if err := replaceAssociations(ctx, tx, post.ID, categoryIDs, tagIDs); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *postRepo) Update(ctx context.Context, postID int64, title string, content string, imagePath *string, categoryIDs []int64, tagIDs []int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	// The image path is only touched when a new upload was supplied;
	// omission preserves the existing reference.
	if imagePath != nil {
		_, err = tx.Exec(
			ctx,
			"UPDATE posts SET title = $1, content = $2, image_path = $3, updated_at = $4 WHERE id = $5",
			title, content, *imagePath, time.Now(), postID,
		)
	} else {
		_, err = tx.Exec(
			ctx,
			"UPDATE posts SET title = $1, content = $2, updated_at = $3 WHERE id = $4",
			title, content, time.Now(), postID,
		)
	}
	if err != nil {
		return err
	}

	if err := replaceAssociations(ctx, tx, postID, categoryIDs, tagIDs); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postRepo) Delete(ctx context.Context, postID int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM post_categories WHERE post_id = $1", postID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM post_tags WHERE post_id = $1", postID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM endorsements WHERE post_id = $1", postID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM posts WHERE id = $1", postID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postRepo) OwnerOf(ctx context.Context, postID int64) (uuid.UUID, error) {
	var ownerID uuid.UUID
	if err := r.db.QueryRow(ctx, "SELECT user_id FROM posts WHERE id = $1", postID).Scan(&ownerID); err != nil {
		return uuid.Nil, err
	}

	return ownerID, nil
}

// replaceAssociations rewrites a post's association rows inside the
// caller's transaction: delete everything for the post, then insert the
// requested sets. Running it twice with the same arguments leaves the
// same final state.
func replaceAssociations(ctx context.Context, tx pgx.Tx, postID int64, categoryIDs []int64, tagIDs []int64) error {
	if _, err := tx.Exec(ctx, "DELETE FROM post_categories WHERE post_id = $1", postID); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, "DELETE FROM post_tags WHERE post_id = $1", postID); err != nil {
		return err
	}

	for _, categoryID := range categoryIDs {
		if _, err := tx.Exec(ctx, "INSERT INTO post_categories(post_id, category_id) VALUES($1, $2)", postID, categoryID); err != nil {
			return err
		}
	}
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, "INSERT INTO post_tags(post_id, tag_id) VALUES($1, $2)", postID, tagID); err != nil {
			return err
		}
	}

	return nil
}
