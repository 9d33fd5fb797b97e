package postgres

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jamieblog/catalog-service/internal/model"
)

var ErrFieldsNotAllowedToUpdate = errors.New("some fields are not allowed to update")

type userRepo struct {
	db DBTX
}

func newUserRepo(db *pgxpool.Pool) User {
	return &userRepo{
		db: db,
	}
}

func (r *userRepo) Create(ctx context.Context, user model.User) (*model.User, error) {
	user.ID = uuid.New()
	user.CreatedAt = time.Now()

	// Without an avatar the column is omitted so the schema default
	// supplies the placeholder image.
	if user.AvatarPath == "" {
		if err := r.db.QueryRow(
			ctx,
			"INSERT INTO users(id, username, display_name, password_hash, created_at) VALUES($1, $2, $3, $4, $5) RETURNING avatar_path",
			user.ID,
			user.Username,
			user.DisplayName,
			user.PasswordHash,
			user.CreatedAt,
		).Scan(&user.AvatarPath); err != nil {
			return nil, err
		}

		return &user, nil
	}

	if _, err := r.db.Exec(
		ctx,
		"INSERT INTO users(id, username, display_name, avatar_path, password_hash, created_at) VALUES($1, $2, $3, $4, $5, $6)",
		user.ID,
		user.Username,
		user.DisplayName,
		user.AvatarPath,
		user.PasswordHash,
		user.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return r.findBy(ctx, "u.id = $1", id)
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.findBy(ctx, "u.username = $1", username)
}

func (r *userRepo) findBy(ctx context.Context, cond string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.QueryRow(
		ctx,
		"SELECT u.id, u.username, u.display_name, u.avatar_path, u.password_hash, u.created_at FROM users u WHERE "+cond,
		arg,
	).Scan(
		&user.ID,
		&user.Username,
		&user.DisplayName,
		&user.AvatarPath,
		&user.PasswordHash,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *userRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}

	allowedFields := []string{"display_name", "avatar_path", "password_hash"}
	allowedFieldsSet := make(map[string]struct{}, len(allowedFields))
	for _, field := range allowedFields {
		allowedFieldsSet[field] = struct{}{}
	}

	for field := range updates {
		if _, ok := allowedFieldsSet[field]; !ok {
			return ErrFieldsNotAllowedToUpdate
		}
	}

	query := "UPDATE users SET "
	args := []interface{}{}
	i := 1

	for column, value := range updates {
		query += (column + " = $" + strconv.Itoa(i) + ", ")
		args = append(args, value)
		i++
	}

	query = query[:len(query)-2] + " WHERE id = $" + strconv.Itoa(i)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	return err
}
