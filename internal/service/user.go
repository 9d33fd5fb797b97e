package service

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jamieblog/catalog-service/internal/dto"
	"github.com/jamieblog/catalog-service/internal/model"
	"github.com/jamieblog/catalog-service/internal/repository"
	"github.com/jamieblog/catalog-service/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	logger *zap.Logger
	repo   *repository.Repository
}

func newUserService(logger *zap.Logger, repo *repository.Repository) User {
	return &userService{
		logger: logger,
		repo:   repo,
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	_, err := s.repo.Postgres.User.FindByUsername(ctx, req.Username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if err != pgx.ErrNoRows {
		s.logger.Sugar().Errorf("failed to check username %q: %s", req.Username, err.Error())
		return nil, ErrInternal
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash password: %s", err.Error())
		return nil, ErrInternal
	}

	user := model.User{
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
	}

	createdUser, err := s.repo.Postgres.User.Create(ctx, user)
	if err != nil {
		s.logger.Sugar().Errorf("failed to create user %q: %s", req.Username, err.Error())
		return nil, ErrInternal
	}

	return createdUser, nil
}

func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (string, error) {
	user, err := s.repo.Postgres.User.FindByUsername(ctx, req.Username)
	if err == pgx.ErrNoRows {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user %q: %s", req.Username, err.Error())
		return "", ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return "", ErrInvalidCredentials
	}

	ttl := viper.GetDuration("auth.access_token_ttl")
	if ttl == 0 {
		ttl = time.Hour * 24
	}

	token, err := utils.GenerateJWT(user.ID, ttl, []byte(os.Getenv("ACCESS_SECRET")))
	if err != nil {
		s.logger.Sugar().Errorf("failed to sign access token for user(%s): %s", user.ID.String(), err.Error())
		return "", ErrInternal
	}

	return token, nil
}

func (s *userService) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.Postgres.User.FindByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		s.logger.Sugar().Errorf("failed to find user(%s): %s", id.String(), err.Error())
		return nil, ErrInternal
	}

	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uuid.UUID, displayName string) error {
	if err := s.repo.Postgres.User.Update(ctx, id, map[string]interface{}{"display_name": displayName}); err != nil {
		s.logger.Sugar().Errorf("failed to update user(%s) profile: %s", id.String(), err.Error())
		return ErrInternal
	}

	return nil
}

func (s *userService) ChangePassword(ctx context.Context, id uuid.UUID, oldPassword string, newPassword string) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Sugar().Errorf("failed to hash new password: %s", err.Error())
		return ErrInternal
	}

	if err := s.repo.Postgres.User.Update(ctx, id, map[string]interface{}{"password_hash": string(hash)}); err != nil {
		s.logger.Sugar().Errorf("failed to change user(%s) password: %s", id.String(), err.Error())
		return ErrInternal
	}

	return nil
}
