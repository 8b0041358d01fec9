// Package services implements the application logic between the HTTP layer
// and the repositories: account registration, session issuance, and the
// owner-scoped todo operations.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/babalolajnr/todo-api/internal/common"
	"github.com/babalolajnr/todo-api/internal/server/auth"
	"github.com/babalolajnr/todo-api/internal/server/config"
	"github.com/babalolajnr/todo-api/internal/server/models"
	"github.com/babalolajnr/todo-api/internal/server/ratelimit"
	"github.com/babalolajnr/todo-api/internal/server/repositories/repomanager"
)

// LoginLimiter throttles login attempts. A nil limiter disables throttling.
type LoginLimiter interface {
	Enforce(ctx context.Context, email, ip string) error
}

var _ LoginLimiter = (*ratelimit.LoginLimiter)(nil)

type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	hasher        auth.PasswordHasher
	limiter       LoginLimiter
	jwtSecret     []byte
	tokenValidity time.Duration
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, limiter LoginLimiter, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		hasher:        hasher,
		limiter:       limiter,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidity,
	}
}

// Register creates an account with a freshly hashed password. A duplicate
// email surfaces as common.ErrAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: hash,
	}

	repo := s.repomanager.Users(s.db)

	user, err = repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Login verifies the credentials and issues a signed token. An unknown email
// and a wrong password both return common.ErrInvalidCredentials so the
// response does not reveal which accounts exist.
func (s *UserService) Login(ctx context.Context, email, password, clientIP string) (string, error) {

	if s.limiter != nil {
		if err := s.limiter.Enforce(ctx, email, clientIP); err != nil {
			if errors.Is(err, common.ErrRateLimited) {
				return "", err
			}
			return "", fmt.Errorf("%w: login throttle: %v", common.ErrInternal, err)
		}
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: looking up user: %v", common.ErrInternal, err)
	}

	if err := s.hasher.Compare(password, user.Password); err != nil {
		if errors.Is(err, common.ErrInvalidCredentials) {
			return "", common.ErrInvalidCredentials
		}
		return "", fmt.Errorf("%w: comparing password: %v", common.ErrInternal, err)
	}

	claims := auth.NewClaims(user.ID, user.Name, user.Email, s.tokenValidity)

	token, err := auth.GenerateToken(claims, s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("%w: signing token: %v", common.ErrInternal, err)
	}

	return token, nil
}
