package auth

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/shaigo/knowledgehub/internal/errs"
	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/internal/repository"
)

type Service struct {
	log  *zap.Logger
	repo repository.Repository
}

func NewService(repo repository.Repository, log *zap.Logger) *Service {
	return &Service{
		log:  log,
		repo: repo,
	}
}

func (s *Service) Register(ctx context.Context, req model.UserCreateRequest) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	return s.repo.CreateUser(ctx, model.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hash),
		Role:     req.Role,
	})
}

// Authorize verifies credentials for the requested role. A missing user and a
// wrong password are indistinguishable to the caller.
func (s *Service) Authorize(ctx context.Context, req model.AuthRequest) (model.User, error) {
	user, err := s.repo.GetUser(ctx, req.Username, req.Role)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errs.ErrInvalidCreds
		}
		return model.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return model.User{}, errs.ErrInvalidCreds
	}
	return user, nil
}
