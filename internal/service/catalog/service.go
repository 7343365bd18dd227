package catalog

import (
	"context"

	"go.uber.org/zap"

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

func (s *Service) CreateBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, model.Book{
		Title:   req.Title,
		Author:  req.Author,
		Genre:   req.Genre,
		Price:   req.Price,
		PdfLink: req.PdfLink,
	})
}

func (s *Service) DeleteBook(ctx context.Context, title string) error {
	return s.repo.DeleteBook(ctx, title)
}

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) ListBooksWithStatus(ctx context.Context) ([]model.BookStatus, error) {
	return s.repo.ListBooksWithStatus(ctx)
}

func (s *Service) SearchBooks(ctx context.Context, author, topic string, limit int) ([]model.BookStatus, error) {
	return s.repo.SearchBooksWithStatus(ctx, author, topic, limit)
}

func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) DeleteUser(ctx context.Context, username string) error {
	return s.repo.DeleteUser(ctx, username)
}
