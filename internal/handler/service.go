package handler

import (
	"context"

	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/internal/service/assistant"
	"github.com/shaigo/knowledgehub/internal/service/auth"
	"github.com/shaigo/knowledgehub/internal/service/catalog"
	"github.com/shaigo/knowledgehub/internal/service/circulation"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ AuthService        = (*auth.Service)(nil)
	_ CatalogService     = (*catalog.Service)(nil)
	_ CirculationService = (*circulation.Service)(nil)
	_ AssistantService   = (*assistant.Service)(nil)
)

type AuthService interface {
	Register(ctx context.Context, req model.UserCreateRequest) error
	Authorize(ctx context.Context, req model.AuthRequest) (model.User, error)
}

type CatalogService interface {
	CreateBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error)
	DeleteBook(ctx context.Context, title string) error
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListBooksWithStatus(ctx context.Context) ([]model.BookStatus, error)
	SearchBooks(ctx context.Context, author, topic string, limit int) ([]model.BookStatus, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, username string) error
}

type CirculationService interface {
	Assign(ctx context.Context, title, username string, assignedBy int) (model.Assignment, error)
	ListAssignments(ctx context.Context) ([]model.AssignmentView, error)
	Borrow(ctx context.Context, title, username string, userID int) (model.Loan, error)
	Return(ctx context.Context, title, username string, userID int) error
	ListLoansByUser(ctx context.Context, userID int) ([]model.UserLoan, error)
	ListLoans(ctx context.Context) ([]model.LoanView, error)
	ListReturned(ctx context.Context) ([]model.ReturnView, error)
	RequestBook(ctx context.Context, title, username string, userID int) (model.BookRequest, error)
	ListRequestsByUser(ctx context.Context, userID int) ([]model.BookRequest, error)
	ListRequests(ctx context.Context) ([]model.BookRequestView, error)
	UpdateRequestStatus(ctx context.Context, id int, status model.RequestStatus) error
	GetStatCounters(ctx context.Context) ([]model.StatCounter, error)
	LoanAggregates(ctx context.Context) (int, float64, error)
	ReturnAggregates(ctx context.Context) (int, float64, error)
}

type AssistantService interface {
	Chat(ctx context.Context, sessionID string, q assistant.Query) string
	History(sessionID string) []model.ChatMessage
	Reset(sessionID string)
}
