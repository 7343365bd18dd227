package circulation

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/internal/repository"
	"github.com/shaigo/knowledgehub/pkg/kafka"
)

// EventLog publishes circulation events for the stats read model. Publishing
// is best effort: a broker outage never fails the user-facing operation.
type EventLog interface {
	Log(event kafka.EventStats) error
}

type Service struct {
	log    *zap.Logger
	repo   repository.Repository
	events EventLog
}

func NewService(repo repository.Repository, events EventLog, log *zap.Logger) *Service {
	return &Service{
		log:    log,
		repo:   repo,
		events: events,
	}
}

func (s *Service) publish(username, action string, bookID int) {
	if s.events == nil {
		return
	}
	if err := s.events.Log(kafka.EventStats{
		Username:  username,
		Action:    action,
		BookID:    bookID,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		s.log.Warn("publish event", zap.String("action", action), zap.Error(err))
	}
}

// Assign pushes a book to a user on behalf of an admin.
func (s *Service) Assign(ctx context.Context, title, username string, assignedBy int) (model.Assignment, error) {
	book, err := s.repo.GetBookByTitle(ctx, title)
	if err != nil {
		return model.Assignment{}, err
	}
	user, err := s.repo.GetUserByName(ctx, username)
	if err != nil {
		return model.Assignment{}, err
	}
	a, err := s.repo.CreateAssignment(ctx, book.ID, user.ID, assignedBy)
	if err != nil {
		return model.Assignment{}, err
	}
	s.publish(username, kafka.ActionAssigned, book.ID)
	return a, nil
}

func (s *Service) ListAssignments(ctx context.Context) ([]model.AssignmentView, error) {
	return s.repo.ListAssignments(ctx)
}

func (s *Service) Borrow(ctx context.Context, title, username string, userID int) (model.Loan, error) {
	book, err := s.repo.GetBookByTitle(ctx, title)
	if err != nil {
		return model.Loan{}, err
	}
	loan, err := s.repo.CreateLoan(ctx, book.ID, userID)
	if err != nil {
		return model.Loan{}, err
	}
	s.publish(username, kafka.ActionBorrowed, book.ID)
	return loan, nil
}

func (s *Service) Return(ctx context.Context, title, username string, userID int) error {
	book, err := s.repo.GetBookByTitle(ctx, title)
	if err != nil {
		return err
	}
	if err := s.repo.ReturnLoan(ctx, book.ID, userID); err != nil {
		return err
	}
	s.publish(username, kafka.ActionReturned, book.ID)
	return nil
}

func (s *Service) ListLoansByUser(ctx context.Context, userID int) ([]model.UserLoan, error) {
	return s.repo.ListLoansByUser(ctx, userID)
}

func (s *Service) ListLoans(ctx context.Context) ([]model.LoanView, error) {
	return s.repo.ListLoans(ctx)
}

func (s *Service) ListReturned(ctx context.Context) ([]model.ReturnView, error) {
	return s.repo.ListReturned(ctx)
}

func (s *Service) RequestBook(ctx context.Context, title, username string, userID int) (model.BookRequest, error) {
	req, err := s.repo.CreateBookRequest(ctx, title, userID)
	if err != nil {
		return model.BookRequest{}, err
	}
	s.publish(username, kafka.ActionRequested, 0)
	return req, nil
}

func (s *Service) ListRequestsByUser(ctx context.Context, userID int) ([]model.BookRequest, error) {
	return s.repo.ListRequestsByUser(ctx, userID)
}

func (s *Service) ListRequests(ctx context.Context) ([]model.BookRequestView, error) {
	return s.repo.ListRequests(ctx)
}

func (s *Service) UpdateRequestStatus(ctx context.Context, id int, status model.RequestStatus) error {
	return s.repo.UpdateRequestStatus(ctx, id, status)
}

// Stats is the kafka consumer callback maintaining the counters table.
func (s *Service) Stats(ctx context.Context, event kafka.EventStats) error {
	return s.repo.BumpStat(ctx, event.Action)
}

func (s *Service) GetStatCounters(ctx context.Context) ([]model.StatCounter, error) {
	return s.repo.GetStatCounters(ctx)
}

func (s *Service) LoanAggregates(ctx context.Context) (int, float64, error) {
	return s.repo.LoanAggregates(ctx)
}

func (s *Service) ReturnAggregates(ctx context.Context) (int, float64, error) {
	return s.repo.ReturnAggregates(ctx)
}
