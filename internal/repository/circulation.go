package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shaigo/knowledgehub/internal/errs"
	"github.com/shaigo/knowledgehub/internal/model"
)

func (r *repository) CreateAssignment(ctx context.Context, bookID, userID, assignedBy int) (model.Assignment, error) {
	query, args, err := qb.Insert(assignedTableName).
		Columns("book_id", "user_id", "assigned_by").
		Values(bookID, userID, assignedBy).
		Suffix("returning id, book_id, user_id, assigned_by, assigned_date").
		ToSql()
	if err != nil {
		return model.Assignment{}, err
	}

	var a model.Assignment
	if err := r.db.GetContext(ctx, &a, query, args...); err != nil {
		r.log.Error("CreateAssignment", zap.String("q", query), zap.Any("args", args))
		return model.Assignment{}, err
	}
	return a, nil
}

func (r *repository) ListAssignments(ctx context.Context) ([]model.AssignmentView, error) {
	q := `
select b.title, u.username, a.assigned_date
from assigned_books a
join books b on a.book_id = b.id
join users u on a.user_id = u.id
order by a.assigned_date desc`

	var items []model.AssignmentView
	if err := r.db.SelectContext(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateLoan is first-wins: a unique index on borrowed_books(book_id)
// rejects a second active loan for the same book.
func (r *repository) CreateLoan(ctx context.Context, bookID, userID int) (model.Loan, error) {
	query, args, err := qb.Insert(borrowedTableName).
		Columns("loan_uid", "book_id", "user_id").
		Values(uuid.New(), bookID, userID).
		Suffix("returning id, loan_uid, book_id, user_id, borrowed_date").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Loan{}, errs.ErrBookBorrowed
		}
		r.log.Error("CreateLoan", zap.String("q", query), zap.Any("args", args))
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) ListLoansByUser(ctx context.Context, userID int) ([]model.UserLoan, error) {
	query, args, err := qb.Select("b.title", "bb.borrowed_date").
		From(borrowedTableName + " bb").
		Join(booksTableName + " b on bb.book_id = b.id").
		Where(sq.Eq{"bb.user_id": userID}).
		OrderBy("bb.borrowed_date desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var loans []model.UserLoan
	if err := r.db.SelectContext(ctx, &loans, query, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repository) ListLoans(ctx context.Context) ([]model.LoanView, error) {
	q := `
select b.title, u.username, bb.borrowed_date,
       extract(epoch from now() - bb.borrowed_date) / 86400 as days_borrowed
from borrowed_books bb
join books b on bb.book_id = b.id
join users u on bb.user_id = u.id
order by bb.borrowed_date desc`

	var loans []model.LoanView
	if err := r.db.SelectContext(ctx, &loans, q); err != nil {
		return nil, err
	}
	return loans, nil
}

// ReturnLoan moves the active loan row into returned_books in one statement,
// so there is no window where the book is both borrowed and returned.
func (r *repository) ReturnLoan(ctx context.Context, bookID, userID int) error {
	q := `
with moved as (
    delete from borrowed_books
    where book_id = $1 and user_id = $2
    returning book_id, user_id, borrowed_date
)
insert into returned_books (book_id, user_id, borrowed_date)
select book_id, user_id, borrowed_date from moved
returning id`

	var id int
	if err := r.db.QueryRowContext(ctx, q, bookID, userID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return errs.ErrNotBorrowed
		}
		return err
	}
	return nil
}

func (r *repository) ListReturned(ctx context.Context) ([]model.ReturnView, error) {
	q := `
select b.title, u.username, r.returned_date, r.borrowed_date,
       extract(epoch from r.returned_date - r.borrowed_date) / 86400 as days_kept
from returned_books r
join books b on r.book_id = b.id
join users u on r.user_id = u.id
order by r.returned_date desc`

	var items []model.ReturnView
	if err := r.db.SelectContext(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CreateBookRequest(ctx context.Context, title string, userID int) (model.BookRequest, error) {
	query, args, err := qb.Insert(requestsTableName).
		Columns("request_uid", "book_title", "user_id").
		Values(uuid.New(), title, userID).
		Suffix("returning id, request_uid, book_title, user_id, requested_on, status").
		ToSql()
	if err != nil {
		return model.BookRequest{}, err
	}

	var req model.BookRequest
	if err := r.db.GetContext(ctx, &req, query, args...); err != nil {
		r.log.Error("CreateBookRequest", zap.String("q", query), zap.Any("args", args))
		return model.BookRequest{}, err
	}
	return req, nil
}

func (r *repository) ListRequestsByUser(ctx context.Context, userID int) ([]model.BookRequest, error) {
	query, args, err := qb.Select("id", "request_uid", "book_title", "user_id", "requested_on", "status").
		From(requestsTableName).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("requested_on desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	var items []model.BookRequest
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) ListRequests(ctx context.Context) ([]model.BookRequestView, error) {
	q := `
select br.id, br.book_title, u.username, br.requested_on, br.status
from book_requests br
join users u on br.user_id = u.id
order by br.requested_on desc`

	var items []model.BookRequestView
	if err := r.db.SelectContext(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateRequestStatus(ctx context.Context, id int, status model.RequestStatus) error {
	query, args, err := qb.Update(requestsTableName).
		Set("status", status).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errs.ErrNotFound
	}
	return nil
}
