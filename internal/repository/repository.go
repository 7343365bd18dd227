package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/shaigo/knowledgehub/internal/errs"
	"github.com/shaigo/knowledgehub/internal/model"
)

type Repository interface {
	CreateUser(ctx context.Context, user model.User) error
	GetUser(ctx context.Context, username, role string) (model.User, error)
	GetUserByName(ctx context.Context, username string) (model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, username string) error

	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, title string) error
	GetBookByTitle(ctx context.Context, title string) (model.Book, error)
	ListBooks(ctx context.Context) ([]model.Book, error)
	ListBooksWithStatus(ctx context.Context) ([]model.BookStatus, error)
	SearchBooksWithStatus(ctx context.Context, author, topic string, limit int) ([]model.BookStatus, error)

	CreateAssignment(ctx context.Context, bookID, userID, assignedBy int) (model.Assignment, error)
	ListAssignments(ctx context.Context) ([]model.AssignmentView, error)

	CreateLoan(ctx context.Context, bookID, userID int) (model.Loan, error)
	ListLoansByUser(ctx context.Context, userID int) ([]model.UserLoan, error)
	ListLoans(ctx context.Context) ([]model.LoanView, error)
	ReturnLoan(ctx context.Context, bookID, userID int) error
	ListReturned(ctx context.Context) ([]model.ReturnView, error)

	CreateBookRequest(ctx context.Context, title string, userID int) (model.BookRequest, error)
	ListRequestsByUser(ctx context.Context, userID int) ([]model.BookRequest, error)
	ListRequests(ctx context.Context) ([]model.BookRequestView, error)
	UpdateRequestStatus(ctx context.Context, id int, status model.RequestStatus) error

	BumpStat(ctx context.Context, action string) error
	GetStatCounters(ctx context.Context) ([]model.StatCounter, error)
	LoanAggregates(ctx context.Context) (count int, avgDays float64, err error)
	ReturnAggregates(ctx context.Context) (count int, avgDays float64, err error)
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	usersTableName    = `users`
	booksTableName    = `books`
	assignedTableName = `assigned_books`
	borrowedTableName = `borrowed_books`
	returnedTableName = `returned_books`
	requestsTableName = `book_requests`
	statsTableName    = `circulation_stats`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (r *repository) CreateUser(ctx context.Context, user model.User) error {
	query, args, err := qb.Insert(usersTableName).
		Columns("username", "email", "password_hash", "role").
		Values(user.Username, user.Email, user.Password, user.Role).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return errs.ErrConflict
		}
		return err
	}
	return nil
}

func (r *repository) GetUser(ctx context.Context, username, role string) (model.User, error) {
	query, args, err := qb.Select("id", "username", "email", "password_hash", "role").
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		Where(sq.Eq{"role": role}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) GetUserByName(ctx context.Context, username string) (model.User, error) {
	query, args, err := qb.Select("id", "username", "email", "password_hash", "role").
		From(usersTableName).
		Where(sq.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errs.ErrNotFound
		}
		return model.User{}, err
	}
	return user, nil
}

func (r *repository) ListUsers(ctx context.Context) ([]model.User, error) {
	query, args, err := qb.Select("id", "username", "email", "password_hash", "role").
		From(usersTableName).
		OrderBy("username").
		ToSql()
	if err != nil {
		return nil, err
	}

	var users []model.User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) DeleteUser(ctx context.Context, username string) error {
	query, args, err := qb.Delete(usersTableName).
		Where(sq.Eq{"username": username}).
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

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns("title", "author", "genre", "price", "pdf_link").
		Values(book.Title, book.Author, book.Genre, book.Price, book.PdfLink).
		Suffix("returning id, title, author, genre, price, pdf_link").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var created model.Book
	if err := r.db.GetContext(ctx, &created, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Book{}, errs.ErrConflict
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return created, nil
}

func (r *repository) DeleteBook(ctx context.Context, title string) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"title": title}).
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

func (r *repository) GetBookByTitle(ctx context.Context, title string) (model.Book, error) {
	query, args, err := qb.Select("id", "title", "author", "genre", "price", "pdf_link").
		From(booksTableName).
		Where(sq.Eq{"title": title}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context) ([]model.Book, error) {
	query, args, err := qb.Select("id", "title", "author", "genre", "price", "pdf_link").
		From(booksTableName).
		OrderBy("title").
		ToSql()
	if err != nil {
		return nil, err
	}

	var books []model.Book
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

// ListBooksWithStatus derives availability from the absence of an active loan
// row. There is no stored flag to drift out of sync.
func (r *repository) ListBooksWithStatus(ctx context.Context) ([]model.BookStatus, error) {
	q := `
select b.id, b.title, b.author, b.genre,
       case when bb.id is null then 'Available' else 'Borrowed' end as status
from books b
left join borrowed_books bb on b.id = bb.book_id
order by b.title`

	var books []model.BookStatus
	if err := r.db.SelectContext(ctx, &books, q); err != nil {
		return nil, err
	}
	return books, nil
}

// SearchBooksWithStatus filters by author and/or topic. Both filters are bound
// parameters; user input never reaches the SQL text.
func (r *repository) SearchBooksWithStatus(ctx context.Context, author, topic string, limit int) ([]model.BookStatus, error) {
	q := qb.Select("b.id", "b.title", "b.author", "b.genre",
		"case when bb.id is null then 'Available' else 'Borrowed' end as status").
		From(booksTableName + " b").
		LeftJoin(borrowedTableName + " bb on b.id = bb.book_id").
		OrderBy("b.title")

	if author != "" {
		q = q.Where(sq.ILike{"b.author": "%" + author + "%"})
	}
	if topic != "" {
		q = q.Where(sq.Or{
			sq.ILike{"b.title": "%" + topic + "%"},
			sq.ILike{"b.genre": "%" + topic + "%"},
		})
	}
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("SearchBooksWithStatus", zap.String("query", query), zap.Any("args", args))

	var books []model.BookStatus
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}
