package model

import (
	"time"
)

type User struct {
	ID       int    `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Email    string `json:"email" db:"email"`
	Password string `json:"-" db:"password_hash"`
	Role     string `json:"role" db:"role"`
}

type UserCreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
}

type AuthRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin user"`
}

type AuthResponse struct {
	ExpiresIn   int    `json:"expiresIn"`
	AccessToken string `json:"accessToken"`
}

type Book struct {
	ID      int     `json:"id" db:"id"`
	Title   string  `json:"title" db:"title"`
	Author  string  `json:"author" db:"author"`
	Genre   string  `json:"genre" db:"genre"`
	Price   float64 `json:"price" db:"price"`
	PdfLink string  `json:"pdfLink,omitempty" db:"pdf_link"`
}

type BookCreateRequest struct {
	Title   string  `json:"title" validate:"required"`
	Author  string  `json:"author" validate:"required"`
	Genre   string  `json:"genre" validate:"required"`
	Price   float64 `json:"price" validate:"gte=0"`
	PdfLink string  `json:"pdfLink"`
}

type BookAvailability string

const (
	BookAvailable BookAvailability = "Available"
	BookBorrowed  BookAvailability = "Borrowed"
)

// BookStatus is the availability read model: status is derived from the
// absence of an active loan row, never stored.
type BookStatus struct {
	ID     int              `json:"id" db:"id"`
	Title  string           `json:"title" db:"title"`
	Author string           `json:"author" db:"author"`
	Genre  string           `json:"genre" db:"genre"`
	Status BookAvailability `json:"status" db:"status"`
}

type Assignment struct {
	ID           int       `json:"id" db:"id"`
	BookID       int       `json:"bookId" db:"book_id"`
	UserID       int       `json:"userId" db:"user_id"`
	AssignedBy   int       `json:"assignedBy" db:"assigned_by"`
	AssignedDate time.Time `json:"assignedDate" db:"assigned_date"`
}

type AssignmentView struct {
	Title        string    `json:"title" db:"title"`
	Username     string    `json:"username" db:"username"`
	AssignedDate time.Time `json:"assignedDate" db:"assigned_date"`
}

type AssignRequest struct {
	Title    string `json:"title" validate:"required"`
	Username string `json:"username" validate:"required"`
}

type Loan struct {
	ID           int       `json:"id" db:"id"`
	LoanUid      string    `json:"loanUid" db:"loan_uid"`
	BookID       int       `json:"bookId" db:"book_id"`
	UserID       int       `json:"userId" db:"user_id"`
	BorrowedDate time.Time `json:"borrowedDate" db:"borrowed_date"`
}

type UserLoan struct {
	Title        string    `json:"title" db:"title"`
	BorrowedDate time.Time `json:"borrowedDate" db:"borrowed_date"`
}

type LoanView struct {
	Title        string    `json:"title" db:"title"`
	Username     string    `json:"username" db:"username"`
	BorrowedDate time.Time `json:"borrowedDate" db:"borrowed_date"`
	DaysBorrowed float64   `json:"daysBorrowed" db:"days_borrowed"`
}

type BorrowRequest struct {
	Title string `json:"title" validate:"required"`
}

type Return struct {
	ID           int       `json:"id" db:"id"`
	BookID       int       `json:"bookId" db:"book_id"`
	UserID       int       `json:"userId" db:"user_id"`
	ReturnedDate time.Time `json:"returnedDate" db:"returned_date"`
}

type ReturnView struct {
	Title        string     `json:"title" db:"title"`
	Username     string     `json:"username" db:"username"`
	ReturnedDate time.Time  `json:"returnedDate" db:"returned_date"`
	BorrowedDate *time.Time `json:"borrowedDate,omitempty" db:"borrowed_date"`
	DaysKept     *float64   `json:"daysKept,omitempty" db:"days_kept"`
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "Pending"
	RequestApproved RequestStatus = "Approved"
	RequestRejected RequestStatus = "Rejected"
	RequestProcured RequestStatus = "Procured"
)

type BookRequest struct {
	ID          int           `json:"id" db:"id"`
	RequestUid  string        `json:"requestUid" db:"request_uid"`
	BookTitle   string        `json:"bookTitle" db:"book_title"`
	UserID      int           `json:"userId" db:"user_id"`
	RequestedOn time.Time     `json:"requestedOn" db:"requested_on"`
	Status      RequestStatus `json:"status" db:"status"`
}

type BookRequestView struct {
	ID          int           `json:"id" db:"id"`
	BookTitle   string        `json:"bookTitle" db:"book_title"`
	Username    string        `json:"username" db:"username"`
	RequestedOn time.Time     `json:"requestedOn" db:"requested_on"`
	Status      RequestStatus `json:"status" db:"status"`
}

type CreateBookRequest struct {
	Title string `json:"title" validate:"required"`
}

type UpdateRequestStatus struct {
	Status RequestStatus `json:"status" validate:"required,oneof=Pending Approved Rejected Procured"`
}

// StatCounter is the event-driven counter maintained by the kafka consumer.
type StatCounter struct {
	Action string `json:"action" db:"action"`
	Total  int    `json:"total" db:"total"`
}

type Stats struct {
	Counters        []StatCounter `json:"counters"`
	ActiveLoans     int           `json:"activeLoans"`
	AvgDaysBorrowed float64       `json:"avgDaysBorrowed"`
	TotalReturned   int           `json:"totalReturned"`
	AvgDaysKept     float64       `json:"avgDaysKept"`
}

type ChatRole string

const (
	ChatRoleCaller    ChatRole = "caller"
	ChatRoleAssistant ChatRole = "assistant"
)

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

type AssistantRequest struct {
	Text string `json:"text" validate:"required"`
}

type AssistantResponse struct {
	Reply string `json:"reply"`
}
