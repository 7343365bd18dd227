// Package assistant answers free-text questions over the library data. It
// classifies each question against a fixed, priority-ordered rule list and
// either answers from the repository or delegates to the generation backend.
// The dispatcher never mutates data and always produces text for an
// authenticated caller.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/pkg/auth"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

// Repository is the read-only slice of persistence the assistant needs.
type Repository interface {
	ListBooksWithStatus(ctx context.Context) ([]model.BookStatus, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListLoansByUser(ctx context.Context, userID int) ([]model.UserLoan, error)
}

// Generator is the external text-generation capability. It may fail; the
// assistant treats any failure as recoverable.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Query is one free-text question plus the actor context it runs under.
type Query struct {
	Text   string
	Role   string
	UserID int
}

type Service struct {
	log  *zap.Logger
	repo Repository
	gen  Generator

	mu          sync.Mutex
	transcripts map[string]*Transcript
}

func NewService(repo Repository, gen Generator, log *zap.Logger) *Service {
	return &Service{
		log:         log.Named("assistant"),
		repo:        repo,
		gen:         gen,
		transcripts: make(map[string]*Transcript),
	}
}

const signature = "\n\n- SHAIGO"

const greetingReply = "Hello! How can I help with library resources today?"

const helpReply = "I can help with:\n" +
	"- Book availability ('show available books')\n" +
	"- Book summaries ('tell me about [book]')\n" +
	"- User lists for admins ('show users')"

var greetings = map[string]struct{}{
	"hi":    {},
	"hello": {},
	"hey":   {},
}

var summaryKeywords = []string{"summary", "about", "tell me", "what is"}

// leadInPhrases are stripped from summary questions to isolate the title.
// Order matters: the longer phrases go first so "tell me about x" does not
// degrade to "tell me x".
var leadInPhrases = []string{"summary of", "tell me about", "about", "what is"}

var borrowedPhrases = []string{"my borrowed books", "books i have"}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Answer classifies the question and produces the reply text. First match
// wins. An unauthenticated caller gets no output at all.
func (s *Service) Answer(ctx context.Context, q Query) string {
	if q.Role != auth.RoleAdmin && q.Role != auth.RoleUser {
		return ""
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))

	if _, ok := greetings[text]; ok {
		return greetingReply + signature
	}
	if strings.Contains(text, "available books") || strings.Contains(text, "show books") {
		return s.booksStatus(ctx)
	}
	// non-admins fall through silently; asking is not an error
	if strings.Contains(text, "users") && q.Role == auth.RoleAdmin {
		return s.usersList(ctx)
	}
	if containsAny(text, summaryKeywords) {
		return s.bookSummary(ctx, strings.TrimSpace(q.Text))
	}
	if containsAny(text, borrowedPhrases) {
		return s.borrowedBooks(ctx, q.UserID)
	}
	return helpReply + signature
}

func (s *Service) booksStatus(ctx context.Context) string {
	books, err := s.repo.ListBooksWithStatus(ctx)
	if err != nil {
		s.log.Error("ListBooksWithStatus", zap.Error(err))
		return "⚠️ Error accessing library records." + signature
	}
	if len(books) == 0 {
		return "No books found in the library." + signature
	}

	var b strings.Builder
	b.WriteString("📚 Library Books Status:\n")
	for _, book := range books {
		fmt.Fprintf(&b, "\n- %s by %s (%s)", book.Title, book.Author, book.Status)
	}
	return b.String() + signature
}

func (s *Service) usersList(ctx context.Context) string {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.log.Error("ListUsers", zap.Error(err))
		return "⚠️ Error accessing user records." + signature
	}
	if len(users) == 0 {
		return "No users registered yet." + signature
	}

	var b strings.Builder
	b.WriteString("👥 Registered Users:\n")
	for _, u := range users {
		fmt.Fprintf(&b, "\n- %s (%s) - %s", u.Username, u.Email, u.Role)
	}
	return b.String() + signature
}

// ExtractTitle strips the known lead-in phrases from a summary question and
// returns the candidate book title, or "" when nothing remains. Matching is
// case-insensitive but the title keeps its original casing.
func ExtractTitle(text string) string {
	clean := strings.TrimSpace(text)
	for _, phrase := range leadInPhrases {
		for {
			idx := strings.Index(strings.ToLower(clean), phrase)
			if idx < 0 {
				break
			}
			clean = clean[:idx] + clean[idx+len(phrase):]
		}
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(clean), `"'`))
}

func (s *Service) bookSummary(ctx context.Context, text string) string {
	title := ExtractTitle(text)
	if title == "" {
		return "Please specify a book title." + signature
	}

	prompt := fmt.Sprintf(`As a professional librarian, provide a concise 3-sentence summary of %q:
1. Author and main theme
2. Why readers enjoy it
3. Similar books in our collection

Format: Professional tone, end with '- SHAIGO'`, title)

	reply, err := s.gen.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(reply) == "" {
		s.log.Warn("generate summary", zap.String("title", title), zap.Error(err))
		return "⚠️ Error retrieving book information." + signature
	}
	return withSignature(reply)
}

func (s *Service) borrowedBooks(ctx context.Context, userID int) string {
	if userID == 0 {
		return "Please login to access this information." + signature
	}
	loans, err := s.repo.ListLoansByUser(ctx, userID)
	if err != nil {
		s.log.Error("ListLoansByUser", zap.Error(err))
		return "⚠️ Error accessing library records." + signature
	}
	if len(loans) == 0 {
		return "You haven't borrowed any books yet." + signature
	}

	var b strings.Builder
	b.WriteString("📚 Books You've Borrowed:")
	for _, loan := range loans {
		fmt.Fprintf(&b, "\n- %s (since %s)", loan.Title, loan.BorrowedDate.Format(time.DateOnly))
	}
	return b.String() + signature
}

// withSignature keeps generated text from being double-signed when the model
// already followed the prompt's formatting instruction.
func withSignature(reply string) string {
	reply = strings.TrimRight(reply, "\n ")
	if strings.HasSuffix(reply, "- SHAIGO") {
		return reply
	}
	return reply + signature
}
