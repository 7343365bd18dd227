package assistant_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/internal/service/assistant"
	service_mocks "github.com/shaigo/knowledgehub/internal/service/assistant/mocks"
)

const signature = "- SHAIGO"

func newService(t *testing.T) (*assistant.Service, *service_mocks.MockRepository, *service_mocks.MockGenerator) {
	t.Helper()
	c := gomock.NewController(t)
	repo := service_mocks.NewMockRepository(c)
	gen := service_mocks.NewMockGenerator(c)
	return assistant.NewService(repo, gen, zap.NewNop()), repo, gen
}

func TestService_Answer_Greeting(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	for _, input := range []string{"hi", "hello", "hey", "  Hello  ", "HEY", "\thi\n"} {
		reply := svc.Answer(context.Background(), assistant.Query{Text: input, Role: "user", UserID: 1})
		require.True(t, strings.HasPrefix(reply, "Hello! How can I help"), "input %q", input)
		require.True(t, strings.HasSuffix(reply, signature), "input %q", input)
	}

	// near-greetings are not exact matches
	reply := svc.Answer(context.Background(), assistant.Query{Text: "hi there", Role: "user", UserID: 1})
	require.False(t, strings.HasPrefix(reply, "Hello! How can I help"))
}

func TestService_Answer_Unauthenticated(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	reply := svc.Answer(context.Background(), assistant.Query{Text: "show available books"})
	require.Empty(t, reply)
}

func TestService_Answer_AvailableBooks(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newService(t)

	repo.EXPECT().
		ListBooksWithStatus(gomock.Any()).
		Return([]model.BookStatus{
			{Title: "1984", Author: "Orwell", Status: model.BookBorrowed},
			{Title: "Dune", Author: "Herbert", Status: model.BookAvailable},
		}, nil)

	reply := svc.Answer(context.Background(), assistant.Query{Text: "show available books", Role: "user", UserID: 1})

	require.Contains(t, reply, "- 1984 by Orwell (Borrowed)")
	require.Contains(t, reply, "- Dune by Herbert (Available)")
	require.True(t, strings.HasSuffix(reply, signature))

	// one line per book, repository order preserved
	require.Less(t,
		strings.Index(reply, "1984 by Orwell"),
		strings.Index(reply, "Dune by Herbert"))
	require.Equal(t, 2, strings.Count(reply, "\n- "))
}

func TestService_Answer_AvailableBooksErrors(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newService(t)

	repo.EXPECT().ListBooksWithStatus(gomock.Any()).Return(nil, errors.New("db down"))
	reply := svc.Answer(context.Background(), assistant.Query{Text: "show books", Role: "user", UserID: 1})
	require.Contains(t, reply, "Error accessing library records")
	require.NotContains(t, reply, "db down")
	require.True(t, strings.HasSuffix(reply, signature))

	repo.EXPECT().ListBooksWithStatus(gomock.Any()).Return(nil, nil)
	reply = svc.Answer(context.Background(), assistant.Query{Text: "show books", Role: "user", UserID: 1})
	require.Contains(t, reply, "No books found in the library.")
}

func TestService_Answer_UsersAdminOnly(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newService(t)

	repo.EXPECT().
		ListUsers(gomock.Any()).
		Return([]model.User{
			{Username: "alice", Email: "alice@example.com", Role: "user"},
			{Username: "bob", Email: "bob@example.com", Role: "admin"},
		}, nil)

	reply := svc.Answer(context.Background(), assistant.Query{Text: "show users", Role: "admin", UserID: 1})
	require.Contains(t, reply, "Registered Users")
	require.Contains(t, reply, "- alice (alice@example.com) - user")
	require.Contains(t, reply, "- bob (bob@example.com) - admin")

	// a non-admin asking for users falls through to the help text, not an
	// authorization error
	reply = svc.Answer(context.Background(), assistant.Query{Text: "show users", Role: "user", UserID: 1})
	require.NotContains(t, reply, "Registered Users")
	require.Contains(t, reply, "I can help with")
	require.True(t, strings.HasSuffix(reply, signature))
}

func TestExtractTitle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"tell me about Dune", "Dune"},
		{"summary of The Hobbit", "The Hobbit"},
		{`what is "Neuromancer"`, "Neuromancer"},
		{"tell me about", ""},
		{"about", ""},
		{"  summary of   ", ""},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, assistant.ExtractTitle(tt.input), "input %q", tt.input)
	}
}

func TestService_Answer_BookSummary(t *testing.T) {
	t.Parallel()
	svc, _, gen := newService(t)

	gen.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, prompt string) (string, error) {
			require.Contains(t, prompt, `"Dune"`)
			require.Contains(t, prompt, "3-sentence summary")
			return "Dune is a science fiction novel by Frank Herbert.", nil
		})

	reply := svc.Answer(context.Background(), assistant.Query{Text: "tell me about Dune", Role: "user", UserID: 1})
	require.Contains(t, reply, "Frank Herbert")
	require.True(t, strings.HasSuffix(reply, signature))
}

func TestService_Answer_BookSummaryNoTitle(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	// generator must not be invoked when stripping leaves nothing
	reply := svc.Answer(context.Background(), assistant.Query{Text: "tell me about", Role: "user", UserID: 1})
	require.Contains(t, reply, "Please specify a book title.")
	require.True(t, strings.HasSuffix(reply, signature))
}

func TestService_Answer_BookSummaryGeneratorFails(t *testing.T) {
	t.Parallel()
	svc, _, gen := newService(t)

	gen.EXPECT().
		Generate(gomock.Any(), gomock.Any()).
		Return("", errors.New("backend unreachable"))

	reply := svc.Answer(context.Background(), assistant.Query{Text: "summary of Dune", Role: "user", UserID: 1})
	require.Contains(t, reply, "Error retrieving book information")
	require.NotContains(t, reply, "backend unreachable")
	require.True(t, strings.HasSuffix(reply, signature))
}

func TestService_Answer_BorrowedBooks(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newService(t)

	since := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.EXPECT().
		ListLoansByUser(gomock.Any(), 7).
		Return([]model.UserLoan{
			{Title: "Dune", BorrowedDate: since.Add(48 * time.Hour)},
			{Title: "1984", BorrowedDate: since},
		}, nil)

	reply := svc.Answer(context.Background(), assistant.Query{Text: "my borrowed books", Role: "user", UserID: 7})
	require.Contains(t, reply, "Books You've Borrowed")
	require.Contains(t, reply, "- Dune (since 2024-03-03)")
	require.Contains(t, reply, "- 1984 (since 2024-03-01)")
	// newest first
	require.Less(t, strings.Index(reply, "Dune"), strings.Index(reply, "1984"))
}

func TestService_Answer_BorrowedBooksNoActor(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	// no repository expectation: persistence must not be touched
	reply := svc.Answer(context.Background(), assistant.Query{Text: "books i have", Role: "user"})
	require.Contains(t, reply, "Please login to access this information.")
	require.True(t, strings.HasSuffix(reply, signature))
}

func TestService_Answer_BorrowedBooksEmpty(t *testing.T) {
	t.Parallel()
	svc, repo, _ := newService(t)

	repo.EXPECT().ListLoansByUser(gomock.Any(), 7).Return(nil, nil)
	reply := svc.Answer(context.Background(), assistant.Query{Text: "my borrowed books", Role: "user", UserID: 7})
	require.Contains(t, reply, "You haven't borrowed any books yet.")
}

func TestService_Answer_Fallback(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	reply := svc.Answer(context.Background(), assistant.Query{Text: "how do I fly a kite", Role: "user", UserID: 1})
	require.Contains(t, reply, "I can help with")
	require.Contains(t, reply, "show available books")
	require.True(t, strings.HasSuffix(reply, signature))
}
