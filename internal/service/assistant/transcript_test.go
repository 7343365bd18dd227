package assistant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/internal/service/assistant"
)

func TestService_Chat_TranscriptOrder(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	q := assistant.Query{Role: "user", UserID: 1}

	q.Text = "hi"
	first := svc.Chat(context.Background(), "sess", q)
	q.Text = "what can you do"
	second := svc.Chat(context.Background(), "sess", q)

	history := svc.History("sess")
	require.Len(t, history, 4)
	require.Equal(t, model.ChatRoleCaller, history[0].Role)
	require.Equal(t, "hi", history[0].Content)
	require.Equal(t, model.ChatRoleAssistant, history[1].Role)
	require.Equal(t, first, history[1].Content)
	require.Equal(t, "what can you do", history[2].Content)
	require.Equal(t, second, history[3].Content)
}

func TestService_Chat_DuplicateInputNotReprocessed(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	q := assistant.Query{Text: "hi", Role: "user", UserID: 1}
	first := svc.Chat(context.Background(), "sess", q)
	repeat := svc.Chat(context.Background(), "sess", q)

	require.Equal(t, first, repeat)
	require.Len(t, svc.History("sess"), 2)

	// a different input in between re-arms processing
	svc.Chat(context.Background(), "sess", assistant.Query{Text: "thanks", Role: "user", UserID: 1})
	svc.Chat(context.Background(), "sess", q)
	require.Len(t, svc.History("sess"), 6)
}

func TestService_Chat_UnauthenticatedProducesNothing(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	reply := svc.Chat(context.Background(), "sess", assistant.Query{Text: "hi"})
	require.Empty(t, reply)
	require.Empty(t, svc.History("sess"))
}

func TestService_Reset(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	svc.Chat(context.Background(), "sess", assistant.Query{Text: "hi", Role: "user", UserID: 1})
	require.NotEmpty(t, svc.History("sess"))

	svc.Reset("sess")
	require.Empty(t, svc.History("sess"))
}

func TestService_Chat_SessionsAreIsolated(t *testing.T) {
	t.Parallel()
	svc, _, _ := newService(t)

	svc.Chat(context.Background(), "a", assistant.Query{Text: "hi", Role: "user", UserID: 1})
	require.Empty(t, svc.History("b"))
	require.Len(t, svc.History("a"), 2)
}
