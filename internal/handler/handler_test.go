package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shaigo/knowledgehub/internal/errs"
	"github.com/shaigo/knowledgehub/internal/handler"
	service_mocks "github.com/shaigo/knowledgehub/internal/handler/mocks"
	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/internal/service/assistant"
	"github.com/shaigo/knowledgehub/internal/session"
	"github.com/shaigo/knowledgehub/pkg/auth"
	"github.com/shaigo/knowledgehub/pkg/validate"
)

const testSessionID = "7e2a0f1c-1111-2222-3333-444455556666"

func asUser(username, role string, userID int, next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := auth.SetAuthContext(c.Request().Context(), username, role, userID)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set("sessionIDKey", testSessionID)
		return next(c)
	}
}

func TestHandler_GetBooks(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooksWithStatus(gomock.Any()).
					Return([]model.BookStatus{
						{ID: 1, Title: "Dune", Author: "Frank Herbert", Genre: "Sci-Fi", Status: model.BookAvailable},
						{ID: 2, Title: "Neuromancer", Author: "William Gibson", Genre: "Sci-Fi", Status: model.BookBorrowed},
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `[{"id":1,"title":"Dune","author":"Frank Herbert","genre":"Sci-Fi","status":"Available"},{"id":2,"title":"Neuromancer","author":"William Gibson","genre":"Sci-Fi","status":"Borrowed"}]`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					ListBooksWithStatus(gomock.Any()).
					Return(nil, errors.New("db internal"))
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"db internal"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			catalogSvc := service_mocks.NewMockCatalogService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(log, nil, catalogSvc, nil, nil, session.NewStore(0))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.GET("/api/v1/books", asUser("reader", auth.RoleUser, 7, h.GetBooks))

			r := httptest.NewRequest(http.MethodGet, "/api/v1/books", http.NoBody)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(catalogSvc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_CreateBook_AdminOnly(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	catalogSvc := service_mocks.NewMockCatalogService(c)
	log := zap.NewExample().Named("test")
	h := handler.New(log, nil, catalogSvc, nil, nil, session.NewStore(0))

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/api/v1/books", asUser("reader", auth.RoleUser, 7, h.CreateBook))

	body := `{"title":"Dune","author":"Frank Herbert","genre":"Sci-Fi","price":9.99}`
	r := httptest.NewRequest(http.MethodPost, "/api/v1/books", strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()

	e.ServeHTTP(w, r)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestHandler_Borrow(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCirculationService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"title":"Dune"}`,
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					Borrow(gomock.Any(), "Dune", "reader", 7).
					Return(model.Loan{
						ID:      1,
						LoanUid: "11111111-2222-3333-4444-555566667777",
						BookID:  3,
						UserID:  7,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":1,"loanUid":"11111111-2222-3333-4444-555566667777","bookId":3,"userId":7,"borrowedDate":"0001-01-01T00:00:00Z"}`,
			},
		},
		{
			name: "err. already borrowed",
			body: `{"title":"Dune"}`,
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					Borrow(gomock.Any(), "Dune", "reader", 7).
					Return(model.Loan{}, errs.ErrBookBorrowed)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book is already borrowed"}`,
			},
		},
		{
			name:         "err. empty title",
			body:         `{}`,
			mockBehavior: func(r *service_mocks.MockCirculationService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			circulationSvc := service_mocks.NewMockCirculationService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(log, nil, nil, circulationSvc, nil, session.NewStore(0))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/api/v1/loans", asUser("reader", auth.RoleUser, 7, h.Borrow))

			r := httptest.NewRequest(http.MethodPost, "/api/v1/loans", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(circulationSvc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_AssistantQuery(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockAssistantService)

	var tests = []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name: "ok",
			body: `{"text":"hi"}`,
			mockBehavior: func(r *service_mocks.MockAssistantService) {
				r.EXPECT().
					Chat(gomock.Any(), testSessionID, assistant.Query{Text: "hi", Role: auth.RoleUser, UserID: 7}).
					Return("Hello Reader! How can I help you today?\n\n- SHAIGO")
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"reply":"Hello Reader! How can I help you today?\n\n- SHAIGO"}`,
			},
		},
		{
			name:         "err. empty text",
			body:         `{"text":""}`,
			mockBehavior: func(r *service_mocks.MockAssistantService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			assistantSvc := service_mocks.NewMockAssistantService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(log, nil, nil, nil, assistantSvc, session.NewStore(0))

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/api/v1/assistant/query", asUser("reader", auth.RoleUser, 7, h.AssistantQuery))

			r := httptest.NewRequest(http.MethodPost, "/api/v1/assistant/query", strings.NewReader(tt.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(assistantSvc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}
