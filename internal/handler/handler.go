package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/shaigo/knowledgehub/internal/session"
	"github.com/shaigo/knowledgehub/pkg/validate"
	_ "github.com/shaigo/knowledgehub/swagger"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type Handler struct {
	authSvc        AuthService
	catalogSvc     CatalogService
	circulationSvc CirculationService
	assistantSvc   AssistantService
	sessions       *session.Store
	log            *zap.Logger
}

func New(log *zap.Logger, authSvc AuthService, catalogSvc CatalogService,
	circulationSvc CirculationService, assistantSvc AssistantService, sessions *session.Store) *Handler {
	return &Handler{
		authSvc:        authSvc,
		catalogSvc:     catalogSvc,
		circulationSvc: circulationSvc,
		assistantSvc:   assistantSvc,
		sessions:       sessions,
		log:            log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()

	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig()),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)
	api.POST("/register", h.Register)
	api.POST("/authorize", h.Authorize)

	api = api.Group("", h.jwtAuthentication)
	api.POST("/logout", h.Logout)

	api.GET("/books", h.GetBooks)
	api.POST("/books", h.CreateBook)
	api.DELETE("/books/:title", h.DeleteBook)

	api.GET("/users", h.GetUsers)
	api.DELETE("/users/:username", h.DeleteUser)

	api.POST("/assignments", h.Assign)
	api.GET("/assignments", h.GetAssignments)

	api.POST("/loans", h.Borrow)
	api.GET("/loans", h.GetLoans)
	api.POST("/loans/return", h.Return)
	api.GET("/returns", h.GetReturned)

	api.POST("/requests", h.CreateRequest)
	api.GET("/requests", h.GetRequests)
	api.PATCH("/requests/:id", h.UpdateRequestStatus)

	api.POST("/assistant/query", h.AssistantQuery)
	api.GET("/assistant/transcript", h.AssistantTranscript)
	api.DELETE("/assistant/transcript", h.AssistantClear)

	api.GET("/stats", h.GetStats)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
