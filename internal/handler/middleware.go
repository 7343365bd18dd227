package handler

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"

	"github.com/shaigo/knowledgehub/internal/errs"
	"github.com/shaigo/knowledgehub/pkg/auth"
	"github.com/shaigo/knowledgehub/pkg/logger"
)

const (
	AuthorizationHeader = "Authorization"
	Bearer              = "Bearer "

	sessionIDKey = "sessionIDKey"
)

func (h *Handler) jwtAuthentication(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := strings.TrimPrefix(c.Request().Header.Get(AuthorizationHeader), Bearer)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "no token in Authorization header")
		}
		claims := &auth.Claims{}
		t, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, echo.NewHTTPError(http.StatusUnauthorized, "unexpected signing method")
			}
			return auth.JWTKey, nil
		})
		if err != nil || !t.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "token is invalid")
		}
		if _, ok := h.sessions.Touch(claims.SessionID); !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, errs.ErrSessionClosed.Error())
		}

		ctx := auth.SetAuthContext(c.Request().Context(), claims.Profile.Username, claims.Profile.Role, claims.Profile.UserID)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Set(sessionIDKey, claims.SessionID)

		return next(c)
	}
}

func sessionID(c echo.Context) string {
	id, _ := c.Get(sessionIDKey).(string)
	return id
}

func requestLoggerConfig() middleware.RequestLoggerConfig {
	cfg := logger.Log{LogLevel: zapcore.DebugLevel, Sink: ""}
	log := logger.NewLogger(cfg, "echo")
	c := middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
	return c
}

func newRateLimiterMW(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}
