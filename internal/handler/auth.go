package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shaigo/knowledgehub/internal/errs"
	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/pkg/auth"
)

// Register godoc
// @Summary      Register a new account
// @Accept       json
// @Produce      json
// @Param        input body model.UserCreateRequest true "user"
// @Success      201 {string} string "ok"
// @Failure      400 {object} echo.HTTPError
// @Failure      409 {object} echo.HTTPError
// @Router       /api/v1/register [post]
func (h *Handler) Register(c echo.Context) error {
	var userReq model.UserCreateRequest
	if err := c.Bind(&userReq); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&userReq); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authSvc.Register(c.Request().Context(), userReq); err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "username already taken")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.String(http.StatusCreated, "ok")
}

// Authorize godoc
// @Summary      Exchange credentials for an access token
// @Accept       json
// @Produce      json
// @Param        input body model.AuthRequest true "credentials"
// @Success      200 {object} model.AuthResponse
// @Failure      401 {object} echo.HTTPError
// @Router       /api/v1/authorize [post]
func (h *Handler) Authorize(c echo.Context) error {
	var credentials model.AuthRequest
	if err := c.Bind(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&credentials); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authSvc.Authorize(c.Request().Context(), credentials)
	if err != nil {
		if errors.Is(err, errs.ErrInvalidCreds) {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	sess := h.sessions.Create(user.ID, user.Username, user.Role)

	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &auth.Claims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
		},
	}
	claims.Profile.UserID = user.ID
	claims.Profile.Username = user.Username
	claims.Profile.Role = user.Role

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(auth.JWTKey)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	response := &model.AuthResponse{
		ExpiresIn:   int(expirationTime.Unix()),
		AccessToken: tokenString,
	}
	return c.JSON(http.StatusOK, response)
}

// Logout godoc
// @Summary      Close the current session
// @Security     ApiKeyAuth
// @Success      204 {string} string "no content"
// @Router       /api/v1/logout [post]
func (h *Handler) Logout(c echo.Context) error {
	id := sessionID(c)
	h.sessions.Delete(id)
	h.assistantSvc.Reset(id)
	return c.NoContent(http.StatusNoContent)
}
