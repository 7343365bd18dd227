package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shaigo/knowledgehub/internal/errs"
	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/pkg/auth"
)

const defaultSearchLimit = 50

// GetBooks lists the catalog with availability. Optional query params
// author and topic switch it to a filtered search.
func (h *Handler) GetBooks(c echo.Context) error {
	ctx := c.Request().Context()

	author := c.QueryParam("author")
	topic := c.QueryParam("topic")
	if author != "" || topic != "" {
		limit := defaultSearchLimit
		if raw := c.QueryParam("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
			}
			limit = n
		}
		books, err := h.catalogSvc.SearchBooks(ctx, author, topic, limit)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, books)
	}

	books, err := h.catalogSvc.ListBooksWithStatus(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) CreateBook(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}

	var req model.BookCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.catalogSvc.CreateBook(ctx, req)
	if err != nil {
		if errors.Is(err, errs.ErrConflict) {
			return echo.NewHTTPError(http.StatusConflict, "book already exists")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}

	title := c.Param("title")
	if err := h.catalogSvc.DeleteBook(ctx, title); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetUsers(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}

	users, err := h.catalogSvc.ListUsers(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}

	username := c.Param("username")
	if username == auth.Username(ctx) {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot delete own account")
	}
	if err := h.catalogSvc.DeleteUser(ctx, username); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
