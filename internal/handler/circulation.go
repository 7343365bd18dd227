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

func (h *Handler) Assign(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}

	var req model.AssignRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	assignment, err := h.circulationSvc.Assign(ctx, req.Title, req.Username, auth.UserID(ctx))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, assignment)
}

func (h *Handler) GetAssignments(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}

	assignments, err := h.circulationSvc.ListAssignments(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, assignments)
}

func (h *Handler) Borrow(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	loan, err := h.circulationSvc.Borrow(ctx, req.Title, auth.Username(ctx), auth.UserID(ctx))
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrBookBorrowed):
			return echo.NewHTTPError(http.StatusConflict, "book is already borrowed")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, loan)
}

// GetLoans returns the caller's active loans, or every active loan for
// an admin.
func (h *Handler) GetLoans(c echo.Context) error {
	ctx := c.Request().Context()

	if auth.IsAdmin(ctx) {
		loans, err := h.circulationSvc.ListLoans(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, loans)
	}

	loans, err := h.circulationSvc.ListLoansByUser(ctx, auth.UserID(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) Return(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.circulationSvc.Return(ctx, req.Title, auth.Username(ctx), auth.UserID(ctx)); err != nil {
		switch {
		case errors.Is(err, errs.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrNotBorrowed):
			return echo.NewHTTPError(http.StatusConflict, "book is not borrowed by you")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}

func (h *Handler) GetReturned(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}

	returns, err := h.circulationSvc.ListReturned(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, returns)
}

func (h *Handler) CreateRequest(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	bookReq, err := h.circulationSvc.RequestBook(ctx, req.Title, auth.Username(ctx), auth.UserID(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, bookReq)
}

// GetRequests returns the caller's book requests, or every request for
// an admin.
func (h *Handler) GetRequests(c echo.Context) error {
	ctx := c.Request().Context()

	if auth.IsAdmin(ctx) {
		requests, err := h.circulationSvc.ListRequests(ctx)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, requests)
	}

	requests, err := h.circulationSvc.ListRequestsByUser(ctx, auth.UserID(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, requests)
}

func (h *Handler) UpdateRequestStatus(c echo.Context) error {
	ctx := c.Request().Context()
	if !auth.IsAdmin(ctx) {
		return echo.NewHTTPError(http.StatusForbidden, "admin only")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id must be an integer")
	}

	var req model.UpdateRequestStatus
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.circulationSvc.UpdateRequestStatus(ctx, id, req.Status); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusOK)
}
