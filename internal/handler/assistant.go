package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shaigo/knowledgehub/internal/model"
	"github.com/shaigo/knowledgehub/internal/service/assistant"
	"github.com/shaigo/knowledgehub/pkg/auth"
)

func (h *Handler) AssistantQuery(c echo.Context) error {
	ctx := c.Request().Context()

	var req model.AssistantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	reply := h.assistantSvc.Chat(ctx, sessionID(c), assistant.Query{
		Text:   req.Text,
		Role:   auth.Role(ctx),
		UserID: auth.UserID(ctx),
	})
	return c.JSON(http.StatusOK, model.AssistantResponse{Reply: reply})
}

func (h *Handler) AssistantTranscript(c echo.Context) error {
	return c.JSON(http.StatusOK, h.assistantSvc.History(sessionID(c)))
}

func (h *Handler) AssistantClear(c echo.Context) error {
	h.assistantSvc.Reset(sessionID(c))
	return c.NoContent(http.StatusNoContent)
}
