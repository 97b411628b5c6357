package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/finwise/backend/internal/advisor"
)

type AdvisorHandler struct {
	Client *advisor.Client
}

// NewAdvisorHandler создает обработчик внешнего AI-советника.
func NewAdvisorHandler(client *advisor.Client) *AdvisorHandler {
	return &AdvisorHandler{Client: client}
}

type AdvisorChatRequest struct {
	Query string `json:"query" validate:"required,max=4000"`
}

type AdvisorChatResponse struct {
	Answer string `json:"answer"`
}

// Chat пробрасывает запрос пользователя во внешний chat-completion
// сервис и возвращает ответ как есть.
func (h *AdvisorHandler) Chat(c echo.Context) error {
	var req AdvisorChatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return badRequest(c, "query is required")
	}

	answer, err := h.Client.Chat(c.Request().Context(), req.Query)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "advisor unavailable"})
	}

	return c.JSON(http.StatusOK, AdvisorChatResponse{Answer: answer})
}
