package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/code-explainer-backend/internal/domain"
	"github.com/yungbote/code-explainer-backend/internal/http/response"
	"github.com/yungbote/code-explainer-backend/internal/platform/apierr"
	"github.com/yungbote/code-explainer-backend/internal/services"
)

type ExplainHandler struct {
	explain services.ExplainService
	chat    services.ChatService
}

func NewExplainHandler(explain services.ExplainService, chat services.ChatService) *ExplainHandler {
	return &ExplainHandler{explain: explain, chat: chat}
}

// POST /explain
func (h *ExplainHandler) Explain(c *gin.Context) {
	var req types.ExplainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, apierr.CodeInvalidRequest, err)
		return
	}
	req.Level = req.Level.OrDefault()
	exp, err := h.explain.Explain(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, exp)
}

// POST /chat
func (h *ExplainHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, apierr.CodeInvalidRequest, err)
		return
	}
	req.Level = req.Level.OrDefault()
	ans, err := h.chat.Chat(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, ans)
}
