package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/code-explainer-backend/internal/http/middleware"
	"github.com/yungbote/code-explainer-backend/internal/http/response"
	"github.com/yungbote/code-explainer-backend/internal/modules/explain/conceptlinks"
	"github.com/yungbote/code-explainer-backend/internal/platform/apierr"
)

// ConceptStore is the slice of conceptlinks.Service the handler needs.
type ConceptStore interface {
	List() []conceptlinks.Entry
	Upsert(ctx context.Context, concept, url, updatedBy string) (conceptlinks.Entry, error)
}

type ConceptHandler struct {
	store ConceptStore
}

func NewConceptHandler(store ConceptStore) *ConceptHandler {
	return &ConceptHandler{store: store}
}

type upsertConceptReq struct {
	Concept string `json:"concept" binding:"required,max=128"`
	URL     string `json:"url" binding:"required,max=2048"`
}

// GET /api/concepts
func (h *ConceptHandler) List(c *gin.Context) {
	response.RespondOK(c, gin.H{"concepts": h.store.List()})
}

// PUT /api/concepts
func (h *ConceptHandler) Upsert(c *gin.Context) {
	var req upsertConceptReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusUnprocessableEntity, apierr.CodeInvalidRequest, err)
		return
	}
	entry, err := h.store.Upsert(c.Request.Context(), req.Concept, req.URL, middleware.AdminSubject(c))
	if err != nil {
		if errors.Is(err, conceptlinks.ErrInvalidConcept) || errors.Is(err, conceptlinks.ErrInvalidURL) {
			response.RespondError(c, http.StatusUnprocessableEntity, apierr.CodeInvalidRequest, err)
			return
		}
		_ = c.Error(err)
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"concept": entry})
}
