package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/docugraph"
	"github.com/soundprediction/docugraph/pkg/server/dto"
	"github.com/soundprediction/docugraph/pkg/types"
)

// QueryHandler serves retrieval requests.
type QueryHandler struct {
	retriever docugraph.Retriever
}

// NewQueryHandler creates a query handler.
func NewQueryHandler(retriever docugraph.Retriever) *QueryHandler {
	return &QueryHandler{retriever: retriever}
}

// Query handles POST /api/v1/query. An empty result is a valid answer
// and still returns 200.
func (h *QueryHandler) Query(c *gin.Context) {
	var req dto.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	var (
		result *types.RetrievalResult
		err    error
	)
	if req.Intent != nil {
		result, err = h.retriever.RetrieveWithIntent(ctx, req.Question, req.Intent)
	} else {
		result, err = h.retriever.Retrieve(ctx, req.Question)
	}
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
