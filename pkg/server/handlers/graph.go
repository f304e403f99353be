package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/docugraph"
	"github.com/soundprediction/docugraph/pkg/server/dto"
)

// GraphHandler serves whole-graph maintenance endpoints.
type GraphHandler struct {
	graph docugraph.GraphAdmin
}

// NewGraphHandler creates a graph handler.
func NewGraphHandler(graph docugraph.GraphAdmin) *GraphHandler {
	return &GraphHandler{graph: graph}
}

// Stats handles GET /api/v1/graph/stats.
func (h *GraphHandler) Stats(c *gin.Context) {
	stats, err := h.graph.GraphStats(c.Request.Context())
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Clear handles DELETE /api/v1/graph. It wipes every node and edge.
func (h *GraphHandler) Clear(c *gin.Context) {
	if err := h.graph.ClearGraph(c.Request.Context()); err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "cleared"})
}
