package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/docugraph"
	"github.com/soundprediction/docugraph/pkg/driver"
	"github.com/soundprediction/docugraph/pkg/server/dto"
)

// DocumentsHandler serves document ingestion and inspection.
type DocumentsHandler struct {
	ingestor docugraph.Ingestor
	graph    docugraph.GraphAdmin
}

// NewDocumentsHandler creates a documents handler.
func NewDocumentsHandler(ingestor docugraph.Ingestor, graph docugraph.GraphAdmin) *DocumentsHandler {
	return &DocumentsHandler{ingestor: ingestor, graph: graph}
}

// Ingest handles POST /api/v1/documents.
func (h *DocumentsHandler) Ingest(c *gin.Context) {
	var req dto.IngestDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	summary, err := h.ingestor.IngestDocument(c.Request.Context(), req.Input())
	if err != nil {
		// Ingestion errors are payload problems until proven otherwise;
		// storage failures surface as 500 below.
		if errors.Is(err, driver.ErrNotFound) || errors.Is(err, driver.ErrPartialChain) {
			internalError(c, err)
			return
		}
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.IngestDocumentResponse{Summary: summary})
}

// Chunks handles GET /api/v1/documents/:id/chunks.
func (h *DocumentsHandler) Chunks(c *gin.Context) {
	id := c.Param("id")

	if _, err := h.graph.GetDocument(c.Request.Context(), id); err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			notFound(c, "document not found")
			return
		}
		internalError(c, err)
		return
	}

	chunks, err := h.graph.DocumentChunks(c.Request.Context(), id)
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.DocumentChunksResponse{DocumentID: id, Chunks: chunks})
}

// Delete handles DELETE /api/v1/documents/:id.
func (h *DocumentsHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.graph.DeleteDocument(c.Request.Context(), id); err != nil {
		if errors.Is(err, driver.ErrNotFound) {
			notFound(c, "document not found")
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "deleted"})
}
