package dto

import (
	"github.com/soundprediction/docugraph/pkg/types"
)

// IngestDocumentRequest carries one document and its pre-extracted
// chunks, entities, and relationships.
type IngestDocumentRequest struct {
	Document types.Document     `json:"document" binding:"required"`
	Chunks   []types.ChunkInput `json:"chunks"`
}

// Input converts the request into the ingestion payload.
func (r *IngestDocumentRequest) Input() *types.DocumentInput {
	return &types.DocumentInput{
		Document: r.Document,
		Chunks:   r.Chunks,
	}
}

// IngestDocumentResponse reports what was stored.
type IngestDocumentResponse struct {
	Summary *types.IngestSummary `json:"summary"`
}

// DocumentChunksResponse lists a document's chunks in order.
type DocumentChunksResponse struct {
	DocumentID string         `json:"document_id"`
	Chunks     []*types.Chunk `json:"chunks"`
}
