package dto

import (
	"github.com/soundprediction/docugraph/pkg/types"
)

// QueryRequest asks a question over the graph. Intent is optional: when
// present it bypasses intent analysis entirely.
type QueryRequest struct {
	Question string             `json:"question" binding:"required"`
	Intent   *types.QueryIntent `json:"intent,omitempty"`
}
