package dto

import (
	"github.com/soundprediction/docugraph/pkg/strategy"
)

// StrategyResponse is the live strategy pair plus the preset it was
// derived from ("custom" after partial updates).
type StrategyResponse struct {
	Preset     string                      `json:"preset"`
	Extraction strategy.ExtractionStrategy `json:"extraction"`
	Retrieval  strategy.RetrievalStrategy  `json:"retrieval"`
}

// NewStrategyResponse flattens a snapshot for the wire.
func NewStrategyResponse(snap strategy.Snapshot) StrategyResponse {
	return StrategyResponse{
		Preset:     snap.PresetName(),
		Extraction: snap.Extraction,
		Retrieval:  snap.Retrieval,
	}
}

// PresetsResponse lists the preset catalog.
type PresetsResponse struct {
	Presets []strategy.PresetInfo `json:"presets"`
}
