package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/docugraph"
	"github.com/soundprediction/docugraph/pkg/server/dto"
	"github.com/soundprediction/docugraph/pkg/strategy"
)

// StrategiesHandler serves the runtime strategy administration API.
type StrategiesHandler struct {
	admin docugraph.StrategyAdmin
}

// NewStrategiesHandler creates a strategies handler.
func NewStrategiesHandler(admin docugraph.StrategyAdmin) *StrategiesHandler {
	return &StrategiesHandler{admin: admin}
}

// Get handles GET /api/v1/strategies.
func (h *StrategiesHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewStrategyResponse(h.admin.Strategies()))
}

// Presets handles GET /api/v1/strategies/presets.
func (h *StrategiesHandler) Presets(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PresetsResponse{Presets: h.admin.Presets()})
}

// ApplyPreset handles POST /api/v1/strategies/presets/:name.
func (h *StrategiesHandler) ApplyPreset(c *gin.Context) {
	snap, err := h.admin.ApplyPreset(c.Param("name"))
	if err != nil {
		if errors.Is(err, strategy.ErrUnknownPreset) {
			notFound(c, err.Error())
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStrategyResponse(snap))
}

// UpdateExtraction handles PATCH /api/v1/strategies/extraction.
func (h *StrategiesHandler) UpdateExtraction(c *gin.Context) {
	h.update(c, strategy.KindExtraction)
}

// UpdateRetrieval handles PATCH /api/v1/strategies/retrieval.
func (h *StrategiesHandler) UpdateRetrieval(c *gin.Context) {
	h.update(c, strategy.KindRetrieval)
}

func (h *StrategiesHandler) update(c *gin.Context, kind strategy.Kind) {
	var partial map[string]any
	if err := c.ShouldBindJSON(&partial); err != nil {
		badRequest(c, err)
		return
	}

	snap, err := h.admin.UpdateStrategy(kind, partial)
	if err != nil {
		// Unknown keys are caller mistakes; nothing was applied.
		if errors.Is(err, strategy.ErrUnknownKey) {
			badRequest(c, err)
			return
		}
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStrategyResponse(snap))
}

// Reset handles POST /api/v1/strategies/reset.
func (h *StrategiesHandler) Reset(c *gin.Context) {
	snap, err := h.admin.ResetStrategies()
	if err != nil {
		internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStrategyResponse(snap))
}
