package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/survey-backend-go/internal/service"
	"github.com/avolkov/survey-backend-go/internal/wind"
	"github.com/avolkov/survey-backend-go/pkg/response"
)

// WindHandler exposes true-wind derivation and rose aggregation
type WindHandler struct {
	windService *service.WindService
}

// NewWindHandler creates a new wind handler
func NewWindHandler(windService *service.WindService) *WindHandler {
	return &WindHandler{windService: windService}
}

// Decompose handles POST /api/v1/surveys/:id/wind
func (h *WindHandler) Decompose(c *gin.Context) {
	id, ok := surveyID(c)
	if !ok {
		return
	}

	var opts wind.Options
	if err := c.ShouldBindJSON(&opts); err != nil {
		response.BadRequest(c, "request body must be a wind decomposition spec")
		return
	}

	survey, err := h.windService.Decompose(id, opts)
	if err != nil {
		respondCoreError(c, err)
		return
	}
	response.Success(c, survey)
}

// Rose handles GET /api/v1/surveys/:id/rose
func (h *WindHandler) Rose(c *gin.Context) {
	id, ok := surveyID(c)
	if !ok {
		return
	}

	speedColumn := c.Query("speedColumn")
	directionColumn := c.Query("directionColumn")
	if speedColumn == "" || directionColumn == "" {
		response.BadRequest(c, "query parameters 'speedColumn' and 'directionColumn' are required")
		return
	}

	nsector := 16
	if raw := c.Query("nsector"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "query parameter 'nsector' must be an integer")
			return
		}
		nsector = parsed
	}

	edges := []float64{0, 2, 4, 6, 8, 10}
	if raw := c.Query("bins"); raw != "" {
		parsed, err := parseEdges(raw)
		if err != nil {
			response.BadRequest(c, "query parameter 'bins' must be comma-separated numbers")
			return
		}
		edges = parsed
	}

	rose, err := h.windService.Rose(id, speedColumn, directionColumn, edges, nsector)
	if err != nil {
		respondCoreError(c, err)
		return
	}
	response.Success(c, rose)
}

func parseEdges(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	edges := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		edges = append(edges, v)
	}
	return edges, nil
}
