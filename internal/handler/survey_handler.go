package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avolkov/survey-backend-go/internal/geotable"
	"github.com/avolkov/survey-backend-go/internal/ingest"
	"github.com/avolkov/survey-backend-go/internal/service"
	"github.com/avolkov/survey-backend-go/pkg/response"
)

// SurveyHandler exposes survey ingestion, inspection and export
type SurveyHandler struct {
	surveyService *service.SurveyService
	maxUploadSize int64
}

// NewSurveyHandler creates a new survey handler
func NewSurveyHandler(surveyService *service.SurveyService, maxUploadSize int64) *SurveyHandler {
	return &SurveyHandler{surveyService: surveyService, maxUploadSize: maxUploadSize}
}

// Upload handles POST /api/v1/surveys with a multipart CSV flight log
func (h *SurveyHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.BadRequest(c, "a CSV file upload named 'file' is required")
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadSize {
		response.BadRequest(c, "flight log exceeds the upload size limit")
		return
	}

	name := c.PostForm("name")
	if name == "" {
		name = strings.TrimSuffix(header.Filename, ".csv")
	}

	opts := ingest.CSVOptions{
		LatitudeColumn:  c.PostForm("latitudeColumn"),
		LongitudeColumn: c.PostForm("longitudeColumn"),
		CRS:             c.PostForm("crs"),
	}

	survey, err := h.surveyService.ImportCSV(name, header.Filename, file, opts)
	if err != nil {
		respondCoreError(c, err)
		return
	}

	response.Created(c, survey)
}

// List handles GET /api/v1/surveys
func (h *SurveyHandler) List(c *gin.Context) {
	surveys, err := h.surveyService.ListSurveys()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	response.Success(c, surveys)
}

// Get handles GET /api/v1/surveys/:id
func (h *SurveyHandler) Get(c *gin.Context) {
	id, ok := surveyID(c)
	if !ok {
		return
	}

	survey, err := h.surveyService.GetSurvey(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, survey)
}

// Points handles GET /api/v1/surveys/:id/points
func (h *SurveyHandler) Points(c *gin.Context) {
	id, ok := surveyID(c)
	if !ok {
		return
	}

	points, err := h.surveyService.GetPoints(id)
	if err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, points)
}

// Delete handles DELETE /api/v1/surveys/:id
func (h *SurveyHandler) Delete(c *gin.Context) {
	id, ok := surveyID(c)
	if !ok {
		return
	}

	if err := h.surveyService.DeleteSurvey(id); err != nil {
		response.NotFound(c, err.Error())
		return
	}
	response.Success(c, nil)
}

// Statistics handles GET /api/v1/surveys/:id/statistics
func (h *SurveyHandler) Statistics(c *gin.Context) {
	id, ok := surveyID(c)
	if !ok {
		return
	}

	column := c.Query("column")
	if column == "" {
		response.BadRequest(c, "query parameter 'column' is required")
		return
	}

	bins := 10
	if raw := c.Query("bins"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			response.BadRequest(c, "query parameter 'bins' must be an integer")
			return
		}
		bins = parsed
	}

	summary, err := h.surveyService.Statistics(id, column, bins)
	if err != nil {
		respondCoreError(c, err)
		return
	}
	response.Success(c, summary)
}

// Summary handles GET /api/v1/surveys/:id/summary
func (h *SurveyHandler) Summary(c *gin.Context) {
	id, ok := surveyID(c)
	if !ok {
		return
	}

	summary, err := h.surveyService.Summary(id, c.Query("timeColumn"))
	if err != nil {
		respondCoreError(c, err)
		return
	}
	response.Success(c, summary)
}

// Export handles GET /api/v1/surveys/:id/export
func (h *SurveyHandler) Export(c *gin.Context) {
	id, ok := surveyID(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "application/geo+json")
	if err := h.surveyService.Export(id, c.Writer); err != nil {
		response.InternalError(c, err.Error())
		return
	}
}

// surveyID parses the :id path parameter, responding on failure
func surveyID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "survey id must be an integer")
		return 0, false
	}
	return id, true
}

// respondCoreError maps core error kinds onto HTTP statuses
func respondCoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geotable.ErrColumnNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, geotable.ErrInvalidParameter),
		errors.Is(err, geotable.ErrGeometry),
		errors.Is(err, geotable.ErrEmptyData):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}
