package service

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/avolkov/survey-backend-go/internal/geotable"
	"github.com/avolkov/survey-backend-go/internal/ingest"
	"github.com/avolkov/survey-backend-go/internal/models"
	"github.com/avolkov/survey-backend-go/internal/repository"
	"github.com/avolkov/survey-backend-go/internal/spatial"
)

// timeLayout matches the logger timestamp format, e.g. 2025/01/22 21:42:18.000
const timeLayout = "2006/01/02 15:04:05.000"

// SurveyService handles business logic for survey ingestion and analysis
type SurveyService struct {
	surveyRepo *repository.SurveyRepository
}

// NewSurveyService creates a new survey service
func NewSurveyService(surveyRepo *repository.SurveyRepository) *SurveyService {
	return &SurveyService{surveyRepo: surveyRepo}
}

// ImportCSV ingests a flight log CSV stream into a new survey
func (s *SurveyService) ImportCSV(name, sourceFile string, r io.Reader, opts ingest.CSVOptions) (*models.Survey, error) {
	if name == "" {
		return nil, fmt.Errorf("survey name is required")
	}

	table, err := ingest.ReadCSV(r, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to ingest CSV: %w", err)
	}
	if table.Len() == 0 {
		return nil, fmt.Errorf("%w: no rows with usable coordinates", geotable.ErrEmptyData)
	}

	return s.surveyRepo.CreateSurvey(name, sourceFile, table)
}

// ListSurveys returns all stored surveys
func (s *SurveyService) ListSurveys() ([]models.Survey, error) {
	return s.surveyRepo.ListSurveys()
}

// GetSurvey returns one survey
func (s *SurveyService) GetSurvey(id int64) (*models.Survey, error) {
	return s.surveyRepo.GetSurvey(id)
}

// GetPoints returns the stored point rows of a survey
func (s *SurveyService) GetPoints(id int64) ([]models.SurveyPoint, error) {
	return s.surveyRepo.GetPoints(id)
}

// DeleteSurvey removes a survey
func (s *SurveyService) DeleteSurvey(id int64) error {
	return s.surveyRepo.DeleteSurvey(id)
}

// Statistics summarizes one column of a survey
func (s *SurveyService) Statistics(id int64, column string, bins int) (*geotable.StatSummary, error) {
	table, err := s.surveyRepo.GetTable(id)
	if err != nil {
		return nil, err
	}
	return table.Statistics(column, bins)
}

// Export writes a survey as GeoJSON
func (s *SurveyService) Export(id int64, w io.Writer) error {
	table, err := s.surveyRepo.GetTable(id)
	if err != nil {
		return err
	}
	return ingest.WriteGeoJSON(w, table)
}

// Summary computes the flight-path summary of a survey. timeColumn is
// optional; when set and parsable, the summary includes the duration
// between the first and last record.
func (s *SurveyService) Summary(id int64, timeColumn string) (*models.SurveySummary, error) {
	table, err := s.surveyRepo.GetTable(id)
	if err != nil {
		return nil, err
	}

	locations := table.Locations()
	minLat, minLon, maxLat, maxLon := spatial.BoundingBox(locations)
	summary := &models.SurveySummary{
		SurveyID:           id,
		PointCount:         table.Len(),
		PathLengthMeters:   spatial.PathLength(locations),
		StraightLineMeters: spatial.StraightLineDistance(locations),
		Bounds: models.Bounds{
			MinLat: minLat,
			MinLon: minLon,
			MaxLat: maxLat,
			MaxLon: maxLon,
		},
	}

	if heading := meanHeading(table); heading != nil {
		summary.MeanHeadingDeg = heading
	}

	if timeColumn != "" {
		duration, err := flightDuration(table, timeColumn)
		if err != nil {
			return nil, err
		}
		summary.DurationSeconds = duration
	}

	return summary, nil
}

// meanHeading derives the direction of travel and averages it circularly.
// Returns nil for tables too short to have a heading.
func meanHeading(table *geotable.GeoTable) *float64 {
	const headingColumn = "__heading"

	derived, err := table.CalculateDirection(headingColumn)
	if err != nil {
		return nil
	}

	values, ok, err := derived.NumericColumn(headingColumn)
	if err != nil {
		return nil
	}

	var headings []float64
	for i, v := range values {
		if ok[i] {
			headings = append(headings, v)
		}
	}
	if len(headings) == 0 {
		return nil
	}

	mean := spatial.CircularMeanDegrees(headings)
	if math.IsNaN(mean) {
		return nil
	}
	return &mean
}

// flightDuration parses the named timestamp column of the first and last
// record and returns the elapsed seconds.
func flightDuration(table *geotable.GeoTable, timeColumn string) (*float64, error) {
	if !table.HasColumn(timeColumn) {
		return nil, fmt.Errorf("%w: %q", geotable.ErrColumnNotFound, timeColumn)
	}
	if table.Len() < 2 {
		return nil, nil
	}

	first, firstOK := table.Value(0, timeColumn).(string)
	last, lastOK := table.Value(table.Len()-1, timeColumn).(string)
	if !firstOK || !lastOK {
		return nil, nil
	}

	start, err := time.Parse(timeLayout, first)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %q as %q", geotable.ErrInvalidParameter, first, timeLayout)
	}
	end, err := time.Parse(timeLayout, last)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot parse %q as %q", geotable.ErrInvalidParameter, last, timeLayout)
	}

	seconds := end.Sub(start).Seconds()
	return &seconds, nil
}
