package service

import (
	"fmt"

	"github.com/avolkov/survey-backend-go/internal/models"
	"github.com/avolkov/survey-backend-go/internal/repository"
	"github.com/avolkov/survey-backend-go/internal/wind"
)

// WindService handles true-wind derivation and rose aggregation for
// stored surveys
type WindService struct {
	surveyRepo *repository.SurveyRepository
}

// NewWindService creates a new wind service
func NewWindService(surveyRepo *repository.SurveyRepository) *WindService {
	return &WindService{surveyRepo: surveyRepo}
}

// Decompose computes the true wind columns of a survey and persists the
// derived table in place of the stored one.
func (s *WindService) Decompose(surveyID int64, opts wind.Options) (*models.Survey, error) {
	table, err := s.surveyRepo.GetTable(surveyID)
	if err != nil {
		return nil, err
	}

	derived, err := wind.Decompose(table, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to decompose wind for survey %d: %w", surveyID, err)
	}

	if err := s.surveyRepo.ReplacePoints(surveyID, derived); err != nil {
		return nil, err
	}

	return s.surveyRepo.GetSurvey(surveyID)
}

// Rose aggregates a survey's (speed, direction) columns into a rose
// histogram. It reads the stored table; derived columns must have been
// computed (and persisted) beforehand.
func (s *WindService) Rose(surveyID int64, speedColumn, directionColumn string, edges []float64, nsector int) (*wind.RoseHistogram, error) {
	table, err := s.surveyRepo.GetTable(surveyID)
	if err != nil {
		return nil, err
	}
	return wind.Rose(table, speedColumn, directionColumn, edges, nsector)
}
