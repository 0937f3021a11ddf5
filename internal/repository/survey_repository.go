package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/avolkov/survey-backend-go/internal/database"
	"github.com/avolkov/survey-backend-go/internal/geotable"
	"github.com/avolkov/survey-backend-go/internal/models"
	"github.com/avolkov/survey-backend-go/internal/spatial"
)

// SurveyRepository handles database operations for surveys and their points
type SurveyRepository struct {
	db *sql.DB
}

// NewSurveyRepository creates a new survey repository
func NewSurveyRepository(db *sql.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

// CreateSurvey stores a survey together with all records of its table
func (r *SurveyRepository) CreateSurvey(name, sourceFile string, table *geotable.GeoTable) (*models.Survey, error) {
	survey := &models.Survey{
		Name:       name,
		CRS:        table.CRS(),
		SourceFile: sourceFile,
		PointCount: table.Len(),
	}

	err := database.Transaction(func(tx *sql.Tx) error {
		res, err := tx.Exec(
			`INSERT INTO surveys (name, crs, source_file, point_count) VALUES (?, ?, ?, ?)`,
			survey.Name, survey.CRS, survey.SourceFile, survey.PointCount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert survey: %w", err)
		}
		survey.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to read survey id: %w", err)
		}
		return insertPoints(tx, survey.ID, table)
	})
	if err != nil {
		return nil, err
	}

	return survey, nil
}

// ReplacePoints overwrites the stored records of a survey, used after a
// derivation added columns
func (r *SurveyRepository) ReplacePoints(surveyID int64, table *geotable.GeoTable) error {
	return database.Transaction(func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM survey_points WHERE survey_id = ?`, surveyID); err != nil {
			return fmt.Errorf("failed to clear survey points: %w", err)
		}
		if err := insertPoints(tx, surveyID, table); err != nil {
			return err
		}
		if _, err := tx.Exec(
			`UPDATE surveys SET point_count = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			table.Len(), surveyID,
		); err != nil {
			return fmt.Errorf("failed to update survey: %w", err)
		}
		return nil
	})
}

func insertPoints(tx *sql.Tx, surveyID int64, table *geotable.GeoTable) error {
	stmt, err := tx.Prepare(
		`INSERT INTO survey_points (survey_id, seq, latitude, longitude, properties_json) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare point insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range table.Records() {
		props, err := json.Marshal(rec.Columns)
		if err != nil {
			return fmt.Errorf("failed to encode properties of point %d: %w", i, err)
		}
		if _, err := stmt.Exec(surveyID, i, rec.Location.Lat, rec.Location.Lon, string(props)); err != nil {
			return fmt.Errorf("failed to insert point %d: %w", i, err)
		}
	}
	return nil
}

// GetSurvey retrieves one survey by id
func (r *SurveyRepository) GetSurvey(id int64) (*models.Survey, error) {
	var s models.Survey
	err := r.db.QueryRow(
		`SELECT id, name, crs, COALESCE(source_file, ''), point_count, created_at, updated_at
		 FROM surveys WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.CRS, &s.SourceFile, &s.PointCount, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("survey %d not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query survey: %w", err)
	}
	return &s, nil
}

// ListSurveys retrieves all surveys, newest first
func (r *SurveyRepository) ListSurveys() ([]models.Survey, error) {
	rows, err := r.db.Query(
		`SELECT id, name, crs, COALESCE(source_file, ''), point_count, created_at, updated_at
		 FROM surveys ORDER BY id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query surveys: %w", err)
	}
	defer rows.Close()

	var surveys []models.Survey
	for rows.Next() {
		var s models.Survey
		if err := rows.Scan(&s.ID, &s.Name, &s.CRS, &s.SourceFile, &s.PointCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan survey: %w", err)
		}
		surveys = append(surveys, s)
	}
	return surveys, rows.Err()
}

// GetPoints retrieves the point rows of a survey in flight order
func (r *SurveyRepository) GetPoints(surveyID int64) ([]models.SurveyPoint, error) {
	rows, err := r.db.Query(
		`SELECT id, survey_id, seq, latitude, longitude, properties_json
		 FROM survey_points WHERE survey_id = ? ORDER BY seq`, surveyID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query survey points: %w", err)
	}
	defer rows.Close()

	var points []models.SurveyPoint
	for rows.Next() {
		var p models.SurveyPoint
		var props string
		if err := rows.Scan(&p.ID, &p.SurveyID, &p.Seq, &p.Latitude, &p.Longitude, &props); err != nil {
			return nil, fmt.Errorf("failed to scan survey point: %w", err)
		}
		if err := json.Unmarshal([]byte(props), &p.Properties); err != nil {
			return nil, fmt.Errorf("failed to decode properties of point %d: %w", p.Seq, err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetTable reconstructs the GeoTable of a survey from its stored points
func (r *SurveyRepository) GetTable(surveyID int64) (*geotable.GeoTable, error) {
	survey, err := r.GetSurvey(surveyID)
	if err != nil {
		return nil, err
	}

	points, err := r.GetPoints(surveyID)
	if err != nil {
		return nil, err
	}

	records := make([]geotable.Record, len(points))
	for i, p := range points {
		records[i] = geotable.Record{
			Location: spatial.Point{Lat: p.Latitude, Lon: p.Longitude},
			Columns:  p.Properties,
		}
	}
	return geotable.New(records, survey.CRS), nil
}

// DeleteSurvey removes a survey and its points
func (r *SurveyRepository) DeleteSurvey(id int64) error {
	res, err := r.db.Exec(`DELETE FROM surveys WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete survey: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("survey %d not found", id)
	}
	return nil
}
