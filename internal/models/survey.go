package models

// Survey represents one ingested drone flight log
type Survey struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	CRS        string `json:"crs" db:"crs"`
	SourceFile string `json:"sourceFile,omitempty" db:"source_file"`
	PointCount int    `json:"pointCount" db:"point_count"`
	CreatedAt  string `json:"createdAt,omitempty" db:"created_at"`
	UpdatedAt  string `json:"updatedAt,omitempty" db:"updated_at"`
}

// SurveyPoint is one georeferenced record of a survey, with the logger
// columns carried as a free-form property map
type SurveyPoint struct {
	ID         int64          `json:"id" db:"id"`
	SurveyID   int64          `json:"surveyId" db:"survey_id"`
	Seq        int            `json:"seq" db:"seq"`
	Latitude   float64        `json:"latitude" db:"latitude"`
	Longitude  float64        `json:"longitude" db:"longitude"`
	Properties map[string]any `json:"properties" db:"properties_json"`
}

// Bounds is the axis-aligned bounding box of a survey's points
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLon float64 `json:"minLon"`
	MaxLat float64 `json:"maxLat"`
	MaxLon float64 `json:"maxLon"`
}

// SurveySummary describes the flight path of a survey
type SurveySummary struct {
	SurveyID           int64    `json:"surveyId"`
	PointCount         int      `json:"pointCount"`
	PathLengthMeters   float64  `json:"pathLengthMeters"`
	StraightLineMeters float64  `json:"straightLineMeters"`
	Bounds             Bounds   `json:"bounds"`
	MeanHeadingDeg     *float64 `json:"meanHeadingDeg,omitempty"`
	DurationSeconds    *float64 `json:"durationSeconds,omitempty"`
}
