// Package wind derives true wind from apparent wind and platform motion,
// and aggregates (speed, direction) pairs into rose histograms.
package wind

import (
	"fmt"
	"math"

	"github.com/avolkov/survey-backend-go/internal/geotable"
)

// Options names the input and output columns of a decomposition and
// describes the sensor mounting.
type Options struct {
	// Apparent wind as reported by the sensor
	AirSpeedColumn     string `json:"airSpeedColumn"`
	AirDirectionColumn string `json:"airDirectionColumn"`

	// Platform velocity in the fixed, north-referenced frame
	PlatformSpeedColumn     string `json:"platformSpeedColumn"`
	PlatformDirectionColumn string `json:"platformDirectionColumn"`

	// Columns the true wind is written into
	TrueSpeedColumn     string `json:"trueSpeedColumn"`
	TrueDirectionColumn string `json:"trueDirectionColumn"`

	// SensorCWRot is the clockwise mounting rotation of the sensor
	// relative to the platform nose, in degrees
	SensorCWRot float64 `json:"sensorCWRot"`

	// SensorToNorth is true when the sensor already reports directions
	// relative to north instead of the platform nose
	SensorToNorth bool `json:"sensorToNorth"`
}

func (o Options) validate(t *geotable.GeoTable) error {
	for _, c := range []string{o.AirSpeedColumn, o.AirDirectionColumn, o.PlatformSpeedColumn, o.PlatformDirectionColumn} {
		if c == "" {
			return fmt.Errorf("%w: all input columns must be named", geotable.ErrInvalidParameter)
		}
		if !t.HasColumn(c) {
			return fmt.Errorf("%w: %q", geotable.ErrColumnNotFound, c)
		}
	}
	if o.TrueSpeedColumn == "" || o.TrueDirectionColumn == "" {
		return fmt.Errorf("%w: output columns must be named", geotable.ErrInvalidParameter)
	}
	return nil
}

// Decompose computes the true wind for every record and returns a new table
// with the true speed and direction columns filled in. The computation is
// eager: the returned table is a stable snapshot.
//
// Sign convention: true wind equals frame-corrected apparent wind minus the
// platform velocity vector, all in Cartesian meteorological form
// (x = speed*sin(dir), y = speed*cos(dir), direction the wind blows from).
// Rows with any null input propagate null outputs. When both speeds are
// zero the direction is reported as 0.
func Decompose(t *geotable.GeoTable, opts Options) (*geotable.GeoTable, error) {
	if err := opts.validate(t); err != nil {
		return nil, err
	}

	airSpeed, airOK, _ := t.NumericColumn(opts.AirSpeedColumn)
	airDir, airDirOK, _ := t.NumericColumn(opts.AirDirectionColumn)
	pfSpeed, pfOK, _ := t.NumericColumn(opts.PlatformSpeedColumn)
	pfDir, pfDirOK, _ := t.NumericColumn(opts.PlatformDirectionColumn)

	n := t.Len()
	trueSpeed := make([]any, n)
	trueDir := make([]any, n)

	for i := 0; i < n; i++ {
		if !airOK[i] || !airDirOK[i] || !pfOK[i] || !pfDirOK[i] {
			continue
		}

		// Correct the sensor reading into the fixed frame
		dir := airDir[i] + opts.SensorCWRot
		if !opts.SensorToNorth {
			dir += pfDir[i]
		}

		speed, direction := TrueWind(airSpeed[i], dir, pfSpeed[i], pfDir[i])
		trueSpeed[i] = speed
		trueDir[i] = direction
	}

	out, err := t.WithColumn(opts.TrueSpeedColumn, trueSpeed)
	if err != nil {
		return nil, err
	}
	return out.WithColumn(opts.TrueDirectionColumn, trueDir)
}

// TrueWind performs the vector triangle for one sample. Both directions are
// degrees in the fixed frame; the result is (speed, direction in [0, 360)).
func TrueWind(airSpeed, airDirDeg, platformSpeed, platformDirDeg float64) (float64, float64) {
	airRad := airDirDeg * math.Pi / 180
	pfRad := platformDirDeg * math.Pi / 180

	ax := airSpeed * math.Sin(airRad)
	ay := airSpeed * math.Cos(airRad)
	px := platformSpeed * math.Sin(pfRad)
	py := platformSpeed * math.Cos(pfRad)

	tx := ax - px
	ty := ay - py

	// atan2 of two signed zeros is not 0; resolve the undefined direction
	// of a zero vector deterministically
	if tx == 0 && ty == 0 {
		return 0, 0
	}

	speed := math.Sqrt(tx*tx + ty*ty)
	dir := math.Mod(math.Atan2(tx, ty)*180/math.Pi+360, 360)
	return speed, dir
}
