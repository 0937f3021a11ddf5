// Package geotable implements an immutable table of georeferenced sensor
// records and the cleaning, filtering and derivation operations over it.
// Every operation returns a new table; the receiver is never modified.
package geotable

import (
	"errors"
	"fmt"
)

// Error kinds detected synchronously by table operations. Callers match
// them with errors.Is.
var (
	// ErrColumnNotFound means a referenced column is absent from the schema
	ErrColumnNotFound = errors.New("column not found")

	// ErrInvalidParameter means an argument is outside its domain, such as
	// an even smoothing window or an unknown filter type
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrEmptyData means the operation has no eligible rows to act on
	ErrEmptyData = errors.New("no data")

	// ErrGeometry means a malformed polygon was supplied
	ErrGeometry = errors.New("invalid geometry")
)

func columnNotFound(column string) error {
	return fmt.Errorf("%w: %q", ErrColumnNotFound, column)
}
