package crime

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrNoData is returned by aggregates that are undefined on an empty record set.
var ErrNoData = eris.New("crime: insufficient data")

// MismatchError reports district codes that appear on only one side of the
// record/boundary join.
type MismatchError struct {
	MissingBoundaries []string // districts with records but no boundary
	MissingRecords    []string // boundaries with no records
}

func (e *MismatchError) Error() string {
	var parts []string
	if len(e.MissingBoundaries) > 0 {
		parts = append(parts, fmt.Sprintf("no boundary for %s", strings.Join(e.MissingBoundaries, ",")))
	}
	if len(e.MissingRecords) > 0 {
		parts = append(parts, fmt.Sprintf("no records for %s", strings.Join(e.MissingRecords, ",")))
	}
	return "crime: district mismatch: " + strings.Join(parts, "; ")
}
