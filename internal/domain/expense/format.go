package expense

import (
	"strconv"
	"strings"
)

// FormatDecimal renders a float as a decimal string, keeping one decimal
// place for integral values so 27 round-trips as "27.0". The ledger treats
// shares as decimal strings end-to-end; this is the single parse/format
// cycle the pipeline allows itself.
func FormatDecimal(value float64) string {
	s := strconv.FormatFloat(value, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
