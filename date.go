package mergepdf

import (
	"time"

	"github.com/alnah/go-mergepdf/internal/dateutil"
)

// ResolveDate handles "auto" and "auto:FORMAT" syntax for date values.
//   - "auto" -> t in YYYY-MM-DD format
//   - "auto:FORMAT" -> t in a custom format (e.g., "auto:DD/MM/YYYY")
//   - "auto:preset" -> t using a named preset (iso, european, us, long)
//   - any other value -> returned unchanged
//
// Resolve to "auto" or "auto:iso" when the result feeds Metadata.CreationDate.
func ResolveDate(value string, t time.Time) (string, error) {
	return dateutil.ResolveDate(value, t)
}
