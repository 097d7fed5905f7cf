// Package serial assigns human-facing serial numbers to records.
package serial

import (
	"strconv"
	"strings"

	"github.com/pcctrack/pcc-tracker/internal/model"
)

// Allocator hands out sequential serial numbers and repairs its counter
// after a bulk replace of the working set. It carries its own state instead
// of a process-wide counter; the owner is responsible for synchronization
// and for persisting Last across restarts.
type Allocator struct {
	last int64
}

// NewAllocator creates an allocator continuing from the given last issued
// serial.
func NewAllocator(last int64) *Allocator {
	return &Allocator{last: last}
}

// Next issues the next serial number.
func (a *Allocator) Next() string {
	a.last++
	return strconv.FormatInt(a.last, 10)
}

// Last returns the last issued serial for persistence.
func (a *Allocator) Last() int64 {
	return a.last
}

// Reconcile recomputes the counter as the maximum parseable serial across the
// given set, so manual entries issued afterwards never collide with imported
// serials. Non-numeric serials are ignored, not treated as errors.
func (a *Allocator) Reconcile(records []model.Record) {
	var max int64
	for _, r := range records {
		n, err := strconv.ParseInt(strings.TrimSpace(r.SerialNo), 10, 64)
		if err == nil && n > max {
			max = n
		}
	}
	a.last = max
}
