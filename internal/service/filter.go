package service

import (
	"strings"

	"github.com/pcctrack/pcc-tracker/internal/model"
)

// FilterMode selects the status dimension of a record query. It is a filter
// concept, deliberately separate from the closed DeliveryStatus enumeration.
type FilterMode string

const (
	FilterAll       FilterMode = "ALL"
	FilterDue       FilterMode = "DUE"
	FilterPending   FilterMode = "PENDING"
	FilterDelivered FilterMode = "DELIVERED"
)

// DateType selects which date field a date filter compares against.
type DateType string

const (
	DateEntry    DateType = "ENTRY"
	DateDelivery DateType = "DELIVERY"
)

// Filter describes one record query. Zero values mean "no restriction"; all
// active predicates compose with logical AND.
type Filter struct {
	Search    string
	Mode      FilterMode
	DateType  DateType
	DateValue string
}

func (f Filter) matches(r model.Record) bool {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	if search != "" &&
		!strings.Contains(strings.ToLower(r.PCCNumber), search) &&
		!strings.Contains(strings.ToLower(r.CustomerName), search) &&
		!strings.Contains(strings.ToLower(r.PCCHolderName), search) &&
		!strings.Contains(strings.ToLower(r.SerialNo), search) {
		return false
	}

	switch f.Mode {
	case FilterPending:
		if r.Status != model.StatusPending {
			return false
		}
	case FilterDelivered:
		if r.Status != model.StatusDelivered {
			return false
		}
	case FilterDue:
		if r.DueAmount <= 0 {
			return false
		}
	}

	if f.DateValue != "" {
		if f.DateType == DateDelivery {
			return r.DeliveryDate == f.DateValue
		}
		return r.EntryDate == f.DateValue
	}
	return true
}
