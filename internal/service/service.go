// Package service implements the record lifecycle and reconciliation engine:
// creation, edits, the delivery transition, bulk restore, import merge,
// filtering and dashboard aggregation over a single in-memory working set.
package service

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pcctrack/pcc-tracker/internal/importer"
	"github.com/pcctrack/pcc-tracker/internal/model"
	"github.com/pcctrack/pcc-tracker/internal/normalize"
	"github.com/pcctrack/pcc-tracker/internal/serial"
)

// ErrRecordNotFound is returned when an operation targets an id that is no
// longer in the working set.
var ErrRecordNotFound = errors.New("record not found")

// Repository describes the persistence contract used by the service. Every
// mutation flushes the affected state wholesale.
type Repository interface {
	Load() ([]model.Record, int64, model.BusinessProfile, error)
	SaveRecords([]model.Record) error
	SaveLastSerial(n int64) error
	SaveProfile(p model.BusinessProfile) error
}

// RecordInput carries the editable fields of a record. Nil pointers mean
// "not supplied": on create they fall back to defaults, on edit the prior
// value is retained. DueAmount is never accepted; it is always re-derived.
type RecordInput struct {
	PCCNumber     *string
	PCCHolderName *string
	CustomerName  *string
	TotalAmount   *float64
	PaidAmount    *float64
	ServiceType   *model.ServiceType
	EntryDate     *string
}

// DeliveryInput carries the parameters of the delivery transition.
type DeliveryInput struct {
	ReceivedBy   string
	DeliveryDate string
	ClearDue     bool
}

// Service owns the working set and the serial allocator. All operations are
// serialized through a single mutex: the system has exactly one logical
// writer.
type Service struct {
	mu      sync.RWMutex
	repo    Repository
	records []model.Record
	alloc   *serial.Allocator
	profile model.BusinessProfile
	now     func() time.Time
}

// NewService loads the persisted state and returns a ready engine.
func NewService(repo Repository) (*Service, error) {
	records, lastSerial, profile, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}

	return &Service{
		repo:    repo,
		records: records,
		alloc:   serial.NewAllocator(lastSerial),
		profile: profile,
		now:     time.Now,
	}, nil
}

// CreateRecord builds a record from the input, derives the due amount,
// assigns the next serial number and prepends it to the working set.
func (s *Service) CreateRecord(input RecordInput) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	total := floatValue(input.TotalAmount)
	paid := floatValue(input.PaidAmount)

	rec := model.Record{
		ID:            uuid.NewString(),
		SerialNo:      s.alloc.Next(),
		PCCNumber:     strings.ToUpper(normalize.Text(stringValue(input.PCCNumber))),
		PCCHolderName: stringValue(input.PCCHolderName),
		CustomerName:  stringValue(input.CustomerName),
		TotalAmount:   total,
		PaidAmount:    paid,
		DueAmount:     total - paid,
		Status:        model.StatusPending,
		ServiceType:   model.ServiceNormal,
		EntryDate:     normalize.ISODate(now),
		CreatedAt:     now.UTC().Format(time.RFC3339),
	}
	if input.ServiceType != nil {
		rec.ServiceType = *input.ServiceType
	}
	if input.EntryDate != nil && *input.EntryDate != "" {
		rec.EntryDate = *input.EntryDate
	}

	s.records = append([]model.Record{rec}, s.records...)

	if err := s.flushRecords(); err != nil {
		return model.Record{}, err
	}
	if err := s.repo.SaveLastSerial(s.alloc.Last()); err != nil {
		return model.Record{}, fmt.Errorf("save serial: %w", err)
	}
	return rec, nil
}

// UpdateRecord merges the supplied fields into an existing record and
// re-derives the due amount. Fields absent from the input keep their prior
// values; id, serial and createdAt are immutable.
func (s *Service) UpdateRecord(id string, input RecordInput) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Record{}, ErrRecordNotFound
	}

	rec := s.records[i]
	if input.PCCNumber != nil {
		rec.PCCNumber = strings.ToUpper(normalize.Text(*input.PCCNumber))
	}
	if input.PCCHolderName != nil {
		rec.PCCHolderName = *input.PCCHolderName
	}
	if input.CustomerName != nil {
		rec.CustomerName = *input.CustomerName
	}
	if input.TotalAmount != nil {
		rec.TotalAmount = *input.TotalAmount
	}
	if input.PaidAmount != nil {
		rec.PaidAmount = *input.PaidAmount
	}
	if input.ServiceType != nil {
		rec.ServiceType = *input.ServiceType
	}
	if input.EntryDate != nil && *input.EntryDate != "" {
		rec.EntryDate = *input.EntryDate
	}
	rec.DueAmount = rec.TotalAmount - rec.PaidAmount

	s.records[i] = rec
	if err := s.flushRecords(); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

// DeliverRecord applies the delivery transition: the record becomes
// delivered, the delivery date is recorded and the entry date is re-anchored
// to it so date filters reflect the completed transaction date. Re-delivering
// an already delivered record simply overwrites the delivery fields.
func (s *Service) DeliverRecord(id string, input DeliveryInput) (model.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Record{}, ErrRecordNotFound
	}

	date := input.DeliveryDate
	if date == "" {
		date = normalize.ISODate(s.now())
	}

	rec := s.records[i]
	rec.Status = model.StatusDelivered
	rec.DeliveryDate = date
	rec.EntryDate = date
	if input.ReceivedBy != "" {
		rec.ReceivedBy = input.ReceivedBy
	}
	if input.ClearDue {
		rec.PaidAmount = rec.TotalAmount
		rec.DueAmount = 0
	}

	s.records[i] = rec
	if err := s.flushRecords(); err != nil {
		return model.Record{}, err
	}
	return rec, nil
}

// DeleteRecord permanently removes a record from the working set.
func (s *Service) DeleteRecord(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrRecordNotFound
	}

	s.records = append(s.records[:i], s.records[i+1:]...)
	return s.flushRecords()
}

// GetRecord returns a single record by id.
func (s *Service) GetRecord(id string) (model.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return model.Record{}, ErrRecordNotFound
	}
	return s.records[i], nil
}

// ListRecords returns the ordered subsequence of the working set matching the
// filter.
func (s *Service) ListRecords(f Filter) []model.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]model.Record, 0, len(s.records))
	for _, r := range s.records {
		if f.matches(r) {
			result = append(result, r)
		}
	}
	return result
}

// RestoreRecords replaces the entire working set and reconciles the serial
// counter against the new set.
func (s *Service) RestoreRecords(records []model.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if records == nil {
		records = []model.Record{}
	}
	s.records = records
	s.alloc.Reconcile(s.records)

	if err := s.flushRecords(); err != nil {
		return err
	}
	if err := s.repo.SaveLastSerial(s.alloc.Last()); err != nil {
		return fmt.Errorf("save serial: %w", err)
	}
	return nil
}

// ImportRecords normalizes spreadsheet rows, merges the accepted records
// ahead of the existing set in source order, and reconciles the serial
// counter over the merged set. It returns the count of accepted rows.
func (s *Service) ImportRecords(rows []importer.Row) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	imported := importer.Normalize(rows, s.now())
	if len(imported) == 0 {
		return 0, nil
	}

	s.records = append(imported, s.records...)
	s.alloc.Reconcile(s.records)

	if err := s.flushRecords(); err != nil {
		return 0, err
	}
	if err := s.repo.SaveLastSerial(s.alloc.Last()); err != nil {
		return 0, fmt.Errorf("save serial: %w", err)
	}
	return len(imported), nil
}

// Stats computes the dashboard aggregation over the full working set. An
// empty set yields all zeros.
func (s *Service) Stats() model.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	today := normalize.ISODate(s.now())

	var stats model.DashboardStats
	stats.TotalRecords = len(s.records)
	for _, r := range s.records {
		switch r.Status {
		case model.StatusPending:
			stats.TotalPending++
		case model.StatusDelivered:
			stats.TotalDelivered++
		}
		stats.TotalDueAmount += r.DueAmount
		if r.EntryDate == today {
			stats.TodayEntries++
		}
		if r.DeliveryDate == today && r.Status == model.StatusDelivered {
			stats.TodayDeliveries++
		}
	}
	return stats
}

// Profile returns the current business profile.
func (s *Service) Profile() model.BusinessProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// UpdateProfile replaces the business profile.
func (s *Service) UpdateProfile(p model.BusinessProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profile = p
	if err := s.repo.SaveProfile(p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// indexOf must be called with the mutex held.
func (s *Service) indexOf(id string) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *Service) flushRecords() error {
	if err := s.repo.SaveRecords(s.records); err != nil {
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

func stringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func floatValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
