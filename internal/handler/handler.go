// Package handler contains the HTTP handlers of the PCC tracker API.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/pcctrack/pcc-tracker/internal/importer"
	"github.com/pcctrack/pcc-tracker/internal/model"
	"github.com/pcctrack/pcc-tracker/internal/report"
	"github.com/pcctrack/pcc-tracker/internal/service"
)

// maxImportSize caps uploaded workbook size.
const maxImportSize = 16 << 20

// Service defines the engine contract used by the HTTP handlers.
type Service interface {
	CreateRecord(input service.RecordInput) (model.Record, error)
	UpdateRecord(id string, input service.RecordInput) (model.Record, error)
	DeliverRecord(id string, input service.DeliveryInput) (model.Record, error)
	DeleteRecord(id string) error
	GetRecord(id string) (model.Record, error)
	ListRecords(f service.Filter) []model.Record
	RestoreRecords(records []model.Record) error
	ImportRecords(rows []importer.Row) (int, error)
	Stats() model.DashboardStats
	Profile() model.BusinessProfile
	UpdateProfile(p model.BusinessProfile) error
}

// Handler implements the HTTP handlers of the PCC tracker API.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new HTTP handler instance.
func NewHandler(s Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
	}
}

type recordRequest struct {
	PCCNumber     *string  `json:"pccNumber"`
	PCCHolderName *string  `json:"pccHolderName"`
	CustomerName  *string  `json:"customerName"`
	TotalAmount   *float64 `json:"totalAmount"`
	PaidAmount    *float64 `json:"paidAmount"`
	ServiceType   *string  `json:"serviceType"`
	EntryDate     *string  `json:"entryDate"`
}

func (r recordRequest) toInput() (service.RecordInput, error) {
	input := service.RecordInput{
		PCCNumber:     r.PCCNumber,
		PCCHolderName: r.PCCHolderName,
		CustomerName:  r.CustomerName,
		TotalAmount:   r.TotalAmount,
		PaidAmount:    r.PaidAmount,
		EntryDate:     r.EntryDate,
	}
	if r.ServiceType != nil {
		st := model.ServiceType(*r.ServiceType)
		if st != model.ServiceNormal && st != model.ServiceUrgent {
			return service.RecordInput{}, fmt.Errorf("unknown service type %q", *r.ServiceType)
		}
		input.ServiceType = &st
	}
	return input, nil
}

// CreateRecord registers a new service order.
func (h *Handler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if req.PCCNumber == nil || *req.PCCNumber == "" {
		http.Error(w, "pccNumber is required", http.StatusBadRequest)
		return
	}

	input, err := req.toInput()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.service.CreateRecord(input)
	if err != nil {
		h.logger.Error("create record error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, rec)
}

// UpdateRecord edits an existing record; the due amount is re-derived.
func (h *Handler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	input, err := req.toInput()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.service.UpdateRecord(id, input)
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("update record error", zap.Error(err), zap.String("id", id))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
}

type deliveryRequest struct {
	ReceivedBy   string `json:"receivedBy"`
	DeliveryDate string `json:"deliveryDate"`
	ClearDue     bool   `json:"clearDue"`
}

// DeliverRecord applies the delivery transition to a record.
func (h *Handler) DeliverRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req deliveryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	rec, err := h.service.DeliverRecord(id, service.DeliveryInput{
		ReceivedBy:   req.ReceivedBy,
		DeliveryDate: req.DeliveryDate,
		ClearDue:     req.ClearDue,
	})
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("deliver record error", zap.Error(err), zap.String("id", id))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, rec)
}

// DeleteRecord permanently removes a record.
func (h *Handler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteRecord(id); err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("delete record error", zap.Error(err), zap.String("id", id))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListRecords returns the filtered record list. It always responds with a
// JSON array, possibly empty.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	records := h.service.ListRecords(service.Filter{
		Search:    q.Get("search"),
		Mode:      service.FilterMode(q.Get("status")),
		DateType:  service.DateType(q.Get("dateType")),
		DateValue: q.Get("date"),
	})

	h.writeJSON(w, http.StatusOK, records)
}

// Stats returns the dashboard aggregation.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Stats())
}

// Restore replaces the entire working set from a backup.
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	var records []model.Record
	if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.RestoreRecords(records); err != nil {
		h.logger.Error("restore error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]int{"restored": len(records)})
}

// Import accepts an uploaded xlsx workbook and merges the accepted rows into
// the working set. Malformed rows are dropped, never fatal.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	rows, err := importer.ReadWorkbook(file)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	accepted, err := h.service.ImportRecords(rows)
	if err != nil {
		h.logger.Error("import error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]int{"accepted": accepted})
}

// Export streams the full working set as an xlsx workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	records := h.service.ListRecords(service.Filter{})
	profile := h.service.Profile()

	name := fmt.Sprintf("%s_Statement_%s.xlsx", profile.ShopName, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	if err := report.WriteWorkbook(w, records); err != nil {
		h.logger.Error("export error", zap.Error(err))
	}
}

// Invoice renders the HTML invoice for one record.
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rec, err := h.service.GetRecord(id)
	if err != nil {
		if errors.Is(err, service.ErrRecordNotFound) {
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
			return
		}
		h.logger.Error("invoice error", zap.Error(err), zap.String("id", id))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Invoice(w, rec, h.service.Profile()); err != nil {
		h.logger.Error("invoice render error", zap.Error(err), zap.String("id", id))
	}
}

type statementRequest struct {
	IDs []string `json:"ids"`
}

// Statement renders the HTML batch statement for the selected records. An
// empty selection covers the whole working set.
func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	var req statementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	records := h.service.ListRecords(service.Filter{})
	if len(req.IDs) > 0 {
		selected := make(map[string]bool, len(req.IDs))
		for _, id := range req.IDs {
			selected[id] = true
		}
		subset := records[:0:0]
		for _, rec := range records {
			if selected[rec.ID] {
				subset = append(subset, rec)
			}
		}
		records = subset
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := report.Statement(w, records, h.service.Profile()); err != nil {
		h.logger.Error("statement render error", zap.Error(err))
	}
}

// GetProfile returns the business profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.service.Profile())
}

// UpdateProfile replaces the business profile.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var p model.BusinessProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	if err := h.service.UpdateProfile(p); err != nil {
		h.logger.Error("update profile error", zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("encode response error", zap.Error(err))
	}
}
