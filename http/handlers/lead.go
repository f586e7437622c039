package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"lead-intake/errors"
	resp "lead-intake/http/response"
	"lead-intake/logger"
	"lead-intake/models"
	"lead-intake/services"
	"lead-intake/store"
	"lead-intake/utils"

	"github.com/samber/lo"
)

// LeadRepository is the append-only lead log.
type LeadRepository interface {
	Append(ctx context.Context, lead models.Lead) (models.Lead, error)
	ScanAll(ctx context.Context) ([]store.Entry, error)
}

// LeadDispatcher hands a stored lead to background side effects.
type LeadDispatcher interface {
	Dispatch(lead models.Lead)
}

// LeadService encapsulates lead intake and admin listing
type LeadService struct {
	repo       LeadRepository
	dispatcher LeadDispatcher
	now        func() time.Time
}

// NewLeadService wires the handlers. dispatcher may be nil.
func NewLeadService(repo LeadRepository, dispatcher LeadDispatcher) *LeadService {
	return &LeadService{repo: repo, dispatcher: dispatcher, now: time.Now}
}

// SubmitLeadError wraps validation problems the way the site form expects.
type SubmitLeadError struct {
	Error *utils.ValidationError `json:"error"`
}

type SubmitLeadResponse struct {
	OK bool `json:"ok"`
}

type ListLeadsResponse struct {
	Count int           `json:"count"`
	Leads []models.Lead `json:"leads"`
}

func formError(msg string) SubmitLeadError {
	return SubmitLeadError{Error: &utils.ValidationError{
		FieldErrors: map[string][]string{},
		FormErrors:  []string{msg},
	}}
}

// SubmitLead validates a lead submission and appends it to the log
func (s *LeadService) SubmitLead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body := http.MaxBytesReader(w, r.Body, utils.MaxLeadBodyBytes)
	defer body.Close()

	raw, err := utils.DecodeUntyped(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondJSON(w, http.StatusRequestEntityTooLarge, formError("Request body too large"))
			return
		}
		logger.Debug("Rejected lead with malformed JSON: %v", err)
		respondJSON(w, http.StatusBadRequest, formError("Invalid JSON body"))
		return
	}

	lead, err := utils.ValidateLead(raw)
	if err != nil {
		var verr *utils.ValidationError
		if errors.As(err, &verr) {
			logger.Debug("Rejected lead: %v", verr)
			respondJSON(w, http.StatusBadRequest, SubmitLeadError{Error: verr})
			return
		}
		respondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := s.repo.Append(r.Context(), lead)
	if err != nil {
		logger.Error("Error storing lead: %v", err)
		respondError(w, "Failed to save lead", http.StatusInternalServerError)
		return
	}

	logger.Info("Lead stored: business=%q service=%q", stored.Business, stored.Service)

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(stored)
	}

	respondJSON(w, http.StatusOK, SubmitLeadResponse{OK: true})
}

// loadLeads scans the log, reports corrupt lines and applies the optional
// created_after / created_before filters.
func (s *LeadService) loadLeads(w http.ResponseWriter, r *http.Request) ([]models.Lead, bool) {
	if r.Method != http.MethodGet {
		respondError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	filters, err := utils.ParseTimeFilters(r)
	if err != nil {
		resp.Error(w, err)
		return nil, false
	}

	entries, err := s.repo.ScanAll(r.Context())
	if err != nil {
		logger.Error("Error reading leads: %v", err)
		respondError(w, "Error reading leads", http.StatusInternalServerError)
		return nil, false
	}

	for _, f := range store.Failures(entries) {
		logger.WithFields(logger.Fields{"line": f.Line, "raw": f.Raw}).Warn("Skipping corrupt lead record: %v", f.Err)
	}

	leads := lo.Filter(store.Leads(entries), func(l models.Lead, _ int) bool {
		return filters.Match(l.CreatedAt)
	})
	return leads, true
}

// ListLeads returns every readable lead as pretty-printed JSON
func (s *LeadService) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, ok := s.loadLeads(w, r)
	if !ok {
		return
	}
	logger.Debug("Retrieved %d leads", len(leads))
	resp.SendPrettyJSON(w, http.StatusOK, ListLeadsResponse{Count: len(leads), Leads: leads})
}

// ExportLeadsExcel streams the leads as an .xlsx download
func (s *LeadService) ExportLeadsExcel(w http.ResponseWriter, r *http.Request) {
	leads, ok := s.loadLeads(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", s.attachment("xlsx"))
	if err := services.ExportLeadsExcel(w, leads); err != nil {
		logger.Error("Error exporting leads to Excel: %v", err)
	}
}

// ExportLeadsPDF streams the leads as a PDF report
func (s *LeadService) ExportLeadsPDF(w http.ResponseWriter, r *http.Request) {
	leads, ok := s.loadLeads(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", s.attachment("pdf"))
	if err := services.ExportLeadsPDF(w, leads, s.now()); err != nil {
		logger.Error("Error exporting leads to PDF: %v", err)
	}
}

func (s *LeadService) attachment(ext string) string {
	return fmt.Sprintf(`attachment; filename="leads-%s.%s"`, s.now().UTC().Format("20060102-150405"), ext)
}

// Helper functions (wrappers around response package)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	resp.SendJSON(w, status, data)
}

func respondError(w http.ResponseWriter, message string, status int) {
	resp.ErrorResponse(w, status, message)
}
