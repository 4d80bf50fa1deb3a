package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/store"
)

const defaultReportLimit = 50

func (s *Server) findReports(r *http.Request) ([]*domain.Report, string, error) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	limit := defaultReportLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if query == "" {
		reports, err := s.service.ListReports(r.Context(), limit)
		return reports, query, err
	}
	reports, err := s.service.SearchReports(r.Context(), query, limit)
	return reports, query, err
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	reports, query, err := s.findReports(r)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	// HTMX partial update: return only the list fragment.
	if r.Header.Get("HX-Request") == "true" {
		if err := s.renderPartial(w, "partials/report_list.html", reports); err != nil {
			s.logger.Error("render partial failed", "error", err)
		}
		return
	}

	data := map[string]any{"Title": "History", "ActiveNav": "reports", "Reports": reports, "Query": query}
	if err := s.renderPage(w, http.StatusOK, data, "base.html", "pages/reports.html", "partials/report_list.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.renderFailure(w, err)
		return
	}
	if report == nil {
		http.NotFound(w, r)
		return
	}
	s.renderReport(w, report)
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.service.DeleteReport(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrReportNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to delete report", statusFor(err))
		s.logger.Error("delete report failed", "report_id", id, "error", err)
		return
	}

	w.Header().Set("HX-Redirect", "/reports")
	w.WriteHeader(http.StatusOK)
}
