package web

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/foodlens/internal/diet"
	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/service"
)

const (
	maxSubjectLen = 2000
	quantityRows  = 5
)

func (s *Server) indexData() map[string]any {
	return map[string]any{
		"Title":        "Analyze",
		"ActiveNav":    "analyze",
		"Templates":    formTemplates,
		"Frequencies":  domain.Frequencies,
		"Activities":   diet.Activities,
		"Goals":        diet.Goals,
		"QuantityRows": make([]struct{}, quantityRows),
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w, http.StatusOK, s.indexData(), "base.html", "pages/index.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// renderFailure shows the index page again with the error as a banner.
func (s *Server) renderFailure(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("analysis failed", "status", status, "error", err)
	}
	data := s.indexData()
	if status == http.StatusBadRequest {
		data["Warning"] = userMessage(err, status)
	} else {
		data["Error"] = userMessage(err, status)
	}
	if rerr := s.renderPage(w, status, data, "base.html", "pages/index.html"); rerr != nil {
		s.logger.Error("render page failed", "error", rerr)
	}
}

func (s *Server) renderReport(w http.ResponseWriter, report *domain.Report) {
	data := map[string]any{
		"Title":     templateTitle(report.Template),
		"ActiveNav": "analyze",
		"Report":    report,
	}
	if err := s.renderPage(w, http.StatusOK, data, "base.html", "pages/report.html", "partials/chart.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	id := domain.TemplateID(chi.URLParam(r, "template"))
	if !id.Valid() {
		http.NotFound(w, r)
		return
	}

	req := domain.AnalysisRequest{
		SubjectText: strings.TrimSpace(r.FormValue("subject")),
		Items:       splitItems(r.FormValue("items")),
		Category:    domain.ParseFrequency(r.FormValue("category")),
	}
	if len(req.SubjectText) > maxSubjectLen {
		http.Error(w, "subject too long", http.StatusBadRequest)
		return
	}

	report, err := s.service.Analyze(r.Context(), id, req)
	if err != nil {
		s.renderFailure(w, err)
		return
	}
	s.renderReport(w, report)
}

func (s *Server) handleAnalyzeQuantities(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	ingredients := r.PostForm["ingredient"]
	quantities := r.PostForm["quantity"]
	rows := make([]service.IngredientQuantity, 0, len(ingredients))
	for i, ing := range ingredients {
		row := service.IngredientQuantity{Ingredient: ing}
		if i < len(quantities) {
			row.Quantity = quantities[i]
		}
		rows = append(rows, row)
	}

	report, err := s.service.AnalyzeQuantities(r.Context(), r.PostFormValue("subject"), rows)
	if err != nil {
		s.renderFailure(w, err)
		return
	}
	s.renderReport(w, report)
}

// splitItems accepts comma or newline separated form input.
func splitItems(s string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
