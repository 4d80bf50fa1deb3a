package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/foodlens/internal/diet"
	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/service"
)

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) badJSON(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"}, s.logger)
}

func (s *Server) handleAPIAnalyze(w http.ResponseWriter, r *http.Request) {
	id := domain.TemplateID(chi.URLParam(r, "template"))
	var req domain.AnalysisRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.badJSON(w)
		return
	}
	req.Category = domain.ParseFrequency(string(req.Category))

	report, err := s.service.Analyze(r.Context(), id, req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report, s.logger)
}

func (s *Server) handleAPIQuantities(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Subject     string                       `json:"subject"`
		Ingredients []service.IngredientQuantity `json:"ingredients"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.badJSON(w)
		return
	}

	report, err := s.service.AnalyzeQuantities(r.Context(), body.Subject, body.Ingredients)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report, s.logger)
}

// handleAPIDietTargets returns the plan alone, or a DietAdvice when the
// body sets "recommend".
func (s *Server) handleAPIDietTargets(w http.ResponseWriter, r *http.Request) {
	var body struct {
		diet.Profile
		Goals        string `json:"goals"`
		HealthIssues string `json:"health_issues"`
		Recommend    bool   `json:"recommend"`
	}
	if err := decodeJSON(w, r, &body); err != nil {
		s.badJSON(w)
		return
	}

	if !body.Recommend {
		plan, err := s.service.DietTargets(body.Profile)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, plan, s.logger)
		return
	}

	advice, err := s.service.RecommendDiet(r.Context(), service.DietRequest{
		Profile:      body.Profile,
		Goals:        body.Goals,
		HealthIssues: body.HealthIssues,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, advice, s.logger)
}

func (s *Server) handleAPIListReports(w http.ResponseWriter, r *http.Request) {
	reports, _, err := s.findReports(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if reports == nil {
		reports = []*domain.Report{}
	}
	writeJSON(w, http.StatusOK, reports, s.logger)
}

func (s *Server) handleAPIGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	if report == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "report not found"}, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, report, s.logger)
}
