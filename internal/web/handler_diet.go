package web

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vbonduro/foodlens/internal/diet"
	"github.com/vbonduro/foodlens/internal/service"
)

// handleDietTargets shows the calculator plan. When the form asks for a
// recommendation the model is also consulted with the free-text goals and
// health issues.
func (s *Server) handleDietTargets(w http.ResponseWriter, r *http.Request) {
	profile, err := profileFromForm(r)
	if err != nil {
		s.renderFailure(w, err)
		return
	}

	data := map[string]any{"Title": "Diet targets", "ActiveNav": "analyze", "HistoryEnabled": s.service.HistoryEnabled()}
	if r.FormValue("recommend") != "" {
		advice, err := s.service.RecommendDiet(r.Context(), service.DietRequest{
			Profile:      profile,
			Goals:        r.FormValue("goals"),
			HealthIssues: r.FormValue("health_issues"),
		})
		if err != nil {
			s.renderFailure(w, err)
			return
		}
		data["Plan"] = advice.Plan
		data["Report"] = advice.Report
	} else {
		plan, err := s.service.DietTargets(profile)
		if err != nil {
			s.renderFailure(w, err)
			return
		}
		data["Plan"] = plan
	}

	if err := s.renderPage(w, http.StatusOK, data, "base.html", "pages/diet.html"); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func profileFromForm(r *http.Request) (diet.Profile, error) {
	age, err := strconv.Atoi(strings.TrimSpace(r.FormValue("age")))
	if err != nil {
		return diet.Profile{}, diet.ErrInvalidProfile
	}
	weight, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("weight")), 64)
	if err != nil {
		return diet.Profile{}, diet.ErrInvalidProfile
	}
	height, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("height")), 64)
	if err != nil {
		return diet.Profile{}, diet.ErrInvalidProfile
	}
	return diet.Profile{
		Age:      age,
		WeightKg: weight,
		HeightCm: height,
		Gender:   diet.Gender(r.FormValue("gender")),
		Activity: diet.Activity(r.FormValue("activity")),
		Goal:     diet.Goal(r.FormValue("goal")),
	}, nil
}
