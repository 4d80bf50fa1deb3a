package service

import (
	"context"
	"strings"

	"github.com/vbonduro/foodlens/internal/diet"
	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/prompt"
)

// DietRequest is a diet profile plus the free text handed to the model.
type DietRequest struct {
	Profile      diet.Profile
	Goals        string
	HealthIssues string
}

// DietAdvice pairs the calculator plan with the model's recommendation.
type DietAdvice struct {
	Plan   *diet.Plan     `json:"plan"`
	Report *domain.Report `json:"report"`
}

// DietTargets runs the calorie and macro calculator. No remote calls.
func (s *AnalysisService) DietTargets(profile diet.Profile) (*diet.Plan, error) {
	return diet.Calculate(profile)
}

// RecommendDiet calculates the plan, then asks the model for a personalised
// recommendation around its calorie target. An invalid profile is rejected
// before any remote call.
func (s *AnalysisService) RecommendDiet(ctx context.Context, req DietRequest) (*DietAdvice, error) {
	plan, err := diet.Calculate(req.Profile)
	if err != nil {
		return nil, err
	}
	text, err := prompt.BuildDietRecommendation(plan, req.Goals, req.HealthIssues)
	if err != nil {
		return nil, err
	}

	subject := strings.TrimSpace(req.Goals)
	if subject == "" {
		subject = string(req.Profile.Goal)
	}
	var items []string
	if issues := strings.TrimSpace(req.HealthIssues); issues != "" {
		items = append(items, issues)
	}

	report, err := s.generateReport(ctx, domain.TemplateDietRecommendation,
		domain.AnalysisRequest{SubjectText: subject, Items: items}, text)
	if err != nil {
		return nil, err
	}
	s.save(ctx, report)
	return &DietAdvice{Plan: plan, Report: report}, nil
}
