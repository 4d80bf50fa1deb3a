package prompt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vbonduro/foodlens/internal/diet"
	"github.com/vbonduro/foodlens/internal/domain"
)

const dietRecommendationText = `As a nutritionist, provide personalized diet recommendations for a person with the following profile:

Age: {{.Age}}
Gender: {{.Gender}}
Weight: {{.Weight}} kg
Height: {{.Height}} cm
Activity Level: {{.Activity}}
Goal: {{.Goal}}
Estimated Daily Energy Expenditure: {{.TDEE}} calories
Daily Calorie Target: {{.Calories}} calories
Health Issues: {{.HealthIssues}}

Please provide:
1. A brief explanation of the diet strategy based on their goal and health issues.
2. Recommended foods for Breakfast, Snack, Lunch, and Dinner, taking into account their health issues and goals.
3. Any specific nutritional advice or considerations based on their health issues and goals.
4. Two practical tips for maintaining this diet and working towards their goal.
5. A sample one-day meal plan that fits their calorie target and aligns with their goals and health considerations.

Format the response in Markdown for easy reading.`

var ErrNoPlan = errors.New("a calculated diet plan is required")

var dietRecommendation = mustParse(domain.TemplateDietRecommendation, dietRecommendationText)

type dietData struct {
	Age          int
	Gender       string
	Weight       string
	Height       string
	Activity     string
	Goal         string
	TDEE         string
	Calories     string
	HealthIssues string
}

// BuildDietRecommendation renders the nutritionist prompt for a calculated
// plan. goals and healthIssues are free text and may be empty.
func BuildDietRecommendation(plan *diet.Plan, goals, healthIssues string) (string, error) {
	if plan == nil {
		return "", ErrNoPlan
	}
	p := plan.Profile
	goal := string(p.Goal)
	if g := strings.TrimSpace(goals); g != "" {
		goal += "; " + g
	}
	issues := strings.TrimSpace(healthIssues)
	if issues == "" {
		issues = noneListed
	}
	d := dietData{
		Age:          p.Age,
		Gender:       string(p.Gender),
		Weight:       strconv.FormatFloat(p.WeightKg, 'f', -1, 64),
		Height:       strconv.FormatFloat(p.HeightCm, 'f', -1, 64),
		Activity:     string(p.Activity),
		Goal:         goal,
		TDEE:         strconv.FormatFloat(plan.TDEE, 'f', 0, 64),
		Calories:     strconv.FormatFloat(plan.Macros.Calories, 'f', 0, 64),
		HealthIssues: issues,
	}

	var sb strings.Builder
	if err := dietRecommendation.Execute(&sb, d); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", domain.TemplateDietRecommendation, err)
	}
	return sb.String(), nil
}
