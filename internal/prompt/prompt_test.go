package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodlens/internal/diet"
	"github.com/vbonduro/foodlens/internal/domain"
)

func TestBuildFoodRiskIncludesIngredientsAndFrequency(t *testing.T) {
	req := domain.AnalysisRequest{
		SubjectText: "Pizza",
		Items:       []string{"Wheat flour", "Tomato sauce", "Cheese"},
		Category:    domain.FrequencyDaily,
	}

	p, err := Build(domain.TemplateFoodRisk, req)
	require.NoError(t, err)

	for _, want := range []string{"Pizza", "Wheat flour", "Tomato sauce", "Cheese", "Daily", "Most likely diseases:"} {
		assert.Contains(t, p, want)
	}
}

func TestBuildEmptyItemsStillWellFormed(t *testing.T) {
	for _, id := range domain.Templates {
		t.Run(string(id), func(t *testing.T) {
			p, err := Build(id, domain.AnalysisRequest{SubjectText: "Salmon"})
			require.NoError(t, err)
			assert.NotEmpty(t, strings.TrimSpace(p))
			assert.Contains(t, p, "Salmon")
			assert.NotContains(t, p, "<no value>")
			assert.NotContains(t, p, "{{")
		})
	}
}

func TestBuildEmptyItemsUsesPlaceholder(t *testing.T) {
	p, err := Build(domain.TemplateFoodRisk, domain.AnalysisRequest{SubjectText: "Pizza"})
	require.NoError(t, err)
	assert.Contains(t, p, "Ingredients: none listed")
	assert.Contains(t, p, "Consumption Frequency: none listed")
}

func TestBuildEmptySubject(t *testing.T) {
	_, err := Build(domain.TemplateFoodRisk, domain.AnalysisRequest{SubjectText: "   ", Items: []string{"Cheese"}})
	assert.ErrorIs(t, err, domain.ErrEmptySubject)
}

func TestBuildUnknownTemplate(t *testing.T) {
	_, err := Build("horoscope", domain.AnalysisRequest{SubjectText: "Pizza"})
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}

func TestBuildFormatContracts(t *testing.T) {
	tests := []struct {
		id   domain.TemplateID
		want []string
	}{
		{domain.TemplateFoodImageScore, []string{"Ingredients: <ingredient1>|", "Health Scores: <score1>|", "Overall Food Health:"}},
		{domain.TemplateIngredientOCR, []string{"HEALTHY_COUNT: X", "CONCERNING_COUNT: Y"}},
		{domain.TemplateHealthRoadmap, []string{"list of 9 items", "time frame, goal, metric, target value"}},
		{domain.TemplateDietPlan, []string{"Top 5 foods to eat", "Top 5 foods to avoid", "calorie intake"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			p, err := Build(tt.id, domain.AnalysisRequest{SubjectText: "diabetes"})
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, p, w)
			}
		})
	}
}

func TestBuildIngredientQuantityUsesFirstItem(t *testing.T) {
	p, err := Build(domain.TemplateIngredientQuantity, domain.AnalysisRequest{
		SubjectText: "Sugar",
		Items:       []string{"200g", "ignored"},
	})
	require.NoError(t, err)
	assert.Contains(t, p, "Ingredient: Sugar")
	assert.Contains(t, p, "Quantity: 200g")
	assert.NotContains(t, p, "ignored")
}

func TestBuildDoesNotEscapeUserText(t *testing.T) {
	p, err := Build(domain.TemplateFoodImageScore, domain.AnalysisRequest{SubjectText: "Mac & <Cheese>"})
	require.NoError(t, err)
	assert.Contains(t, p, "Food: Mac & <Cheese>")
}

func TestBuildDietRecommendation(t *testing.T) {
	plan, err := diet.Calculate(diet.Profile{
		Age: 30, WeightKg: 70, HeightCm: 170,
		Gender: diet.GenderMale, Activity: diet.ActivitySedentary, Goal: diet.GoalLose,
	})
	require.NoError(t, err)

	p, err := BuildDietRecommendation(plan, " Lose 10kg ", "Diabetes")
	require.NoError(t, err)
	for _, want := range []string{
		"Age: 30",
		"Gender: Male",
		"Weight: 70 kg",
		"Height: 170 cm",
		"Activity Level: Sedentary",
		"Goal: Lose Weight; Lose 10kg",
		"Estimated Daily Energy Expenditure: 2006 calories",
		"Daily Calorie Target: 1506 calories",
		"Health Issues: Diabetes",
		"sample one-day meal plan",
	} {
		assert.Contains(t, p, want)
	}
}

func TestBuildDietRecommendationOptionalText(t *testing.T) {
	plan, err := diet.Calculate(diet.Profile{
		Age: 45, WeightKg: 82.5, HeightCm: 180,
		Gender: diet.GenderFemale, Activity: diet.ActivityVeryActive, Goal: diet.GoalMaintain,
	})
	require.NoError(t, err)

	p, err := BuildDietRecommendation(plan, "", "  ")
	require.NoError(t, err)
	assert.Contains(t, p, "Goal: Maintain Weight\n")
	assert.Contains(t, p, "Weight: 82.5 kg")
	assert.Contains(t, p, "Health Issues: none listed")
	assert.NotContains(t, p, "<no value>")
}

func TestBuildDietRecommendationNeedsPlan(t *testing.T) {
	_, err := BuildDietRecommendation(nil, "", "")
	assert.ErrorIs(t, err, ErrNoPlan)
}

func TestBuildRejectsProfileTemplate(t *testing.T) {
	_, err := Build(domain.TemplateDietRecommendation, domain.AnalysisRequest{SubjectText: "Lose weight"})
	assert.ErrorIs(t, err, ErrUnknownTemplate)
}
