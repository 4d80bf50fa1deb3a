package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodlens/internal/domain"
)

func TestScoreListLastOccurrenceWins(t *testing.T) {
	f := Extract("Cardiovascular health: 8\nCardiovascular health: 3", ScoreList{})
	assert.Equal(t, map[string]float64{"Cardiovascular health": 3}, f.Scores)
}

func TestScoreListDropsValuesAboveTen(t *testing.T) {
	raw := "Blood sugar levels: 7\nSodium: 950\nWeight management: 11\nDigestive health: 10"
	f := Extract(raw, ScoreList{})
	assert.Equal(t, map[string]float64{
		"Blood sugar levels": 7,
		"Digestive health":   10,
	}, f.Scores)
}

func TestScoreListMarkdownAndBrackets(t *testing.T) {
	raw := "5. Rate the impact\n   - **Cardiovascular health**: [6]\n   - Nutrient balance: 4/10"
	f := Extract(raw, ScoreList{})
	assert.Equal(t, 6.0, f.Scores["Cardiovascular health"])
	assert.Equal(t, 4.0, f.Scores["Nutrient balance"])
}

func TestDelimitedList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "comma and word and",
			raw:  "Most Likely Diseases: diabetes, heart disease and obesity",
			want: []string{"diabetes", "heart disease", "obesity"},
		},
		{
			name: "brackets and case",
			raw:  "blah\nmost likely diseases: [diabetes, hypertension]\nmore",
			want: []string{"diabetes", "hypertension"},
		},
		{
			name: "text between marker and colon",
			raw:  "Most likely diseases (if consumed daily): gout",
			want: []string{"gout"},
		},
		{
			name: "trailing period",
			raw:  "Most likely diseases: diabetes, obesity.",
			want: []string{"diabetes", "obesity"},
		},
		{
			name: "compatibility characters",
			raw:  "Most likely diseases: ｄｉａｂｅｔｅｓ",
			want: []string{"diabetes"},
		},
		{
			name: "missing marker",
			raw:  "Nothing to see here.",
			want: []string{},
		},
		{
			name: "marker with nothing after",
			raw:  "Most likely diseases:",
			want: []string{},
		},
		{
			name: "no dedup",
			raw:  "Most likely diseases: gout, gout",
			want: []string{"gout", "gout"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(tt.raw, DelimitedList{Marker: "Most likely diseases", Key: KeyDiseases})
			assert.Equal(t, tt.want, f.Lists[KeyDiseases])
		})
	}
}

func TestDelimitedListKeepsWordsContainingAnd(t *testing.T) {
	f := Extract("Most likely diseases: candidiasis, sandfly fever", DelimitedList{Marker: "Most likely diseases", Key: KeyDiseases})
	assert.Equal(t, []string{"candidiasis", "sandfly fever"}, f.Lists[KeyDiseases])
}

func TestSentinelCount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
	}{
		{"present", "analysis...\nHEALTHY_COUNT: 4\n", 4},
		{"case insensitive", "healthy_count:7", 7},
		{"missing", "no sentinel at all", 0},
		{"not a number", "HEALTHY_COUNT: many", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(tt.raw, SentinelCount{Label: "HEALTHY_COUNT", Key: KeyHealthy})
			assert.Equal(t, tt.want, f.Scores[KeyHealthy])
		})
	}
}

func TestHealthyConcerning(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		wantHealthy    float64
		wantConcerning float64
	}{
		{
			name:           "sentinels",
			raw:            "Sugar is concerning.\nHEALTHY_COUNT: 3\nCONCERNING_COUNT: 2",
			wantHealthy:    3,
			wantConcerning: 2,
		},
		{
			name:           "word count fallback",
			raw:            "Oats: Healthy\nSugar: potentially concerning\nSalt: potentially concerning",
			wantHealthy:    1,
			wantConcerning: 2,
		},
		{
			name:           "forced minimum",
			raw:            "The model said nothing useful.",
			wantHealthy:    1,
			wantConcerning: 0,
		},
		{
			name:           "zero sentinels fall back",
			raw:            "HEALTHY_COUNT: 0\nCONCERNING_COUNT: 0\nwater is healthy",
			wantHealthy:    2,
			wantConcerning: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Extract(tt.raw, HealthyConcerning{})
			assert.Equal(t, tt.wantHealthy, f.Scores[KeyHealthy])
			assert.Equal(t, tt.wantConcerning, f.Scores[KeyConcerning])
		})
	}
}

func TestPipeFormat(t *testing.T) {
	raw := "Ingredients: Dough|Tomato|Mozzarella\nHealth Scores: 4|8|x\nOverall Food Health: safe"
	f := ExtractAll(raw, RulesFor(domain.TemplateFoodImageScore, nil)...)

	assert.Equal(t, []string{"Dough", "Tomato", "Mozzarella"}, f.Lists[KeyIngredients])
	assert.Equal(t, map[string]float64{"Dough": 4, "Tomato": 8}, f.Scores)
	assert.Equal(t, "safe", f.Labels[KeyOverall])
}

func TestPipeFormatMarkdownAndMissingLines(t *testing.T) {
	raw := "Here is the analysis:\n**Ingredients:** Rice | Egg\n"
	f := ExtractAll(raw, RulesFor(domain.TemplateFoodImageScore, nil)...)

	assert.Equal(t, []string{"Rice", "Egg"}, f.Lists[KeyIngredients])
	assert.Empty(t, f.Scores)
	assert.NotContains(t, f.Labels, KeyOverall)
}

func TestPipeScoresIgnoresExtraScores(t *testing.T) {
	raw := "Ingredients: Rice\nHealth Scores: 6|9|2"
	f := ExtractAll(raw, RulesFor(domain.TemplateFoodImageScore, nil)...)
	assert.Equal(t, map[string]float64{"Rice": 6}, f.Scores)
}

func TestSentimentRiskMonotonic(t *testing.T) {
	polarity := map[string]float64{
		"great":    0.9,
		"fine":     0.1,
		"bad":      -0.6,
		"terrible": -1,
		"too good": 3,
	}
	scorer := ScorerFunc(func(text string) float64 { return polarity[text] })
	rule := SentimentRisk{Scorer: scorer}

	order := []string{"too good", "great", "fine", "bad", "terrible"}
	prev := -1.0
	for _, text := range order {
		risk := Extract(text, rule).Scores[KeyRisk]
		assert.GreaterOrEqual(t, risk, prev, text)
		assert.GreaterOrEqual(t, risk, 0.0)
		assert.LessOrEqual(t, risk, 100.0)
		prev = risk
	}
}

func TestRiskFromPolarity(t *testing.T) {
	assert.Equal(t, 0.0, RiskFromPolarity(1))
	assert.Equal(t, 50.0, RiskFromPolarity(0))
	assert.Equal(t, 100.0, RiskFromPolarity(-1))
	assert.Equal(t, 100.0, RiskFromPolarity(-5))
	assert.Equal(t, 0.0, RiskFromPolarity(5))
}

func TestVaderScorerOrdersSentiment(t *testing.T) {
	positive := "This food is excellent, wonderful and very healthy. Great choice!"
	negative := "This food is terrible, harmful and dangerous. Awful choice!"

	rule := SentimentRisk{Scorer: NewVaderScorer()}
	low := Extract(positive, rule).Scores[KeyRisk]
	high := Extract(negative, rule).Scores[KeyRisk]

	assert.Less(t, low, high)
}

func TestNumberedFoods(t *testing.T) {
	raw := "## Foods to eat\n1. Oatmeal: high in fibre\n2. Salmon: omega-3\n1. Spinach: iron\n1. no colon here\n 1. Indented: skipped"
	f := Extract(raw, NumberedFoods{Key: KeyFoods})
	assert.Equal(t, []string{"Oatmeal: high in fibre", "Spinach: iron"}, f.Lists[KeyFoods])
}

func TestLines(t *testing.T) {
	f := Extract("  Short-term, walk daily, steps, 8000\n\n\tLong-term, lose weight, kg, 70  \n", Lines{Key: KeyRoadmap})
	assert.Equal(t, []string{"Short-term, walk daily, steps, 8000", "Long-term, lose weight, kg, 70"}, f.Lists[KeyRoadmap])
}

func TestWordCount(t *testing.T) {
	f := Extract("Safe in moderation.\n  Keep under 25g daily. ", WordCount{Key: KeyWords})
	assert.Equal(t, 7.0, f.Scores[KeyWords])
}

type panicRule struct{}

func (panicRule) Name() string { return "panic" }
func (panicRule) Apply(string, domain.ExtractedFields) { panic("boom") }

func TestExtractAllSurvivesPanickingRule(t *testing.T) {
	f := ExtractAll("Most likely diseases: gout", panicRule{}, DelimitedList{Marker: "Most likely diseases", Key: KeyDiseases})
	assert.Equal(t, []string{"gout"}, f.Lists[KeyDiseases])
}

func TestRulesForEveryTemplate(t *testing.T) {
	for _, id := range domain.Templates {
		rules := RulesFor(id, nil)
		require.NotEmpty(t, rules, id)
		f := ExtractAll("", rules...)
		assert.NotNil(t, f.Scores)
		assert.NotNil(t, f.Lists)
		assert.NotNil(t, f.Labels)
	}
	assert.Nil(t, RulesFor("unknown", nil))
}

func TestFoodRiskRulesEndToEnd(t *testing.T) {
	raw := "1. Risks...\nCardiovascular health: 3\nBlood sugar levels: 2\nMost likely diseases: diabetes, hypertension"
	scorer := ScorerFunc(func(string) float64 { return 0 })
	f := ExtractAll(raw, RulesFor(domain.TemplateFoodRisk, scorer)...)

	assert.Equal(t, []string{"diabetes", "hypertension"}, f.Lists[KeyDiseases])
	assert.Equal(t, 3.0, f.Scores["Cardiovascular health"])
	assert.Equal(t, 2.0, f.Scores["Blood sugar levels"])
	assert.Equal(t, 50.0, f.Scores[KeyRisk])
}
