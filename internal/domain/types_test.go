package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalysisRequestValidate(t *testing.T) {
	assert.ErrorIs(t, AnalysisRequest{}.Validate(), ErrEmptySubject)
	assert.ErrorIs(t, AnalysisRequest{SubjectText: "   "}.Validate(), ErrEmptySubject)
	assert.NoError(t, AnalysisRequest{SubjectText: "Pizza"}.Validate())
}

func TestParseFrequency(t *testing.T) {
	assert.Equal(t, FrequencyDaily, ParseFrequency("daily"))
	assert.Equal(t, FrequencyRarely, ParseFrequency(" Rarely "))
	assert.Equal(t, Frequency(""), ParseFrequency("hourly"))
	assert.Equal(t, Frequency(""), ParseFrequency(""))
}

func TestExtractedFieldsMerge(t *testing.T) {
	f := NewExtractedFields()
	f.Scores["a"] = 1
	other := NewExtractedFields()
	other.Scores["a"] = 2
	other.Lists["diseases"] = []string{"diabetes"}

	f.Merge(other)

	assert.Equal(t, 2.0, f.Scores["a"])
	assert.Equal(t, []string{"diabetes"}, f.Lists["diseases"])
}

func TestTemplateValid(t *testing.T) {
	assert.True(t, TemplateFoodRisk.Valid())
	assert.False(t, TemplateID("horoscope").Valid())
	assert.False(t, TemplateDietRecommendation.Valid(), "profile-driven template has no free-text form")
}
