package domain

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptySubject is returned when a request is issued without subject text.
var ErrEmptySubject = errors.New("subject text is required")

// TemplateID names one of the fixed prompt templates.
type TemplateID string

const (
	TemplateDietPlan           TemplateID = "diet_plan"
	TemplateHealthRoadmap      TemplateID = "health_roadmap"
	TemplateFoodRisk           TemplateID = "food_risk"
	TemplateIngredientQuantity TemplateID = "ingredient_quantity"
	TemplateFoodImageScore     TemplateID = "food_image_score"
	TemplateIngredientOCR      TemplateID = "ingredient_ocr"
	// TemplateDietRecommendation is rendered from a diet profile rather than
	// free text, so it is not part of Templates.
	TemplateDietRecommendation TemplateID = "diet_recommendation"
)

// Templates lists every free-text template in display order.
var Templates = []TemplateID{
	TemplateFoodRisk,
	TemplateFoodImageScore,
	TemplateIngredientOCR,
	TemplateIngredientQuantity,
	TemplateDietPlan,
	TemplateHealthRoadmap,
}

// Valid reports whether t is one of the free-text templates.
func (t TemplateID) Valid() bool {
	for _, id := range Templates {
		if id == t {
			return true
		}
	}
	return false
}

// Frequency is the optional consumption-frequency label attached to a request.
type Frequency string

const (
	FrequencyRarely       Frequency = "Rarely"
	FrequencyOccasionally Frequency = "Occasionally"
	FrequencyRegularly    Frequency = "Regularly"
	FrequencyFrequently   Frequency = "Frequently"
	FrequencyDaily        Frequency = "Daily"
)

var Frequencies = []Frequency{
	FrequencyRarely,
	FrequencyOccasionally,
	FrequencyRegularly,
	FrequencyFrequently,
	FrequencyDaily,
}

// ParseFrequency matches s case-insensitively against the known labels.
// Unknown or empty input yields "" (not supplied).
func ParseFrequency(s string) Frequency {
	s = strings.TrimSpace(s)
	for _, f := range Frequencies {
		if strings.EqualFold(string(f), s) {
			return f
		}
	}
	return ""
}

type AnalysisRequest struct {
	SubjectText string    `json:"subject"`
	Items       []string  `json:"items"`
	Category    Frequency `json:"category,omitempty"`
}

func (r AnalysisRequest) Validate() error {
	if strings.TrimSpace(r.SubjectText) == "" {
		return ErrEmptySubject
	}
	return nil
}

// ExtractedFields holds whatever the extraction rules could pull out of a
// model response. Maps are never nil; a missing marker leaves a key absent.
type ExtractedFields struct {
	Scores map[string]float64  `json:"scores"`
	Lists  map[string][]string `json:"lists"`
	Labels map[string]string   `json:"labels"`
}

func NewExtractedFields() ExtractedFields {
	return ExtractedFields{
		Scores: make(map[string]float64),
		Lists:  make(map[string][]string),
		Labels: make(map[string]string),
	}
}

// Merge copies other into f. Keys present in both take other's value.
func (f ExtractedFields) Merge(other ExtractedFields) {
	for k, v := range other.Scores {
		f.Scores[k] = v
	}
	for k, v := range other.Lists {
		f.Lists[k] = v
	}
	for k, v := range other.Labels {
		f.Labels[k] = v
	}
}

type ChartKind string

const (
	ChartGauge      ChartKind = "gauge"
	ChartRadar      ChartKind = "radar"
	ChartBar        ChartKind = "bar"
	ChartHBar       ChartKind = "hbar"
	ChartPie        ChartKind = "pie"
	ChartGroupedBar ChartKind = "grouped_bar"
)

// Chart is a render request: the web layer turns it into a plot.
type Chart struct {
	Kind   ChartKind `json:"kind"`
	Title  string    `json:"title"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
	Colors []string  `json:"colors,omitempty"`
	// Series carries additional value rows for grouped charts, keyed by name.
	Series map[string][]float64 `json:"series,omitempty"`
	Min    float64              `json:"min"`
	Max    float64              `json:"max"`
}

type Nutrients struct {
	Food     string  `json:"food"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// Report is the finished output of one pipeline run.
type Report struct {
	ID        string          `json:"id"`
	Template  TemplateID      `json:"template"`
	Request   AnalysisRequest `json:"request"`
	RawText   string          `json:"raw_text"`
	Fields    ExtractedFields `json:"fields"`
	Charts    []Chart         `json:"charts"`
	PhotoURL  string          `json:"photo_url,omitempty"`
	PhotoKey  string          `json:"photo_key,omitempty"`
	Nutrients []Nutrients     `json:"nutrients,omitempty"`
	// Sections holds per-item sub-analyses (one per ingredient for quantity checks).
	Sections  []Section `json:"sections,omitempty"`
	Warnings  []string  `json:"warnings,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Section struct {
	Title   string `json:"title"`
	RawText string `json:"raw_text"`
}
