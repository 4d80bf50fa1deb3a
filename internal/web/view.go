package web

import (
	"sort"

	"github.com/vbonduro/foodlens/internal/domain"
)

var templateTitles = map[domain.TemplateID]string{
	domain.TemplateFoodRisk:           "Food Risk Analysis",
	domain.TemplateFoodImageScore:     "Food Health Score",
	domain.TemplateIngredientOCR:      "Ingredient Label Analysis",
	domain.TemplateIngredientQuantity: "Ingredient Safety Check",
	domain.TemplateDietPlan:           "Diet Plan",
	domain.TemplateHealthRoadmap:      "Health Roadmap",
	domain.TemplateDietRecommendation: "Diet Recommendation",
}

var subjectLabels = map[domain.TemplateID]string{
	domain.TemplateFoodRisk:       "Food",
	domain.TemplateFoodImageScore: "Dish",
	domain.TemplateIngredientOCR:  "Ingredient list",
	domain.TemplateDietPlan:       "Health condition",
	domain.TemplateHealthRoadmap:  "Health goal or condition",
}

// formTemplates are the templates with a plain text form on the index page.
var formTemplates = []domain.TemplateID{
	domain.TemplateFoodRisk,
	domain.TemplateFoodImageScore,
	domain.TemplateIngredientOCR,
	domain.TemplateDietPlan,
	domain.TemplateHealthRoadmap,
}

func templateTitle(id domain.TemplateID) string {
	if t, ok := templateTitles[id]; ok {
		return t
	}
	return string(id)
}

func subjectLabel(id domain.TemplateID) string {
	if l, ok := subjectLabels[id]; ok {
		return l
	}
	return "Subject"
}

func chartLabel(c domain.Chart, i int) string {
	if c.Kind == domain.ChartGauge {
		return "Risk"
	}
	if i < len(c.Labels) {
		return c.Labels[i]
	}
	return ""
}

// barWidth scales v to a percentage of the chart's range. Pies without a
// range are scaled against their total.
func barWidth(c domain.Chart, v float64) float64 {
	max := c.Max
	if max <= 0 {
		for _, x := range c.Values {
			max += x
		}
	}
	if max <= 0 || v <= 0 {
		return 0
	}
	if v >= max {
		return 100
	}
	return v / max * 100
}

func barColor(c domain.Chart, i int) string {
	switch {
	case c.Kind == domain.ChartGauge:
		return gaugeColor(c)
	case len(c.Colors) == 0:
		return "teal"
	case len(c.Colors) == 1:
		return c.Colors[0]
	case i < len(c.Colors):
		return c.Colors[i]
	default:
		return c.Colors[len(c.Colors)-1]
	}
}

// gaugeColor picks the band colour for the gauge's value.
func gaugeColor(c domain.Chart) string {
	if len(c.Values) == 0 || len(c.Colors) < 3 {
		return "teal"
	}
	span := c.Max - c.Min
	if span <= 0 {
		return c.Colors[0]
	}
	switch v := (c.Values[0] - c.Min) / span; {
	case v < 1.0/3:
		return c.Colors[0]
	case v < 2.0/3:
		return c.Colors[1]
	default:
		return c.Colors[2]
	}
}

func seriesNames(c domain.Chart) []string {
	names := make([]string, 0, len(c.Series))
	for name := range c.Series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func seriesValue(c domain.Chart, name string, i int) float64 {
	row := c.Series[name]
	if i < len(row) {
		return row[i]
	}
	return 0
}
