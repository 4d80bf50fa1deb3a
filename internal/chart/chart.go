// Package chart turns extracted fields into render requests. Everything here
// is pure: no I/O, and every input (including empty ones) yields a chart.
package chart

import (
	"sort"

	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/extract"
)

const (
	ColorHealthy   = "#10B981"
	ColorModerate  = "#F59E0B"
	ColorUnhealthy = "#EF4444"
	colorBar       = "teal"
)

// HealthCategory buckets a 0-10 ingredient score.
func HealthCategory(score float64) (string, string) {
	switch {
	case score >= 7:
		return "Healthy", ColorHealthy
	case score >= 4:
		return "Moderate", ColorModerate
	default:
		return "Unhealthy", ColorUnhealthy
	}
}

// RiskGauge draws the 0-100 overall risk with low/medium/high bands.
func RiskGauge(risk float64) domain.Chart {
	return domain.Chart{
		Kind:   domain.ChartGauge,
		Title:  "Overall Health Risk",
		Labels: []string{"Low", "Medium", "High"},
		Values: []float64{risk},
		Colors: []string{"lightgreen", "yellow", "red"},
		Min:    0,
		Max:    100,
	}
}

// ImpactRadar plots 0-10 impact scores. Axes are sorted by name since the
// source map has no order.
func ImpactRadar(scores map[string]float64) domain.Chart {
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]float64, len(names))
	for i, name := range names {
		values[i] = scores[name]
	}
	return domain.Chart{
		Kind:   domain.ChartRadar,
		Title:  "Health Impact Assessment",
		Labels: names,
		Values: values,
		Min:    0,
		Max:    10,
	}
}

// DiseaseBar counts how often each disease was mentioned, keeping the order
// in which diseases first appear.
func DiseaseBar(diseases []string) domain.Chart {
	labels := []string{}
	values := []float64{}
	index := make(map[string]int, len(diseases))
	for _, d := range diseases {
		if i, ok := index[d]; ok {
			values[i]++
			continue
		}
		index[d] = len(labels)
		labels = append(labels, d)
		values = append(values, 1)
	}

	var max float64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	return domain.Chart{
		Kind:   domain.ChartHBar,
		Title:  "Frequency of Potential Diseases Mentioned",
		Labels: labels,
		Values: values,
		Colors: []string{colorBar},
		Max:    max,
	}
}

// HealthScores draws one bar per ingredient coloured by HealthCategory.
// Ingredients without a score are left out.
func HealthScores(names []string, scores map[string]float64) domain.Chart {
	c := domain.Chart{
		Kind:   domain.ChartBar,
		Title:  "Ingredient Health Scores",
		Labels: []string{},
		Values: []float64{},
		Colors: []string{},
		Max:    10,
	}
	for _, name := range names {
		score, ok := scores[name]
		if !ok {
			continue
		}
		_, color := HealthCategory(score)
		c.Labels = append(c.Labels, name)
		c.Values = append(c.Values, score)
		c.Colors = append(c.Colors, color)
	}
	return c
}

func HealthPie(healthy, concerning float64) domain.Chart {
	return domain.Chart{
		Kind:   domain.ChartPie,
		Title:  "Ingredient Health Breakdown",
		Labels: []string{"Healthy", "Potentially Concerning"},
		Values: []float64{healthy, concerning},
		Colors: []string{"#66b3ff", "#ff9999"},
	}
}

// NutrientBars groups protein, carbs and fat per food.
func NutrientBars(nutrients []domain.Nutrients) domain.Chart {
	c := domain.Chart{
		Kind:   domain.ChartGroupedBar,
		Title:  "Nutrient Composition of Recommended Foods",
		Labels: []string{},
		Series: map[string][]float64{"Protein": {}, "Carbs": {}, "Fat": {}},
	}
	for _, n := range nutrients {
		c.Labels = append(c.Labels, n.Food)
		c.Series["Protein"] = append(c.Series["Protein"], n.Protein)
		c.Series["Carbs"] = append(c.Series["Carbs"], n.Carbs)
		c.Series["Fat"] = append(c.Series["Fat"], n.Fat)
		c.Values = append(c.Values, n.Calories)
	}
	return c
}

// SafetyBars charts one value per ingredient in the given order. The
// quantity check feeds it the word count of each analysis.
func SafetyBars(names []string, values map[string]float64) domain.Chart {
	c := domain.Chart{
		Kind:   domain.ChartBar,
		Title:  "Ingredient Safety Analysis",
		Labels: []string{},
		Values: []float64{},
		Colors: []string{colorBar},
	}
	for _, name := range names {
		v := values[name]
		c.Labels = append(c.Labels, name)
		c.Values = append(c.Values, v)
		if v > c.Max {
			c.Max = v
		}
	}
	return c
}

// For returns the charts a template's report shows.
func For(id domain.TemplateID, f domain.ExtractedFields, nutrients []domain.Nutrients) []domain.Chart {
	switch id {
	case domain.TemplateFoodRisk:
		impacts := make(map[string]float64, len(f.Scores))
		for k, v := range f.Scores {
			if k != extract.KeyRisk {
				impacts[k] = v
			}
		}
		return []domain.Chart{
			RiskGauge(f.Scores[extract.KeyRisk]),
			ImpactRadar(impacts),
			DiseaseBar(f.Lists[extract.KeyDiseases]),
		}
	case domain.TemplateFoodImageScore:
		return []domain.Chart{HealthScores(f.Lists[extract.KeyIngredients], f.Scores)}
	case domain.TemplateIngredientOCR:
		return []domain.Chart{HealthPie(f.Scores[extract.KeyHealthy], f.Scores[extract.KeyConcerning])}
	case domain.TemplateDietPlan:
		if len(nutrients) == 0 {
			return nil
		}
		return []domain.Chart{NutrientBars(nutrients)}
	default:
		return nil
	}
}
