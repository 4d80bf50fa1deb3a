// Package prompt renders the fixed instruction templates sent to the
// generation backend. Each template states the output format that the
// matching extraction rules in package extract depend on; changing one
// means changing the other.
package prompt

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/vbonduro/foodlens/internal/domain"
)

var ErrUnknownTemplate = errors.New("unknown prompt template")

// noneListed stands in for an empty item list or a missing category.
const noneListed = "none listed"

const foodRiskText = `As a food safety and health expert, analyze the following food item and its ingredients:

Food Item: {{.Subject}}
Ingredients: {{.Items}}
Consumption Frequency: {{.Category}}

Based on this information, please provide:
1. Potential health risks associated with consuming this food item, especially if consumed in unhealthy amounts.
2. Any concerning ingredients and their specific health impacts.
3. How the consumption frequency might affect the likelihood or severity of these health risks.
4. Rate the impact (0-10 scale) of this food on the following health aspects, one per line:
   - Cardiovascular health: [score]
   - Blood sugar levels: [score]
   - Weight management: [score]
   - Digestive health: [score]
   - Nutrient balance: [score]
5. List the diseases on a single line in the format "Most likely diseases: disease1, disease2, ..."

Present your analysis in a structured, easy-to-read format with numbered sections.`

const foodImageScoreText = `Food: {{.Subject}}
- List the main ingredients in this food item.
- For each ingredient, provide a health score from 0 to 10 (0 being very unhealthy, 10 being very healthy).
- Finally, provide an overall assessment of whether the food is considered safe or unsafe based on the ingredients.
Please structure the response as follows:
Ingredients: <ingredient1>|<ingredient2>|<ingredient3>...
Health Scores: <score1>|<score2>|<score3>...
Overall Food Health: <safe/unsafe>`

const ingredientOCRText = `Analyze the following list of ingredients:
{{.Subject}}

Provide information on:
1. Safety for consumption
2. Health benefits or concerns
3. Potential allergens
4. Nutritional value
5. Any other relevant details

Also, categorize each ingredient as either 'healthy' or 'potentially concerning'.
At the end, provide a count of healthy ingredients and potentially concerning ingredients in the format:
HEALTHY_COUNT: X
CONCERNING_COUNT: Y`

const ingredientQuantityText = `As a food safety and health expert, analyze the following ingredient and its quantity:

Ingredient: {{.Subject}}
Quantity: {{.First}}

Based on this information, please provide:
1. Whether the quantity is safe for consumption.
2. Potential health risks if this quantity is regularly consumed.
3. Safe limits for this ingredient and recommended adjustments if needed.`

const dietPlanText = `Create a concise, visually-friendly diet plan for someone with: {{.Subject}}
Other considerations: {{.Items}}

Provide:
1. Top 5 foods to eat (as a list, each line formatted "1. Food: reason")
2. Top 5 foods to avoid (as a list)
3. 3 key supplements (if any)
4. 3 lifestyle tips
5. Recommended daily calorie intake

Format in Markdown, keep it brief and easy to read.`

const healthRoadmapText = `Create a health improvement roadmap for: {{.Subject}}

Provide 3 goals each for:
1. Short-term (1-3 months)
2. Medium-term (3-6 months)
3. Long-term (6-12 months)

For each goal, also provide:
- A metric to measure progress (e.g., weight, blood pressure, energy level)
- A target value for that metric

Format as a list of 9 items, one per line, each containing: time frame, goal, metric, target value.`

var templates = map[domain.TemplateID]*template.Template{
	domain.TemplateFoodRisk:           mustParse(domain.TemplateFoodRisk, foodRiskText),
	domain.TemplateFoodImageScore:     mustParse(domain.TemplateFoodImageScore, foodImageScoreText),
	domain.TemplateIngredientOCR:      mustParse(domain.TemplateIngredientOCR, ingredientOCRText),
	domain.TemplateIngredientQuantity: mustParse(domain.TemplateIngredientQuantity, ingredientQuantityText),
	domain.TemplateDietPlan:           mustParse(domain.TemplateDietPlan, dietPlanText),
	domain.TemplateHealthRoadmap:      mustParse(domain.TemplateHealthRoadmap, healthRoadmapText),
}

func mustParse(id domain.TemplateID, text string) *template.Template {
	return template.Must(template.New(string(id)).Parse(text))
}

// data is the view handed to every template. User text is interpolated as-is.
type data struct {
	Subject  string
	Items    string
	First    string
	Category string
}

func newData(req domain.AnalysisRequest) data {
	d := data{
		Subject:  strings.TrimSpace(req.SubjectText),
		Items:    noneListed,
		First:    noneListed,
		Category: noneListed,
	}
	var items []string
	for _, it := range req.Items {
		if it = strings.TrimSpace(it); it != "" {
			items = append(items, it)
		}
	}
	if len(items) > 0 {
		d.Items = strings.Join(items, ", ")
		d.First = items[0]
	}
	if req.Category != "" {
		d.Category = string(req.Category)
	}
	return d
}

// Build renders the template id for req. It fails only on an empty subject
// or an id outside the fixed template set.
func Build(id domain.TemplateID, req domain.AnalysisRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	tmpl, ok := templates[id]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, newData(req)); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", id, err)
	}
	return sb.String(), nil
}
