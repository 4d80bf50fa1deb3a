package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/vbonduro/foodlens/internal/domain"
)

// SentinelCount reads an integer from a "Label: N" line. A miss stores 0.
type SentinelCount struct {
	Label string
	Key   string
}

func (r SentinelCount) Name() string { return "sentinel:" + r.Label }

func (r SentinelCount) Apply(raw string, f domain.ExtractedFields) {
	f.Scores[r.Key] = float64(sentinel(raw, r.Label))
}

func sentinel(raw, label string) int {
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(label) + `:\s*(\d+)`)
	if err != nil {
		return 0
	}
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// HealthyConcerning counts healthy and concerning ingredients. It prefers
// the HEALTHY_COUNT/CONCERNING_COUNT sentinels, falls back to counting the
// words in the text, and finally forces healthy to 1 so a pie is drawable.
type HealthyConcerning struct{}

func (HealthyConcerning) Name() string { return "healthy_concerning" }

func (HealthyConcerning) Apply(raw string, f domain.ExtractedFields) {
	healthy := sentinel(raw, "HEALTHY_COUNT")
	concerning := sentinel(raw, "CONCERNING_COUNT")
	if healthy == 0 && concerning == 0 {
		lower := strings.ToLower(raw)
		healthy = strings.Count(lower, "healthy")
		concerning = strings.Count(lower, "concerning")
	}
	if healthy == 0 && concerning == 0 {
		healthy = 1
	}
	f.Scores[KeyHealthy] = float64(healthy)
	f.Scores[KeyConcerning] = float64(concerning)
}

var listSplitRe = regexp.MustCompile(`,|\band\b|\n`)

// DelimitedList reads the list following "Marker ...:" and splits it on
// commas, the word "and" and newlines. A miss stores an empty list.
type DelimitedList struct {
	Marker string
	Key    string
}

func (r DelimitedList) Name() string { return "list:" + r.Marker }

func (r DelimitedList) Apply(raw string, f domain.ExtractedFields) {
	out := []string{}
	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(r.Marker) + `.*?:\s*(.*)`)
	if err == nil {
		if m := re.FindStringSubmatch(raw); m != nil {
			for _, part := range listSplitRe.Split(m[1], -1) {
				if item := cleanItem(part); item != "" {
					out = append(out, item)
				}
			}
		}
	}
	f.Lists[r.Key] = out
}

// PipeList reads "Marker: a|b|c".
type PipeList struct {
	Marker string
	Key    string
}

func (r PipeList) Name() string { return "pipe_list:" + r.Marker }

func (r PipeList) Apply(raw string, f domain.ExtractedFields) {
	out := []string{}
	if line, ok := markerLine(raw, r.Marker); ok {
		for _, part := range strings.Split(line, "|") {
			if item := cleanItem(part); item != "" {
				out = append(out, item)
			}
		}
	}
	f.Lists[r.Key] = out
}

// PipeScores reads "Marker: 8|3|5" and stores each score under the name at
// the same position in Lists[NamesKey]. Run it after the PipeList that fills
// the names. Non-numeric entries are skipped.
type PipeScores struct {
	Marker   string
	NamesKey string
}

func (r PipeScores) Name() string { return "pipe_scores:" + r.Marker }

func (r PipeScores) Apply(raw string, f domain.ExtractedFields) {
	line, ok := markerLine(raw, r.Marker)
	if !ok {
		return
	}
	names := f.Lists[r.NamesKey]
	for i, part := range strings.Split(line, "|") {
		if i >= len(names) {
			break
		}
		v, err := strconv.ParseFloat(strings.Trim(part, itemCutset), 64)
		if err != nil {
			continue
		}
		f.Scores[names[i]] = v
	}
}

// LabelLine stores the text after "Marker:" as a label.
type LabelLine struct {
	Marker string
	Key    string
}

func (r LabelLine) Name() string { return "label:" + r.Marker }

func (r LabelLine) Apply(raw string, f domain.ExtractedFields) {
	if line, ok := markerLine(raw, r.Marker); ok {
		if v := cleanItem(line); v != "" {
			f.Labels[r.Key] = v
		}
	}
}

// maxImpactScore is the top of the 0-10 impact scale; larger values are
// assumed to be something else (years, grams) and dropped.
const maxImpactScore = 10

var scorePairRe = regexp.MustCompile(`(\w+(?:[ \t]+\w+)*)\**[ \t]*:[ \t]*\**\[?(\d+)`)

// ScoreList scans the whole text for "<phrase>: <integer>" pairs. Pairs
// above 10 are dropped and a repeated phrase keeps its last value.
type ScoreList struct{}

func (ScoreList) Name() string { return "score_list" }

func (ScoreList) Apply(raw string, f domain.ExtractedFields) {
	for _, m := range scorePairRe.FindAllStringSubmatch(raw, -1) {
		v, err := strconv.Atoi(m[2])
		if err != nil || v > maxImpactScore {
			continue
		}
		f.Scores[normalize(strings.TrimSpace(m[1]))] = float64(v)
	}
}

// SentimentRisk turns text polarity into a 0-100 risk number:
// risk = 100 - clamp((polarity+1)/2*100, 0, 100). This is a heuristic proxy
// that assumes more positive text means lower risk.
type SentimentRisk struct {
	Scorer Scorer
}

func (SentimentRisk) Name() string { return "sentiment_risk" }

func (r SentimentRisk) Apply(raw string, f domain.ExtractedFields) {
	scorer := r.Scorer
	if scorer == nil {
		scorer = DefaultScorer()
	}
	f.Scores[KeyRisk] = RiskFromPolarity(scorer.Polarity(raw))
}

func RiskFromPolarity(p float64) float64 {
	if math.IsNaN(p) {
		p = 0
	}
	scaled := math.Min(math.Max((p+1)/2*100, 0), 100)
	return 100 - scaled
}

// NumberedFoods collects recommended foods from a diet plan: lines starting
// with "1." that contain ": ", keeping the text after "1. ".
type NumberedFoods struct {
	Key string
}

func (NumberedFoods) Name() string { return "numbered_foods" }

func (r NumberedFoods) Apply(raw string, f domain.ExtractedFields) {
	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		if !strings.HasPrefix(line, "1.") || !strings.Contains(line, ": ") {
			continue
		}
		_, after, ok := strings.Cut(line, ". ")
		if !ok {
			continue
		}
		if item := strings.TrimSpace(after); item != "" {
			out = append(out, normalize(item))
		}
	}
	f.Lists[r.Key] = out
}

// Lines keeps every non-empty trimmed line.
type Lines struct {
	Key string
}

func (Lines) Name() string { return "lines" }

func (r Lines) Apply(raw string, f domain.ExtractedFields) {
	out := []string{}
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	f.Lists[r.Key] = out
}

// WordCount stores the number of whitespace-separated words under
// Scores[Key]. The quantity page charts it as a stand-in safety score.
type WordCount struct {
	Key string
}

func (WordCount) Name() string { return "word_count" }

func (r WordCount) Apply(raw string, f domain.ExtractedFields) {
	f.Scores[r.Key] = float64(countWords(raw))
}

// RulesFor returns the rule set matching the output format each template's
// prompt asks for. A nil scorer selects DefaultScorer.
func RulesFor(id domain.TemplateID, scorer Scorer) []Rule {
	switch id {
	case domain.TemplateFoodRisk:
		return []Rule{
			ScoreList{},
			DelimitedList{Marker: "Most likely diseases", Key: KeyDiseases},
			SentimentRisk{Scorer: scorer},
		}
	case domain.TemplateFoodImageScore:
		return []Rule{
			PipeList{Marker: "Ingredients", Key: KeyIngredients},
			PipeScores{Marker: "Health Scores", NamesKey: KeyIngredients},
			LabelLine{Marker: "Overall Food Health", Key: KeyOverall},
		}
	case domain.TemplateIngredientOCR:
		return []Rule{HealthyConcerning{}}
	case domain.TemplateIngredientQuantity:
		return []Rule{WordCount{Key: KeyWords}}
	case domain.TemplateDietPlan:
		return []Rule{NumberedFoods{Key: KeyFoods}}
	case domain.TemplateHealthRoadmap:
		return []Rule{Lines{Key: KeyRoadmap}}
	default:
		return nil
	}
}
