package extract

import (
	"sync"

	"github.com/jonreiter/govader"
	"golang.org/x/text/unicode/norm"
)

// Scorer returns a sentiment polarity in [-1, 1] for text.
type Scorer interface {
	Polarity(text string) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(text string) float64

func (f ScorerFunc) Polarity(text string) float64 { return f(text) }

// VaderScorer scores text with the VADER lexicon and reports the compound
// score, which is already normalised to [-1, 1].
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Polarity(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}

var (
	defaultScorerOnce sync.Once
	defaultScorer     Scorer
)

// DefaultScorer returns a process-wide VaderScorer. The lexicon is loaded on
// first use.
func DefaultScorer() Scorer {
	defaultScorerOnce.Do(func() {
		defaultScorer = NewVaderScorer()
	})
	return defaultScorer
}

// normalize folds compatibility characters (full-width letters, ligatures,
// non-breaking spaces) so extracted labels compare equal across models.
func normalize(s string) string {
	return norm.NFKC.String(s)
}
