// Package extract pulls quasi-structured fields out of free-text model
// output. Every rule is best-effort: a missing or malformed marker leaves
// its field at the documented default and never produces an error.
package extract

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/vbonduro/foodlens/internal/domain"
)

// Field keys shared with package chart.
const (
	KeyHealthy     = "healthy"
	KeyConcerning  = "concerning"
	KeyDiseases    = "diseases"
	KeyIngredients = "ingredients"
	KeyOverall     = "overall"
	KeyRisk        = "risk"
	KeyFoods       = "foods"
	KeyRoadmap     = "roadmap"
	KeyWords       = "words"
)

// Rule applies one extraction heuristic. Rules write into f and may read
// what earlier rules in the same run stored there.
type Rule interface {
	Name() string
	Apply(raw string, f domain.ExtractedFields)
}

// Extract runs a single rule over raw.
func Extract(raw string, rule Rule) domain.ExtractedFields {
	return ExtractAll(raw, rule)
}

// ExtractAll runs rules in order over raw and returns the combined fields.
// A rule that panics is logged and skipped.
func ExtractAll(raw string, rules ...Rule) domain.ExtractedFields {
	f := domain.NewExtractedFields()
	for _, r := range rules {
		apply(raw, r, f)
	}
	return f
}

func apply(raw string, r Rule, f domain.ExtractedFields) {
	defer func() {
		if p := recover(); p != nil {
			slog.Warn("extraction rule panicked", "rule", r.Name(), "panic", p)
		}
	}()
	r.Apply(raw, f)
}

// markerLine returns the text after the first ':' on the first line whose
// leading text (ignoring markdown bullets and emphasis) starts with marker.
func markerLine(raw, marker string) (string, bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimLeft(strings.TrimSpace(line), "*#->• ")
		if len(line) < len(marker) || !strings.EqualFold(line[:len(marker)], marker) {
			continue
		}
		_, after, ok := strings.Cut(line[len(marker):], ":")
		if !ok {
			continue
		}
		return strings.TrimSpace(strings.TrimLeft(after, "*")), true
	}
	return "", false
}

var itemCutset = " \t\r[](){}*\"'."

func cleanItem(s string) string {
	return normalize(strings.Trim(s, itemCutset))
}

var wordRe = regexp.MustCompile(`\S+`)

func countWords(s string) int {
	return len(wordRe.FindAllStringIndex(s, -1))
}
