package web

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vbonduro/foodlens/internal/diet"
	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/generate"
	"github.com/vbonduro/foodlens/internal/lookup"
	"github.com/vbonduro/foodlens/internal/prompt"
	"github.com/vbonduro/foodlens/internal/service"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrEmptySubject, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", prompt.ErrUnknownTemplate, "x"), http.StatusNotFound},
		{lookup.ErrEmptyImage, http.StatusBadRequest},
		{fmt.Errorf("%w: age", diet.ErrInvalidProfile), http.StatusBadRequest},
		{fmt.Errorf("%w: %w", service.ErrLookupFailed, lookup.ErrNoText), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: %w", service.ErrLookupFailed, &lookup.OCRError{Message: "bad file"}), http.StatusBadGateway},
		{&generate.GenerationError{Backend: "claude", Err: errors.New("overloaded")}, http.StatusBadGateway},
		{service.ErrHistoryDisabled, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestUserMessageHidesInternalErrors(t *testing.T) {
	assert.Equal(t, "Something went wrong. Please try again.", userMessage(errors.New("sql: locked"), http.StatusInternalServerError))
	assert.Equal(t, "quota", userMessage(errors.New("quota"), http.StatusBadGateway))
}

func TestSplitItems(t *testing.T) {
	assert.Equal(t, []string{"cheese", "tomato", "basil"}, splitItems(" cheese, tomato\n basil ,, "))
	assert.Nil(t, splitItems("  "))
}

func TestBarWidth(t *testing.T) {
	bar := domain.Chart{Kind: domain.ChartBar, Max: 10}
	assert.InDelta(t, 40.0, barWidth(bar, 4), 1e-9)
	assert.Equal(t, 100.0, barWidth(bar, 12))
	assert.Equal(t, 0.0, barWidth(bar, -1))

	pie := domain.Chart{Kind: domain.ChartPie, Values: []float64{3, 1}}
	assert.InDelta(t, 75.0, barWidth(pie, 3), 1e-9)
}

func TestGaugeColor(t *testing.T) {
	gauge := func(v float64) domain.Chart {
		return domain.Chart{Kind: domain.ChartGauge, Values: []float64{v}, Colors: []string{"g", "y", "r"}, Max: 100}
	}
	assert.Equal(t, "g", barColor(gauge(10), 0))
	assert.Equal(t, "y", barColor(gauge(50), 0))
	assert.Equal(t, "r", barColor(gauge(90), 0))
	assert.Equal(t, "Risk", chartLabel(gauge(90), 0))
}

func TestSeriesHelpers(t *testing.T) {
	c := domain.Chart{Series: map[string][]float64{"Protein": {5}, "Carbs": {27}, "Fat": {3}}}
	assert.Equal(t, []string{"Carbs", "Fat", "Protein"}, seriesNames(c))
	assert.Equal(t, 27.0, seriesValue(c, "Carbs", 0))
	assert.Equal(t, 0.0, seriesValue(c, "Carbs", 3))
}
