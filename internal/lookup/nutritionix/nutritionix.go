package nutritionix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/lookup"
)

const defaultBaseURL = "https://trackapi.nutritionix.com/v2"

type NutritionixLookup struct {
	appID   string
	apiKey  string
	client  *http.Client
	baseURL string
}

func NewNutritionixLookup(appID, apiKey string) *NutritionixLookup {
	return &NutritionixLookup{
		appID:   appID,
		apiKey:  apiKey,
		client:  &http.Client{},
		baseURL: defaultBaseURL,
	}
}

type nutrientsResponse struct {
	Foods []struct {
		Calories float64 `json:"nf_calories"`
		Protein  float64 `json:"nf_protein"`
		Carbs    float64 `json:"nf_total_carbohydrate"`
		Fat      float64 `json:"nf_total_fat"`
	} `json:"foods"`
}

// Lookup queries the natural-language nutrients endpoint. A non-200 status
// or an empty result means the food is skipped (nil, nil).
func (n *NutritionixLookup) Lookup(ctx context.Context, food string) (*domain.Nutrients, error) {
	if n.appID == "" || n.apiKey == "" {
		return nil, lookup.ErrMissingAPIKey
	}

	payload, err := json.Marshal(map[string]string{"query": food})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL+"/natural/nutrients", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-app-id", n.appID)
	req.Header.Set("x-app-key", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call nutritionix: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("nutritionix skipped food", "food", food, "status", resp.StatusCode)
		return nil, nil
	}

	var body nutrientsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(body.Foods) == 0 {
		return nil, nil
	}

	f := body.Foods[0]
	return &domain.Nutrients{
		Food:     food,
		Calories: f.Calories,
		Protein:  f.Protein,
		Carbs:    f.Carbs,
		Fat:      f.Fat,
	}, nil
}
