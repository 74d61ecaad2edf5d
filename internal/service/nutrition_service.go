package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const nutritionResultLimit = 10

var ErrNutritionLookupFailed = errors.New("nutrition lookup failed")

// FoodNutrition is one search hit from the external food database, reduced to
// the fields the meal form needs.
type FoodNutrition struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Calorie float64 `json:"calorie"` // kcal per 100g
}

// NutritionService proxies food searches to the Taiwan FDA FoodNutrient open
// data API. It is stateless; nothing is cached or persisted.
type NutritionService interface {
	SearchFood(ctx context.Context, food string) ([]FoodNutrition, error)
}

type nutritionService struct {
	baseURL string
	client  *http.Client
}

// NewNutritionService creates a new instance of nutritionService.
func NewNutritionService(baseURL string, timeout time.Duration) NutritionService {
	return &nutritionService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// tfdaResponse mirrors the upstream OData envelope: the record array sits
// under a "data" key, not at the top level.
type tfdaResponse struct {
	Data []tfdaRecord `json:"data"`
}

// tfdaRecord is one row of the upstream response. The upstream field names
// are Chinese; numeric fields arrive as JSON strings or numbers depending on
// the row.
type tfdaRecord struct {
	ID      string    `json:"ID"`
	Name    string    `json:"食物名稱"`
	Calorie flexFloat `json:"熱量_kcal"`
}

// flexFloat decodes a JSON number, a quoted number, or garbage. Rows with an
// empty or unparseable value report 0 rather than failing the whole response.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// SearchFood runs a substring search against the upstream API and returns at
// most ten hits.
func (s *nutritionService) SearchFood(ctx context.Context, food string) ([]FoodNutrition, error) {
	if food == "" {
		return nil, ErrValidationFailed
	}

	query := url.Values{}
	query.Set("$filter", fmt.Sprintf("食物名稱 like '*%s*'", food))
	query.Set("$format", "json")
	query.Set("$top", fmt.Sprintf("%d", nutritionResultLimit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build nutrition request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNutritionLookupFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: upstream returned status %d", ErrNutritionLookupFailed, resp.StatusCode)
	}

	var payload tfdaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding upstream response: %v", ErrNutritionLookupFailed, err)
	}

	results := make([]FoodNutrition, 0, nutritionResultLimit)
	for _, record := range payload.Data {
		if len(results) == nutritionResultLimit {
			break
		}
		results = append(results, FoodNutrition{
			ID:      record.ID,
			Name:    record.Name,
			Calorie: float64(record.Calorie),
		})
	}
	return results, nil
}
