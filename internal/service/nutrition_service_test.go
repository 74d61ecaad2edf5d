package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFoodMapsUpstreamRecords(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Query().Get("$filter"), "雞胸肉")
		assert.Equal(t, "json", r.URL.Query().Get("$format"))

		w.Header().Set("Content-Type", "application/json")
		// Calorie arrives as a string in some rows and a number in others.
		_, _ = w.Write([]byte(`{"data": [
			{"ID": "A01", "食物名稱": "雞胸肉(生)", "熱量_kcal": "104"},
			{"ID": "A02", "食物名稱": "雞胸肉(熟)", "熱量_kcal": 175.5}
		]}`))
	}))
	defer upstream.Close()

	svc := NewNutritionService(upstream.URL, 5*time.Second)
	results, err := svc.SearchFood(context.Background(), "雞胸肉")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "A01", results[0].ID)
	assert.Equal(t, "雞胸肉(生)", results[0].Name)
	assert.Equal(t, 104.0, results[0].Calorie)
	assert.Equal(t, 175.5, results[1].Calorie)
}

func TestSearchFoodCapsResults(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		body := `{"data": [`
		for i := 0; i < 15; i++ {
			if i > 0 {
				body += ","
			}
			body += `{"ID": "X", "食物名稱": "米飯", "熱量_kcal": "100"}`
		}
		body += `]}`
		_, _ = w.Write([]byte(body))
	}))
	defer upstream.Close()

	svc := NewNutritionService(upstream.URL, 5*time.Second)
	results, err := svc.SearchFood(context.Background(), "米飯")
	require.NoError(t, err)
	assert.Len(t, results, 10)
}

func TestSearchFoodUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer upstream.Close()

	svc := NewNutritionService(upstream.URL, 5*time.Second)
	_, err := svc.SearchFood(context.Background(), "apple")
	require.ErrorIs(t, err, ErrNutritionLookupFailed)
}

func TestSearchFoodEmptyQuery(t *testing.T) {
	svc := NewNutritionService("http://localhost:0", time.Second)
	_, err := svc.SearchFood(context.Background(), "")
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestSearchFoodUnparseableCalorieBecomesZero(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data": [{"ID": "B01", "食物名稱": "海帶", "熱量_kcal": ""}]}`))
	}))
	defer upstream.Close()

	svc := NewNutritionService(upstream.URL, 5*time.Second)
	results, err := svc.SearchFood(context.Background(), "海帶")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 0.0, results[0].Calorie)
}
