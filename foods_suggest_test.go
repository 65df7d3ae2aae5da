package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

// suggestMock is a stand-in OpenAI server. It records the system prompt of
// the last request and answers with the configured status and body.
type suggestMock struct {
	status       int
	body         any
	systemPrompt string
}

// setupSuggestTest creates a Gin engine wired to a mock OpenAI server. No
// store is needed: suggestions are never saved.
func setupSuggestTest(t *testing.T) (*gin.Engine, *suggestMock) {
	t.Helper()
	mock := &suggestMock{status: http.StatusOK}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && len(req.Messages) > 0 {
			mock.systemPrompt = req.Messages[0].Content
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(mock.status)
		json.NewEncoder(w).Encode(mock.body)
	}))
	t.Cleanup(server.Close)
	t.Setenv("OPENAI_API_KEY", "test-key")

	gin.SetMode(gin.TestMode)
	h := Handler{openAIBaseURL: server.URL}
	router := gin.New()
	// Skip auth middleware for tests; set a dummy user_id.
	router.POST("/api/foods/suggest", func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Next()
	}, h.suggestFood)

	return router, mock
}

// doSuggestRequest sends a POST to the suggest endpoint with the given body.
func doSuggestRequest(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/api/foods/suggest", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// openAIChatResponse wraps a content string in the OpenAI chat completions
// response shape (choices[0].message.content).
func openAIChatResponse(content string) map[string]any {
	return map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	}
}

type suggestResponse struct {
	Suggestion foodSuggestion `json:"suggestion"`
	Check      struct {
		Valid              bool `json:"valid"`
		CalculatedCalories int  `json:"calculated_calories"`
	} `json:"check"`
	Error string `json:"error"`
}

func TestSuggestFood_Per100gSuccess(t *testing.T) {
	router, mock := setupSuggestTest(t)
	mock.body = openAIChatResponse(`{"name":"Dry Rice","protein":7,"fats":0.6,"carbs":78,"calories":360,"confidence":5}`)

	w := doSuggestRequest(router, `{"description":"white rice, uncooked"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp suggestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Suggestion.Name != "Dry Rice" || resp.Suggestion.Calories != 360 {
		t.Errorf("expected Dry Rice at 360 kcal, got %+v", resp.Suggestion)
	}
	if resp.Suggestion.IsUnitFood {
		t.Errorf("expected a per-100g suggestion")
	}
	// 7*4 + 0.6*9 + 78*4 = 345.4, within 10% of 360.
	if !resp.Check.Valid || resp.Check.CalculatedCalories != 345 {
		t.Errorf("expected a valid check at 345 kcal, got %+v", resp.Check)
	}
	if mock.systemPrompt != foodPer100gSystemPrompt {
		t.Errorf("expected the per-100g prompt")
	}
}

func TestSuggestFood_UnitFoodSuccess(t *testing.T) {
	router, mock := setupSuggestTest(t)
	mock.body = openAIChatResponse(`{"name":"Egg","protein":6.3,"fats":5,"carbs":0.4,"calories":72,"confidence":4}`)

	w := doSuggestRequest(router, `{"description":"1 large egg","isUnitFood":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp suggestResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if !resp.Suggestion.IsUnitFood || resp.Suggestion.Name != "Egg" {
		t.Errorf("expected a unit Egg suggestion, got %+v", resp.Suggestion)
	}
	if mock.systemPrompt != foodPerUnitSystemPrompt {
		t.Errorf("expected the per-item prompt")
	}
}

func TestSuggestFood_Unrecognized(t *testing.T) {
	router, mock := setupSuggestTest(t)
	mock.body = openAIChatResponse(`{"error":"unrecognized"}`)

	w := doSuggestRequest(router, `{"description":"asdfghjkl"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "unrecognized" {
		t.Errorf("expected error 'unrecognized', got '%s'", resp["error"])
	}
}

// A suggestion without energy is treated as unrecognized.
func TestSuggestFood_ZeroCalories(t *testing.T) {
	router, mock := setupSuggestTest(t)
	mock.body = openAIChatResponse(`{"name":"Water","protein":0,"fats":0,"carbs":0,"calories":0,"confidence":5}`)

	w := doSuggestRequest(router, `{"description":"glass of water"}`)

	var resp map[string]any
	json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || resp["error"] != "unrecognized" {
		t.Errorf("expected 200 unrecognized, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSuggestFood_OpenAIError500(t *testing.T) {
	router, mock := setupSuggestTest(t)
	mock.status = http.StatusInternalServerError
	mock.body = map[string]string{"error": "server error"}

	w := doSuggestRequest(router, `{"description":"banana"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] != "openai request failed" {
		t.Errorf("expected error 'openai request failed', got '%s'", resp["error"])
	}
}

func TestSuggestFood_EmptyDescription(t *testing.T) {
	router, _ := setupSuggestTest(t)

	w := doSuggestRequest(router, `{"description":"   "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSuggestFood_MalformedJSON(t *testing.T) {
	router, mock := setupSuggestTest(t)
	// OpenAI returns something that isn't valid JSON
	mock.body = openAIChatResponse(`not valid json at all`)

	w := doSuggestRequest(router, `{"description":"banana"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}
}

func TestParseSuggestion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		unit    bool
		wantOK  bool
		wantErr bool
	}{
		{"per 100g", `{"name":" Oats ","protein":13,"fats":7,"carbs":60,"calories":370}`, false, true, false},
		{"declined", `{"error":"unrecognized"}`, false, false, false},
		{"negative calories clamp to zero", `{"name":"Oats","calories":-5}`, false, false, false},
		{"no name", `{"calories":100}`, true, false, false},
		{"not json", `banana`, false, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok, err := parseSuggestion(tt.content, tt.unit)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if ok != tt.wantOK {
				t.Errorf("ok = %v, want %v (%+v)", ok, tt.wantOK, s)
			}
			if ok && (s.Name != "Oats" || s.IsUnitFood != tt.unit) {
				t.Errorf("unexpected suggestion %+v", s)
			}
		})
	}
}
