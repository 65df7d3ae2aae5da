package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"lg/life-dashboard-go-api/internal/nutrition"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestFoodRequest is the request body for POST /api/foods/suggest.
// UnitFood asks for per-item values instead of per-100g.
type suggestFoodRequest struct {
	Description string `json:"description"`
	UnitFood    bool   `json:"isUnitFood"`
}

// foodSuggestion is the structured catalog entry returned by the AI, with
// nutrition per 100 g or per item. Confidence is 1-5 indicating how accurate
// the estimate is.
type foodSuggestion struct {
	Name       string  `json:"name"`
	IsUnitFood bool    `json:"isUnitFood"`
	Protein    float64 `json:"protein"`
	Fats       float64 `json:"fats"`
	Carbs      float64 `json:"carbs"`
	Calories   float64 `json:"calories"`
	Confidence int     `json:"confidence"`
}

/* ─── OpenAI prompt constants ────────────────────────────────────────── */

const foodPer100gSystemPrompt = `You are a nutrition assistant building a food catalog. Identify the food in the description and return a JSON object with nutrition for 100 g of it:
- "name" (string, cleaned up title case, no quantity)
- "protein" (number, grams per 100 g)
- "fats" (number, grams per 100 g)
- "carbs" (number, grams per 100 g)
- "calories" (number, kcal per 100 g)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Only return {"error": "unrecognized"} if the input is not food at all (e.g. random characters, non-food objects).
Return only valid JSON, no explanation.`

const foodPerUnitSystemPrompt = `You are a nutrition assistant building a food catalog. Identify the food in the description and return a JSON object with nutrition for one typical item (one egg, one bar, one slice):
- "name" (string, cleaned up title case, no quantity)
- "protein" (number, grams per item)
- "fats" (number, grams per item)
- "carbs" (number, grams per item)
- "calories" (number, kcal per item)
- "confidence" (integer 1-5: 5=exact known nutritional data, 4=very close estimate, 3=reasonable estimate, 2=rough guess, 1=very uncertain)

Always provide your best estimate, even for unfamiliar or vague items. Only return {"error": "unrecognized"} if the input is not food at all (e.g. random characters, non-food objects).
Return only valid JSON, no explanation.`

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

const (
	suggestModel   = "gpt-4o-mini"
	suggestTimeout = 15 * time.Second
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat map[string]any `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// chatClient calls the chat completions endpoint in JSON mode.
type chatClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func newChatClient(baseURL string) (*chatClient, error) {
	key := os.Getenv("OPENAI_API_KEY")
	if key == "" {
		return nil, errors.New("OPENAI_API_KEY not set")
	}
	return &chatClient{baseURL: baseURL, apiKey: key, http: &http.Client{Timeout: suggestTimeout}}, nil
}

// completeJSON sends one system + user exchange and returns the content of
// the first choice, which the model was asked to keep to a JSON object.
func (cc *chatClient) completeJSON(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model:          suggestModel,
		Messages:       []chatMessage{{Role: "system", Content: system}, {Role: "user", Content: user}},
		ResponseFormat: map[string]any{"type": "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cc.apiKey)

	resp, err := cc.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, body)
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("no choices in response")
	}
	return out.Choices[0].Message.Content, nil
}

// parseSuggestion decodes the model's JSON. ok is false when the model
// declined ({"error":"unrecognized"}) or returned no usable name and energy.
func parseSuggestion(content string, unitFood bool) (s foodSuggestion, ok bool, err error) {
	var raw struct {
		foodSuggestion
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return foodSuggestion{}, false, err
	}
	if raw.Error != "" {
		return foodSuggestion{}, false, nil
	}

	s = raw.foodSuggestion
	s.Name = strings.TrimSpace(s.Name)
	s.IsUnitFood = unitFood
	s.Protein = nutrition.SanitizeAmount(s.Protein)
	s.Fats = nutrition.SanitizeAmount(s.Fats)
	s.Carbs = nutrition.SanitizeAmount(s.Carbs)
	s.Calories = nutrition.SanitizeAmount(s.Calories)
	return s, s.Name != "" && s.Calories > 0, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestFood handles POST /api/foods/suggest.
// Accepts a food description, asks OpenAI for catalog nutrition values and
// returns the suggestion together with a calorie check of its macros. Nothing
// is saved; the client posts the accepted entry to /api/foods.
func (h *Handler) suggestFood(c *gin.Context) {
	var req suggestFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}

	prompt := foodPer100gSystemPrompt
	if req.UnitFood {
		prompt = foodPerUnitSystemPrompt
	}

	client, err := newChatClient(h.openAIBaseURL)
	if err != nil {
		log.Printf("[suggestFood] %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	content, err := client.completeJSON(c.Request.Context(), prompt, req.Description)
	if err != nil {
		log.Printf("[suggestFood] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	suggestion, ok, err := parseSuggestion(content, req.UnitFood)
	if err != nil {
		log.Printf("[suggestFood] Failed to parse suggestion JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if !ok {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestion": suggestion,
		"check":      nutrition.ValidateCalories(suggestion.Calories, suggestion.Protein, suggestion.Fats, suggestion.Carbs),
	})
}
