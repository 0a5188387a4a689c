package lookup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// RecipeClient asks the recipe-generation collaborator for a suggestion
// built from the pantry's ingredient list. Read-only with respect to the
// collection; never on the write path.
type RecipeClient struct {
	client  *http.Client
	baseURL string
}

// NewRecipeClient creates a recipe client against baseURL. A nil client
// falls back to http.DefaultClient.
func NewRecipeClient(client *http.Client, baseURL string) *RecipeClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &RecipeClient{client: client, baseURL: baseURL}
}

// Suggest posts the ingredient titles and returns the generated recipe
// text.
func (c *RecipeClient) Suggest(ctx context.Context, ingredients []string) (string, error) {
	payload, err := json.Marshal(map[string]any{"ingredients": ingredients})
	if err != nil {
		return "", fmt.Errorf("encoding ingredients: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/recipes", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building recipe request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("recipe request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("recipe collaborator returned status %d", resp.StatusCode)
	}

	var result struct {
		Recipe string `json:"recipe"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding recipe response: %w", err)
	}
	return result.Recipe, nil
}
