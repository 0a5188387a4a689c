package http

import (
	"context"
	"net/http"
)

// RecipeSuggester turns an ingredient list into a recipe suggestion.
type RecipeSuggester interface {
	Suggest(ctx context.Context, ingredients []string) (string, error)
}

// SuggestRecipes handles GET /api/recipes. Answers 503 when no recipe
// service is configured and 502 when the upstream call fails.
func (h *ItemsHandler) SuggestRecipes(w http.ResponseWriter, r *http.Request) {
	if h.Recipes == nil {
		http.Error(w, "recipe service not configured", http.StatusServiceUnavailable)
		return
	}

	ingredients, err := h.Service.Ingredients(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	recipe, err := h.Recipes.Suggest(r.Context(), ingredients)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ingredients": ingredients,
		"recipe":      recipe,
	})
}
