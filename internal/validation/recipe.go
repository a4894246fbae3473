package validation

import (
	"fmt"
	"strings"

	apperrors "github.com/saeed-karout/Today-s-recipe-Ai/internal/errors"
	"github.com/saeed-karout/Today-s-recipe-Ai/internal/services/recipe"
)

// ValidateRecipe checks that a parsed recipe satisfies the required-field
// invariants. A structurally valid JSON object with missing fields is still a
// repair failure: the pipeline must never return a partially-filled recipe.
func ValidateRecipe(r *recipe.Recipe) error {
	var missing []string

	if strings.TrimSpace(r.RecipeName) == "" {
		missing = append(missing, "recipeName")
	}
	if strings.TrimSpace(r.Origin) == "" {
		missing = append(missing, "origin")
	}
	if strings.TrimSpace(r.CuisineType) == "" {
		missing = append(missing, "cuisineType")
	}
	if strings.TrimSpace(r.PrepTime) == "" {
		missing = append(missing, "prepTime")
	}
	if strings.TrimSpace(r.CookTime) == "" {
		missing = append(missing, "cookTime")
	}
	if strings.TrimSpace(r.Difficulty) == "" {
		missing = append(missing, "difficulty")
	}
	if len(r.Ingredients) == 0 {
		missing = append(missing, "ingredients")
	}
	if len(r.Instructions) == 0 {
		missing = append(missing, "instructions")
	}

	if len(missing) > 0 {
		return apperrors.NewUnparseableError(fmt.Errorf("recipe is missing required fields: %s", strings.Join(missing, ", ")))
	}
	return nil
}
