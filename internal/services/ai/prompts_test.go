package ai

import (
	"strings"
	"testing"

	"github.com/saeed-karout/Today-s-recipe-Ai/internal/services/recipe"
)

func TestBuildSystemPolicy(t *testing.T) {
	tests := []struct {
		name     string
		language string
		contains []string
	}{
		{
			name:     "English policy",
			language: "en",
			contains: []string{
				"<ROLE>",
				"<CUISINE_POLICY>",
				"<EXAMPLES>",
				"<LANGUAGE>",
				"<OUTPUT_RULES>",
				"Middle Eastern",
				"Western fast food",
				"politely refuse",
				"Respond entirely in English",
				"valid JSON and nothing else",
			},
		},
		{
			name:     "Arabic policy",
			language: "ar",
			contains: []string{
				"Respond entirely in Arabic",
			},
		},
	}

	c := NewComposer(true)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := c.BuildSystemPolicy(tt.language)
			for _, want := range tt.contains {
				if !strings.Contains(policy, want) {
					t.Errorf("expected policy to contain %q", want)
				}
			}
		})
	}
}

func TestBuildSystemPolicy_SkeletonOnlyWithoutSchema(t *testing.T) {
	withSchema := NewComposer(true).BuildSystemPolicy("en")
	if strings.Contains(withSchema, "<OUTPUT_FORMAT>") {
		t.Error("schema-constrained policy should not embed the JSON skeleton")
	}

	withoutSchema := NewComposer(false).BuildSystemPolicy("en")
	for _, want := range []string{"<OUTPUT_FORMAT>", `"recipeName"`, `"detectedIngredients"`} {
		if !strings.Contains(withoutSchema, want) {
			t.Errorf("expected free-text policy to contain %q", want)
		}
	}
}

func TestBuildTaskInstruction_ImageMode(t *testing.T) {
	c := NewComposer(true)
	instruction := c.BuildTaskInstruction(ComposeInput{
		Mode:        recipe.ModeAnalyzeImage,
		CuisineType: "Levantine",
	})

	for _, want := range []string{"identify every food ingredient", "detectedIngredients", "Levantine"} {
		if !strings.Contains(instruction, want) {
			t.Errorf("expected image-mode instruction to contain %q", want)
		}
	}
}

func TestBuildTaskInstruction_IngredientMode(t *testing.T) {
	c := NewComposer(true)
	instruction := c.BuildTaskInstruction(ComposeInput{
		Mode:        recipe.ModeFromIngredients,
		CuisineType: "Middle Eastern",
		Ingredients: []string{"chicken", "rice"},
	})

	if !strings.Contains(instruction, "chicken, rice") {
		t.Errorf("expected instruction to carry the caller-supplied ingredient list verbatim")
	}
	if !strings.Contains(instruction, `Do not include a "detectedIngredients"`) {
		t.Errorf("expected instruction to forbid detectedIngredients in ingredient mode")
	}
}

func TestCompose_PartsOrdering(t *testing.T) {
	c := NewComposer(true)

	req := c.Compose(ComposeInput{
		Mode:        recipe.ModeAnalyzeImage,
		Language:    "en",
		CuisineType: "Gulf",
		Inline:      &recipe.InlineImage{Bytes: []byte{1, 2, 3}, MimeType: "image/jpeg"},
	})

	if len(req.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(req.Parts))
	}
	if req.Parts[0].Text == "" {
		t.Error("expected the instruction text to be the first part")
	}
	if req.Parts[1].Inline == nil {
		t.Error("expected the inline image to be the second part")
	}
	if req.Schema == nil {
		t.Error("expected a schema descriptor in schema-constrained mode")
	}
}

func TestCompose_ImageReferenceTransport(t *testing.T) {
	c := NewComposer(false)

	req := c.Compose(ComposeInput{
		Mode:     recipe.ModeAnalyzeImage,
		Language: "ar",
		ImageURL: "https://storage.example.com/pantry.jpg",
	})

	if len(req.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(req.Parts))
	}
	if req.Parts[1].ImageURL != "https://storage.example.com/pantry.jpg" {
		t.Errorf("expected the image reference to be the second part")
	}
	if req.Schema != nil {
		t.Error("expected no schema descriptor in free-text mode")
	}
}

func TestRecipeOutputSchema_RequiredSubset(t *testing.T) {
	schema := RecipeOutputSchema()

	required := map[string]bool{}
	for _, f := range schema.Fields {
		if f.Required {
			required[f.Name] = true
		}
	}

	for _, name := range []string{"recipeName", "origin", "cuisineType", "prepTime", "cookTime", "difficulty", "ingredients", "instructions"} {
		if !required[name] {
			t.Errorf("expected %s to be required", name)
		}
	}
	for _, name := range []string{"chefTips", "detectedIngredients"} {
		if required[name] {
			t.Errorf("expected %s to be optional", name)
		}
	}
}
