package ai

import (
	"fmt"
	"strings"

	"github.com/saeed-karout/Today-s-recipe-Ai/internal/services/recipe"
)

const roleSection = `<ROLE>
You are "Today's Recipe", a professional chef assistant. Given either a photo of
food ingredients or an explicit ingredient list, you produce exactly one
complete, practical recipe in structured JSON form.
</ROLE>`

const cuisinePolicySection = `<CUISINE_POLICY>
You only produce recipes from the following two cuisine families:

1. Middle Eastern regional cuisines:
   Levantine (Syrian, Lebanese, Palestinian, Jordanian), Iraqi, Egyptian,
   Gulf/Khaleeji (Saudi, Emirati, Kuwaiti), Yemeni, Turkish

2. Western fast food:
   Burgers, pizza, fried chicken, sandwiches and wraps, fries and sides

ALL other cuisines are forbidden. If the requested cuisine falls outside these
two families, do NOT produce a recipe for it: politely refuse, explain that
this service is limited to Middle Eastern cuisine and Western fast food, and
instead offer the closest dish from the allowed families using the same
ingredients.
</CUISINE_POLICY>`

const examplesSection = `<EXAMPLES>
Reference dishes for naming and framing your output:
- Kabsa — Gulf/Saudi Arabia — fragrant spiced rice cooked with chicken and dried lime.
- Mansaf — Jordan — lamb simmered in fermented dried yogurt served over rice.
- Koshari — Egypt — rice, lentils and pasta layered with spiced tomato sauce and fried onions.
- Kibbeh — Levant/Syria — bulgur shells stuffed with spiced minced meat and pine nuts.
- Classic Cheeseburger — Western fast food/USA — griddled beef patty with melted cheese on a toasted bun.
</EXAMPLES>`

const outputRulesSection = `<OUTPUT_RULES>
Your entire response must be valid JSON and nothing else: no prose before or
after, no markdown, no code fences. All time fields are human-readable strings
(for example "25 minutes"). Difficulty is one of: Easy, Medium, Hard.
</OUTPUT_RULES>`

// outputSkeletonSection embeds the output contract as a literal JSON skeleton.
// Used when schema-constrained generation is unavailable so the contract is
// identical in both calling modes.
const outputSkeletonSection = `<OUTPUT_FORMAT>
Respond with a JSON object of exactly this shape:

{
  "recipeName": "",
  "origin": "",
  "cuisineType": "",
  "prepTime": "",
  "cookTime": "",
  "difficulty": "",
  "ingredients": [""],
  "instructions": [""],
  "chefTips": "",
  "detectedIngredients": [""]
}

recipeName, origin, cuisineType, prepTime, cookTime, difficulty, ingredients
and instructions are required and must be non-empty. chefTips is optional.
detectedIngredients is required when an image was supplied and must be omitted
otherwise.
</OUTPUT_FORMAT>`

const arabicLanguageSection = `<LANGUAGE>
Respond entirely in Arabic. Every JSON string value (recipe name, ingredients,
instructions, tips) must be written in Arabic.
</LANGUAGE>`

const englishLanguageSection = `<LANGUAGE>
Respond entirely in English. Every JSON string value must be written in English.
</LANGUAGE>`

// Composer builds the fixed domain policy and the per-request task
// instruction for the generation call.
type Composer struct {
	schemaConstrained bool
}

// NewComposer creates a Composer. When schemaConstrained is false the output
// contract is embedded as a literal JSON skeleton in the policy text instead
// of being attached as a structured descriptor.
func NewComposer(schemaConstrained bool) *Composer {
	return &Composer{schemaConstrained: schemaConstrained}
}

// ComposeInput carries the per-request parameters of a prompt.
type ComposeInput struct {
	Mode        recipe.Mode
	Language    string // "ar" or "en"
	CuisineType string
	Ingredients []string
	Inline      *recipe.InlineImage
	ImageURL    string
}

// Compose produces a GenerationRequest with the instruction text always first
// and the image part, if any, second.
func (c *Composer) Compose(in ComposeInput) *recipe.GenerationRequest {
	req := &recipe.GenerationRequest{
		SystemPolicy: c.BuildSystemPolicy(in.Language),
		Parts:        []recipe.Part{{Text: c.BuildTaskInstruction(in)}},
	}
	if c.schemaConstrained {
		req.Schema = RecipeOutputSchema()
	}

	switch {
	case in.Inline != nil:
		req.Parts = append(req.Parts, recipe.Part{Inline: in.Inline})
	case in.ImageURL != "":
		req.Parts = append(req.Parts, recipe.Part{ImageURL: in.ImageURL})
	}
	return req
}

// BuildSystemPolicy assembles the fixed policy text: role, cuisine allow/deny
// lists, worked examples, response language, and output rules.
func (c *Composer) BuildSystemPolicy(language string) string {
	sections := []string{
		roleSection,
		cuisinePolicySection,
		examplesSection,
	}

	if language == "ar" {
		sections = append(sections, arabicLanguageSection)
	} else {
		sections = append(sections, englishLanguageSection)
	}

	sections = append(sections, outputRulesSection)
	if !c.schemaConstrained {
		sections = append(sections, outputSkeletonSection)
	}

	return strings.Join(sections, "\n\n")
}

// BuildTaskInstruction builds the per-mode instruction text.
func (c *Composer) BuildTaskInstruction(in ComposeInput) string {
	switch in.Mode {
	case recipe.ModeAnalyzeImage:
		return fmt.Sprintf(`<TASK>
First, carefully identify every food ingredient visible in the supplied image.
List each detected ingredient in the "detectedIngredients" output field.
Then generate one %s recipe that uses those detected ingredients.
</TASK>`, in.CuisineType)
	default:
		return fmt.Sprintf(`<TASK>
Generate one %s recipe using exactly this ingredient list: %s.
You may assume pantry staples (salt, pepper, oil, water) are available.
Do not include a "detectedIngredients" field.
</TASK>`, in.CuisineType, strings.Join(in.Ingredients, ", "))
	}
}

// RecipeOutputSchema is the structured output descriptor used in
// schema-constrained generation. It enumerates the same shape as the embedded
// JSON skeleton so both calling modes guarantee the same contract.
func RecipeOutputSchema() *recipe.OutputSchema {
	return &recipe.OutputSchema{
		Fields: []recipe.SchemaField{
			{Name: "recipeName", Type: "string", Description: "Name of the dish", Required: true},
			{Name: "origin", Type: "string", Description: "Country or region the dish comes from", Required: true},
			{Name: "cuisineType", Type: "string", Description: "Cuisine family of the dish", Required: true},
			{Name: "prepTime", Type: "string", Description: "Preparation time, e.g. '20 minutes'", Required: true},
			{Name: "cookTime", Type: "string", Description: "Cooking time, e.g. '45 minutes'", Required: true},
			{Name: "difficulty", Type: "string", Description: "Easy, Medium or Hard", Required: true},
			{Name: "ingredients", Type: "array", Description: "Ingredients with quantities, one per entry", Required: true},
			{Name: "instructions", Type: "array", Description: "Step-by-step cooking instructions", Required: true},
			{Name: "chefTips", Type: "string", Description: "Optional chef's tips for best results"},
			{Name: "detectedIngredients", Type: "array", Description: "Ingredients detected in the supplied image; image mode only"},
		},
	}
}
