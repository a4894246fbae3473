package recipe

// Recipe is the single structured result of a pipeline run.
// DetectedIngredients is populated only for image-mode requests.
type Recipe struct {
	RecipeName          string   `json:"recipeName"`
	Origin              string   `json:"origin"`
	CuisineType         string   `json:"cuisineType"`
	PrepTime            string   `json:"prepTime"`
	CookTime            string   `json:"cookTime"`
	Difficulty          string   `json:"difficulty"`
	Ingredients         []string `json:"ingredients"`
	Instructions        []string `json:"instructions"`
	ChefTips            string   `json:"chefTips,omitempty"`
	DetectedIngredients []string `json:"detectedIngredients,omitempty"`
}

// Mode selects which task instruction the composer builds.
type Mode string

const (
	ModeAnalyzeImage    Mode = "analyze-image"
	ModeFromIngredients Mode = "from-ingredients"
)

// InlineImage is an image transported inside the generation request itself.
type InlineImage struct {
	Bytes    []byte
	MimeType string
}

// Part is one ordered element of a generation request: text, inline image
// bytes, or a reference the service fetches itself. Exactly one field is set.
type Part struct {
	Text     string
	Inline   *InlineImage
	ImageURL string
}

// SchemaField describes one field of the expected output for
// schema-constrained generation.
type SchemaField struct {
	Name        string
	Type        string // "string" or "array"
	Description string
	Required    bool
}

// OutputSchema is the provider-neutral descriptor of the Recipe shape.
type OutputSchema struct {
	Fields []SchemaField
}

// GenerationRequest is built fresh per call and handed to the provider.
type GenerationRequest struct {
	SystemPolicy string
	Schema       *OutputSchema
	Parts        []Part
}
