package domain

import "math/rand"

// CustomBackgroundPrompt is the reserved catalog entry that routes the
// free-text CustomBackground field into the compiled prompt.
const CustomBackgroundPrompt = "Custom Prompt..."

// ShirtColors is the fixed color catalog. Entries are selected by name and
// never mutated.
var ShirtColors = []ColorOption{
	{Name: "White", Value: "#FFFFFF", Kind: ColorSolid},
	{Name: "Black", Value: "#111827", Kind: ColorSolid},
	{Name: "Heather Grey", Value: "#B2B2B2", Kind: ColorSolid},
	{Name: "Navy", Value: "#0a1d3e", Kind: ColorSolid},
	{Name: "Red", Value: "#B91C1C", Kind: ColorSolid},
	{Name: "Royal Blue", Value: "#2563EB", Kind: ColorSolid},
	{Name: "Forest Green", Value: "#166534", Kind: ColorSolid},
	{Name: "Charcoal", Value: "#374151", Kind: ColorSolid},
	{Name: "Sunset", Value: "linear-gradient(to right, #ff7e5f, #feb47b)", Kind: ColorGradient},
	{Name: "Ocean", Value: "linear-gradient(to right, #2c3e50, #4ca1af)", Kind: ColorGradient},
	{Name: "Twilight", Value: "linear-gradient(to right, #0f2027, #203a43, #2c5364)", Kind: ColorGradient},
}

var Backgrounds = []string{
	"Minimalist Studio (White)",
	"Urban Street",
	"City Rooftop at Dusk",
	"Sun-drenched Beach",
	"Modern Interior",
	"Nature Trail",
	"Dark Abstract Texture",
	CustomBackgroundPrompt,
}

var ArtStyles = []ArtStyle{StylePhotorealistic, StyleVintage, StyleCinematic, StyleMinimalist, StyleGrungy}

var Fabrics = []Fabric{FabricStandardCotton, FabricHeavyweightCotton, FabricHeatherBlend, FabricTriBlendJersey}

var Placements = []Placement{PlacementCenterChest, PlacementLeftChest, PlacementLarge, PlacementCustom}

var Scales = []Scale{ScaleSmall, ScaleMedium, ScaleLarge, ScaleCustom}

// ColorByName looks up a catalog color by its display label.
func ColorByName(name string) (ColorOption, bool) {
	for _, c := range ShirtColors {
		if c.Name == name {
			return c, true
		}
	}
	return ColorOption{}, false
}

// KnownBackground reports whether the label is part of the background catalog
// (including the custom-prompt sentinel).
func KnownBackground(label string) bool {
	for _, b := range Backgrounds {
		if b == label {
			return true
		}
	}
	return false
}

// Template is a named, reusable snapshot of the option model.
type Template struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Options     MockupOptions `json:"options"`
}

func defaultOptions() MockupOptions {
	return MockupOptions{
		Color:           ShirtColors[0],
		Fit:             FitRegular,
		MockupType:      MockupFullBody,
		Gender:          GenderAny,
		Angle:           AngleFront,
		Background:      Backgrounds[0],
		ArtStyle:        StylePhotorealistic,
		Placement:       PlacementCenterChest,
		ScaleMode:       ScaleMedium,
		Texture:         FabricStandardCotton,
		DesignTransform: &DesignTransform{Position: Position{X: 0.5, Y: 0.5}, Scale: 0.25},
	}
}

// Templates are the built-in presets. The first entry is the startup default.
func Templates() []Template {
	streetwear := defaultOptions()
	streetwear.Color = ShirtColors[1]
	streetwear.Fit = FitOversized
	streetwear.Gender = GenderMale
	streetwear.Background = Backgrounds[1]
	streetwear.ArtStyle = StyleGrungy
	streetwear.Placement = PlacementLarge
	streetwear.ScaleMode = ScaleLarge
	streetwear.Texture = FabricHeavyweightCotton
	streetwear.ModelAppearance = "male model with a confident, urban style"
	streetwear.DesignTransform = &DesignTransform{Position: Position{X: 0.5, Y: 0.5}, Scale: 0.4}

	flatlay := defaultOptions()
	flatlay.Color = ShirtColors[2]
	flatlay.MockupType = MockupTshirtOnly
	flatlay.Background = Backgrounds[6]
	flatlay.ArtStyle = StyleMinimalist
	flatlay.DesignTransform = &DesignTransform{Position: Position{X: 0.5, Y: 0.5}, Scale: 0.3}

	return []Template{
		{Name: "Studio Minimal (Default)", Description: "Clean and professional.", Options: defaultOptions()},
		{Name: "Streetwear Vibe", Description: "Modern and urban style.", Options: streetwear},
		{Name: "Product Flatlay", Description: "For e-commerce stores.", Options: flatlay},
	}
}

// TemplateByName resolves a built-in template.
func TemplateByName(name string) (Template, bool) {
	for _, t := range Templates() {
		if t.Name == name {
			return t, true
		}
	}
	return Template{}, false
}

// SurpriseMe draws a randomized option model. The camera stays on the front
// angle, the custom-background sentinel is never drawn, and free-text fields
// are cleared. The transform of the current options is preserved by the
// caller; this only covers the enumerated fields.
func SurpriseMe(r *rand.Rand) MockupOptions {
	o := defaultOptions()
	o.Color = ShirtColors[r.Intn(len(ShirtColors))]
	if r.Intn(2) == 0 {
		o.Fit = FitOversized
	}
	if r.Intn(2) == 0 {
		o.MockupType = MockupTshirtOnly
	}
	o.Gender = []Gender{GenderMale, GenderFemale, GenderAny}[r.Intn(3)]
	o.Angle = AngleFront
	o.Background = Backgrounds[r.Intn(len(Backgrounds)-1)]
	o.ArtStyle = ArtStyles[r.Intn(len(ArtStyles))]
	o.Texture = Fabrics[r.Intn(len(Fabrics))]
	o.Placement = Placements[r.Intn(len(Placements))]
	o.ScaleMode = Scales[r.Intn(len(Scales))]
	o.SceneAdditions = ""
	o.ModelAppearance = ""
	o.CustomBackground = ""
	return o
}
