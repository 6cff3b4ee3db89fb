// Package prompt compiles the structured option model into the
// natural-language instructions sent to the generative backend. Every
// function here is pure and deterministic: identical inputs always produce
// byte-identical prompt text.
package prompt

import (
	"fmt"
	"math"
	"strings"

	"teestudio/internal/domain"
)

const closingConstraint = "The final image must look like a professional photograph from a high-end fashion lookbook or e-commerce store. Do not add any text, logos, or watermarks to the image."

// Mockup compiles the main mockup instruction.
func Mockup(o domain.MockupOptions) string {
	angleText := fmt.Sprintf("The camera view is showing the %s of the t-shirt.", o.Angle)
	colorText := describeColor(o.Color)
	backgroundDesc := resolveBackground(o)

	var designDetails string
	if o.HasCustomTransform() {
		t := o.DesignTransform
		designDetails = fmt.Sprintf(
			"The user-provided design is placed precisely on the shirt. The placement is custom: position the center of the graphic at %d%% from the left and %d%% from the top of the printable area. The graphic should be scaled to %d%% of the printable area width, and rotated by %d degrees.",
			roundPct(t.Position.X), roundPct(t.Position.Y), roundPct(t.Scale), int(math.Round(t.Rotation)))
	} else {
		designDetails = fmt.Sprintf("The user-provided design is placed on the %s. The graphic should appear at a %s size relative to the shirt.", o.Placement, o.ScaleMode)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Create a high-resolution, 4K, %s fashion mockup. The mockup must feature %s with a %s fit. The fabric should look like realistic %s. %s",
		o.ArtStyle, colorText, o.Fit, o.Texture, designDetails)
	b.WriteString(styleElaboration(o.ArtStyle))

	b.WriteString(" ")
	if o.MockupType == domain.MockupFullBody {
		model := describeModel(o.Gender, o.ModelAppearance)
		fmt.Fprintf(&b, "The t-shirt is worn by a photorealistic %s with a natural, confident pose. %s The background is: \"%s\". The lighting must be professional and flattering, matching the art style and background.",
			model, angleText, backgroundDesc)
		if o.SceneAdditions != "" {
			fmt.Fprintf(&b, " The scene also includes the following elements: \"%s\".", o.SceneAdditions)
		}
	} else {
		fmt.Fprintf(&b, "The t-shirt should be presented as a high-quality product shot, such as a \"flat lay\" on a clean, textured surface or on a minimalistic hanger. %s The background should match the '%s' theme and '%s' style. The lighting must be professional studio quality.",
			angleText, backgroundDesc, o.ArtStyle)
	}

	b.WriteString(" ")
	b.WriteString(closingConstraint)
	return b.String()
}

// TryOn compiles the virtual try-on instruction. The constraints are
// explicit: only the named garment changes, everything else in the photo is
// preserved exactly.
func TryOn(o domain.TryOnOptions) string {
	colorText := describeColor(o.Color)
	return fmt.Sprintf(`**TASK: VIRTUAL TRY-ON**
You are an expert at creating realistic virtual try-on images.
1. **Analyze the primary input image:** This is a photo of a person.
2. **Identify the clothing:** The user has specified they are wearing a '%s'.
3. **Use the secondary input image:** This is a graphic design.
4. **Your goal:** Realistically replace the '%s' the person is wearing with a new, photorealistic %s.
5. **Apply the design:** Place the provided graphic design from the second image onto the chest of the new t-shirt. Ensure it conforms to the fabric's folds and shape.

**CRITICAL RULES:**
- **DO NOT CHANGE THE PERSON:** The person's face, hair, body shape, pose, and skin tone must remain exactly the same as in the original photo.
- **DO NOT CHANGE THE BACKGROUND:** The background of the original photo must be perfectly preserved.
- **SEAMLESS INTEGRATION:** The new t-shirt must blend seamlessly with the original image, perfectly matching the lighting, shadows, and perspective of the original photo.
- The final output must be a high-resolution, photorealistic image that looks like a real photo of the person wearing the new t-shirt.`,
		o.ClothingType, o.ClothingType, colorText)
}

// Edit wraps a free-form edit request with a style-preservation directive.
func Edit(instruction string) string {
	return fmt.Sprintf("Edit the provided image based on this instruction: \"%s\". Maintain the original style and quality.", instruction)
}

// Upscale is the fixed 4x upscale instruction.
func Upscale() string {
	return "Upscale this image to 4x its original resolution. Enhance details, sharpness, and clarity while maintaining photorealism. Do not add or change any content."
}

// Design compiles the standalone graphic-generation instruction.
func Design(description string) string {
	return fmt.Sprintf("Generate a t-shirt graphic based on the following description: \"%s\". The design must be isolated on a transparent background. The output should be a high-quality PNG format graphic suitable for printing. Do not include a t-shirt, only the graphic itself.", description)
}

// RemoveBackground compiles the transparent-background isolation instruction.
func RemoveBackground() string {
	return "Analyze this image and accurately isolate the main subject. Remove the background entirely, making it transparent. The output must be a PNG with a transparent background."
}

// SuggestColors asks for the three best complementary shirt colors out of the
// candidate list.
func SuggestColors(colorNames []string) string {
	return fmt.Sprintf("Analyze the provided image and determine the 3 best complementary T-shirt colors from this list: %s. Consider color theory and aesthetic harmony.", strings.Join(colorNames, ", "))
}

// EcommerceKit requests the four-field marketing kit with per-field length
// and format constraints.
func EcommerceKit() string {
	return `Analyze this T-shirt design. Generate a complete e-commerce and marketing kit with the following structure:
1. **title**: A creative, catchy product title (5-8 words).
2. **description**: A compelling e-commerce product description (60-80 words), highlighting the design's style and appeal. Use paragraphs.
3. **socialCaption**: A short, engaging Instagram caption (20-30 words).
4. **tags**: A list of 10-15 relevant, high-traffic hashtags.`
}

// Video compiles the short motion-mockup instruction for the video model.
func Video(o domain.MockupOptions) string {
	genderText := "A model"
	if o.Gender != domain.GenderAny {
		genderText = fmt.Sprintf("A %s model", o.Gender)
	}
	return fmt.Sprintf("%s wearing a %s %s t-shirt with the provided design on the chest. The model makes a subtle, natural movement like turning slightly or adjusting their shirt. The background is a %s. The style is photorealistic and cinematic.",
		genderText, o.Color.Name, o.Fit, resolveBackground(o))
}

func describeColor(c domain.ColorOption) string {
	if c.Kind == domain.ColorGradient {
		return fmt.Sprintf("a t-shirt with a %s color scheme", c.Name)
	}
	return fmt.Sprintf("a %s t-shirt", c.Name)
}

func describeModel(g domain.Gender, appearance string) string {
	desc := "model (male or female)"
	if g != domain.GenderAny {
		desc = fmt.Sprintf("%s model", g)
	}
	if appearance != "" {
		desc += fmt.Sprintf(" described as: \"%s\"", appearance)
	}
	return desc
}

func styleElaboration(s domain.ArtStyle) string {
	switch s {
	case domain.StyleVintage:
		return " The image should have a nostalgic, vintage film aesthetic with subtle grain and desaturated tones."
	case domain.StyleCinematic:
		return " The image should have a cinematic look with dramatic lighting, shallow depth of field, and a professional color grade."
	case domain.StyleGrungy:
		return " The image should have a gritty, urban, grungy aesthetic with high contrast and texture."
	default:
		return ""
	}
}

func resolveBackground(o domain.MockupOptions) string {
	if o.Background == domain.CustomBackgroundPrompt && o.CustomBackground != "" {
		return o.CustomBackground
	}
	return o.Background
}

func roundPct(v float64) int {
	return int(math.Round(v * 100))
}
