package domain

import "fmt"

// ColorKind distinguishes solid swatches from multi-stop gradients. Gradient
// colors are described to the generator as a "color scheme" rather than a
// literal swatch.
type ColorKind string

const (
	ColorSolid    ColorKind = "solid"
	ColorGradient ColorKind = "gradient"
)

// ColorOption is an immutable entry of the shirt color catalog. Value holds a
// hex token for solids or a CSS gradient token for gradients; the prompt
// compiler only ever uses Name and Kind.
type ColorOption struct {
	Name  string    `json:"name"`
	Value string    `json:"value"`
	Kind  ColorKind `json:"kind"`
}

type Fit string

const (
	FitRegular   Fit = "regular"
	FitOversized Fit = "oversized"
)

type MockupType string

const (
	MockupFullBody   MockupType = "fullBody"
	MockupTshirtOnly MockupType = "tshirtOnly"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAny    Gender = "any"
)

type Angle string

const (
	AngleFront     Angle = "front"
	AngleBack      Angle = "back"
	AngleLeftSide  Angle = "left side"
	AngleRightSide Angle = "right side"
)

type ArtStyle string

const (
	StylePhotorealistic ArtStyle = "photorealistic"
	StyleVintage        ArtStyle = "vintage"
	StyleCinematic      ArtStyle = "cinematic"
	StyleMinimalist     ArtStyle = "minimalist"
	StyleGrungy         ArtStyle = "grungy"
)

type Placement string

const (
	PlacementCenterChest Placement = "center chest"
	PlacementLeftChest   Placement = "left chest (pocket)"
	PlacementLarge       Placement = "large graphic"
	PlacementCustom      Placement = "custom"
)

type Scale string

const (
	ScaleSmall  Scale = "small"
	ScaleMedium Scale = "medium"
	ScaleLarge  Scale = "large"
	ScaleCustom Scale = "custom"
)

type Fabric string

const (
	FabricStandardCotton    Fabric = "standard cotton"
	FabricHeavyweightCotton Fabric = "heavyweight cotton"
	FabricHeatherBlend      Fabric = "heather blend"
	FabricTriBlendJersey    Fabric = "tri-blend jersey"
)

// Position is a normalized point on the printable area, both axes in [0,1].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DesignTransform is the free placement of the design graphic: normalized
// center position, scale as a fraction of the printable width in (0,1], and
// rotation in degrees within [-180,180]. The 3D viewport emits these when the
// user drags its gizmo controls.
type DesignTransform struct {
	Position Position `json:"position"`
	Scale    float64  `json:"scale"`
	Rotation float64  `json:"rotation"`
}

// MockupOptions is the canonical description of a desired mockup. When
// Placement or ScaleMode is "custom" the DesignTransform is authoritative for
// prompt purposes and must be present.
type MockupOptions struct {
	Color            ColorOption      `json:"color"`
	Fit              Fit              `json:"fit"`
	MockupType       MockupType       `json:"mockupType"`
	Gender           Gender           `json:"gender"`
	Angle            Angle            `json:"angle"`
	Background       string           `json:"background"`
	ArtStyle         ArtStyle         `json:"artStyle"`
	Placement        Placement        `json:"placement"`
	ScaleMode        Scale            `json:"scale"`
	Texture          Fabric           `json:"texture"`
	SceneAdditions   string           `json:"sceneAdditions"`
	ModelAppearance  string           `json:"modelAppearance"`
	CustomBackground string           `json:"customBackground,omitempty"`
	DesignTransform  *DesignTransform `json:"designTransform,omitempty"`
}

// TryOnOptions describes a virtual try-on: the garment visible in the user's
// photo and the replacement shirt color.
type TryOnOptions struct {
	ClothingType string      `json:"clothingType"`
	Color        ColorOption `json:"color"`
}

// Validate checks the structural invariants of the option model.
func (o MockupOptions) Validate() error {
	if (o.Placement == PlacementCustom || o.ScaleMode == ScaleCustom) && o.DesignTransform == nil {
		return Wrap(ErrValidation, "custom placement requires a design transform")
	}
	if t := o.DesignTransform; t != nil {
		if t.Position.X < 0 || t.Position.X > 1 || t.Position.Y < 0 || t.Position.Y > 1 {
			return Wrap(ErrValidation, "transform position out of range: (%v, %v)", t.Position.X, t.Position.Y)
		}
		if t.Scale <= 0 || t.Scale > 1 {
			return Wrap(ErrValidation, "transform scale out of range: %v", t.Scale)
		}
		if t.Rotation < -180 || t.Rotation > 180 {
			return Wrap(ErrValidation, "transform rotation out of range: %v", t.Rotation)
		}
	}
	return nil
}

// HasCustomTransform reports whether the transform overrides the qualitative
// placement/scale enums.
func (o MockupOptions) HasCustomTransform() bool {
	return o.Placement == PlacementCustom && o.DesignTransform != nil
}

// Clone returns a deep copy so an in-flight generation keeps its own snapshot
// while the live options continue to be edited.
func (o MockupOptions) Clone() MockupOptions {
	out := o
	if o.DesignTransform != nil {
		t := *o.DesignTransform
		out.DesignTransform = &t
	}
	return out
}

// OptionsPatch is a partial update of the option model; nil fields are left
// untouched. Color is addressed by catalog name.
type OptionsPatch struct {
	Color            *string     `json:"color,omitempty"`
	Fit              *Fit        `json:"fit,omitempty"`
	MockupType       *MockupType `json:"mockupType,omitempty"`
	Gender           *Gender     `json:"gender,omitempty"`
	Angle            *Angle      `json:"angle,omitempty"`
	Background       *string     `json:"background,omitempty"`
	ArtStyle         *ArtStyle   `json:"artStyle,omitempty"`
	Placement        *Placement  `json:"placement,omitempty"`
	Scale            *Scale      `json:"scale,omitempty"`
	Texture          *Fabric     `json:"texture,omitempty"`
	SceneAdditions   *string     `json:"sceneAdditions,omitempty"`
	ModelAppearance  *string     `json:"modelAppearance,omitempty"`
	CustomBackground *string     `json:"customBackground,omitempty"`
}

// Apply merges the patch into the options. Enum values are checked against
// their catalogs; an unknown value is a validation error.
func (o *MockupOptions) Apply(p OptionsPatch) error {
	if p.Color != nil {
		c, ok := ColorByName(*p.Color)
		if !ok {
			return Wrap(ErrValidation, "unknown color: %s", *p.Color)
		}
		o.Color = c
	}
	if p.Fit != nil {
		if err := oneOf(*p.Fit, FitRegular, FitOversized); err != nil {
			return err
		}
		o.Fit = *p.Fit
	}
	if p.MockupType != nil {
		if err := oneOf(*p.MockupType, MockupFullBody, MockupTshirtOnly); err != nil {
			return err
		}
		o.MockupType = *p.MockupType
	}
	if p.Gender != nil {
		if err := oneOf(*p.Gender, GenderMale, GenderFemale, GenderAny); err != nil {
			return err
		}
		o.Gender = *p.Gender
	}
	if p.Angle != nil {
		if err := oneOf(*p.Angle, AngleFront, AngleBack, AngleLeftSide, AngleRightSide); err != nil {
			return err
		}
		o.Angle = *p.Angle
	}
	if p.Background != nil {
		if !KnownBackground(*p.Background) {
			return Wrap(ErrValidation, "unknown background: %s", *p.Background)
		}
		o.Background = *p.Background
	}
	if p.ArtStyle != nil {
		if err := oneOf(*p.ArtStyle, StylePhotorealistic, StyleVintage, StyleCinematic, StyleMinimalist, StyleGrungy); err != nil {
			return err
		}
		o.ArtStyle = *p.ArtStyle
	}
	if p.Placement != nil {
		if err := oneOf(*p.Placement, PlacementCenterChest, PlacementLeftChest, PlacementLarge, PlacementCustom); err != nil {
			return err
		}
		o.Placement = *p.Placement
	}
	if p.Scale != nil {
		if err := oneOf(*p.Scale, ScaleSmall, ScaleMedium, ScaleLarge, ScaleCustom); err != nil {
			return err
		}
		o.ScaleMode = *p.Scale
	}
	if p.Texture != nil {
		if err := oneOf(*p.Texture, FabricStandardCotton, FabricHeavyweightCotton, FabricHeatherBlend, FabricTriBlendJersey); err != nil {
			return err
		}
		o.Texture = *p.Texture
	}
	if p.SceneAdditions != nil {
		o.SceneAdditions = *p.SceneAdditions
	}
	if p.ModelAppearance != nil {
		o.ModelAppearance = *p.ModelAppearance
	}
	if p.CustomBackground != nil {
		o.CustomBackground = *p.CustomBackground
	}
	return o.Validate()
}

func oneOf[T ~string](v T, allowed ...T) error {
	for _, a := range allowed {
		if v == a {
			return nil
		}
	}
	return Wrap(ErrValidation, "unsupported value: %s", fmt.Sprint(v))
}
