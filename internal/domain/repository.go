package domain

import "context"

// StudioRepository persists the two durable slots of the studio: user presets
// and the brand kit. Both are loaded once at startup and overwritten
// wholesale on every save.
type StudioRepository interface {
	LoadPresets(ctx context.Context) ([]UserPreset, error)
	SavePresets(ctx context.Context, presets []UserPreset) error
	LoadBrandKit(ctx context.Context) (BrandKit, error)
	SaveBrandKit(ctx context.Context, kit BrandKit) error
}
