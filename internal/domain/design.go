package domain

import "time"

// MaxDesignBytes caps uploaded design files and user photos.
const MaxDesignBytes = 4 << 20

// DesignFile is an immutable raster payload. Edits always produce a new
// DesignFile; nothing mutates one in place. AssetKey is set once the bytes
// have been persisted to the asset store and is usable as a preview reference.
type DesignFile struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mimeType"`
	AssetKey string `json:"assetKey,omitempty"`
}

func (f DesignFile) IsZero() bool { return len(f.Data) == 0 }

// VideoFile is a generated video payload.
type VideoFile struct {
	Data     []byte `json:"-"`
	MimeType string `json:"mimeType"`
	AssetKey string `json:"assetKey,omitempty"`
}

// HistoryItem records one produced image together with the option snapshot
// that was active at submission time. Items are append-only.
type HistoryItem struct {
	ID        string        `json:"id"`
	Image     DesignFile    `json:"image"`
	Options   MockupOptions `json:"options"`
	CreatedAt time.Time     `json:"createdAt"`
}

// UserPreset is a user-named option snapshot. Names are unique.
type UserPreset struct {
	Name    string        `json:"name"`
	Options MockupOptions `json:"options"`
}

// BrandKit is the process-wide watermark configuration: an optional logo and
// a flag. It applies to every generated raster result until changed.
type BrandKit struct {
	Logo           *DesignFile `json:"logo,omitempty"`
	ApplyWatermark bool        `json:"applyWatermark"`
}

// EcommerceKitResult is the structured marketing copy generated for a design.
// Tags keep their response order; the core does not deduplicate them.
type EcommerceKitResult struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	SocialCaption string   `json:"socialCaption"`
	Tags          []string `json:"tags"`
}
