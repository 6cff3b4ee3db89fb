// Package watermark composites the brand-kit logo onto generated images.
package watermark

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/disintegration/imaging"

	"teestudio/internal/domain"
)

const (
	logoWidthRatio = 0.15
	paddingRatio   = 0.02
	logoOpacity    = 0.7
)

// Pipeline applies the active brand-kit watermark to raster results. The kit
// is shared process state and may be swapped while generations are in flight.
type Pipeline struct {
	mu  sync.RWMutex
	kit domain.BrandKit
}

func NewPipeline(kit domain.BrandKit) *Pipeline {
	return &Pipeline{kit: kit}
}

// SetKit replaces the active brand kit. In-flight applications keep the kit
// they started with.
func (p *Pipeline) SetKit(kit domain.BrandKit) {
	p.mu.Lock()
	p.kit = kit
	p.mu.Unlock()
}

// Kit returns the active brand kit.
func (p *Pipeline) Kit() domain.BrandKit {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.kit
}

// Apply composites the logo onto img at the bottom-right corner and returns
// the result as a PNG. When watermarking is disabled or no logo is set, img
// is returned unchanged, including its byte payload.
func (p *Pipeline) Apply(img domain.DesignFile) (domain.DesignFile, error) {
	kit := p.Kit()
	if !kit.ApplyWatermark || kit.Logo == nil || kit.Logo.IsZero() {
		return img, nil
	}
	return composite(img, *kit.Logo)
}

func composite(img, logo domain.DesignFile) (domain.DesignFile, error) {
	src, err := imaging.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return domain.DesignFile{}, fmt.Errorf("decode source image: %w", err)
	}
	mark, err := imaging.Decode(bytes.NewReader(logo.Data))
	if err != nil {
		return domain.DesignFile{}, fmt.Errorf("decode logo image: %w", err)
	}

	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()
	logoW := int(math.Round(float64(srcW) * logoWidthRatio))
	if logoW < 1 {
		logoW = 1
	}
	padding := int(math.Round(float64(srcW) * paddingRatio))

	mark = imaging.Resize(mark, logoW, 0, imaging.Lanczos)
	pos := image.Pt(srcW-mark.Bounds().Dx()-padding, srcH-mark.Bounds().Dy()-padding)
	out := imaging.Overlay(src, mark, pos, logoOpacity)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return domain.DesignFile{}, fmt.Errorf("encode watermarked image: %w", err)
	}
	return domain.DesignFile{Data: buf.Bytes(), MimeType: "image/png"}, nil
}
