package watermark

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"teestudio/internal/domain"
)

func pngFile(t *testing.T, w, h int, c color.Color) domain.DesignFile {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return domain.DesignFile{Data: buf.Bytes(), MimeType: "image/png"}
}

func TestApplyDisabledReturnsInputUnchanged(t *testing.T) {
	src := pngFile(t, 100, 100, color.White)
	logo := pngFile(t, 20, 20, color.Black)

	cases := []struct {
		name string
		kit  domain.BrandKit
	}{
		{"disabled with logo", domain.BrandKit{Logo: &logo, ApplyWatermark: false}},
		{"enabled without logo", domain.BrandKit{ApplyWatermark: true}},
		{"zero kit", domain.BrandKit{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPipeline(tc.kit)
			got, err := p.Apply(src)
			if err != nil {
				t.Fatalf("Apply returned error: %v", err)
			}
			if !bytes.Equal(got.Data, src.Data) {
				t.Fatal("no-op application must return the identical payload")
			}
			if got.MimeType != src.MimeType {
				t.Fatalf("mime type changed: %s", got.MimeType)
			}
			again, err := p.Apply(got)
			if err != nil {
				t.Fatalf("second Apply returned error: %v", err)
			}
			if !bytes.Equal(again.Data, got.Data) {
				t.Fatal("applying twice while disabled must equal applying once")
			}
		})
	}
}

func TestApplyCompositesLogo(t *testing.T) {
	src := pngFile(t, 200, 100, color.White)
	logo := pngFile(t, 50, 50, color.RGBA{R: 255, A: 255})

	p := NewPipeline(domain.BrandKit{Logo: &logo, ApplyWatermark: true})
	got, err := p.Apply(src)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if bytes.Equal(got.Data, src.Data) {
		t.Fatal("composited output should differ from the input")
	}
	if got.MimeType != "image/png" {
		t.Fatalf("composited output must be PNG, got %s", got.MimeType)
	}

	out, err := png.Decode(bytes.NewReader(got.Data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if out.Bounds().Dx() != 200 || out.Bounds().Dy() != 100 {
		t.Fatalf("output dimensions changed: %v", out.Bounds())
	}

	// Logo lands bottom-right: 15% of 200px wide with 2% padding, so the
	// pixel near (180, 80) carries red blended at 0.7 opacity and its green
	// channel drops below full white.
	_, g, _, _ := out.At(180, 80).RGBA()
	if g == 0xffff {
		t.Fatal("bottom-right corner was not composited")
	}
	// Top-left stays untouched.
	r, g, b, _ := out.At(5, 5).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff {
		t.Fatal("top-left corner should remain white")
	}
}

func TestApplyRejectsBrokenImages(t *testing.T) {
	logo := pngFile(t, 10, 10, color.Black)
	p := NewPipeline(domain.BrandKit{Logo: &logo, ApplyWatermark: true})

	if _, err := p.Apply(domain.DesignFile{Data: []byte("not an image"), MimeType: "image/png"}); err == nil {
		t.Fatal("expected error for undecodable source")
	}
}

func TestSetKitSwapsConfiguration(t *testing.T) {
	src := pngFile(t, 100, 100, color.White)
	logo := pngFile(t, 20, 20, color.Black)

	p := NewPipeline(domain.BrandKit{})
	got, err := p.Apply(src)
	if err != nil || !bytes.Equal(got.Data, src.Data) {
		t.Fatalf("zero kit should pass through, err=%v", err)
	}

	p.SetKit(domain.BrandKit{Logo: &logo, ApplyWatermark: true})
	got, err = p.Apply(src)
	if err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
	if bytes.Equal(got.Data, src.Data) {
		t.Fatal("swapped-in kit should watermark the output")
	}
}
