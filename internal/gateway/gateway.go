// Package gateway wraps the generative backend behind domain-shaped
// operations: single mockups, concurrent batch and 360 runs, structured JSON
// generation, and the long-running video workflow.
package gateway

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"teestudio/internal/domain"
	"teestudio/internal/prompt"
	"teestudio/internal/providers/genai"
)

// view360Angles is the fixed camera set of a 360 run, in result order.
var view360Angles = []domain.Angle{domain.AngleFront, domain.AngleBack, domain.AngleLeftSide, domain.AngleRightSide}

const defaultPollInterval = 5 * time.Second

// CredentialGate is the optional environment-provided credential selector.
// When present, video generation checks it before submitting a job and opens
// the selection interaction if no credential is active.
type CredentialGate interface {
	HasSelectedKey(ctx context.Context) (bool, error)
	OpenSelectKey(ctx context.Context) error
}

// Options configures a Gateway.
type Options struct {
	Client       *genai.Client
	Credentials  CredentialGate // optional
	PollInterval time.Duration  // defaults to 5s
	Logger       *zerolog.Logger
}

type Gateway struct {
	client       *genai.Client
	creds        CredentialGate
	pollInterval time.Duration
	logger       zerolog.Logger
}

func New(opts Options) (*Gateway, error) {
	if opts.Client == nil {
		return nil, errors.New("gateway: genai client is required")
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Gateway{
		client:       opts.Client,
		creds:        opts.Credentials,
		pollInterval: interval,
		logger:       logger,
	}, nil
}

// GenerateMockup produces a single mockup image from the compiled options.
func (g *Gateway) GenerateMockup(ctx context.Context, opts domain.MockupOptions, design domain.DesignFile) (domain.DesignFile, error) {
	return g.generate(ctx, []genai.Part{
		genai.DataPart(design.Data, design.MimeType),
		genai.TextPart(prompt.Mockup(opts)),
	})
}

// GenerateBatch runs one mockup per color concurrently. Any single failure
// fails the whole batch; no partial results are returned.
func (g *Gateway) GenerateBatch(ctx context.Context, opts domain.MockupOptions, colors []domain.ColorOption, design domain.DesignFile) ([]domain.DesignFile, error) {
	results := make([]domain.DesignFile, len(colors))
	eg, ctx := errgroup.WithContext(ctx)
	for i, color := range colors {
		i := i
		variant := opts.Clone()
		variant.Color = color
		eg.Go(func() error {
			img, err := g.GenerateMockup(ctx, variant, design)
			if err != nil {
				return err
			}
			results[i] = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Generate360 produces the fixed four-angle turntable, fully concurrent with
// the same all-or-nothing semantics as GenerateBatch.
func (g *Gateway) Generate360(ctx context.Context, opts domain.MockupOptions, design domain.DesignFile) ([]domain.DesignFile, error) {
	results := make([]domain.DesignFile, len(view360Angles))
	eg, ctx := errgroup.WithContext(ctx)
	for i, angle := range view360Angles {
		i := i
		variant := opts.Clone()
		variant.Angle = angle
		eg.Go(func() error {
			img, err := g.GenerateMockup(ctx, variant, design)
			if err != nil {
				return err
			}
			results[i] = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// GenerateTryOn composites the design onto the garment in the user's photo.
func (g *Gateway) GenerateTryOn(ctx context.Context, photo, design domain.DesignFile, opts domain.TryOnOptions) (domain.DesignFile, error) {
	return g.generate(ctx, []genai.Part{
		genai.DataPart(photo.Data, photo.MimeType),
		genai.DataPart(design.Data, design.MimeType),
		genai.TextPart(prompt.TryOn(opts)),
	})
}

// EditImage applies a free-form edit instruction to an existing image.
func (g *Gateway) EditImage(ctx context.Context, img domain.DesignFile, instruction string) (domain.DesignFile, error) {
	return g.generate(ctx, []genai.Part{
		genai.DataPart(img.Data, img.MimeType),
		genai.TextPart(prompt.Edit(instruction)),
	})
}

// UpscaleImage re-renders an image at 4x with content preserved.
func (g *Gateway) UpscaleImage(ctx context.Context, img domain.DesignFile) (domain.DesignFile, error) {
	return g.generate(ctx, []genai.Part{
		genai.DataPart(img.Data, img.MimeType),
		genai.TextPart(prompt.Upscale()),
	})
}

// GenerateDesign creates an isolated print graphic from a text description.
func (g *Gateway) GenerateDesign(ctx context.Context, description string) (domain.DesignFile, error) {
	return g.generate(ctx, []genai.Part{genai.TextPart(prompt.Design(description))})
}

// RemoveBackground isolates the design's subject on a transparent background.
func (g *Gateway) RemoveBackground(ctx context.Context, design domain.DesignFile) (domain.DesignFile, error) {
	return g.generate(ctx, []genai.Part{
		genai.DataPart(design.Data, design.MimeType),
		genai.TextPart(prompt.RemoveBackground()),
	})
}

// SuggestColors asks for the best complementary colors out of the candidate
// names. An empty suggestion list is defined degraded behavior, not an error.
func (g *Gateway) SuggestColors(ctx context.Context, design domain.DesignFile, colorNames []string) ([]string, error) {
	schema := &genai.Schema{
		Type: "OBJECT",
		Properties: map[string]*genai.Schema{
			"suggested_colors": {Type: "ARRAY", Items: &genai.Schema{Type: "STRING"}},
		},
	}
	var out struct {
		SuggestedColors []string `json:"suggested_colors"`
	}
	err := g.client.GenerateJSON(ctx, g.client.TextModel(), []genai.Part{
		genai.TextPart(prompt.SuggestColors(colorNames)),
		genai.DataPart(design.Data, design.MimeType),
	}, schema, &out)
	if err != nil {
		return nil, g.remap(err)
	}
	return out.SuggestedColors, nil
}

// GenerateKit produces the structured e-commerce marketing kit for a design.
func (g *Gateway) GenerateKit(ctx context.Context, design domain.DesignFile) (*domain.EcommerceKitResult, error) {
	schema := &genai.Schema{
		Type: "OBJECT",
		Properties: map[string]*genai.Schema{
			"title":         {Type: "STRING"},
			"description":   {Type: "STRING"},
			"socialCaption": {Type: "STRING"},
			"tags":          {Type: "ARRAY", Items: &genai.Schema{Type: "STRING"}},
		},
	}
	var kit domain.EcommerceKitResult
	err := g.client.GenerateJSON(ctx, g.client.ProModel(), []genai.Part{
		genai.TextPart(prompt.EcommerceKit()),
		genai.DataPart(design.Data, design.MimeType),
	}, schema, &kit)
	if err != nil {
		return nil, g.remap(err)
	}
	return &kit, nil
}

// GenerateVideo runs the full long-running video workflow: credential gate,
// job submission, fixed-interval polling, and result download. The poll loop
// has no overall deadline; ctx cancellation is the only early exit.
func (g *Gateway) GenerateVideo(ctx context.Context, opts domain.MockupOptions, design domain.DesignFile) (domain.VideoFile, error) {
	if g.creds != nil {
		selected, err := g.creds.HasSelectedKey(ctx)
		if err != nil {
			return domain.VideoFile{}, g.remap(err)
		}
		if !selected {
			if err := g.creds.OpenSelectKey(ctx); err != nil {
				return domain.VideoFile{}, g.remap(err)
			}
		}
	}

	name, err := g.client.StartVideo(ctx, prompt.Video(opts), genai.DataPart(design.Data, design.MimeType), genai.VideoConfig{
		NumberOfVideos: 1,
		Resolution:     "720p",
		AspectRatio:    "9:16",
	})
	if err != nil {
		return domain.VideoFile{}, g.remap(err)
	}

	op := genai.VideoOperation{Name: name}
	for !op.Done {
		select {
		case <-ctx.Done():
			return domain.VideoFile{}, ctx.Err()
		case <-time.After(g.pollInterval):
		}
		op, err = g.client.PollVideo(ctx, name)
		if err != nil {
			return domain.VideoFile{}, g.remap(err)
		}
	}

	if op.FailureMessage != "" {
		return domain.VideoFile{}, g.remap(errors.New(op.FailureMessage))
	}
	if op.URI == "" {
		return domain.VideoFile{}, domain.Wrap(domain.ErrGenerationFailed, "%s", domain.MsgNoDownloadLink)
	}

	data, mime, err := g.client.DownloadVideo(ctx, op.URI)
	if err != nil {
		return domain.VideoFile{}, domain.Wrap(domain.ErrDownloadFailed, "Failed to download the generated video. %s", err)
	}
	return domain.VideoFile{Data: data, MimeType: mime}, nil
}

func (g *Gateway) generate(ctx context.Context, parts []genai.Part) (domain.DesignFile, error) {
	res, err := g.client.GenerateImage(ctx, parts)
	if err != nil {
		return domain.DesignFile{}, g.remap(err)
	}
	return domain.DesignFile{Data: res.Data, MimeType: res.MimeType}, nil
}

// remap normalizes backend failures into the domain taxonomy. A failure whose
// text carries a credential marker becomes the fixed actionable message
// instead of the raw backend text.
func (g *Gateway) remap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := err.Error()
	if strings.Contains(strings.ToLower(msg), "key") {
		g.logger.Warn().Err(err).Msg("gateway: credential failure remapped")
		return domain.Wrap(domain.ErrCredentialInvalid, "%s", domain.MsgCredentialInvalid)
	}
	if errors.Is(err, genai.ErrInvalidJSON) {
		return domain.Wrap(domain.ErrParseFailed, "%s", msg)
	}
	if errors.Is(err, genai.ErrNoImage) {
		reason := strings.TrimSpace(strings.TrimPrefix(msg, genai.ErrNoImage.Error()+":"))
		if reason == "" || reason == genai.ErrNoImage.Error() {
			reason = domain.MsgNoImage
		}
		return domain.Wrap(domain.ErrGenerationFailed, "%s", reason)
	}
	return domain.Wrap(domain.ErrGenerationFailed, "%s", msg)
}
