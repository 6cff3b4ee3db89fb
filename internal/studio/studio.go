// Package studio is the orchestration core: it owns the live option model,
// the uploaded inputs, the result slots, and the generation lifecycle around
// the gateway, watermark pipeline, asset store, and history.
package studio

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"teestudio/internal/domain"
	"teestudio/internal/history"
	"teestudio/internal/watermark"
)

// Generator is the generation surface the studio drives. The gateway is the
// production implementation.
type Generator interface {
	GenerateMockup(ctx context.Context, opts domain.MockupOptions, design domain.DesignFile) (domain.DesignFile, error)
	GenerateBatch(ctx context.Context, opts domain.MockupOptions, colors []domain.ColorOption, design domain.DesignFile) ([]domain.DesignFile, error)
	Generate360(ctx context.Context, opts domain.MockupOptions, design domain.DesignFile) ([]domain.DesignFile, error)
	GenerateTryOn(ctx context.Context, photo, design domain.DesignFile, opts domain.TryOnOptions) (domain.DesignFile, error)
	EditImage(ctx context.Context, img domain.DesignFile, instruction string) (domain.DesignFile, error)
	UpscaleImage(ctx context.Context, img domain.DesignFile) (domain.DesignFile, error)
	GenerateDesign(ctx context.Context, description string) (domain.DesignFile, error)
	RemoveBackground(ctx context.Context, design domain.DesignFile) (domain.DesignFile, error)
	SuggestColors(ctx context.Context, design domain.DesignFile, colorNames []string) ([]string, error)
	GenerateKit(ctx context.Context, design domain.DesignFile) (*domain.EcommerceKitResult, error)
	GenerateVideo(ctx context.Context, opts domain.MockupOptions, design domain.DesignFile) (domain.VideoFile, error)
}

// AssetStore persists generated payloads and returns a stable key.
type AssetStore interface {
	Write(ctx context.Context, key string, data []byte) (string, error)
}

// Slot names one of the mutually tracked result positions. Each slot admits
// one in-flight operation at a time.
type Slot string

const (
	SlotMockup  Slot = "mockup"
	SlotBatch   Slot = "batch"
	SlotView360 Slot = "view360"
	SlotTryOn   Slot = "tryOn"
	SlotVideo   Slot = "video"
	SlotKit     Slot = "kit"
)

// State is a point-in-time snapshot of the studio.
type State struct {
	Options   domain.MockupOptions       `json:"options"`
	Template  string                     `json:"template,omitempty"`
	Design    domain.DesignFile          `json:"design"`
	UserPhoto domain.DesignFile          `json:"userPhoto"`
	Mockup    *domain.DesignFile         `json:"mockup,omitempty"`
	Batch     []domain.DesignFile        `json:"batch,omitempty"`
	View360   []domain.DesignFile        `json:"view360,omitempty"`
	TryOn     *domain.DesignFile         `json:"tryOn,omitempty"`
	Video     *domain.VideoFile          `json:"video,omitempty"`
	Kit       *domain.EcommerceKitResult `json:"kit,omitempty"`
	LastError string                     `json:"lastError,omitempty"`
	Presets   []domain.UserPreset        `json:"presets"`
	BrandKit  domain.BrandKit            `json:"brandKit"`
}

// Options wires a Studio.
type Options struct {
	Generator Generator
	Repo      domain.StudioRepository
	Assets    AssetStore
	Rand      *rand.Rand // optional, for randomized options
	Logger    *zerolog.Logger
}

type Studio struct {
	gen    Generator
	repo   domain.StudioRepository
	assets AssetStore
	marker *watermark.Pipeline
	rand   *rand.Rand
	logger zerolog.Logger

	mu        sync.Mutex
	busy      map[Slot]bool
	options   domain.MockupOptions
	template  string
	design    domain.DesignFile
	userPhoto domain.DesignFile
	mockup    *domain.DesignFile
	batch     []domain.DesignFile
	view360   []domain.DesignFile
	tryOn     *domain.DesignFile
	video     *domain.VideoFile
	kit       *domain.EcommerceKitResult
	lastError string
	presets   []domain.UserPreset

	history *history.List
}

// New builds a Studio seeded with the default template and the persisted
// presets and brand kit.
func New(ctx context.Context, opts Options) (*Studio, error) {
	if opts.Generator == nil {
		return nil, errors.New("studio: generator is required")
	}
	if opts.Repo == nil {
		return nil, errors.New("studio: repository is required")
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	presets, err := opts.Repo.LoadPresets(ctx)
	if err != nil {
		return nil, fmt.Errorf("studio: load presets: %w", err)
	}
	kit, err := opts.Repo.LoadBrandKit(ctx)
	if err != nil {
		return nil, fmt.Errorf("studio: load brand kit: %w", err)
	}

	def := domain.Templates()[0]
	return &Studio{
		gen:      opts.Generator,
		repo:     opts.Repo,
		assets:   opts.Assets,
		marker:   watermark.NewPipeline(kit),
		rand:     opts.Rand,
		logger:   logger,
		busy:     make(map[Slot]bool),
		options:  def.Options.Clone(),
		template: def.Name,
		presets:  presets,
		history:  history.NewList(),
	}, nil
}

// State returns a consistent snapshot of the studio.
func (s *Studio) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Options:   s.options.Clone(),
		Template:  s.template,
		Design:    s.design,
		UserPhoto: s.userPhoto,
		Mockup:    s.mockup,
		TryOn:     s.tryOn,
		Video:     s.video,
		Kit:       s.kit,
		LastError: s.lastError,
		BrandKit:  s.marker.Kit(),
	}
	st.Batch = append(st.Batch, s.batch...)
	st.View360 = append(st.View360, s.view360...)
	st.Presets = append(st.Presets, s.presets...)
	return st
}

// History returns the generation history, most recent first.
func (s *Studio) History() []domain.HistoryItem { return s.history.Items() }

// SetDesign stores the uploaded design file after the size gate.
func (s *Studio) SetDesign(file domain.DesignFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(file.Data) > domain.MaxDesignBytes {
		return s.fail(domain.Wrap(domain.ErrValidation, "%s", domain.MsgDesignTooLarge))
	}
	s.design = file
	s.lastError = ""
	return nil
}

// SetUserPhoto stores the uploaded try-on photo after the size gate.
func (s *Studio) SetUserPhoto(file domain.DesignFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(file.Data) > domain.MaxDesignBytes {
		return s.fail(domain.Wrap(domain.ErrValidation, "%s", domain.MsgDesignTooLarge))
	}
	s.userPhoto = file
	s.lastError = ""
	return nil
}

// SetOptions merges a partial update into the live option model. Any change
// detaches the named template.
func (s *Studio) SetOptions(patch domain.OptionsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.options.Clone()
	if err := next.Apply(patch); err != nil {
		return err
	}
	s.options = next
	s.template = ""
	return nil
}

// SetTransform installs a free design placement. It forces the placement and
// scale enums to custom so the transform becomes authoritative.
func (s *Studio) SetTransform(t domain.DesignTransform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.options.Clone()
	next.DesignTransform = &t
	next.Placement = domain.PlacementCustom
	next.ScaleMode = domain.ScaleCustom
	if err := next.Validate(); err != nil {
		return err
	}
	s.options = next
	s.template = ""
	return nil
}

// ApplyTemplate replaces the live options with a built-in template.
func (s *Studio) ApplyTemplate(name string) error {
	t, ok := domain.TemplateByName(name)
	if !ok {
		return domain.Wrap(domain.ErrNotFound, "unknown template: %s", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = t.Options.Clone()
	s.template = t.Name
	return nil
}

// ApplyPreset replaces the live options with a saved user preset.
func (s *Studio) ApplyPreset(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.presets {
		if p.Name == name {
			s.options = p.Options.Clone()
			s.template = ""
			return nil
		}
	}
	return domain.Wrap(domain.ErrNotFound, "unknown preset: %s", name)
}

// SurpriseMe randomizes the enumerated option fields and detaches the
// template.
func (s *Studio) SurpriseMe() domain.MockupOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.rand
	if r == nil {
		r = rand.New(rand.NewSource(rand.Int63()))
		s.rand = r
	}
	s.options = domain.SurpriseMe(r)
	s.template = ""
	return s.options.Clone()
}

// SavePreset snapshots the live options under a unique name and persists the
// full preset list.
func (s *Studio) SavePreset(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		return domain.Wrap(domain.ErrValidation, "preset name is required")
	}
	for _, p := range s.presets {
		if p.Name == name {
			return domain.Wrap(domain.ErrDuplicatePreset, "preset %q already exists", name)
		}
	}
	next := append(append([]domain.UserPreset{}, s.presets...),
		domain.UserPreset{Name: name, Options: s.options.Clone()})
	if err := s.repo.SavePresets(ctx, next); err != nil {
		return fmt.Errorf("studio: save presets: %w", err)
	}
	s.presets = next
	return nil
}

// DeletePreset removes a saved preset and persists the remaining list.
func (s *Studio) DeletePreset(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, p := range s.presets {
		if p.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Wrap(domain.ErrNotFound, "unknown preset: %s", name)
	}
	next := append(append([]domain.UserPreset{}, s.presets[:idx]...), s.presets[idx+1:]...)
	if err := s.repo.SavePresets(ctx, next); err != nil {
		return fmt.Errorf("studio: save presets: %w", err)
	}
	s.presets = next
	return nil
}

// SetBrandKit installs and persists the watermark configuration. It applies
// to generations started after this call.
func (s *Studio) SetBrandKit(ctx context.Context, kit domain.BrandKit) error {
	if kit.Logo != nil && len(kit.Logo.Data) > domain.MaxDesignBytes {
		return domain.Wrap(domain.ErrValidation, "%s", domain.MsgDesignTooLarge)
	}
	if err := s.repo.SaveBrandKit(ctx, kit); err != nil {
		return fmt.Errorf("studio: save brand kit: %w", err)
	}
	s.marker.SetKit(kit)
	return nil
}

// BrandKit returns the active watermark configuration.
func (s *Studio) BrandKit() domain.BrandKit { return s.marker.Kit() }

// Generate produces a single mockup from the live options and design. Every
// result slot is cleared on entry; on success the mockup slot is filled and a
// history entry is appended.
func (s *Studio) Generate(ctx context.Context) (domain.DesignFile, error) {
	opts, design, err := s.beginMockup(SlotMockup)
	if err != nil {
		return domain.DesignFile{}, err
	}

	img, err := s.gen.GenerateMockup(ctx, opts, design)
	if err == nil {
		img, err = s.persist(ctx, "mockups", img)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[SlotMockup] = false
	if err != nil {
		return domain.DesignFile{}, s.recordError(err)
	}
	s.mockup = &img
	s.history.Add(history.NewItem(img, opts))
	return img, nil
}

// Regenerate reruns a history entry's option snapshot against the current
// design and appends the result as a new entry.
func (s *Studio) Regenerate(ctx context.Context, historyID string) (domain.DesignFile, error) {
	item, ok := s.history.Get(historyID)
	if !ok {
		return domain.DesignFile{}, domain.Wrap(domain.ErrNotFound, "unknown history item: %s", historyID)
	}

	s.mu.Lock()
	if s.busy[SlotMockup] {
		s.mu.Unlock()
		return domain.DesignFile{}, domain.Wrap(domain.ErrSlotBusy, "a mockup generation is already running")
	}
	if s.design.IsZero() {
		err := s.fail(domain.Wrap(domain.ErrValidation, "%s", domain.MsgMissingDesign))
		s.mu.Unlock()
		return domain.DesignFile{}, err
	}
	s.busy[SlotMockup] = true
	s.lastError = ""
	s.clearResults()
	design := s.design
	s.mu.Unlock()

	opts := item.Options.Clone()
	img, err := s.gen.GenerateMockup(ctx, opts, design)
	if err == nil {
		img, err = s.persist(ctx, "mockups", img)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[SlotMockup] = false
	if err != nil {
		return domain.DesignFile{}, s.recordError(err)
	}
	s.mockup = &img
	s.history.Add(history.NewItem(img, opts))
	return img, nil
}

// GenerateBatch produces one mockup per named color. Results land in the
// batch slot in the request's color order, and every image gets its own
// history entry with the color recorded in the snapshot.
func (s *Studio) GenerateBatch(ctx context.Context, colorNames []string) ([]domain.DesignFile, error) {
	colors := make([]domain.ColorOption, 0, len(colorNames))
	for _, name := range colorNames {
		c, ok := domain.ColorByName(name)
		if !ok {
			return nil, domain.Wrap(domain.ErrValidation, "unknown color: %s", name)
		}
		colors = append(colors, c)
	}
	if len(colors) == 0 {
		return nil, domain.Wrap(domain.ErrValidation, "at least one color is required")
	}

	opts, design, err := s.beginMockup(SlotBatch)
	if err != nil {
		return nil, err
	}

	imgs, err := s.gen.GenerateBatch(ctx, opts, colors, design)
	if err == nil {
		for i := range imgs {
			imgs[i], err = s.persist(ctx, "batch", imgs[i])
			if err != nil {
				break
			}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[SlotBatch] = false
	if err != nil {
		return nil, s.recordError(err)
	}
	s.batch = imgs
	items := make([]domain.HistoryItem, len(imgs))
	for i, img := range imgs {
		snap := opts.Clone()
		snap.Color = colors[i]
		items[i] = history.NewItem(img, snap)
	}
	s.history.Add(items...)
	return imgs, nil
}

// Generate360 produces the four-angle turntable set. Each angle gets a
// history entry with its angle recorded in the snapshot.
func (s *Studio) Generate360(ctx context.Context) ([]domain.DesignFile, error) {
	opts, design, err := s.beginMockup(SlotView360)
	if err != nil {
		return nil, err
	}

	imgs, err := s.gen.Generate360(ctx, opts, design)
	if err == nil {
		for i := range imgs {
			imgs[i], err = s.persist(ctx, "view360", imgs[i])
			if err != nil {
				break
			}
		}
	}

	angles := []domain.Angle{domain.AngleFront, domain.AngleBack, domain.AngleLeftSide, domain.AngleRightSide}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[SlotView360] = false
	if err != nil {
		return nil, s.recordError(err)
	}
	s.view360 = imgs
	items := make([]domain.HistoryItem, len(imgs))
	for i, img := range imgs {
		snap := opts.Clone()
		snap.Angle = angles[i]
		items[i] = history.NewItem(img, snap)
	}
	s.history.Add(items...)
	return imgs, nil
}

// TryOn composites the design onto the garment in the user's photo. Both the
// photo and a design must be present.
func (s *Studio) TryOn(ctx context.Context, clothingType string) (domain.DesignFile, error) {
	s.mu.Lock()
	if s.busy[SlotTryOn] {
		s.mu.Unlock()
		return domain.DesignFile{}, domain.Wrap(domain.ErrSlotBusy, "a try-on is already running")
	}
	if s.userPhoto.IsZero() || s.design.IsZero() {
		err := s.fail(domain.Wrap(domain.ErrValidation, "%s", domain.MsgMissingPhoto))
		s.mu.Unlock()
		return domain.DesignFile{}, err
	}
	s.busy[SlotTryOn] = true
	s.lastError = ""
	s.clearResults()
	photo, design := s.userPhoto, s.design
	opts := domain.TryOnOptions{ClothingType: clothingType, Color: s.options.Color}
	s.mu.Unlock()

	img, err := s.gen.GenerateTryOn(ctx, photo, design, opts)
	if err == nil {
		img, err = s.persist(ctx, "tryon", img)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[SlotTryOn] = false
	if err != nil {
		return domain.DesignFile{}, s.recordError(err)
	}
	s.tryOn = &img
	return img, nil
}

// Edit applies a free-form instruction to the current mockup and replaces it,
// appending a history entry.
func (s *Studio) Edit(ctx context.Context, instruction string) (domain.DesignFile, error) {
	s.mu.Lock()
	if s.busy[SlotMockup] {
		s.mu.Unlock()
		return domain.DesignFile{}, domain.Wrap(domain.ErrSlotBusy, "a mockup generation is already running")
	}
	if s.mockup == nil {
		err := s.fail(domain.Wrap(domain.ErrValidation, "no mockup to edit"))
		s.mu.Unlock()
		return domain.DesignFile{}, err
	}
	if instruction == "" {
		err := s.fail(domain.Wrap(domain.ErrValidation, "edit instruction is required"))
		s.mu.Unlock()
		return domain.DesignFile{}, err
	}
	s.busy[SlotMockup] = true
	s.lastError = ""
	src := *s.mockup
	opts := s.options.Clone()
	s.mu.Unlock()

	img, err := s.gen.EditImage(ctx, src, instruction)
	if err == nil {
		img, err = s.persist(ctx, "mockups", img)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[SlotMockup] = false
	if err != nil {
		return domain.DesignFile{}, s.recordError(err)
	}
	s.mockup = &img
	s.history.Add(history.NewItem(img, opts))
	return img, nil
}

// Upscale re-renders the named slot's image at higher resolution and replaces
// it in place. Upscaling the mockup appends a history entry; upscaling the
// try-on result does not.
func (s *Studio) Upscale(ctx context.Context, slot Slot) (domain.DesignFile, error) {
	if slot != SlotMockup && slot != SlotTryOn {
		return domain.DesignFile{}, domain.Wrap(domain.ErrValidation, "cannot upscale slot: %s", slot)
	}

	s.mu.Lock()
	if s.busy[slot] {
		s.mu.Unlock()
		return domain.DesignFile{}, domain.Wrap(domain.ErrSlotBusy, "an operation for this result is already running")
	}
	var src *domain.DesignFile
	if slot == SlotMockup {
		src = s.mockup
	} else {
		src = s.tryOn
	}
	if src == nil {
		err := s.fail(domain.Wrap(domain.ErrValidation, "no image to upscale"))
		s.mu.Unlock()
		return domain.DesignFile{}, err
	}
	s.busy[slot] = true
	s.lastError = ""
	input := *src
	opts := s.options.Clone()
	s.mu.Unlock()

	img, err := s.gen.UpscaleImage(ctx, input)
	if err == nil {
		img, err = s.persist(ctx, "upscaled", img)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[slot] = false
	if err != nil {
		return domain.DesignFile{}, s.recordError(err)
	}
	if slot == SlotMockup {
		s.mockup = &img
		s.history.Add(history.NewItem(img, opts))
	} else {
		s.tryOn = &img
	}
	return img, nil
}

// GenerateDesign creates a print graphic from a description and installs it
// as the active design file.
func (s *Studio) GenerateDesign(ctx context.Context, description string) (domain.DesignFile, error) {
	if description == "" {
		s.mu.Lock()
		defer s.mu.Unlock()
		return domain.DesignFile{}, s.fail(domain.Wrap(domain.ErrValidation, "design description is required"))
	}
	img, err := s.gen.GenerateDesign(ctx, description)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return domain.DesignFile{}, s.recordError(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.design = img
	s.lastError = ""
	return img, nil
}

// RemoveBackground isolates the active design's subject and replaces the
// design with the transparent result.
func (s *Studio) RemoveBackground(ctx context.Context) (domain.DesignFile, error) {
	s.mu.Lock()
	if s.design.IsZero() {
		err := s.fail(domain.Wrap(domain.ErrValidation, "%s", domain.MsgMissingDesign))
		s.mu.Unlock()
		return domain.DesignFile{}, err
	}
	design := s.design
	s.mu.Unlock()

	img, err := s.gen.RemoveBackground(ctx, design)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		return domain.DesignFile{}, s.recordError(err)
	}
	s.design = img
	s.lastError = ""
	return img, nil
}

// SuggestColors asks the generator which catalog colors best complement the
// active design. An empty suggestion list is a valid degraded result.
func (s *Studio) SuggestColors(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	if s.design.IsZero() {
		err := s.fail(domain.Wrap(domain.ErrValidation, "%s", domain.MsgMissingDesign))
		s.mu.Unlock()
		return nil, err
	}
	design := s.design
	s.mu.Unlock()

	names := make([]string, len(domain.ShirtColors))
	for i, c := range domain.ShirtColors {
		names[i] = c.Name
	}
	suggested, err := s.gen.SuggestColors(ctx, design, names)
	if err != nil {
		s.mu.Lock()
		defer s.mu.Unlock()
		return nil, s.recordError(err)
	}
	return suggested, nil
}

// GenerateKit produces the marketing kit for the active design. Only the kit
// slot is touched and no history entry is recorded.
func (s *Studio) GenerateKit(ctx context.Context) (*domain.EcommerceKitResult, error) {
	s.mu.Lock()
	if s.busy[SlotKit] {
		s.mu.Unlock()
		return nil, domain.Wrap(domain.ErrSlotBusy, "a kit generation is already running")
	}
	if s.design.IsZero() {
		err := s.fail(domain.Wrap(domain.ErrValidation, "%s", domain.MsgMissingDesign))
		s.mu.Unlock()
		return nil, err
	}
	s.busy[SlotKit] = true
	s.lastError = ""
	s.kit = nil
	design := s.design
	s.mu.Unlock()

	kit, err := s.gen.GenerateKit(ctx, design)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[SlotKit] = false
	if err != nil {
		return nil, s.recordError(err)
	}
	s.kit = kit
	return kit, nil
}

// GenerateVideo runs the long-running video workflow. Only the video slot is
// touched and no history entry is recorded.
func (s *Studio) GenerateVideo(ctx context.Context) (domain.VideoFile, error) {
	opts, design, err := s.beginMockup(SlotVideo)
	if err != nil {
		return domain.VideoFile{}, err
	}

	vid, err := s.gen.GenerateVideo(ctx, opts, design)
	if err == nil && s.assets != nil {
		key, werr := s.assets.Write(ctx, "videos/"+uuid.NewString()+".mp4", vid.Data)
		if werr != nil {
			s.logger.Warn().Err(werr).Msg("studio: persist video failed")
		} else {
			vid.AssetKey = key
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy[SlotVideo] = false
	if err != nil {
		return domain.VideoFile{}, s.recordError(err)
	}
	s.video = &vid
	return vid, nil
}

// RestoreHistory reinstates a history entry's option snapshot and image into
// the mockup slot without recording a new entry.
func (s *Studio) RestoreHistory(id string) error {
	item, ok := s.history.Get(id)
	if !ok {
		return domain.Wrap(domain.ErrNotFound, "unknown history item: %s", id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	img := item.Image
	s.options = item.Options.Clone()
	s.template = ""
	s.clearResults()
	s.mockup = &img
	s.lastError = ""
	return nil
}

// beginMockup is the shared entry of operations that render from the live
// options and design: it enforces the slot's single-flight rule, the design
// precondition, snapshots both inputs, and clears the previous results so no
// stale image shows while the new one is in flight. Video clears only its own
// slot.
func (s *Studio) beginMockup(slot Slot) (domain.MockupOptions, domain.DesignFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy[slot] {
		return domain.MockupOptions{}, domain.DesignFile{}, domain.Wrap(domain.ErrSlotBusy, "an operation for this result is already running")
	}
	if s.design.IsZero() {
		return domain.MockupOptions{}, domain.DesignFile{}, s.fail(domain.Wrap(domain.ErrValidation, "%s", domain.MsgMissingDesign))
	}
	if err := s.options.Validate(); err != nil {
		return domain.MockupOptions{}, domain.DesignFile{}, s.fail(err)
	}
	s.busy[slot] = true
	s.lastError = ""
	if slot == SlotVideo {
		s.video = nil
	} else {
		s.clearResults()
	}
	return s.options.Clone(), s.design, nil
}

// persist watermarks a raster result and writes it to the asset store. A
// watermark failure fails the operation; a storage failure only degrades the
// result to one without an asset key.
func (s *Studio) persist(ctx context.Context, prefix string, img domain.DesignFile) (domain.DesignFile, error) {
	out, err := s.marker.Apply(img)
	if err != nil {
		return domain.DesignFile{}, fmt.Errorf("apply watermark: %w", err)
	}
	if s.assets == nil {
		return out, nil
	}
	key, err := s.assets.Write(ctx, prefix+"/"+uuid.NewString()+".png", out.Data)
	if err != nil {
		s.logger.Warn().Err(err).Str("prefix", prefix).Msg("studio: persist asset failed")
		return out, nil
	}
	out.AssetKey = key
	return out, nil
}

// clearResults empties every result slot. Callers hold the mutex.
func (s *Studio) clearResults() {
	s.mockup = nil
	s.batch = nil
	s.view360 = nil
	s.tryOn = nil
	s.video = nil
	s.kit = nil
}

// recordError stores the failure message in the shared error slot unless the
// operation was torn down by cancellation. Callers hold the mutex.
func (s *Studio) recordError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.lastError = err.Error()
	return err
}

// fail records a synchronous validation failure in the shared error slot.
// Callers hold the mutex.
func (s *Studio) fail(err error) error {
	s.lastError = err.Error()
	return err
}
