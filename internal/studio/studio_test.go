package studio

import (
	"context"
	"errors"
	"sync"
	"testing"

	"teestudio/internal/domain"
)

type memRepo struct {
	mu      sync.Mutex
	presets []domain.UserPreset
	kit     domain.BrandKit
	saves   int
}

func (m *memRepo) LoadPresets(ctx context.Context) ([]domain.UserPreset, error) {
	return append([]domain.UserPreset{}, m.presets...), nil
}

func (m *memRepo) SavePresets(ctx context.Context, presets []domain.UserPreset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets = append([]domain.UserPreset{}, presets...)
	m.saves++
	return nil
}

func (m *memRepo) LoadBrandKit(ctx context.Context) (domain.BrandKit, error) { return m.kit, nil }

func (m *memRepo) SaveBrandKit(ctx context.Context, kit domain.BrandKit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kit = kit
	return nil
}

type stubGen struct {
	mu       sync.Mutex
	calls    int
	err      error
	blocking chan struct{}
	lastOpts domain.MockupOptions
}

func (s *stubGen) record(opts domain.MockupOptions) error {
	s.mu.Lock()
	s.calls++
	s.lastOpts = opts
	s.mu.Unlock()
	return s.err
}

func (s *stubGen) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func file(tag string) domain.DesignFile {
	return domain.DesignFile{Data: []byte(tag), MimeType: "image/png"}
}

func (s *stubGen) GenerateMockup(ctx context.Context, opts domain.MockupOptions, design domain.DesignFile) (domain.DesignFile, error) {
	err := s.record(opts)
	if s.blocking != nil {
		<-s.blocking
	}
	if err != nil {
		return domain.DesignFile{}, err
	}
	return file("mockup"), nil
}

func (s *stubGen) GenerateBatch(ctx context.Context, opts domain.MockupOptions, colors []domain.ColorOption, design domain.DesignFile) ([]domain.DesignFile, error) {
	if err := s.record(opts); err != nil {
		return nil, err
	}
	out := make([]domain.DesignFile, len(colors))
	for i, c := range colors {
		out[i] = file("batch-" + c.Name)
	}
	return out, nil
}

func (s *stubGen) Generate360(ctx context.Context, opts domain.MockupOptions, design domain.DesignFile) ([]domain.DesignFile, error) {
	if err := s.record(opts); err != nil {
		return nil, err
	}
	return []domain.DesignFile{file("front"), file("back"), file("left"), file("right")}, nil
}

func (s *stubGen) GenerateTryOn(ctx context.Context, photo, design domain.DesignFile, opts domain.TryOnOptions) (domain.DesignFile, error) {
	if err := s.record(domain.MockupOptions{}); err != nil {
		return domain.DesignFile{}, err
	}
	return file("tryon"), nil
}

func (s *stubGen) EditImage(ctx context.Context, img domain.DesignFile, instruction string) (domain.DesignFile, error) {
	if err := s.record(domain.MockupOptions{}); err != nil {
		return domain.DesignFile{}, err
	}
	return file("edited"), nil
}

func (s *stubGen) UpscaleImage(ctx context.Context, img domain.DesignFile) (domain.DesignFile, error) {
	if err := s.record(domain.MockupOptions{}); err != nil {
		return domain.DesignFile{}, err
	}
	return file("upscaled"), nil
}

func (s *stubGen) GenerateDesign(ctx context.Context, description string) (domain.DesignFile, error) {
	if err := s.record(domain.MockupOptions{}); err != nil {
		return domain.DesignFile{}, err
	}
	return file("design"), nil
}

func (s *stubGen) RemoveBackground(ctx context.Context, design domain.DesignFile) (domain.DesignFile, error) {
	if err := s.record(domain.MockupOptions{}); err != nil {
		return domain.DesignFile{}, err
	}
	return file("nobg"), nil
}

func (s *stubGen) SuggestColors(ctx context.Context, design domain.DesignFile, colorNames []string) ([]string, error) {
	if err := s.record(domain.MockupOptions{}); err != nil {
		return nil, err
	}
	return []string{"Black"}, nil
}

func (s *stubGen) GenerateKit(ctx context.Context, design domain.DesignFile) (*domain.EcommerceKitResult, error) {
	if err := s.record(domain.MockupOptions{}); err != nil {
		return nil, err
	}
	return &domain.EcommerceKitResult{Title: "Shirt"}, nil
}

func (s *stubGen) GenerateVideo(ctx context.Context, opts domain.MockupOptions, design domain.DesignFile) (domain.VideoFile, error) {
	if err := s.record(opts); err != nil {
		return domain.VideoFile{}, err
	}
	return domain.VideoFile{Data: []byte("video"), MimeType: "video/mp4"}, nil
}

func newStudio(t *testing.T, gen Generator) *Studio {
	t.Helper()
	st, err := New(context.Background(), Options{Generator: gen, Repo: &memRepo{}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return st
}

func TestGenerateRequiresDesign(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)

	_, err := st.Generate(context.Background())
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if err.Error() != domain.MsgMissingDesign {
		t.Fatalf("message = %q", err.Error())
	}
	if gen.callCount() != 0 {
		t.Fatalf("generator called %d times before validation", gen.callCount())
	}
	if st.State().LastError != domain.MsgMissingDesign {
		t.Fatalf("error slot = %q", st.State().LastError)
	}
}

func TestGenerateFillsSlotAndHistory(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	if err := st.SetDesign(file("art")); err != nil {
		t.Fatalf("SetDesign: %v", err)
	}

	img, err := st.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	state := st.State()
	if state.Mockup == nil || string(state.Mockup.Data) != string(img.Data) {
		t.Fatal("mockup slot not filled")
	}
	if state.LastError != "" {
		t.Fatalf("error slot = %q", state.LastError)
	}
	items := st.History()
	if len(items) != 1 {
		t.Fatalf("history len = %d, want 1", len(items))
	}
	if items[0].Options.Color.Name != state.Options.Color.Name {
		t.Fatal("history snapshot should match the options at submission")
	}
}

func TestGenerateSnapshotsOptions(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	black := "Black"
	if err := st.SetOptions(domain.OptionsPatch{Color: &black}); err != nil {
		t.Fatalf("SetOptions: %v", err)
	}
	if _, err := st.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if gen.lastOpts.Color.Name != "Black" {
		t.Fatalf("generator saw color %q", gen.lastOpts.Color.Name)
	}
	if st.History()[0].Options.Color.Name != "Black" {
		t.Fatal("history snapshot lost the selected color")
	}
}

func TestGenerateBatchRecordsPerColorHistory(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	imgs, err := st.GenerateBatch(context.Background(), []string{"White", "Black", "Navy"})
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if len(imgs) != 3 {
		t.Fatalf("len = %d", len(imgs))
	}
	state := st.State()
	if len(state.Batch) != 3 {
		t.Fatalf("batch slot len = %d", len(state.Batch))
	}
	items := st.History()
	if len(items) != 3 {
		t.Fatalf("history len = %d, want 3", len(items))
	}
	// Block order is preserved at the head, most recent first overall.
	if items[0].Options.Color.Name != "White" || items[2].Options.Color.Name != "Navy" {
		t.Fatalf("history color order: %s, %s, %s",
			items[0].Options.Color.Name, items[1].Options.Color.Name, items[2].Options.Color.Name)
	}
}

func TestGenerateBatchUnknownColor(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	_, err := st.GenerateBatch(context.Background(), []string{"Chartreuse"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if gen.callCount() != 0 {
		t.Fatal("generator should not run for unknown colors")
	}
}

func TestGenerateBatchFailureKeepsHistoryClean(t *testing.T) {
	gen := &stubGen{err: domain.Wrap(domain.ErrGenerationFailed, "backend down")}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	_, err := st.GenerateBatch(context.Background(), []string{"White", "Black"})
	if !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("want generation error, got %v", err)
	}
	if len(st.History()) != 0 {
		t.Fatal("failed batch must not append history")
	}
	if st.State().LastError != "backend down" {
		t.Fatalf("error slot = %q", st.State().LastError)
	}
}

func TestGenerateClearsSlotsOnEntry(t *testing.T) {
	gen := &stubGen{blocking: make(chan struct{})}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	gen.blocking = nil
	if _, err := st.GenerateKit(context.Background()); err != nil {
		t.Fatalf("GenerateKit: %v", err)
	}
	if _, err := st.GenerateVideo(context.Background()); err != nil {
		t.Fatalf("GenerateVideo: %v", err)
	}
	state := st.State()
	if state.Kit == nil || state.Video == nil {
		t.Fatal("kit and video slots should be filled")
	}

	gen.blocking = make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		st.Generate(context.Background())
	}()
	for gen.callCount() < 3 {
	}

	// The previous results vanish the moment the generation enters flight,
	// before the backend answers.
	state = st.State()
	if state.Kit != nil || state.Video != nil || state.Batch != nil || state.TryOn != nil || state.Mockup != nil {
		t.Fatal("entering flight should clear every previous result slot")
	}

	close(gen.blocking)
	<-done
	if st.State().Mockup == nil {
		t.Fatal("mockup slot missing after completion")
	}
}

func TestFailedGenerateDoesNotKeepStaleMockup(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	if _, err := st.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if st.State().Mockup == nil {
		t.Fatal("first generation should fill the mockup slot")
	}

	gen.err = domain.Wrap(domain.ErrGenerationFailed, "backend down")
	if _, err := st.Generate(context.Background()); !errors.Is(err, domain.ErrGenerationFailed) {
		t.Fatalf("want generation error, got %v", err)
	}
	state := st.State()
	if state.Mockup != nil {
		t.Fatalf("stale mockup %q must not survive a failed generation", state.Mockup.Data)
	}
	if state.LastError != "backend down" {
		t.Fatalf("error slot = %q", state.LastError)
	}
}

func TestKitFailureLeavesMockupSlot(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))
	if _, err := st.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	gen.err = domain.Wrap(domain.ErrGenerationFailed, "kit failed")
	if _, err := st.GenerateKit(context.Background()); err == nil {
		t.Fatal("expected kit failure")
	}
	if st.State().Mockup == nil {
		t.Fatal("failed kit must not disturb the mockup slot")
	}
	if len(st.History()) != 1 {
		t.Fatalf("history len = %d, want 1", len(st.History()))
	}
}

func TestKitAndVideoSkipHistory(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	if _, err := st.GenerateKit(context.Background()); err != nil {
		t.Fatalf("GenerateKit: %v", err)
	}
	if _, err := st.GenerateVideo(context.Background()); err != nil {
		t.Fatalf("GenerateVideo: %v", err)
	}
	if len(st.History()) != 0 {
		t.Fatalf("history len = %d, want 0", len(st.History()))
	}
}

func TestTryOnRequiresPhotoAndDesign(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	_, err := st.TryOn(context.Background(), "t-shirt")
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if err.Error() != domain.MsgMissingPhoto {
		t.Fatalf("message = %q", err.Error())
	}

	st.SetUserPhoto(file("photo"))
	img, err := st.TryOn(context.Background(), "t-shirt")
	if err != nil {
		t.Fatalf("TryOn: %v", err)
	}
	if string(img.Data) != "tryon" {
		t.Fatalf("result = %q", img.Data)
	}
	if len(st.History()) != 0 {
		t.Fatal("try-on must not append history")
	}
}

func TestEditReplacesMockupAndAppendsHistory(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))
	if _, err := st.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	img, err := st.Edit(context.Background(), "make it glow")
	if err != nil {
		t.Fatalf("Edit: %v", err)
	}
	if string(img.Data) != "edited" {
		t.Fatalf("result = %q", img.Data)
	}
	if string(st.State().Mockup.Data) != "edited" {
		t.Fatal("mockup slot not replaced")
	}
	if len(st.History()) != 2 {
		t.Fatalf("history len = %d, want 2", len(st.History()))
	}
}

func TestUpscaleTryOnSkipsHistory(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))
	st.SetUserPhoto(file("photo"))
	if _, err := st.TryOn(context.Background(), "t-shirt"); err != nil {
		t.Fatalf("TryOn: %v", err)
	}

	img, err := st.Upscale(context.Background(), SlotTryOn)
	if err != nil {
		t.Fatalf("Upscale: %v", err)
	}
	if string(img.Data) != "upscaled" {
		t.Fatalf("result = %q", img.Data)
	}
	if string(st.State().TryOn.Data) != "upscaled" {
		t.Fatal("try-on slot not replaced")
	}
	if len(st.History()) != 0 {
		t.Fatal("upscaling a try-on must not append history")
	}
}

func TestSlotBusySingleFlight(t *testing.T) {
	gen := &stubGen{blocking: make(chan struct{})}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		st.Generate(context.Background())
	}()

	// Wait for the first call to reach the generator.
	for gen.callCount() == 0 {
	}
	_, err := st.Generate(context.Background())
	if !errors.Is(err, domain.ErrSlotBusy) {
		t.Fatalf("want slot busy, got %v", err)
	}

	// A different slot stays available while the mockup is in flight.
	if _, err := st.GenerateKit(context.Background()); err != nil {
		t.Fatalf("GenerateKit during mockup: %v", err)
	}

	close(gen.blocking)
	<-done
}

func TestCancellationLeavesStateUntouched(t *testing.T) {
	gen := &stubGen{err: context.Canceled}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	_, err := st.Generate(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	state := st.State()
	if state.LastError != "" {
		t.Fatalf("cancellation must not set the error slot, got %q", state.LastError)
	}
	if state.Mockup != nil || len(st.History()) != 0 {
		t.Fatal("cancellation must not write results")
	}
}

func TestSetDesignSizeGate(t *testing.T) {
	st := newStudio(t, &stubGen{})
	big := domain.DesignFile{Data: make([]byte, domain.MaxDesignBytes+1), MimeType: "image/png"}
	err := st.SetDesign(big)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
	if err.Error() != domain.MsgDesignTooLarge {
		t.Fatalf("message = %q", err.Error())
	}
	if !st.State().Design.IsZero() {
		t.Fatal("oversized design must not be installed")
	}
}

func TestSavePresetUniqueness(t *testing.T) {
	repo := &memRepo{}
	st, err := New(context.Background(), Options{Generator: &stubGen{}, Repo: repo})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := st.SavePreset(context.Background(), "My Look"); err != nil {
		t.Fatalf("SavePreset: %v", err)
	}
	err = st.SavePreset(context.Background(), "My Look")
	if !errors.Is(err, domain.ErrDuplicatePreset) {
		t.Fatalf("want duplicate preset error, got %v", err)
	}
	if len(repo.presets) != 1 {
		t.Fatalf("persisted presets = %d, want 1", len(repo.presets))
	}

	if err := st.DeletePreset(context.Background(), "My Look"); err != nil {
		t.Fatalf("DeletePreset: %v", err)
	}
	if err := st.DeletePreset(context.Background(), "My Look"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
	if len(repo.presets) != 0 {
		t.Fatalf("persisted presets = %d, want 0", len(repo.presets))
	}
}

func TestRestoreHistoryDoesNotAppend(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	black := "Black"
	st.SetOptions(domain.OptionsPatch{Color: &black})
	if _, err := st.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	id := st.History()[0].ID

	white := "White"
	st.SetOptions(domain.OptionsPatch{Color: &white})
	if err := st.RestoreHistory(id); err != nil {
		t.Fatalf("RestoreHistory: %v", err)
	}
	state := st.State()
	if state.Options.Color.Name != "Black" {
		t.Fatalf("restored color = %q", state.Options.Color.Name)
	}
	if state.Mockup == nil {
		t.Fatal("restored image missing from mockup slot")
	}
	if len(st.History()) != 1 {
		t.Fatal("restore must not append a new history entry")
	}
}

func TestRestoreHistoryClearsOtherSlots(t *testing.T) {
	gen := &stubGen{}
	st := newStudio(t, gen)
	st.SetDesign(file("art"))

	if _, err := st.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	id := st.History()[0].ID
	if _, err := st.GenerateKit(context.Background()); err != nil {
		t.Fatalf("GenerateKit: %v", err)
	}
	if _, err := st.GenerateVideo(context.Background()); err != nil {
		t.Fatalf("GenerateVideo: %v", err)
	}

	if err := st.RestoreHistory(id); err != nil {
		t.Fatalf("RestoreHistory: %v", err)
	}
	state := st.State()
	if state.Kit != nil || state.Video != nil || state.Batch != nil || state.TryOn != nil {
		t.Fatal("restore should clear every other result slot")
	}
	if state.Mockup == nil {
		t.Fatal("restored image missing from mockup slot")
	}
}

func TestSetTransformForcesCustom(t *testing.T) {
	st := newStudio(t, &stubGen{})
	err := st.SetTransform(domain.DesignTransform{
		Position: domain.Position{X: 0.3, Y: 0.7},
		Scale:    0.5,
		Rotation: 45,
	})
	if err != nil {
		t.Fatalf("SetTransform: %v", err)
	}
	state := st.State()
	if state.Options.Placement != domain.PlacementCustom || state.Options.ScaleMode != domain.ScaleCustom {
		t.Fatal("transform must force custom placement and scale")
	}
	if state.Template != "" {
		t.Fatal("transform must detach the template")
	}

	if err := st.SetTransform(domain.DesignTransform{Scale: 2}); err == nil {
		t.Fatal("expected out-of-range transform to be rejected")
	}
}

func TestSurpriseMeStaysInCatalog(t *testing.T) {
	st := newStudio(t, &stubGen{})
	for i := 0; i < 50; i++ {
		opts := st.SurpriseMe()
		if opts.Angle != domain.AngleFront {
			t.Fatalf("angle = %q, want front", opts.Angle)
		}
		if opts.Background == domain.CustomBackgroundPrompt {
			t.Fatal("surprise must never pick the custom background sentinel")
		}
		if opts.SceneAdditions != "" || opts.ModelAppearance != "" || opts.CustomBackground != "" {
			t.Fatal("surprise must clear free-text fields")
		}
		if _, ok := domain.ColorByName(opts.Color.Name); !ok {
			t.Fatalf("color %q not in catalog", opts.Color.Name)
		}
	}
	if st.State().Template != "" {
		t.Fatal("surprise must detach the template")
	}
}

func TestApplyTemplateResetsOptions(t *testing.T) {
	st := newStudio(t, &stubGen{})
	if err := st.ApplyTemplate("Streetwear Vibe"); err != nil {
		t.Fatalf("ApplyTemplate: %v", err)
	}
	state := st.State()
	if state.Template != "Streetwear Vibe" {
		t.Fatalf("template = %q", state.Template)
	}
	if state.Options.Fit != domain.FitOversized || state.Options.ArtStyle != domain.StyleGrungy {
		t.Fatal("template options not applied")
	}

	if err := st.ApplyTemplate("Nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want not found, got %v", err)
	}
}

func TestGenerateDesignInstallsFile(t *testing.T) {
	st := newStudio(t, &stubGen{})
	img, err := st.GenerateDesign(context.Background(), "a roaring lion")
	if err != nil {
		t.Fatalf("GenerateDesign: %v", err)
	}
	if string(img.Data) != "design" {
		t.Fatalf("result = %q", img.Data)
	}
	if string(st.State().Design.Data) != "design" {
		t.Fatal("generated design must become the active design")
	}

	if _, err := st.GenerateDesign(context.Background(), ""); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestRemoveBackgroundReplacesDesign(t *testing.T) {
	st := newStudio(t, &stubGen{})
	if _, err := st.RemoveBackground(context.Background()); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("want validation error without design, got %v", err)
	}

	st.SetDesign(file("art"))
	img, err := st.RemoveBackground(context.Background())
	if err != nil {
		t.Fatalf("RemoveBackground: %v", err)
	}
	if string(img.Data) != "nobg" || string(st.State().Design.Data) != "nobg" {
		t.Fatal("design not replaced with the transparent result")
	}
}

func TestSetBrandKitPersists(t *testing.T) {
	repo := &memRepo{}
	st, err := New(context.Background(), Options{Generator: &stubGen{}, Repo: repo})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logo := file("logo")
	if err := st.SetBrandKit(context.Background(), domain.BrandKit{Logo: &logo, ApplyWatermark: true}); err != nil {
		t.Fatalf("SetBrandKit: %v", err)
	}
	if !repo.kit.ApplyWatermark || repo.kit.Logo == nil {
		t.Fatal("brand kit not persisted")
	}
	if !st.BrandKit().ApplyWatermark {
		t.Fatal("brand kit not active")
	}
}
