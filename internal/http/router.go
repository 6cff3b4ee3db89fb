// Package httpapi assembles the chi router for the studio API.
package httpapi

import (
	stdhttp "net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"teestudio/internal/http/handlers"
	"teestudio/internal/infra"
	"teestudio/internal/middleware"
)

func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.Logger(logger))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.AllowedOrigins))
	}
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/studio", func(r chi.Router) {
		r.Get("/state", app.State)
		r.Get("/catalog", app.Catalog)
		r.Patch("/options", app.SetOptions)
		r.Put("/transform", app.SetTransform)
		r.Post("/template", app.ApplyTemplate)
		r.Post("/surprise", app.SurpriseMe)
	})

	r.Route("/v1/designs", func(r chi.Router) {
		r.Post("/", app.UploadDesign)
		r.Post("/generate", app.GenerateDesign)
		r.Post("/remove-background", app.RemoveBackground)
		r.Post("/suggest-colors", app.SuggestColors)
		r.Post("/photo", app.UploadPhoto)
	})

	r.Route("/v1/mockups", func(r chi.Router) {
		r.Post("/", app.Generate)
		r.Post("/regenerate", app.Regenerate)
		r.Post("/batch", app.GenerateBatch)
		r.Post("/view360", app.Generate360)
		r.Post("/try-on", app.TryOn)
		r.Post("/edit", app.Edit)
		r.Post("/upscale", app.Upscale)
		r.Post("/kit", app.GenerateKit)
		r.Post("/video", app.GenerateVideo)
	})

	r.Route("/v1/presets", func(r chi.Router) {
		r.Get("/", app.ListPresets)
		r.Post("/", app.SavePreset)
		r.Post("/{name}/apply", app.ApplyPreset)
		r.Delete("/{name}", app.DeletePreset)
	})

	r.Route("/v1/brand-kit", func(r chi.Router) {
		r.Get("/", app.GetBrandKit)
		r.Put("/", app.SetBrandKit)
	})

	r.Route("/v1/history", func(r chi.Router) {
		r.Get("/", app.History)
		r.Post("/{id}/restore", app.RestoreHistory)
	})

	r.Get("/v1/assets/*", app.DownloadAsset)

	return r
}
