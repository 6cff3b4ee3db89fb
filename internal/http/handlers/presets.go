package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"teestudio/internal/domain"
)

// ListPresets returns the saved user presets.
func (a *App) ListPresets(w http.ResponseWriter, r *http.Request) {
	presets := a.Studio.State().Presets
	if presets == nil {
		presets = []domain.UserPreset{}
	}
	a.json(w, http.StatusOK, map[string]any{"presets": presets})
}

type presetRequest struct {
	Name string `json:"name"`
}

// SavePreset snapshots the live options under a unique name.
func (a *App) SavePreset(w http.ResponseWriter, r *http.Request) {
	var req presetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Studio.SavePreset(r.Context(), req.Name); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]string{"status": "ok"})
}

// DeletePreset removes a saved preset by name.
func (a *App) DeletePreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := a.Studio.DeletePreset(r.Context(), name); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ApplyPreset resets the live options to a saved preset.
func (a *App) ApplyPreset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := a.Studio.ApplyPreset(name); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Studio.State().Options)
}

type brandKitRequest struct {
	Logo           *filePayload `json:"logo,omitempty"`
	ApplyWatermark bool         `json:"applyWatermark"`
}

// GetBrandKit returns the active watermark configuration.
func (a *App) GetBrandKit(w http.ResponseWriter, r *http.Request) {
	kit := a.Studio.BrandKit()
	resp := brandKitRequest{ApplyWatermark: kit.ApplyWatermark}
	if kit.Logo != nil {
		p := encodeFile(*kit.Logo)
		resp.Logo = &p
	}
	a.json(w, http.StatusOK, resp)
}

// SetBrandKit installs and persists the watermark configuration.
func (a *App) SetBrandKit(w http.ResponseWriter, r *http.Request) {
	var req brandKitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	kit := domain.BrandKit{ApplyWatermark: req.ApplyWatermark}
	if req.Logo != nil {
		logo, err := req.Logo.decode()
		if err != nil {
			a.fail(w, err)
			return
		}
		kit.Logo = &logo
	}
	if err := a.Studio.SetBrandKit(r.Context(), kit); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
