package handlers

import (
	"encoding/json"
	"net/http"

	"teestudio/internal/studio"
)

// Generate renders a single mockup from the live options and design.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	img, err := a.Studio.Generate(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, encodeFile(img))
}

type regenerateRequest struct {
	HistoryID string `json:"historyId"`
}

// Regenerate reruns a history entry's option snapshot with the current design.
func (a *App) Regenerate(w http.ResponseWriter, r *http.Request) {
	var req regenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	img, err := a.Studio.Regenerate(r.Context(), req.HistoryID)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, encodeFile(img))
}

type batchRequest struct {
	Colors []string `json:"colors"`
}

// GenerateBatch renders one mockup per requested catalog color.
func (a *App) GenerateBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	imgs, err := a.Studio.GenerateBatch(r.Context(), req.Colors)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"images": encodeFiles(imgs)})
}

// Generate360 renders the four-angle turntable set.
func (a *App) Generate360(w http.ResponseWriter, r *http.Request) {
	imgs, err := a.Studio.Generate360(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"images": encodeFiles(imgs)})
}

type tryOnRequest struct {
	ClothingType string `json:"clothingType"`
}

// TryOn composites the design onto the garment in the uploaded photo.
func (a *App) TryOn(w http.ResponseWriter, r *http.Request) {
	var req tryOnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if req.ClothingType == "" {
		req.ClothingType = "t-shirt"
	}
	img, err := a.Studio.TryOn(r.Context(), req.ClothingType)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, encodeFile(img))
}

type editRequest struct {
	Instruction string `json:"instruction"`
}

// Edit applies a free-form instruction to the current mockup.
func (a *App) Edit(w http.ResponseWriter, r *http.Request) {
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	img, err := a.Studio.Edit(r.Context(), req.Instruction)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, encodeFile(img))
}

type upscaleRequest struct {
	Slot string `json:"slot"`
}

// Upscale re-renders the mockup or try-on result at higher resolution.
func (a *App) Upscale(w http.ResponseWriter, r *http.Request) {
	var req upscaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	slot := studio.Slot(req.Slot)
	if slot == "" {
		slot = studio.SlotMockup
	}
	img, err := a.Studio.Upscale(r.Context(), slot)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, encodeFile(img))
}

// GenerateKit produces the e-commerce marketing kit for the active design.
func (a *App) GenerateKit(w http.ResponseWriter, r *http.Request) {
	kit, err := a.Studio.GenerateKit(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, kit)
}

// GenerateVideo runs the long-running video workflow to completion.
func (a *App) GenerateVideo(w http.ResponseWriter, r *http.Request) {
	vid, err := a.Studio.GenerateVideo(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"mimeType": vid.MimeType,
		"assetKey": vid.AssetKey,
	})
}

// SuggestColors asks which catalog colors best complement the design.
func (a *App) SuggestColors(w http.ResponseWriter, r *http.Request) {
	colors, err := a.Studio.SuggestColors(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	if colors == nil {
		colors = []string{}
	}
	a.json(w, http.StatusOK, map[string]any{"colors": colors})
}
