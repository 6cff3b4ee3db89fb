package handlers

import (
	"encoding/json"
	"net/http"

	"teestudio/internal/domain"
)

// State returns the full studio snapshot.
func (a *App) State(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Studio.State())
}

// Catalog lists the fixed option catalogs the frontend renders pickers from.
func (a *App) Catalog(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{
		"colors":      domain.ShirtColors,
		"backgrounds": domain.Backgrounds,
		"artStyles":   domain.ArtStyles,
		"fabrics":     domain.Fabrics,
		"placements":  domain.Placements,
		"scales":      domain.Scales,
		"templates":   domain.Templates(),
	})
}

// SetOptions merges a partial option update into the live model.
func (a *App) SetOptions(w http.ResponseWriter, r *http.Request) {
	var patch domain.OptionsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Studio.SetOptions(patch); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Studio.State().Options)
}

// SetTransform installs a free design placement from the 3D viewport.
func (a *App) SetTransform(w http.ResponseWriter, r *http.Request) {
	var t domain.DesignTransform
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Studio.SetTransform(t); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Studio.State().Options)
}

type templateRequest struct {
	Name string `json:"name"`
}

// ApplyTemplate resets the live options to a built-in template.
func (a *App) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	if err := a.Studio.ApplyTemplate(req.Name); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Studio.State().Options)
}

// SurpriseMe randomizes the enumerated option fields.
func (a *App) SurpriseMe(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, a.Studio.SurpriseMe())
}
