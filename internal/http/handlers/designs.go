package handlers

import (
	"encoding/json"
	"net/http"
)

// UploadDesign installs an uploaded design file.
func (a *App) UploadDesign(w http.ResponseWriter, r *http.Request) {
	var req filePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	file, err := req.decode()
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Studio.SetDesign(file); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

// UploadPhoto installs the try-on photo.
func (a *App) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	var req filePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	file, err := req.decode()
	if err != nil {
		a.fail(w, err)
		return
	}
	if err := a.Studio.SetUserPhoto(file); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}

type designRequest struct {
	Description string `json:"description"`
}

// GenerateDesign creates a print graphic from a description and installs it
// as the active design.
func (a *App) GenerateDesign(w http.ResponseWriter, r *http.Request) {
	var req designRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	img, err := a.Studio.GenerateDesign(r.Context(), req.Description)
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, encodeFile(img))
}

// RemoveBackground isolates the design's subject on transparency.
func (a *App) RemoveBackground(w http.ResponseWriter, r *http.Request) {
	img, err := a.Studio.RemoveBackground(r.Context())
	if err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, encodeFile(img))
}
