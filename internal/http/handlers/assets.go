package handlers

import (
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
)

// DownloadAsset streams a stored asset by its key.
func (a *App) DownloadAsset(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "asset key required")
		return
	}
	data, err := a.Assets.Read(r.Context(), key)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "asset not found")
		return
	}
	ct := "application/octet-stream"
	switch path.Ext(key) {
	case ".png":
		ct = "image/png"
	case ".jpg", ".jpeg":
		ct = "image/jpeg"
	case ".mp4":
		ct = "video/mp4"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
