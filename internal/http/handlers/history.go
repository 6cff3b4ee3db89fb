package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"teestudio/internal/domain"
)

type historyEntry struct {
	ID        string               `json:"id"`
	Image     filePayload          `json:"image"`
	Options   domain.MockupOptions `json:"options"`
	CreatedAt string               `json:"createdAt"`
}

// History lists the generation history, most recent first.
func (a *App) History(w http.ResponseWriter, r *http.Request) {
	items := a.Studio.History()
	entries := make([]historyEntry, len(items))
	for i, item := range items {
		entries[i] = historyEntry{
			ID:        item.ID,
			Image:     filePayload{MimeType: item.Image.MimeType, AssetKey: item.Image.AssetKey},
			Options:   item.Options,
			CreatedAt: item.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	a.json(w, http.StatusOK, map[string]any{"items": entries})
}

// RestoreHistory reinstates an entry's options and image into the mockup slot.
func (a *App) RestoreHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := a.Studio.RestoreHistory(id); err != nil {
		a.fail(w, err)
		return
	}
	a.json(w, http.StatusOK, a.Studio.State())
}
