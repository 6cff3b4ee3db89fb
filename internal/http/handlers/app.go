// Package handlers exposes the studio over HTTP for the browser frontend.
package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"teestudio/internal/domain"
	"teestudio/internal/store"
	"teestudio/internal/studio"
)

type App struct {
	Studio *studio.Studio
	Assets *store.FileStore
	Logger zerolog.Logger
}

func NewApp(st *studio.Studio, assets *store.FileStore, logger zerolog.Logger) *App {
	return &App{Studio: st, Assets: assets, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, map[string]any{"error": errCode, "message": msg})
}

// fail translates a domain error into its HTTP shape. The message is always
// the error's own text so fixed user-facing strings survive verbatim.
func (a *App) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		a.error(w, http.StatusUnprocessableEntity, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrSlotBusy):
		a.error(w, http.StatusConflict, "busy", err.Error())
	case errors.Is(err, domain.ErrDuplicatePreset):
		a.error(w, http.StatusConflict, "duplicate_preset", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrCredentialInvalid):
		a.error(w, http.StatusBadGateway, "credential_invalid", err.Error())
	case errors.Is(err, domain.ErrParseFailed),
		errors.Is(err, domain.ErrDownloadFailed),
		errors.Is(err, domain.ErrGenerationFailed):
		a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to write.
	default:
		a.Logger.Error().Err(err).Msg("handlers: unexpected error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// filePayload is the wire shape of an uploaded or returned raster file.
type filePayload struct {
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType"`
	AssetKey string `json:"assetKey,omitempty"`
}

func (p filePayload) decode() (domain.DesignFile, error) {
	raw, err := base64.StdEncoding.DecodeString(p.Data)
	if err != nil {
		return domain.DesignFile{}, domain.Wrap(domain.ErrValidation, "invalid base64 payload")
	}
	if len(raw) == 0 {
		return domain.DesignFile{}, domain.Wrap(domain.ErrValidation, "empty file payload")
	}
	return domain.DesignFile{Data: raw, MimeType: p.MimeType}, nil
}

func encodeFile(f domain.DesignFile) filePayload {
	return filePayload{
		Data:     base64.StdEncoding.EncodeToString(f.Data),
		MimeType: f.MimeType,
		AssetKey: f.AssetKey,
	}
}

func encodeFiles(files []domain.DesignFile) []filePayload {
	out := make([]filePayload, len(files))
	for i, f := range files {
		out[i] = encodeFile(f)
	}
	return out
}
