package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrParseFailed       = errors.New("structured response malformed")
	ErrDownloadFailed    = errors.New("download failed")
	ErrCredentialInvalid = errors.New("credential invalid")
	ErrSlotBusy          = errors.New("operation already in flight")
	ErrDuplicatePreset   = errors.New("preset name already exists")
	ErrNotFound          = errors.New("not found")
)

// User-facing messages. These exact strings are part of the product contract
// and are surfaced verbatim in the shared error slot.
const (
	MsgMissingDesign     = "Please upload or generate a design file first."
	MsgMissingPhoto      = "Please upload your photo and a design file."
	MsgDesignTooLarge    = "File size should not exceed 4MB"
	MsgCredentialInvalid = "API Key invalid. Please select a valid key for this model in the MakerSuite tools."
	MsgNoImage           = "No image was generated."
	MsgNoDownloadLink    = "Video generation completed but no download link was found."
)

// Error carries a human-readable message tagged with one of the sentinel
// kinds above, so callers can both display Message and branch on errors.Is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Wrap builds a tagged Error with a formatted message.
func Wrap(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
