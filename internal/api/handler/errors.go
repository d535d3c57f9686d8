package handler

import (
	"net/http"

	"github.com/valnor-game/valnor/internal/api/apierr"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError
type ErrorResponse = apierr.ErrorResponse

// Re-export error codes
const (
	CodeInvalidRequest     = apierr.CodeInvalidRequest
	CodeInvalidAmount      = apierr.CodeInvalidAmount
	CodeInvalidSlot        = apierr.CodeInvalidSlot
	CodeInvalidHero        = apierr.CodeInvalidHero
	CodeInvalidGameMode    = apierr.CodeInvalidGameMode
	CodeInsufficientEnergy = apierr.CodeInsufficientEnergy
	CodeInsufficientGold   = apierr.CodeInsufficientGold
	CodeSessionRequired    = apierr.CodeSessionRequired
	CodeViewOnly           = apierr.CodeViewOnly
	CodeUnauthorized       = apierr.CodeUnauthorized
	CodeUsernameExists     = apierr.CodeUsernameExists
	CodeInvalidCredentials = apierr.CodeInvalidCredentials
	CodeInternalError      = apierr.CodeInternalError
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// NewSessionRequiredError creates a session required error
func NewSessionRequiredError() error {
	return apierr.NewSessionRequiredError()
}
