package apierr

import (
	"errors"
	"net/http"

	"github.com/valnor-game/valnor/internal/api/response"
	"github.com/valnor-game/valnor/internal/model"
	"github.com/valnor-game/valnor/internal/services/auth"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Shortfall is set on insufficient-resource errors
	Shortfall int `json:"shortfall,omitempty"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeInvalidSlot        = "INVALID_SLOT"
	CodeInvalidHero        = "INVALID_HERO"
	CodeInvalidGameMode    = "INVALID_GAME_MODE"
	CodeInsufficientEnergy = "INSUFFICIENT_ENERGY"
	CodeInsufficientGold   = "INSUFFICIENT_GOLD"
	CodeSessionRequired    = "SESSION_REQUIRED"
	CodeViewOnly           = "VIEW_ONLY"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	response.JSON(w, he.status, ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Model errors
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidAmount, Message: "Amount must be positive"}}
	case errors.Is(err, model.ErrInvalidSlot):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidSlot, Message: "Team slot is out of range"}}
	case errors.Is(err, model.ErrInvalidHero):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidHero, Message: "Hero id is required"}}
	case errors.Is(err, model.ErrInvalidGameMode):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidGameMode, Message: "Unknown game mode"}}

	// Auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeInvalidCredentials, Message: "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{Code: CodeUsernameExists, Message: "Username already exists"}}
	case errors.Is(err, auth.ErrInvalidUsername), errors.Is(err, auth.ErrInvalidPassword):
		return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: err.Error()}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{Code: CodeInvalidRequest, Message: message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{Code: CodeUnauthorized, Message: "Authentication required"}}
}

// NewSessionRequiredError is returned when a client with no session calls a
// player endpoint
func NewSessionRequiredError() error {
	return &httpError{http.StatusForbidden, APIError{Code: CodeSessionRequired, Message: "Start a guest or account session first"}}
}

// NewViewOnlyError is returned when a guest attempts a write on a view-only section
func NewViewOnlyError() error {
	return &httpError{http.StatusForbidden, APIError{Code: CodeViewOnly, Message: "Create an account to do this"}}
}

// NewInsufficientEnergyError reports how much energy the request is missing
func NewInsufficientEnergyError(shortfall int) error {
	return &httpError{http.StatusConflict, APIError{Code: CodeInsufficientEnergy, Message: "Not enough energy", Shortfall: shortfall}}
}

// NewInsufficientGoldError reports how much gold the request is missing
func NewInsufficientGoldError(shortfall int) error {
	return &httpError{http.StatusConflict, APIError{Code: CodeInsufficientGold, Message: "Not enough gold", Shortfall: shortfall}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{Code: CodeInternalError, Message: "Internal server error"}}
}
