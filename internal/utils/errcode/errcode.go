package errcode

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

var (
	// Album Errors
	ErrAlbumNotFound         = errors.New("album not found")
	ErrAlbumAmbiguous        = errors.New("more than one album matched")
	ErrAlbumAlreadyExists    = errors.New("album already exists")
	ErrInvalidAlbumReference = errors.New("referenced album does not exist")

	// Input Errors
	ErrBadRequest   = errors.New("bad request")
	ErrInvalidInput = errors.New("invalid input")

	// Storage Errors
	ErrDatabaseUnavailable = errors.New("database unavailable")
	ErrDatabaseTransaction = errors.New("database transaction failed")
	ErrDatabaseError       = errors.New("database error")
	ErrSessionUnavailable  = errors.New("request session unavailable")

	// Common Errors
	ErrInternalServerError = errors.New("internal server error")
)

// errorKind is what the HTTP layer reports for an application error: a status and a
// stable machine-readable code clients can branch on.
type errorKind struct {
	status int
	code   string
}

var errorKinds = map[error]errorKind{
	// 400 Bad Request Errors
	ErrBadRequest:   {fiber.StatusBadRequest, "bad_request"},
	ErrInvalidInput: {fiber.StatusBadRequest, "invalid_input"},

	// 404 Not Found Errors
	ErrAlbumNotFound: {fiber.StatusNotFound, "album_not_found"},

	// 409 Conflict Errors
	ErrAlbumAmbiguous:     {fiber.StatusConflict, "album_ambiguous"},
	ErrAlbumAlreadyExists: {fiber.StatusConflict, "album_already_exists"},

	// 422 Unprocessable Entity Errors
	ErrInvalidAlbumReference: {fiber.StatusUnprocessableEntity, "invalid_album_reference"},

	// 503 Service Unavailable Errors
	ErrDatabaseUnavailable: {fiber.StatusServiceUnavailable, "database_unavailable"},

	// 500 Internal Server Errors
	ErrDatabaseTransaction: {fiber.StatusInternalServerError, "database_transaction_failed"},
	ErrDatabaseError:       {fiber.StatusInternalServerError, "database_error"},
	ErrSessionUnavailable:  {fiber.StatusInternalServerError, "session_unavailable"},
	ErrInternalServerError: {fiber.StatusInternalServerError, "internal_error"},
}

const (
	// CodeValidationFailed is reported for request bodies rejected by struct validation.
	CodeValidationFailed = "validation_failed"
	// CodeInternal is reported for errors no sentinel claims.
	CodeInternal = "internal_error"
)

func lookup(err error) (errorKind, bool) {
	if kind, exists := errorKinds[err]; exists {
		return kind, true
	}
	for target, kind := range errorKinds {
		if errors.Is(err, target) {
			return kind, true
		}
	}
	return errorKind{}, false
}

// GetHTTPStatus retrieves the HTTP status code for a given error, looking through wrapping.
func GetHTTPStatus(err error) (int, bool) {
	kind, ok := lookup(err)
	return kind.status, ok
}

// GetCode returns the machine-readable code for err, or CodeInternal when no sentinel matches.
func GetCode(err error) string {
	if kind, ok := lookup(err); ok {
		return kind.code
	}
	return CodeInternal
}
