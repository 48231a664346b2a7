package errors

import "net/http"

const CodeInvalidInput = "INVALID_INPUT"

var (
	ErrDealNotFound = New(
		"DEAL_NOT_FOUND",
		"Deal not found",
		http.StatusNotFound,
	)

	ErrInvalidDealID = New(
		"INVALID_DEAL_ID",
		"Invalid deal ID",
		http.StatusBadRequest,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrCenterRequired = New(
		"CENTER_REQUIRED",
		"Reference location is required for the radius selector",
		http.StatusUnprocessableEntity,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
