package code

// HTTP status codes.
const (
	// StatusOK - 200: success.
	StatusOK = 200
	// StatusBadRequest - 400: invalid request parameters.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: missing or invalid credentials.
	StatusUnauthorized = 401
	// StatusForbidden - 403: insufficient permissions.
	StatusForbidden = 403
	// StatusNotFound - 404: resource not found.
	StatusNotFound = 404
	// StatusConflict - 409: conflicting state.
	StatusConflict = 409
	// StatusTooManyRequests - 429: too many requests.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: internal server error.
	StatusInternalServerError = 500
	// StatusServiceUnavailable - 503: backend unavailable.
	StatusServiceUnavailable = 503
)

// Generic error codes (100xxx).
const (
	// ErrSuccess - 200: success.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: unknown error.
	ErrUnknown
	// ErrBind - 400: request binding error.
	ErrBind
	// ErrValidation - 400: request validation error.
	ErrValidation
	// ErrTokenInvalid - 401: invalid token.
	ErrTokenInvalid
	// ErrPermissionDenied - 403: actor role not allowed.
	ErrPermissionDenied
	// ErrTooManyRequests - 429: request rate too high.
	ErrTooManyRequests
)

// Account error codes (101xxx).
const (
	// ErrUserNotFound - 404: account not found.
	ErrUserNotFound int = iota + 101000
	// ErrUserAlreadyExist - 400: account already exists.
	ErrUserAlreadyExist
	// ErrUserPasswordIncorrect - 401: wrong password.
	ErrUserPasswordIncorrect
	// ErrUserInactive - 403: account is inactive.
	ErrUserInactive
)

// Condo error codes (103xxx).
const (
	// ErrCondoNotFound - 404: condo not found.
	ErrCondoNotFound int = iota + 103000
	// ErrCondoAlreadyExist - 400: condo already registered.
	ErrCondoAlreadyExist
	// ErrCondoInactive - 400: condo is inactive.
	ErrCondoInactive
	// ErrCondoNotInRegistry - 400: candidate is external-only, not a valid request target.
	ErrCondoNotInRegistry
)

// Access request error codes (104xxx).
const (
	// ErrRequestNotFound - 404: access request not found.
	ErrRequestNotFound int = iota + 104000
	// ErrInvalidTransition - 409: status transition not allowed.
	ErrInvalidTransition
	// ErrRequestOrigin - 400: request missing resident or unit/block origin data.
	ErrRequestOrigin
)

// Store error codes (105xxx).
const (
	// ErrDatabase - 500: database error.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: record not found.
	ErrRecordNotFound
	// ErrStoreUnavailable - 503: backend store unavailable.
	ErrStoreUnavailable
)

// Places index error codes (106xxx).
const (
	// ErrPlacesDegraded - 503: external places index unavailable.
	ErrPlacesDegraded int = iota + 106000
	// ErrPlacesBadResponse - 500: external places index returned a malformed response.
	ErrPlacesBadResponse
)
