package code

// Error code to message map.
var codeMessageMap = map[int]string{
	// Generic
	ErrSuccess:          "success",
	ErrUnknown:          "unknown error",
	ErrBind:             "request binding error",
	ErrValidation:       "request validation error",
	ErrTokenInvalid:     "invalid authentication token",
	ErrPermissionDenied: "insufficient permissions",
	ErrTooManyRequests:  "request rate too high",

	// Accounts
	ErrUserNotFound:          "account not found",
	ErrUserAlreadyExist:      "account already exists",
	ErrUserPasswordIncorrect: "incorrect password",
	ErrUserInactive:          "account is inactive",

	// Condos
	ErrCondoNotFound:      "condominium not found",
	ErrCondoAlreadyExist:  "condominium already registered",
	ErrCondoInactive:      "condominium is inactive",
	ErrCondoNotInRegistry: "condominium is not in the local registry",

	// Access requests
	ErrRequestNotFound:   "access request not found",
	ErrInvalidTransition: "status transition not allowed",
	ErrRequestOrigin:     "request must carry a resident or a unit/block target",

	// Store
	ErrDatabase:         "database error",
	ErrRecordNotFound:   "record not found",
	ErrStoreUnavailable: "backend store unavailable",

	// Places index
	ErrPlacesDegraded:    "places index unavailable",
	ErrPlacesBadResponse: "places index returned a malformed response",
}

// Error code to HTTP status map.
var codeStatusMap = map[int]int{
	// Generic
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrBind:             StatusBadRequest,
	ErrValidation:       StatusBadRequest,
	ErrTokenInvalid:     StatusUnauthorized,
	ErrPermissionDenied: StatusForbidden,
	ErrTooManyRequests:  StatusTooManyRequests,

	// Accounts
	ErrUserNotFound:          StatusNotFound,
	ErrUserAlreadyExist:      StatusBadRequest,
	ErrUserPasswordIncorrect: StatusUnauthorized,
	ErrUserInactive:          StatusForbidden,

	// Condos
	ErrCondoNotFound:      StatusNotFound,
	ErrCondoAlreadyExist:  StatusBadRequest,
	ErrCondoInactive:      StatusBadRequest,
	ErrCondoNotInRegistry: StatusBadRequest,

	// Access requests
	ErrRequestNotFound:   StatusNotFound,
	ErrInvalidTransition: StatusConflict,
	ErrRequestOrigin:     StatusBadRequest,

	// Store
	ErrDatabase:         StatusInternalServerError,
	ErrRecordNotFound:   StatusNotFound,
	ErrStoreUnavailable: StatusServiceUnavailable,

	// Places index
	ErrPlacesDegraded:    StatusServiceUnavailable,
	ErrPlacesBadResponse: StatusInternalServerError,
}

// GetMessage returns the message for an error code.
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "unknown error"
}

// GetStatus returns the HTTP status for an error code.
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
