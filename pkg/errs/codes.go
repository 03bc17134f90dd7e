package errs

// Code definition application error code
type Code string

const (
	// CodeUnknown unclassified error
	CodeUnknown Code = "UNKNOWN"
	// CodeInvalidArgument malformed caller input
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeNotFound target resource does not exist
	CodeNotFound Code = "NOT_FOUND"
	// CodeAlreadyExists uniqueness constraint violated
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	// CodePermissionDenied caller is authenticated but not allowed
	CodePermissionDenied Code = "PERMISSION_DENIED"
	// CodeUnauthenticated missing or invalid credentials
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	// CodeInternal store invariant broken or store unavailable
	CodeInternal Code = "INTERNAL"
)
