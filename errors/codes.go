package errors

// ErrorCode identifies a class of failure. Callers branch on it with Is.
type ErrorCode string

const (
	// The service was reached but the exchange failed.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR" // non-2xx status
	ErrCodeParse     ErrorCode = "PARSE_ERROR"     // body is not JSON

	// The service was not reached.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	ErrCodeTimeout          ErrorCode = "TIMEOUT"

	// The request was rejected before it was sent.
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField  ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
	ErrCodeCache    ErrorCode = "CACHE_ERROR"
)

// IsRetryableCode reports whether failures with code may succeed on a
// later attempt. TRANSPORT_ERROR is not, since it depends on the status;
// see Transport.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeConnectionFailed, ErrCodeTimeout, ErrCodeCache:
		return true
	}
	return false
}

// Sent reports whether a failure with code happened after the request
// reached the authorization service.
func (c ErrorCode) Sent() bool {
	return c == ErrCodeTransport || c == ErrCodeParse
}
