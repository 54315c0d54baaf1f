package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidOrder         ErrorCode = 102
	ErrCodeInvalidSide          ErrorCode = 103
	ErrCodeInvalidSymbol        ErrorCode = 104
	ErrCodeInvalidFrame         ErrorCode = 105
	ErrCodeUnknownFrameType     ErrorCode = 106

	// Data/Resource errors (200-299)
	ErrCodeSymbolNotFound   ErrorCode = 200
	ErrCodeStoreUnavailable ErrorCode = 201
	ErrCodeQueryFailed      ErrorCode = 202
	ErrCodeSeedFailed       ErrorCode = 203

	// Stream errors (300-399)
	ErrCodeStreamClosed   ErrorCode = 300
	ErrCodeStreamAborted  ErrorCode = 301
	ErrCodeSessionClosed  ErrorCode = 302
	ErrCodeFeedTerminated ErrorCode = 303

	// Transport errors (400-499)
	ErrCodeTransportFailed  ErrorCode = 400
	ErrCodeConnectionFailed ErrorCode = 401
	ErrCodeWriteFailed      ErrorCode = 402
	ErrCodeConsumerGone     ErrorCode = 403
)
