package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter ErrorCode = 100
	ErrCodeInvalidConfig    ErrorCode = 101
	ErrCodeInvalidDecision  ErrorCode = 102
	ErrCodeInvalidPeriod    ErrorCode = 103

	// Data errors (200-299)
	ErrCodeMalformedData         ErrorCode = 200
	ErrCodeEmptySeries           ErrorCode = 201
	ErrCodeDataSourceUnavailable ErrorCode = 202
	ErrCodeQueryFailed           ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound    ErrorCode = 300
	ErrCodeIndicatorCalculation ErrorCode = 301
	ErrCodeLookAhead            ErrorCode = 302

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound      ErrorCode = 400
	ErrCodeStrategyAlreadyExists ErrorCode = 401
	ErrCodeStrategyExecution     ErrorCode = 402
)
