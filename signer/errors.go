package signer

import "errors"

// Sentinel errors for adapter operations. Every failure returned by the
// adapter matches exactly one of these via errors.Is; backend-specific
// error types never cross the adapter boundary unwrapped.
var (
	// ErrUnsupportedOperation indicates the active wallet backend
	// structurally cannot perform the requested operation.
	ErrUnsupportedOperation = errors.New("signer: operation not supported by wallet backend")

	// ErrSigningFailed indicates the backend failed while constructing or
	// signing a payload.
	ErrSigningFailed = errors.New("signer: signing failed")

	// ErrMalformedSignedTx indicates a backend produced a signed result
	// with no extractable raw encoding.
	ErrMalformedSignedTx = errors.New("signer: signed transaction has no raw encoding")

	// ErrSendFailed indicates submission to the chain failed. The adapter
	// cannot tell whether the transaction is already visible to the
	// network; a locally consumed nonce is not rolled back and retry is
	// the caller's responsibility.
	ErrSendFailed = errors.New("signer: transaction send failed")

	// ErrInvalidInput indicates a message or request in none of the
	// accepted forms. No backend is touched.
	ErrInvalidInput = errors.New("signer: invalid input")

	// ErrWalletUnavailable indicates the underlying wallet could not
	// report its address.
	ErrWalletUnavailable = errors.New("signer: wallet unavailable")
)

// ErrorCode identifies a failure kind for programmatic handling.
type ErrorCode string

const (
	// ErrCodeUnsupportedOperation maps to ErrUnsupportedOperation.
	ErrCodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"

	// ErrCodeSigningFailed maps to ErrSigningFailed.
	ErrCodeSigningFailed ErrorCode = "SIGNING_FAILED"

	// ErrCodeMalformedSignedTx maps to ErrMalformedSignedTx.
	ErrCodeMalformedSignedTx ErrorCode = "MALFORMED_SIGNED_TX"

	// ErrCodeSendFailed maps to ErrSendFailed.
	ErrCodeSendFailed ErrorCode = "SEND_FAILED"

	// ErrCodeInvalidInput maps to ErrInvalidInput.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// ErrCodeWalletUnavailable maps to ErrWalletUnavailable.
	ErrCodeWalletUnavailable ErrorCode = "WALLET_UNAVAILABLE"
)

// SignerError provides structured failure information.
type SignerError struct {
	// Code is the error code for programmatic handling.
	Code ErrorCode

	// Message is the human-readable error message.
	Message string

	// Kind is the sentinel the failure matches via errors.Is.
	Kind error

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *SignerError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel kind and the original cause, so
// errors.Is matches the taxonomy and errors.As still reaches the backend
// error.
func (e *SignerError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewSignerError creates a SignerError with the given code, sentinel kind
// and message, wrapping cause.
func NewSignerError(code ErrorCode, kind error, message string, cause error) *SignerError {
	return &SignerError{
		Code:    code,
		Message: message,
		Kind:    kind,
		Err:     cause,
	}
}
