package signer

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventType represents the type of signing event.
type EventType string

const (
	// EventAttempt indicates an operation is being attempted.
	EventAttempt EventType = "attempt"

	// EventSuccess indicates an operation succeeded.
	EventSuccess EventType = "success"

	// EventFailure indicates an operation failed.
	EventFailure EventType = "failure"
)

// Event represents a signing lifecycle event. Each public adapter
// operation emits one attempt event before dispatching to the backend and
// exactly one success or failure event for the outcome; inputs rejected
// before any backend is touched emit nothing. Trading engines use events
// for audit logging and monitoring.
type Event struct {
	// Type is the event type (attempt, success, failure).
	Type EventType

	// Timestamp is when the event occurred.
	Timestamp time.Time

	// Op is the adapter operation ("sign_message", "sign_transaction",
	// "send_transaction").
	Op string

	// Backend is the concrete wallet backend type.
	Backend string

	// Nonce is the nonce involved, when the operation used one.
	Nonce *uint64

	// TxHash is the transaction hash (available on successful sends).
	TxHash common.Hash

	// Error contains error details (available on failure).
	Error error

	// Duration is the time taken for the operation.
	Duration time.Duration
}

// Callback is a function that handles signing events. Callbacks run
// synchronously inside the adapter call, so they should be fast; longer
// work belongs in a goroutine inside the callback.
type Callback func(Event)
