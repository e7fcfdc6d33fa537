// Package releasepolicy decides whether a failed payment-session creation
// justifies releasing the inventory hold that backed it. Releasing after a
// failure that may still have produced a session oversells; never releasing
// strands inventory until the TTL reaper catches it. The classification
// lives here as an explicit table so it can be tested exhaustively.
package releasepolicy

import (
	"context"
	stderrors "errors"
	"net"
)

type Outcome int

const (
	// OutcomeUnknown means a payment session may exist; the caller must
	// NOT release the hold. The TTL plus idempotent create make a retry
	// safe instead.
	OutcomeUnknown Outcome = iota
	// OutcomeDefinitiveNoSession means the provider guarantees no session
	// was created; the caller should release the hold.
	OutcomeDefinitiveNoSession
)

func (o Outcome) String() string {
	if o == OutcomeDefinitiveNoSession {
		return "definitive_no_session"
	}
	return "unknown"
}

// ShouldRelease is the one-line form most callers want.
func (o Outcome) ShouldRelease() bool {
	return o == OutcomeDefinitiveNoSession
}

// statusOutcome is the canonical status-code table. Any status not listed
// classifies as unknown: unknown is the safe default because a release
// against a live session is the oversell path.
var statusOutcome = map[int]Outcome{
	400: OutcomeDefinitiveNoSession, // validation rejected before create
	401: OutcomeDefinitiveNoSession, // authentication failure
	402: OutcomeDefinitiveNoSession,
	403: OutcomeDefinitiveNoSession,
	404: OutcomeDefinitiveNoSession,
	422: OutcomeDefinitiveNoSession,

	408: OutcomeUnknown, // request may have reached the provider
	409: OutcomeUnknown, // conflict usually means the object exists
	425: OutcomeUnknown,
	429: OutcomeUnknown, // throttled; retry with the same key instead
}

// Classify maps a payment-provider HTTP status to an outcome.
func Classify(status int) Outcome {
	if status >= 500 {
		return OutcomeUnknown
	}
	if o, ok := statusOutcome[status]; ok {
		return o
	}
	return OutcomeUnknown
}

// ProviderError is implemented by SDK errors that carry the provider's
// HTTP status.
type ProviderError interface {
	error
	HTTPStatus() int
}

// ClassifyError maps an error from a payment-session creation attempt.
// Transport-level failures (timeouts, connection resets, cancelled
// contexts) never prove the session was not created, so they classify as
// unknown.
func ClassifyError(err error) Outcome {
	if err == nil {
		return OutcomeUnknown
	}
	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return OutcomeUnknown
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) {
		return OutcomeUnknown
	}
	var provErr ProviderError
	if stderrors.As(err, &provErr) {
		return Classify(provErr.HTTPStatus())
	}
	return OutcomeUnknown
}
