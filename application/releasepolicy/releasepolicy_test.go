package releasepolicy_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopcore/inventory-core/application/releasepolicy"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		want   releasepolicy.Outcome
	}{
		{400, releasepolicy.OutcomeDefinitiveNoSession},
		{401, releasepolicy.OutcomeDefinitiveNoSession},
		{402, releasepolicy.OutcomeDefinitiveNoSession},
		{403, releasepolicy.OutcomeDefinitiveNoSession},
		{404, releasepolicy.OutcomeDefinitiveNoSession},
		{422, releasepolicy.OutcomeDefinitiveNoSession},

		{408, releasepolicy.OutcomeUnknown},
		{409, releasepolicy.OutcomeUnknown},
		{425, releasepolicy.OutcomeUnknown},
		{429, releasepolicy.OutcomeUnknown},

		{500, releasepolicy.OutcomeUnknown},
		{502, releasepolicy.OutcomeUnknown},
		{503, releasepolicy.OutcomeUnknown},
		{504, releasepolicy.OutcomeUnknown},
		{599, releasepolicy.OutcomeUnknown},

		// Unlisted statuses default to unknown.
		{200, releasepolicy.OutcomeUnknown},
		{410, releasepolicy.OutcomeUnknown},
		{418, releasepolicy.OutcomeUnknown},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			if got := releasepolicy.Classify(tt.status); got != tt.want {
				t.Fatalf("Classify(%d) = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}

// providerError mimics an SDK error carrying the provider's HTTP status.
type providerError struct {
	status int
}

func (e *providerError) Error() string   { return fmt.Sprintf("provider responded %d", e.status) }
func (e *providerError) HTTPStatus() int { return e.status }

// timeoutError mimics a transport-level net.Error.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	expiredCtx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-expiredCtx.Done()

	tests := []struct {
		name string
		err  error
		want releasepolicy.Outcome
	}{
		{
			name: "nil error",
			err:  nil,
			want: releasepolicy.OutcomeUnknown,
		},
		{
			name: "deadline exceeded keeps the hold",
			err:  expiredCtx.Err(),
			want: releasepolicy.OutcomeUnknown,
		},
		{
			name: "cancelled context keeps the hold",
			err:  context.Canceled,
			want: releasepolicy.OutcomeUnknown,
		},
		{
			name: "network timeout keeps the hold",
			err:  timeoutError{},
			want: releasepolicy.OutcomeUnknown,
		},
		{
			name: "wrapped network error keeps the hold",
			err:  fmt.Errorf("create session: %w", timeoutError{}),
			want: releasepolicy.OutcomeUnknown,
		},
		{
			name: "provider 422 releases the hold",
			err:  &providerError{status: 422},
			want: releasepolicy.OutcomeDefinitiveNoSession,
		},
		{
			name: "wrapped provider 400 releases the hold",
			err:  fmt.Errorf("create session: %w", &providerError{status: 400}),
			want: releasepolicy.OutcomeDefinitiveNoSession,
		},
		{
			name: "provider 409 keeps the hold",
			err:  &providerError{status: 409},
			want: releasepolicy.OutcomeUnknown,
		},
		{
			name: "provider 503 keeps the hold",
			err:  &providerError{status: 503},
			want: releasepolicy.OutcomeUnknown,
		},
		{
			name: "opaque error keeps the hold",
			err:  errors.New("something broke"),
			want: releasepolicy.OutcomeUnknown,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := releasepolicy.ClassifyError(tt.err); got != tt.want {
				t.Fatalf("ClassifyError(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}

func TestOutcome_ShouldRelease(t *testing.T) {
	if releasepolicy.OutcomeUnknown.ShouldRelease() {
		t.Fatal("unknown outcome must never release")
	}
	if !releasepolicy.OutcomeDefinitiveNoSession.ShouldRelease() {
		t.Fatal("definitive no-session outcome must release")
	}
}
