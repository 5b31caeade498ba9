package smarthome

import (
	"context"
	"time"
)

// Result classifies how a directive was answered.
type Result string

// Directive results.
const (
	// ResultHandled means the directive got its normal response.
	ResultHandled Result = "handled"
	// ResultRejected means the directive got an error envelope.
	ResultRejected Result = "rejected"
	// ResultFailed means Dispatch returned an error and no envelope.
	ResultFailed Result = "failed"
)

// Outcome summarises one Dispatch call for audit, metrics and live feeds.
// It never contains bearer tokens or credentials.
type Outcome struct {
	PayloadVersion   string    `json:"payload_version"`
	Namespace        string    `json:"namespace"`
	Name             string    `json:"name"`
	EndpointID       string    `json:"endpoint_id,omitempty"`
	CorrelationToken string    `json:"correlation_token,omitempty"`
	MessageID        string    `json:"message_id,omitempty"`
	Result           Result    `json:"result"`
	ErrorType        string    `json:"error_type,omitempty"`
	DurationMS       int64     `json:"duration_ms"`
	Timestamp        time.Time `json:"timestamp"`

	// Err is the cause of a rejected or failed outcome.
	Err error `json:"-"`
}

// Recorder receives an Outcome after every Dispatch call.
// Implementations must not block for long; Dispatch waits for them.
type Recorder interface {
	Record(ctx context.Context, o Outcome)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, o Outcome)

// Record calls f.
func (f RecorderFunc) Record(ctx context.Context, o Outcome) { f(ctx, o) }

// Recorders fans an outcome out to each recorder in order.
type Recorders []Recorder

// Record passes o to every non-nil recorder.
func (rs Recorders) Record(ctx context.Context, o Outcome) {
	for _, r := range rs {
		if r != nil {
			r.Record(ctx, o)
		}
	}
}

// Error type labels for failed outcomes.
const (
	failureMalformed  = "MALFORMED_REQUEST"
	failureLookup     = "LOOKUP_FAILED"
	failureValidation = "VALIDATION_FAILED"
	failureInternal   = "INTERNAL"
)
