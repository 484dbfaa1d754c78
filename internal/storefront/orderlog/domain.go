// Package orderlog defines an append-only audit trail of order submissions.
//
// One row is written per submission attempt, accepted or rejected, carrying
// the serialized order payload and the OpenTelemetry trace identifiers that
// were active at the time. The log is observability infrastructure: session
// state itself stays in memory and is never recovered from here.
package orderlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// Status is the outcome of one submission attempt.
type Status string

const (
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// Entry is a single row in the order_logs table.
type Entry struct {
	// OrderID is the backend-assigned order id; empty for rejected
	// submissions that never got one.
	OrderID string

	// SessionID identifies the storefront session that submitted.
	SessionID string

	// Status records whether the backend accepted the submission.
	Status Status

	// Payload is the JSON-serialized order snapshot that was submitted.
	Payload string

	// Error holds the rejection reason; empty on accepted entries.
	Error string

	// TraceID and SpanID tie the row to the distributed trace that was
	// active when it was written. Empty when no span was recording.
	TraceID string
	SpanID  string

	// CreatedAt is the wall-clock time of the attempt.
	CreatedAt time.Time
}

// NewEntry builds an entry with trace identifiers extracted from ctx.
func NewEntry(ctx context.Context, sessionID, orderID string, status Status, payload, errMsg string) *Entry {
	entry := &Entry{
		OrderID:   orderID,
		SessionID: sessionID,
		Status:    status,
		Payload:   payload,
		Error:     errMsg,
		CreatedAt: time.Now().UTC(),
	}

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry.TraceID = sc.TraceID().String()
		entry.SpanID = sc.SpanID().String()
	}
	return entry
}
