package orderlog

import "context"

// Repository is the port for persisting order log entries. Callers treat a
// nil Repository as "logging disabled".
type Repository interface {
	// Save appends one entry; the log is append-only, never upserted.
	Save(ctx context.Context, entry *Entry) error
}
