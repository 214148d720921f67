package ports

import "context"

// SequenceCounter is an atomic, persisted counter keyed by name.
type SequenceCounter interface {
	// IncrementAndGet atomically increments the named counter and returns the value
	// it held before the increment. A missing counter is created holding 1 and 0 is
	// returned. Implementations must use a single atomic primitive of their store.
	IncrementAndGet(ctx context.Context, name string) (int64, error)
}
