package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"catering/internal/core/ports"
	"catering/internal/pkg/errs"
)

// OrderSequence is the counter that numbers orders.
const OrderSequence = "orders"

// SequenceAllocator renders values of a ports.SequenceCounter as compact public ids.
type SequenceAllocator struct {
	counter ports.SequenceCounter
}

func NewSequenceAllocator(counter ports.SequenceCounter) *SequenceAllocator {
	return &SequenceAllocator{counter: counter}
}

// Next atomically takes the next value of the named counter and returns it in
// lowercase hexadecimal. The first value of a fresh counter is "0".
func (a *SequenceAllocator) Next(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errs.NewValueIsRequiredError("counter name")
	}

	value, err := a.counter.IncrementAndGet(ctx, name)
	if err != nil {
		return "", fmt.Errorf("allocate %s sequence: %w", name, err)
	}

	return strconv.FormatInt(value, 16), nil
}
