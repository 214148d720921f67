package commands

import (
	"errors"
	"strings"

	"catering/internal/pkg/errs"
	"catering/internal/pkg/guard"
)

var ErrNextSequenceIDCommandIsNotConstructed = errors.New(
	"NextSequenceIDCommand must be created via NewNextSequenceIDCommand constructor",
)

// NextSequenceIDCommand takes the next value of a named counter.
type NextSequenceIDCommand struct { //nolint:recvcheck //using for validation
	counterName string

	guard guard.ConstructorGuard
}

func NewNextSequenceIDCommand(counterName string) (NextSequenceIDCommand, error) {
	counterName = strings.TrimSpace(counterName)
	if counterName == "" {
		return NextSequenceIDCommand{}, errs.NewValueIsRequiredError("counter name")
	}
	return NextSequenceIDCommand{counterName: counterName, guard: guard.NewConstructorGuard()}, nil
}

func (c NextSequenceIDCommand) Validate() error {
	return c.guard.Validate(ErrNextSequenceIDCommandIsNotConstructed)
}

func (c NextSequenceIDCommand) CounterName() string {
	return c.counterName
}
