package order

import (
	"fmt"
	"strings"

	"catering/internal/pkg/errs"
)

// Status represents the settlement state of an order.
//
// State transitions:
//
//	          ┌──> Successful
//	Pending ──┼──> Failed
//	          └──> Declined
//
// Every state except Pending is terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending orders await the caterer's confirm or decline decision.
	Pending

	// Successful orders were confirmed and charged.
	Successful

	// Failed orders were confirmed but the charge did not go through.
	Failed

	// Declined orders were refused by the caterer or expired unanswered.
	Declined
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Pending:    "PENDING",
		Successful: "SUCCESSFUL",
		Failed:     "FAILED",
		Declined:   "DECLINED",
	}
}

// Validate checks that s is one of the four lifecycle states.
func (s Status) Validate() error {
	if s < Pending || s > Declined {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// ParseStatus accepts the names produced by String, case-insensitively.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, name := range getStatusStrings() {
		if status != Unknown && name == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	parsed, err := ParseStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Successful || s == Failed || s == Declined
}

// Settle transitions a Pending status to the given terminal status.
//
// Returns:
//   - (target, nil) on a valid transition
//   - (0, InvalidStateError) when s is not Pending
//   - (0, ValueIsInvalidError) when target is not terminal
func (s Status) Settle(target Status) (Status, error) {
	if !target.IsTerminal() {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%s is not a terminal status", target),
		)
	}
	if s != Pending {
		return 0, errs.NewInvalidStateError("order", s, "settle")
	}
	return target, nil
}
