// Package errs provides the error taxonomy shared by the settlement engine.
//
// Every error kind follows the same pattern:
//   - a sentinel error variable (e.g., ErrObjectNotFound) used with errors.Is
//   - a struct type carrying the details of the failure
//   - constructor functions, with a WithCause variant where a cause is meaningful
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The kinds map to how callers must react:
//   - ErrObjectNotFound: user, order or voucher absent; nothing was written
//   - ErrForbidden: ownership violation or authorization code mismatch; nothing was written
//   - ErrInvalidState: mutation of a terminal order; rejected before any write
//   - ErrVersionConflict: a compare-and-swap lost against a concurrent writer
//   - ErrValueIsInvalid, ErrValueIsRequired, ErrValueIsOutOfRange: input validation
//   - ErrObjectAlreadyExists: unique key collision on insert
package errs
