// Package kernel holds the value objects shared by the order and voucher
// aggregates: identifiers and currencies. All of them are immutable and their
// zero values are invalid, so Validate catches anything not built by a constructor.
package kernel
