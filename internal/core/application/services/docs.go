// Package services holds the application services the order command handlers
// build on: the SequenceAllocator that mints readable order ids and the
// VoucherLedger that redeems, reverts, generates and sweeps vouchers.
//
// Neither keeps state between calls. The ledger works on the VoucherRepository
// it is handed, so its writes join whatever unit of work the caller opened.
package services
