// Package order provides the Order aggregate root for catering orders placed by
// diners and settled by caterers.
//
// The package includes:
//   - Order: identity, pricing, payment instrument, voucher snapshot and lifecycle
//   - Status: the settlement state machine
//   - FulfillmentMode: pickup or the premium chef tier
//
// Key business rules:
//   - Orders start Pending; Pending moves once to Successful, Failed or Declined
//   - Terminal orders are immutable
//   - Only the creator or an admin may view or amend an order
//   - The payable total applies the voucher first, then the chef surcharge
package order
