// Package services provides stateless domain services that do not belong to a
// single aggregate.
//
// The package includes:
//   - AuthorizationCodeScheme: derives and verifies the code that binds an order
//     to its payment instrument, so a caterer's confirm/decline link cannot be
//     replayed against another card
//   - VoucherCodeGenerator: draws human-readable voucher codes from an alphabet
//     without vowels or look-alike characters
package services
