// Package voucher implements the discount voucher aggregate.
//
// A voucher is identified by its human-readable code and carries a discount
// that is either a fixed amount or a percentage of the order amount.
//
// Key business rules:
//   - OneTime vouchers flip Valid -> Expired on redemption and back on revert
//   - Until vouchers count redemptions and stay Valid until their expiration
//     passes and the sweeper marks them Expired
//   - Expired vouchers can never be redeemed
//   - Every mutation advances the version so stores can apply it with a
//     compare-and-swap
//
// Orders embed a Snapshot of the voucher taken right after redemption.
package voucher
