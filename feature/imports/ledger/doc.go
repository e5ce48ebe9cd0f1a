// Package ledger owns the only two writes that change stock and sales.
//
// Move logs an inventory movement and applies it to the product's running
// quantity in the same statement sequence, so a product's quantity always equals
// the sum of its movements. PostSale is the single idempotent sale write: the
// unique order id turns a repeated post into ErrDuplicateSale with no side
// effects. ReverseSale is its inverse for cancelled orders.
//
// All functions take the caller's transaction.
package ledger
