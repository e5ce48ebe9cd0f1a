// Package match resolves free-text SKUs to canonical catalog SKUs.
//
// Resolution is a cascade of independent tiers, tried in order, first success
// wins:
//
//  1. Direct: case-insensitive, trimmed equality.
//  2. Fuzzy: equality after removing everything but letters and digits.
//  3. Smart: size variants, so "CAMISA-AZ-37/38" finds "CAMISA-AZ-38".
//  4. Alias: the client's learned aliases.
//
// The secondary code is tried after the SKU text in the Direct, Fuzzy and Alias
// tiers. A line no tier resolves stays pending; ambiguity is never an error.
//
// Matcher.Run loads the catalog snapshot and aliases once per run and writes
// resolutions grouped by (SKU, source) with UPDATE ... WHERE id IN.
package match
