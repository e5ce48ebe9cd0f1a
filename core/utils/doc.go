// Package utils provides conversion helpers for loosely typed spreadsheet cells.
// Cells arrive as strings, numbers or nothing at all, and money may use either
// comma or dot as the decimal separator.
package utils
