// Package normalize turns decoded spreadsheet rows into canonical import rows.
//
// Each schema is an ordered list of accepted header names per logical field
// (ShipmentSpec, OrderSpec), resolved once per import against the header row.
// Header cells are compared in canonical form, so "CÃ³digo", "Código" and
// "codigo" are the same column.
//
// Problems with a single row never fail an import: the row is skipped and
// reported as a RowError. Only a sheet without the required columns is rejected.
package normalize
