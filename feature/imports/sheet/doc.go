// Package sheet decodes uploaded spreadsheets into rows of string cells.
// xlsx goes through excelize; csv through encoding/csv with delimiter sniffing
// and a Windows-1252 fallback for files that are not UTF-8.
package sheet
