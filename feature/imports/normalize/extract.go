package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"stock-importer/core/utils"

	"github.com/shopspring/decimal"
)

// ErrMissingColumns is returned when no header row carries the required fields.
var ErrMissingColumns = errors.New("required columns not found")

// headerScanRows bounds how far down the sheet a header row is searched for.
const headerScanRows = 10

// RowError is a per-row problem. The row is skipped and the import continues.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// FindHeader locates the first row among the leading rows that resolves every
// required field of spec.
func FindHeader(rows [][]string, spec Spec) (int, Columns, error) {
	var lastMissing []Field
	for i := 0; i < len(rows) && i < headerScanRows; i++ {
		cols, missing := spec.Resolve(rows[i])
		if len(missing) == 0 {
			return i, cols, nil
		}
		if lastMissing == nil || len(missing) < len(lastMissing) {
			lastMissing = missing
		}
	}
	if lastMissing == nil {
		return -1, nil, fmt.Errorf("%w: sheet is empty", ErrMissingColumns)
	}
	return -1, nil, fmt.Errorf("%w: %v", ErrMissingColumns, lastMissing)
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// ShipmentRow is a canonical shipment export row.
type ShipmentRow struct {
	Row           int
	SecondaryCode string
	SKUText       string
	Quantity      int
	UnitPrice     decimal.Decimal
}

// ShipmentResult holds the extracted shipment rows.
type ShipmentResult struct {
	Rows     []ShipmentRow
	Total    int
	Skipped  int
	Warnings []RowError
}

// ExtractShipment reads a shipment export. Rows without a SKU or with a
// non-positive quantity are skipped and counted.
func ExtractShipment(rows [][]string) (*ShipmentResult, error) {
	headerIdx, cols, err := FindHeader(rows, ShipmentSpec)
	if err != nil {
		return nil, err
	}

	res := &ShipmentResult{}
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		res.Total++
		rowNum := i + 1

		sku := cols.Cell(row, FieldSKU)
		qty := utils.ToInt(cols.Cell(row, FieldQuantity))
		switch {
		case sku == "":
			res.skip(rowNum, "missing sku")
			continue
		case qty <= 0:
			res.skip(rowNum, "non-positive quantity")
			continue
		}

		res.Rows = append(res.Rows, ShipmentRow{
			Row:           rowNum,
			SecondaryCode: cols.Cell(row, FieldSecondaryCode),
			SKUText:       sku,
			Quantity:      qty,
			UnitPrice:     utils.ToDecimal(cols.Cell(row, FieldUnitPrice)).Round(2),
		})
	}
	return res, nil
}

func (r *ShipmentResult) skip(row int, reason string) {
	r.Skipped++
	r.Warnings = append(r.Warnings, RowError{Row: row, Reason: reason})
}

// OrderRow is a canonical order export row.
type OrderRow struct {
	Row            int
	SourceOrderID  string
	OrderDate      *time.Time
	StatusText     string
	CancelReason   string
	Channel        string
	ShippingMethod string
	Buyer          string
	SKUText        string
	ListingID      string
	Title          string
	Quantity       int
	UnitPrice      decimal.Decimal
}

// Key is the natural key of an order line for one client.
func (r OrderRow) Key() string {
	return strings.Join([]string{r.SourceOrderID, r.SKUText, fmt.Sprint(r.Quantity), r.UnitPrice.StringFixed(2)}, "\x1f")
}

// OrderResult holds the extracted, deduplicated order rows.
type OrderResult struct {
	Rows       []OrderRow
	Total      int
	Duplicates int
	Warnings   []RowError
}

// ExtractOrders reads an order export, upper-cases SKUs and keeps the last
// occurrence of every natural key.
func ExtractOrders(rows [][]string) (*OrderResult, error) {
	headerIdx, cols, err := FindHeader(rows, OrderSpec)
	if err != nil {
		return nil, err
	}
	if !cols.Has(FieldOrderID) && !cols.Has(FieldPackID) {
		return nil, fmt.Errorf("%w: [%s]", ErrMissingColumns, FieldOrderID)
	}

	res := &OrderResult{}
	var parsed []OrderRow
	for i := headerIdx + 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		res.Total++
		rowNum := i + 1

		orderID := cleanID(cols.Cell(row, FieldOrderID))
		if orderID == "" {
			orderID = cleanID(cols.Cell(row, FieldPackID))
		}
		sku := strings.ToUpper(cols.Cell(row, FieldSKU))
		qty := utils.ToInt(cols.Cell(row, FieldQuantity))

		switch {
		case orderID == "":
			res.warn(rowNum, "missing order id")
			continue
		case sku == "":
			res.warn(rowNum, "missing sku")
			continue
		case qty < 0:
			res.warn(rowNum, "negative quantity")
			continue
		}

		r := OrderRow{
			Row:            rowNum,
			SourceOrderID:  orderID,
			StatusText:     cols.Cell(row, FieldStatus),
			CancelReason:   cols.Cell(row, FieldCancelReason),
			Channel:        cols.Cell(row, FieldChannel),
			ShippingMethod: cols.Cell(row, FieldShippingMethod),
			Buyer:          cols.Cell(row, FieldBuyer),
			SKUText:        sku,
			ListingID:      cols.Cell(row, FieldListingID),
			Title:          cols.Cell(row, FieldTitle),
			Quantity:       qty,
			UnitPrice:      utils.ToDecimal(cols.Cell(row, FieldUnitPrice)).Round(2),
		}
		if raw := cols.Cell(row, FieldOrderDate); raw != "" {
			if d, ok := ParseDate(raw); ok {
				r.OrderDate = &d
			} else {
				res.warn(rowNum, fmt.Sprintf("unparseable date %q", raw))
			}
		}
		parsed = append(parsed, r)
	}

	res.Rows = Dedup(parsed)
	res.Duplicates = len(parsed) - len(res.Rows)
	return res, nil
}

// cleanID undoes numeric formatting of long ids ("2.000001234E+15", "123.0").
func cleanID(s string) string {
	if strings.ContainsAny(s, "eE") {
		if d, err := decimal.NewFromString(s); err == nil {
			return d.String()
		}
	}
	return strings.TrimSuffix(s, ".0")
}

func (r *OrderResult) warn(row int, reason string) {
	r.Warnings = append(r.Warnings, RowError{Row: row, Reason: reason})
}

// Dedup keeps one row per natural key. The last occurrence wins and takes the
// position of the first.
func Dedup(rows []OrderRow) []OrderRow {
	pos := make(map[string]int, len(rows))
	out := make([]OrderRow, 0, len(rows))
	for _, r := range rows {
		k := r.Key()
		if i, seen := pos[k]; seen {
			out[i] = r
			continue
		}
		pos[k] = len(out)
		out = append(out, r)
	}
	return out
}
