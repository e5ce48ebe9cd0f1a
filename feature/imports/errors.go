package imports

import (
	"errors"
	"fmt"

	"stock-importer/feature/catalog"
	"stock-importer/feature/imports/emit"
)

var (
	// ErrValidation wraps every error that rejects a request before any write.
	ErrValidation = errors.New("validation failed")
	// ErrUnsupportedKind is returned for an unknown import kind.
	ErrUnsupportedKind = errors.New("unsupported import kind")
	// ErrUnknownSKU is returned when a manual match names a SKU outside the catalog.
	ErrUnknownSKU = errors.New("unknown sku")
	// ErrLineNotFound is returned when a line id matches no shipment or order line.
	ErrLineNotFound = errors.New("line not found")

	ErrClientNotFound  = catalog.ErrClientNotFound
	ErrNotFound        = emit.ErrNotFound
	ErrNothingToEmit   = emit.ErrNothingToEmit
	ErrShipmentEmitted = emit.ErrShipmentEmitted
)

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
