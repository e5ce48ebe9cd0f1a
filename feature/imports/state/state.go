package state

import (
	"errors"
	"fmt"

	"stock-importer/feature/imports/models"
)

var (
	// ErrInvalidTransition is returned for a transition the state machines forbid.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrTerminal is returned when leaving the emitted state.
	ErrTerminal = errors.New("status is terminal")
)

// TransitionLine validates a line transition. Lines only move forward; a
// matched line may be re-pointed to another SKU but never becomes pending again.
func TransitionLine(from, to models.LineStatus) error {
	switch {
	case from == to:
		return nil
	case from == models.LinePending && to == models.LineMatched:
		return nil
	default:
		return fmt.Errorf("%w: line %s -> %s", ErrInvalidTransition, from, to)
	}
}

// Transition validates a shipment or batch transition.
// Before emission any status may be re-evaluated into any other; Emitted is
// reached only from Ready or Partial and is never left.
func Transition(from, to models.BatchStatus) error {
	if from == models.StatusEmitted {
		if to == models.StatusEmitted {
			return nil
		}
		return fmt.Errorf("%w: %s -> %s", ErrTerminal, from, to)
	}
	if to == models.StatusEmitted && from != models.StatusReady && from != models.StatusPartial {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if !known(to) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	return nil
}

func known(s models.BatchStatus) bool {
	switch s {
	case models.StatusDraft, models.StatusReady, models.StatusPartial, models.StatusError, models.StatusEmitted:
		return true
	}
	return false
}

// Counts summarizes the lines of a shipment or batch.
type Counts struct {
	Total   int
	Matched int
	Pending int
	// Resolvable counts matched lines whose SKU exists in the catalog.
	Resolvable int
}

// Evaluate derives the aggregate status from line counts.
func Evaluate(c Counts) models.BatchStatus {
	switch {
	case c.Total == 0:
		return models.StatusError
	case c.Pending == 0 && c.Resolvable > 0:
		return models.StatusReady
	case c.Matched > 0 && c.Pending > 0:
		return models.StatusPartial
	default:
		return models.StatusDraft
	}
}

// Next evaluates counts and validates the move from the current status.
// An emitted unit stays emitted.
func Next(current models.BatchStatus, c Counts) (models.BatchStatus, error) {
	if current == models.StatusEmitted {
		return current, nil
	}
	next := Evaluate(c)
	if err := Transition(current, next); err != nil {
		return current, err
	}
	return next, nil
}
