package state

import (
	"testing"

	"stock-importer/feature/imports/models"

	"github.com/stretchr/testify/assert"
)

func TestTransitionLine(t *testing.T) {
	assert.NoError(t, TransitionLine(models.LinePending, models.LineMatched))
	assert.NoError(t, TransitionLine(models.LineMatched, models.LineMatched))
	assert.ErrorIs(t, TransitionLine(models.LineMatched, models.LinePending), ErrInvalidTransition)
}

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to models.BatchStatus
		err      error
	}{
		{models.StatusDraft, models.StatusReady, nil},
		{models.StatusDraft, models.StatusPartial, nil},
		{models.StatusDraft, models.StatusError, nil},
		{models.StatusReady, models.StatusPartial, nil},
		{models.StatusPartial, models.StatusReady, nil},
		{models.StatusReady, models.StatusEmitted, nil},
		{models.StatusPartial, models.StatusEmitted, nil},
		{models.StatusEmitted, models.StatusEmitted, nil},
		{models.StatusDraft, models.StatusEmitted, ErrInvalidTransition},
		{models.StatusError, models.StatusEmitted, ErrInvalidTransition},
		{models.StatusEmitted, models.StatusReady, ErrTerminal},
		{models.StatusEmitted, models.StatusDraft, ErrTerminal},
		{models.StatusDraft, "bogus", ErrInvalidTransition},
	}
	for _, tt := range tests {
		err := Transition(tt.from, tt.to)
		if tt.err == nil {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		} else {
			assert.ErrorIs(t, err, tt.err, "%s -> %s", tt.from, tt.to)
		}
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name string
		in   Counts
		want models.BatchStatus
	}{
		{"No lines", Counts{}, models.StatusError},
		{"All pending", Counts{Total: 3, Pending: 3}, models.StatusDraft},
		{"Some matched", Counts{Total: 3, Matched: 1, Pending: 2, Resolvable: 1}, models.StatusPartial},
		{"All matched", Counts{Total: 3, Matched: 3, Resolvable: 3}, models.StatusReady},
		{"All matched to unknown SKUs", Counts{Total: 2, Matched: 2}, models.StatusDraft},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Evaluate(tt.in))
		})
	}
}

func TestNext(t *testing.T) {
	next, err := Next(models.StatusDraft, Counts{Total: 1, Matched: 1, Resolvable: 1})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusReady, next)

	next, err = Next(models.StatusEmitted, Counts{Total: 1, Pending: 1})
	assert.NoError(t, err)
	assert.Equal(t, models.StatusEmitted, next)
}
