package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispositionOfMatchesEachKind(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Disposition
	}{
		{"config", NewConfigError("ERR_CONFIG", "bad tsconfig"), DispositionContinue},
		{"source", NewSourceError("ERR_SOURCE", "export * in a use-server module", nil), DispositionFailTransform},
		{"not-found", NewNotFoundKindError("ERR_NOT_FOUND", "no handler for POST"), DispositionNotFound},
		{"transient", NewTransientError("ERR_TRANSIENT", "cache file corrupted", nil), DispositionTransient},
		{"fatal", NewFatalError("ERR_FATAL", "port already in use", nil), DispositionFatal},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, DispositionOf(c.err))
		})
	}
}

func TestDispositionOfDefaultsToFatalForUnclassifiedErrors(t *testing.T) {
	assert.Equal(t, DispositionFatal, DispositionOf(errors.New("boom")))
}

func TestNewSourceErrorCarriesCause(t *testing.T) {
	cause := errors.New("parse failed")
	err := NewSourceError("ERR_SOURCE", "bad export", cause)
	assert.Equal(t, ErrorTypeSource, err.Type)
	assert.ErrorIs(t, err, err)
	assert.Equal(t, cause, err.Unwrap())
}

func TestErrorHandlerHandlesEveryNewKindWithoutPanicking(t *testing.T) {
	h := NewErrorHandler(nil, nil)
	h.Handle(nil, NewConfigError("c", "m"))
	h.Handle(nil, NewSourceError("s", "m", nil))
	h.Handle(nil, NewNotFoundKindError("n", "m"))
	h.Handle(nil, NewTransientError("t", "m", nil))
	h.Handle(nil, NewFatalError("f", "m", nil))
}
