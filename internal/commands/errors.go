package commands

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/ftkit/ftkit/internal/pixels"
)

// Error kinds attached to the log line of a reported failure.
const (
	kindSource     = "source"
	kindLoad       = "load"
	kindProcessing = "processing"
)

// report prints err as "<TypeName>: <message>" on w. Demo commands end
// normally after a failure, so the error is not returned further.
func report(w io.Writer, logger zerolog.Logger, err error) {
	logger.Info().Err(err).Str("kind", classify(err)).Msg("command failed")
	fmt.Fprintf(w, "%s: %v\n", errorName(err), err)
}

// classify tells where in a run err originated. Anything that is not a
// load or processing failure came from the iterated source.
func classify(err error) string {
	var loadErr *pixels.LoadError
	var procErr *pixels.ProcessingError
	switch {
	case errors.As(err, &loadErr):
		return kindLoad
	case errors.As(err, &procErr):
		return kindProcessing
	default:
		return kindSource
	}
}

// errorName returns the type name of the outermost error in the chain that
// is not a plain wrapper from the fmt or errors packages.
func errorName(err error) string {
	for e := err; e != nil; e = errors.Unwrap(e) {
		t := reflect.TypeOf(e)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}
		switch t.PkgPath() {
		case "fmt", "errors":
			continue
		}
		if t.Name() != "" {
			return t.Name()
		}
	}
	return "error"
}
