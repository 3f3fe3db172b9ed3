package internal

import "github.com/pkg/errors"

// Threading errors up through the sweep and refinement recursions would add a
// ton of complexity to the code. Instead, broken invariants panic, and the
// public API recovers to convert to an error.

type MeasureError error

// Panic with a MeasureError.
func Fatalf(format string, args ...interface{}) {
	panic(errors.Errorf(format, args...))
}

func HandleMeasurePanicRecover(r interface{}) error {
	if r != nil {
		if measureError, ok := r.(MeasureError); ok {
			return measureError
		}
		panic(r)
	}
	return nil
}
