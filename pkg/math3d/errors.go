package math3d

import (
	"errors"
	"fmt"
)

// Sentinel errors carried by the panics raised on precondition violations.
// Recover and test with errors.Is when a caller needs to tell them apart.
var (
	// ErrIndexOutOfRange is raised for a vector component or matrix cell
	// index outside the fixed dimension.
	ErrIndexOutOfRange = errors.New("math3d: index out of range")

	// ErrSingular is raised when inverting a matrix whose determinant is zero.
	ErrSingular = errors.New("math3d: matrix is singular")
)

func indexPanic(kind string, i, n int) {
	panic(fmt.Errorf("%w: %s index %d, dimension %d", ErrIndexOutOfRange, kind, i, n))
}
