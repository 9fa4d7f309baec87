package kernel

import (
	"errors"
	"fmt"
)

// ErrInvalidFilterKind is returned for unrecognized filter names or kinds.
var ErrInvalidFilterKind = errors.New("kernel: invalid filter kind")

func invalidKind(name string) error {
	return fmt.Errorf("%w: %q", ErrInvalidFilterKind, name)
}

func validateBuild(kind Kind, length int, alpha float64) error {
	if _, ok := kindNames[kind]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidFilterKind, int(kind))
	}
	if length <= 0 {
		return fmt.Errorf("kernel: length must be > 0: %d", length)
	}
	if alpha <= 0 || alpha > 1 {
		return fmt.Errorf("kernel: shape parameter must be in (0,1]: %f", alpha)
	}
	return nil
}
