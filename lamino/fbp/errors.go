package fbp

import (
	"github.com/cwbudde/algo-lamino/lamino/geom"
	"github.com/cwbudde/algo-lamino/lamino/kernel"
)

// Sentinel errors surfaced by the dispatcher, re-exported from the
// packages that detect them.
var (
	ErrShapeMismatch     = geom.ErrShapeMismatch
	ErrInvalidFilterKind = kernel.ErrInvalidFilterKind
)
