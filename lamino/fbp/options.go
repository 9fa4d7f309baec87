package fbp

import (
	"fmt"

	"github.com/MeKo-Christian/algo-fft/gpu"

	"github.com/cwbudde/algo-lamino/lamino/geom"
	"github.com/cwbudde/algo-lamino/lamino/kernel"
	"github.com/cwbudde/algo-lamino/lamino/project"
	"github.com/cwbudde/algo-lamino/lamino/spectral"
)

// Options is the immutable parameter object of one reconstruction run.
// The zero value is usable: ram-lak filter, shape parameter 1, angular
// reweighting on detected geometry, zero padding, host execution.
type Options struct {
	// Filter selects the spectral shaping variant. KindNone skips the
	// filter stage entirely.
	Filter kernel.Kind

	// FilterAlpha is the shape parameter in (0,1]. Zero means 1.
	FilterAlpha float64

	// Derivative forces derivative-mode filtering. Complex-valued input
	// forces it regardless.
	Derivative bool

	// UniformWeights disables gap-based angular reweighting and assumes
	// constant angular sampling. The tilt-dependent scaling still applies.
	UniformWeights bool

	// ValidAngles, when set, marks which projections participate. Length
	// must equal the configured projection count.
	ValidAngles []bool

	// Pad selects the detector padding mode for the filter stage.
	Pad spectral.PadMode

	// PadWidth adds extra detector columns per side before choosing the
	// transform length.
	PadWidth int

	// Mask is an optional spatial multiplier, sized VolX*VolY (applied per
	// z-slice) or VolX*VolY*VolZ. Applied on the host after
	// back-projection.
	Mask []float64

	// Devices is the explicit accelerator list. Empty means host-only
	// planning and execution.
	Devices []gpu.DeviceInfo

	// OnDevice marks the sinogram as already resident on a single
	// accelerator, which pins the single-device path.
	OnDevice bool

	// KeepOnDevice leaves the result resident on the accelerator instead
	// of transferring it back to the host.
	KeepOnDevice bool

	// SplitFactors are per-device partitioning factors of the partitioned
	// back-projection path. Empty means one partition per device.
	SplitFactors []int

	// SubSplit is the projector's internal task decomposition factor.
	SubSplit int

	// Workers bounds host-side concurrency. Zero uses all CPUs.
	Workers int

	// Verbosity: 0 quiet, 1 progress, 2 numeric diagnostics.
	Verbosity int

	// FilterOnly stops after the filter stage and returns no volume.
	FilterOnly bool

	// Deform holds optional per-voxel deformation offsets forwarded to the
	// projector.
	Deform *project.DeformationField

	// Projector overrides the reference projector pair. Nil uses the
	// built-in voxel-driven implementation.
	Projector Projector
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Filter:      kernel.KindRamLak,
		FilterAlpha: 1,
		Pad:         spectral.PadEdge,
	}
}

func (o Options) normalized() Options {
	if o.FilterAlpha == 0 {
		o.FilterAlpha = 1
	}
	if o.Projector == nil {
		o.Projector = referenceProjector{}
	}
	return o
}

func (o Options) validate(cfg geom.Config) error {
	if o.FilterAlpha < 0 || o.FilterAlpha > 1 {
		return fmt.Errorf("fbp: filter shape parameter must be in (0,1]: %f", o.FilterAlpha)
	}
	if o.ValidAngles != nil && len(o.ValidAngles) != cfg.Projections {
		return fmt.Errorf("%w: %d valid-angle flags for %d projections",
			geom.ErrShapeMismatch, len(o.ValidAngles), cfg.Projections)
	}
	if o.PadWidth < 0 {
		return fmt.Errorf("fbp: negative pad width: %d", o.PadWidth)
	}
	return cfg.CheckMask(o.Mask)
}

// partitionCount derives the partitioned-path block count from the
// per-device split factors and device count.
func (o Options) partitionCount() int {
	n := 0
	for _, f := range o.SplitFactors {
		if f > 0 {
			n += f
		}
	}
	if n == 0 {
		n = len(o.Devices)
	}
	if s := o.SubSplit; s > 1 {
		if n == 0 {
			n = 1
		}
		n *= s
	}
	return n
}
