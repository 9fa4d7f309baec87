// Package fbp orchestrates filtered back-projection for tilted-geometry
// (tomography/laminography) scans: angle subsetting, derivative handling,
// angular reweighting, memory-planned blocked filtering, back-projection
// path selection, and optional masking.
package fbp

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-lamino/internal/trace"
	"github.com/cwbudde/algo-lamino/lamino/dispatch"
	"github.com/cwbudde/algo-lamino/lamino/geom"
	"github.com/cwbudde/algo-lamino/lamino/kernel"
	"github.com/cwbudde/algo-lamino/lamino/phase"
	"github.com/cwbudde/algo-lamino/lamino/plan"
	"github.com/cwbudde/algo-lamino/lamino/project"
	"github.com/cwbudde/algo-lamino/lamino/spectral"
	"github.com/cwbudde/algo-lamino/lamino/weights"
)

// Projector is the back-projection collaborator. Both variants consume the
// same geometry-vector format and return a volume of the configured
// extents.
type Projector interface {
	Single(s *geom.Sinogram, cfg geom.Config, vecs []geom.Vector, opt project.Options) ([]float64, error)
	Partitioned(s *geom.Sinogram, cfg geom.Config, vecs []geom.Vector, opt project.Options) ([]float64, error)
}

type referenceProjector struct{}

func (referenceProjector) Single(s *geom.Sinogram, cfg geom.Config, vecs []geom.Vector, opt project.Options) ([]float64, error) {
	return project.Single(s, cfg, vecs, opt)
}

func (referenceProjector) Partitioned(s *geom.Sinogram, cfg geom.Config, vecs []geom.Vector, opt project.Options) ([]float64, error) {
	return project.Partitioned(s, cfg, vecs, opt)
}

// Result carries the reconstruction outputs. Filtered and Kernel are set
// whenever the filter stage ran and serve as diagnostics; Volume is nil in
// filter-only mode.
type Result struct {
	Volume   []float64
	Filtered *geom.Sinogram
	Kernel   *spectral.Kernel
	Weights  []float64

	// OnDevice reports whether the result was left resident on an
	// accelerator.
	OnDevice bool
}

// backprojectPath tags the strategy chosen for back-projection.
type backprojectPath int

const (
	pathSingleDevice backprojectPath = iota
	pathPartitioned
)

// maxSingleExtent is the projection extent above which a single pass is no
// longer considered safe.
const maxSingleExtent = 4096

// Reconstruct runs the full pipeline on sino with the given geometry and
// options. The input sinogram is not modified.
func Reconstruct(sino *geom.Sinogram, cfg geom.Config, vecs []geom.Vector, opt Options) (*Result, error) {
	opt = opt.normalized()
	trace.SetLevel(opt.Verbosity)

	if err := cfg.CheckSinogram(sino); err != nil {
		return nil, err
	}
	if err := cfg.CheckVectors(vecs); err != nil {
		return nil, err
	}
	if err := opt.validate(cfg); err != nil {
		return nil, err
	}

	// Angle subsetting.
	if opt.ValidAngles != nil && !allTrue(opt.ValidAngles) {
		sino = sino.SubsetProjections(opt.ValidAngles)
		vecs = geom.SubsetVectors(vecs, opt.ValidAngles)
		trace.Infof("fbp: %d of %d projections valid", sino.Projections, cfg.Projections)
		if sino.Projections == 0 {
			return nil, fmt.Errorf("%w: no valid projections", geom.ErrShapeMismatch)
		}
	}

	// Derivative handling. A complex field forces derivative filtering.
	derivative := opt.Derivative
	if sino.IsComplex() {
		derivative = true
		var err error
		sino, err = phase.Gradient(sino)
		if err != nil {
			return nil, err
		}
		trace.Infof("fbp: complex field converted to phase-gradient sinogram")
	}

	thetas, laminos := geom.Angles(vecs)
	w, err := weights.Estimate(thetas, laminos, !opt.UniformWeights)
	if err != nil {
		return nil, err
	}

	res := &Result{Weights: w}

	filtered := sino
	if opt.Filter != kernel.KindNone {
		h, err := kernel.Build(opt.Filter, sino.Width+2*opt.PadWidth, opt.FilterAlpha, derivative)
		if err != nil {
			return nil, err
		}
		res.Kernel = spectral.NewKernel(h, w)

		filtered, err = runFilter(sino, res.Kernel, opt)
		if err != nil {
			return nil, err
		}
		res.Filtered = filtered
	} else {
		trace.Infof("fbp: filter kind none, skipping filter stage")
	}

	if opt.FilterOnly {
		return res, nil
	}

	path := selectPath(cfg, len(opt.Devices), opt.OnDevice)
	popt := project.Options{
		SubSplit: opt.partitionCount(),
		Workers:  opt.Workers,
		Deform:   opt.Deform,
	}
	switch path {
	case pathSingleDevice:
		trace.Infof("fbp: single-device back-projection")
		res.Volume, err = opt.Projector.Single(filtered, cfg, vecs, popt)
	default:
		// Large data or several devices: move off the accelerator and
		// back-project in partitions.
		trace.Infof("fbp: partitioned back-projection over %d partitions", popt.SubSplit)
		res.Volume, err = opt.Projector.Partitioned(filtered, cfg, vecs, popt)
	}
	if err != nil {
		return nil, fmt.Errorf("fbp: back-projection: %w", err)
	}

	if opt.Mask != nil {
		if err := applyMask(res.Volume, opt.Mask, cfg, opt.Workers); err != nil {
			return nil, err
		}
	}

	// Masking runs on the host, so residency only survives when no mask
	// forced a transfer.
	res.OnDevice = opt.KeepOnDevice && len(opt.Devices) > 0 && path == pathSingleDevice && opt.Mask == nil
	if !res.OnDevice && opt.KeepOnDevice {
		trace.Debugf("fbp: result transferred to host despite keep-resident request")
	}
	return res, nil
}

// runFilter applies the spectral stage under memory-planned blocking along
// the projection axis.
func runFilter(s *geom.Sinogram, k *spectral.Kernel, opt Options) (*geom.Sinogram, error) {
	elements := int64(k.Rows) * int64(s.Layers) * int64(s.Projections)

	var blocks int
	if len(opt.Devices) > 0 {
		blocks = plan.DeviceBlocks(elements, opt.Devices)
	} else {
		blocks = plan.HostBlocks(elements, opt.Workers)
	}
	trace.Infof("fbp: filtering %d projections in %d blocks", s.Projections, blocks)

	out := geom.NewSinogram(s.Layers, s.Width, s.Projections)
	stride := s.Layers * s.Width
	err := dispatch.Run(s.Projections, blocks, opt.Workers, func(r dispatch.Range) error {
		f, err := spectral.Filter(s.ProjectionRange(r.Lo, r.Hi), k.ColumnRange(r.Lo, r.Hi), opt.Pad)
		if err != nil {
			return err
		}
		copy(out.Data[r.Lo*stride:r.Hi*stride], f.Data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// selectPath picks the back-projection strategy. Data already resident on
// one accelerator stays there; otherwise a single pass is used only while
// the projection extents and the volume element count are safely
// addressable and at most one device is requested.
func selectPath(cfg geom.Config, devices int, onDevice bool) backprojectPath {
	if onDevice && devices <= 1 {
		return pathSingleDevice
	}
	if devices <= 1 &&
		cfg.Width < maxSingleExtent && cfg.Height < maxSingleExtent &&
		cfg.VolumeElements() < math.MaxInt32 {
		return pathSingleDevice
	}
	return pathPartitioned
}

// applyMask multiplies the mask into the volume, per z-slice for
// slice-sized masks. Always executed on the host: masks are small and this
// avoids extra device transfers.
func applyMask(vol, mask []float64, cfg geom.Config, workers int) error {
	if len(mask) == len(vol) {
		vecmath.MulBlockInPlace(vol, mask)
		return nil
	}
	slice := cfg.VolX * cfg.VolY
	return dispatch.Run(cfg.VolZ, cfg.VolZ, workers, func(r dispatch.Range) error {
		for z := r.Lo; z < r.Hi; z++ {
			vecmath.MulBlockInPlace(vol[z*slice:(z+1)*slice], mask)
		}
		return nil
	})
}

func allTrue(flags []bool) bool {
	for _, ok := range flags {
		if !ok {
			return false
		}
	}
	return true
}
