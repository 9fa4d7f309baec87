// Package project implements a reference voxel-driven projector pair for
// tilted parallel-beam geometry: back-projection from filtered sinograms
// into volume space and the matching forward projection.
//
// Per projection, the beam direction vector fixes the detector frame: the
// column axis u = (-sin t, cos t, 0) and the row axis v x u, where t is the
// rotation angle. Standard tomography (tilt pi/2) degenerates to the usual
// row = z, col = -x*sin t + y*cos t mapping.
package project

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-lamino/lamino/dispatch"
	"github.com/cwbudde/algo-lamino/lamino/geom"
)

// DeformationField holds optional per-voxel coordinate offsets applied
// before projecting. All three components are volume-sized.
type DeformationField struct {
	DX, DY, DZ []float64
}

// Options configures a projector invocation.
type Options struct {
	// SubSplit is the internal task decomposition factor of the
	// partitioned path. Zero means one block per worker.
	SubSplit int

	// Workers bounds concurrent slabs on the partitioned path. Zero uses
	// all CPUs.
	Workers int

	// Deform applies per-voxel offsets before projection.
	Deform *DeformationField
}

type frame struct {
	ux, uy     float64 // detector column axis (z component is 0)
	wx, wy, wz float64 // detector row axis
}

func frames(vecs []geom.Vector) []frame {
	out := make([]frame, len(vecs))
	for i, v := range vecs {
		t, lam := v.Theta(), v.Lamino()
		st, ct := math.Sin(t), math.Cos(t)
		sl, cl := math.Sin(lam), math.Cos(lam)
		out[i] = frame{
			ux: -st, uy: ct,
			wx: -cl * ct, wy: -cl * st, wz: sl,
		}
	}
	return out
}

// Single back-projects the filtered sinogram into a volume of the
// configured extents in one pass.
func Single(s *geom.Sinogram, cfg geom.Config, vecs []geom.Vector, opt Options) ([]float64, error) {
	if err := check(s, cfg, vecs, opt); err != nil {
		return nil, err
	}
	vol := make([]float64, cfg.VolumeElements())
	backprojectSlab(vol, s, cfg, frames(vecs), 0, cfg.VolZ, opt.Deform)
	return vol, nil
}

// Partitioned back-projects with the volume split into z-slabs processed
// by a bounded worker pool. Slabs write disjoint volume regions, so the
// result matches Single up to floating-point summation order.
func Partitioned(s *geom.Sinogram, cfg geom.Config, vecs []geom.Vector, opt Options) ([]float64, error) {
	if err := check(s, cfg, vecs, opt); err != nil {
		return nil, err
	}

	workers := opt.Workers
	if workers < 1 {
		workers = 1
	}
	blocks := opt.SubSplit
	if blocks < 1 {
		blocks = workers
	}

	vol := make([]float64, cfg.VolumeElements())
	fr := frames(vecs)
	err := dispatch.Run(cfg.VolZ, blocks, workers, func(r dispatch.Range) error {
		backprojectSlab(vol, s, cfg, fr, r.Lo, r.Hi, opt.Deform)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vol, nil
}

// Forward projects a volume into projection space, the adjoint of the
// back-projection above. Mainly used to synthesize test data.
func Forward(vol []float64, cfg geom.Config, vecs []geom.Vector) (*geom.Sinogram, error) {
	if int64(len(vol)) != cfg.VolumeElements() {
		return nil, fmt.Errorf("%w: volume has %d elements, config declares %d",
			geom.ErrShapeMismatch, len(vol), cfg.VolumeElements())
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("%w: no geometry vectors", geom.ErrShapeMismatch)
	}

	s := geom.NewSinogram(cfg.Height, cfg.Width, len(vecs))
	cx := float64(cfg.VolX-1) / 2
	cy := float64(cfg.VolY-1) / 2
	cz := float64(cfg.VolZ-1) / 2
	ccol := float64(cfg.Width-1) / 2
	crow := float64(cfg.Height-1) / 2

	for p, f := range frames(vecs) {
		idx := 0
		for z := 0; z < cfg.VolZ; z++ {
			zc := float64(z) - cz
			for y := 0; y < cfg.VolY; y++ {
				yc := float64(y) - cy
				for x := 0; x < cfg.VolX; x++ {
					v := vol[idx]
					idx++
					if v == 0 {
						continue
					}
					xc := float64(x) - cx
					col := xc*f.ux + yc*f.uy + ccol
					row := xc*f.wx + yc*f.wy + zc*f.wz + crow
					scatter(s, p, row, col, v)
				}
			}
		}
	}
	return s, nil
}

func check(s *geom.Sinogram, cfg geom.Config, vecs []geom.Vector, opt Options) error {
	if s == nil || s.Data == nil {
		return fmt.Errorf("%w: projector needs a real-valued sinogram", geom.ErrShapeMismatch)
	}
	if len(vecs) != s.Projections {
		return fmt.Errorf("%w: %d geometry vectors for %d projections",
			geom.ErrShapeMismatch, len(vecs), s.Projections)
	}
	if cfg.VolX < 1 || cfg.VolY < 1 || cfg.VolZ < 1 {
		return fmt.Errorf("%w: volume extents %dx%dx%d", geom.ErrShapeMismatch, cfg.VolX, cfg.VolY, cfg.VolZ)
	}
	if opt.Deform != nil {
		n := int(cfg.VolumeElements())
		if len(opt.Deform.DX) != n || len(opt.Deform.DY) != n || len(opt.Deform.DZ) != n {
			return fmt.Errorf("%w: deformation field does not match volume extents", geom.ErrShapeMismatch)
		}
	}
	return nil
}

func backprojectSlab(vol []float64, s *geom.Sinogram, cfg geom.Config, fr []frame, zLo, zHi int, def *DeformationField) {
	cx := float64(cfg.VolX-1) / 2
	cy := float64(cfg.VolY-1) / 2
	cz := float64(cfg.VolZ-1) / 2
	ccol := float64(s.Width-1) / 2
	crow := float64(s.Layers-1) / 2

	for z := zLo; z < zHi; z++ {
		for y := 0; y < cfg.VolY; y++ {
			for x := 0; x < cfg.VolX; x++ {
				idx := (z*cfg.VolY+y)*cfg.VolX + x
				xc := float64(x) - cx
				yc := float64(y) - cy
				zc := float64(z) - cz
				if def != nil {
					xc += def.DX[idx]
					yc += def.DY[idx]
					zc += def.DZ[idx]
				}

				sum := 0.0
				for p := range fr {
					f := &fr[p]
					col := xc*f.ux + yc*f.uy + ccol
					row := xc*f.wx + yc*f.wy + zc*f.wz + crow
					sum += sample(s, p, row, col)
				}
				vol[idx] += sum
			}
		}
	}
}

// sample reads the sinogram bilinearly at fractional (row, col) for
// projection p. Points off the detector contribute nothing.
func sample(s *geom.Sinogram, p int, row, col float64) float64 {
	if row < 0 || col < 0 || row > float64(s.Layers-1) || col > float64(s.Width-1) {
		return 0
	}
	r0 := int(row)
	c0 := int(col)
	r1, c1 := r0+1, c0+1
	if r1 > s.Layers-1 {
		r1 = s.Layers - 1
	}
	if c1 > s.Width-1 {
		c1 = s.Width - 1
	}
	fr := row - float64(r0)
	fc := col - float64(c0)

	v00 := s.Data[s.Index(r0, c0, p)]
	v01 := s.Data[s.Index(r0, c1, p)]
	v10 := s.Data[s.Index(r1, c0, p)]
	v11 := s.Data[s.Index(r1, c1, p)]
	return (1-fr)*((1-fc)*v00+fc*v01) + fr*((1-fc)*v10+fc*v11)
}

// scatter deposits v bilinearly at fractional (row, col), the adjoint of
// sample.
func scatter(s *geom.Sinogram, p int, row, col float64, v float64) {
	if row < 0 || col < 0 || row > float64(s.Layers-1) || col > float64(s.Width-1) {
		return
	}
	r0 := int(row)
	c0 := int(col)
	r1, c1 := r0+1, c0+1
	if r1 > s.Layers-1 {
		r1 = s.Layers - 1
	}
	if c1 > s.Width-1 {
		c1 = s.Width - 1
	}
	fr := row - float64(r0)
	fc := col - float64(c0)

	s.Data[s.Index(r0, c0, p)] += v * (1 - fr) * (1 - fc)
	s.Data[s.Index(r0, c1, p)] += v * (1 - fr) * fc
	s.Data[s.Index(r1, c0, p)] += v * fr * (1 - fc)
	s.Data[s.Index(r1, c1, p)] += v * fr * fc
}
