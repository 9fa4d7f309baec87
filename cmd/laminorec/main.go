// Command laminorec reconstructs a 3D volume from a raw sinogram file
// using filtered back-projection. The run is described by a YAML file; the
// sinogram and the resulting volume are raw little-endian float64 arrays.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-lamino/lamino/fbp"
	"github.com/cwbudde/algo-lamino/lamino/geom"
	"github.com/cwbudde/algo-lamino/lamino/kernel"
	"github.com/cwbudde/algo-lamino/lamino/spectral"
)

type runConfig struct {
	Sinogram string `yaml:"sinogram"`
	Output   string `yaml:"output"`

	Geometry struct {
		Width       int     `yaml:"width"`
		Height      int     `yaml:"height"`
		Projections int     `yaml:"projections"`
		VolX        int     `yaml:"volX"`
		VolY        int     `yaml:"volY"`
		VolZ        int     `yaml:"volZ"`
		TiltDeg     float64 `yaml:"tiltDeg"`
	} `yaml:"geometry"`

	Filter struct {
		Kind       string  `yaml:"kind"`
		Alpha      float64 `yaml:"alpha"`
		Derivative bool    `yaml:"derivative"`
	} `yaml:"filter"`

	Pad        string `yaml:"pad"`
	Workers    int    `yaml:"workers"`
	Verbosity  int    `yaml:"verbosity"`
	FilterOnly bool   `yaml:"filterOnly"`
}

func defaultRunConfig() runConfig {
	var cfg runConfig
	cfg.Geometry.TiltDeg = 90
	cfg.Filter.Kind = "ram-lak"
	cfg.Filter.Alpha = 1
	cfg.Pad = "edge"
	cfg.Verbosity = 1
	return cfg
}

func main() {
	configPath := flag.String("config", "run.yaml", "YAML run description")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "laminorec: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	g := geom.Config{
		Width:       cfg.Geometry.Width,
		Height:      cfg.Geometry.Height,
		Projections: cfg.Geometry.Projections,
		VolX:        cfg.Geometry.VolX,
		VolY:        cfg.Geometry.VolY,
		VolZ:        cfg.Geometry.VolZ,
	}

	sino := geom.NewSinogram(g.Height, g.Width, g.Projections)
	if err := readRaw(cfg.Sinogram, sino.Data); err != nil {
		return fmt.Errorf("read sinogram: %w", err)
	}

	kind, err := kernel.ParseKind(cfg.Filter.Kind)
	if err != nil {
		return err
	}
	pad := spectral.PadEdge
	if cfg.Pad == "zero" {
		pad = spectral.PadZero
	}

	opt := fbp.DefaultOptions()
	opt.Filter = kind
	opt.FilterAlpha = cfg.Filter.Alpha
	opt.Derivative = cfg.Filter.Derivative
	opt.Pad = pad
	opt.Workers = cfg.Workers
	opt.Verbosity = cfg.Verbosity
	opt.FilterOnly = cfg.FilterOnly

	tilt := cfg.Geometry.TiltDeg * math.Pi / 180
	vecs := geom.VectorsFromAngles(geom.UniformAngles(g.Projections), tilt)

	res, err := fbp.Reconstruct(sino, g, vecs, opt)
	if err != nil {
		return err
	}

	out := res.Volume
	if cfg.FilterOnly {
		if res.Filtered == nil {
			return fmt.Errorf("filter-only run with filter kind %s produces no output", kind)
		}
		out = res.Filtered.Data
	}
	if err := writeRaw(cfg.Output, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("laminorec: wrote %d values to %s\n", len(out), cfg.Output)
	return nil
}

func loadConfig(path string) (runConfig, error) {
	cfg := defaultRunConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Sinogram == "" || cfg.Output == "" {
		return cfg, fmt.Errorf("config must name sinogram and output files")
	}
	return cfg, nil
}

func readRaw(path string, dst []float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return binary.Read(f, binary.LittleEndian, dst)
}

func writeRaw(path string, src []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, src); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
