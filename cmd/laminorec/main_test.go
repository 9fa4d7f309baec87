package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeRunFiles(t *testing.T, yaml string) (configPath, outPath string) {
	t.Helper()
	dir := t.TempDir()

	sinoPath := filepath.Join(dir, "sino.raw")
	f, err := os.Create(sinoPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := binary.Write(f, binary.LittleEndian, make([]float64, 4*8*6)); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	outPath = filepath.Join(dir, "out.raw")
	configPath = filepath.Join(dir, "run.yaml")
	yaml = strings.ReplaceAll(yaml, "SINO", sinoPath)
	yaml = strings.ReplaceAll(yaml, "OUT", outPath)
	if err := os.WriteFile(configPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	return configPath, outPath
}

const runYAML = `
sinogram: SINO
output: OUT
geometry:
  width: 8
  height: 4
  projections: 6
  volX: 4
  volY: 4
  volZ: 4
filter:
  kind: KIND
verbosity: 0
filterOnly: FONLY
`

func TestRunFilterOnly(t *testing.T) {
	yaml := strings.NewReplacer("KIND", "ram-lak", "FONLY", "true").Replace(runYAML)
	configPath, outPath := writeRunFiles(t, yaml)

	if err := run(configPath); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(4 * 8 * 6 * 8); info.Size() != want {
		t.Fatalf("output size %d, want %d", info.Size(), want)
	}
}

func TestRunFilterOnlyWithKindNone(t *testing.T) {
	// Kind none skips the filter stage, so a filter-only run has nothing
	// to write. Must fail with a message, not dereference a nil sinogram.
	yaml := strings.NewReplacer("KIND", "none", "FONLY", "true").Replace(runYAML)
	configPath, _ := writeRunFiles(t, yaml)

	err := run(configPath)
	if err == nil {
		t.Fatal("filter-only run with kind none must fail")
	}
	if !strings.Contains(err.Error(), "produces no output") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunReconstruction(t *testing.T) {
	yaml := strings.NewReplacer("KIND", "hann", "FONLY", "false").Replace(runYAML)
	configPath, outPath := writeRunFiles(t, yaml)

	if err := run(configPath); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if want := int64(4 * 4 * 4 * 8); info.Size() != want {
		t.Fatalf("output size %d, want %d", info.Size(), want)
	}
}

func TestLoadConfigRejectsMissingPaths(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "run.yaml")
	if err := os.WriteFile(configPath, []byte("workers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(configPath); err == nil {
		t.Fatal("config without file paths must be rejected")
	}
}
