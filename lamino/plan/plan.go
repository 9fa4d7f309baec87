// Package plan computes how many independent blocks a filtering or
// back-projection workload must be split into so that every block fits the
// available memory, stays below 32-bit index limits, and every requested
// device receives work.
//
// The plan is advisory: it fixes the block count, while partitioning and
// scheduling belong to the dispatch layer.
package plan

import (
	"math"

	"github.com/MeKo-Christian/algo-fft/gpu"
)

const (
	// maxIndexElements is the largest element count addressable with a
	// 32-bit index in a single pass.
	maxIndexElements = math.MaxInt32

	// DeviceBytesPerElement budgets the complex working buffer of the
	// spectral stage on an accelerator.
	DeviceBytesPerElement = 16

	// HostBytesPerElement budgets the same workload on the host, where the
	// process shares memory with everything else.
	HostBytesPerElement = 32

	// hostMemoryCap is the practical ceiling applied to reported host
	// memory, leaving headroom for the runtime.
	hostMemoryCap = 64 << 30

	// hostMemoryFallback is assumed when the platform exposes no probe.
	hostMemoryFallback = 8 << 30
)

// Blocks returns the number of blocks for a workload of the given element
// count against an explicit memory budget. The result is never below
// ceil(elements/MaxInt32), never below the requested device count, and
// never below 1.
func Blocks(elements, availableBytes, bytesPerElement int64, devices int) int {
	b := int64(1)
	if availableBytes > 0 && bytesPerElement > 0 {
		b = ceilDiv(bytesPerElement*elements, availableBytes)
	}
	if m := ceilDiv(elements, maxIndexElements); m > b {
		b = m
	}
	if int64(devices) > b {
		b = int64(devices)
	}
	if b < 1 {
		b = 1
	}
	return int(b)
}

// DeviceBlocks plans a workload across the given accelerator devices,
// budgeting against the smallest device memory. Devices that report no
// memory fall back to the host budget.
func DeviceBlocks(elements int64, devices []gpu.DeviceInfo) int {
	avail := minDeviceBytes(devices)
	if avail <= 0 {
		avail = AvailableHostBytes()
	}
	return Blocks(elements, avail, DeviceBytesPerElement, len(devices))
}

// HostBlocks plans a workload on the host against probed memory, ensuring
// at least one block per requested worker.
func HostBlocks(elements int64, workers int) int {
	return Blocks(elements, AvailableHostBytes(), HostBytesPerElement, workers)
}

// AvailableHostBytes returns probed host memory, capped at a fixed
// practical ceiling.
func AvailableHostBytes() int64 {
	avail := probeHostBytes()
	if avail <= 0 {
		avail = hostMemoryFallback
	}
	if avail > hostMemoryCap {
		avail = hostMemoryCap
	}
	return avail
}

func minDeviceBytes(devices []gpu.DeviceInfo) int64 {
	min := int64(0)
	for _, d := range devices {
		b := int64(d.MemoryMB) << 20
		if b > 0 && (min == 0 || b < min) {
			min = b
		}
	}
	return min
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
