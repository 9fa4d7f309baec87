//go:build !linux

package plan

func probeHostBytes() int64 {
	return 0
}
