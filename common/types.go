// Package common holds the scalar types shared by the congestion-aware and
// congestion-unaware topology families and the event-queue package.
package common

// DeviceId identifies a device (NPU, switch, leaf, spine, core, ...) within
// a topology. Ids are dense over 0..N-1 for the union of NPUs and
// switch/infrastructure nodes.
type DeviceId int

// Bandwidth is expressed in GB/s (decimal GB) unless explicitly converted to
// B/ns via BandwidthBpns.
type Bandwidth float64

// Latency is a non-negative duration in nanoseconds.
type Latency int64

// EventTime is a non-negative point in simulated time, in nanoseconds.
type EventTime int64

// ChunkSize is a chunk's payload size in bytes.
type ChunkSize int64

// BandwidthBpns converts a decimal GB/s bandwidth into B/ns. 1 GB/s = 1e9 B/s
// = 1 B/ns (1 s = 1e9 ns), so the conversion is the identity — but it is kept
// as a named function rather than an implicit cast so call sites document
// the unit they're crossing into.
func BandwidthBpns(bwGBps Bandwidth) Bandwidth {
	if bwGBps <= 0 {
		panic("common: bandwidth must be positive")
	}
	return bwGBps
}
