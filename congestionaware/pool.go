package congestionaware

import (
	"fmt"

	"github.com/iti/netanalytical/common"
)

// DevicePool is the arena that owns every Device created for a topology (or
// a per-slice clone of one). Links hold only a DeviceId and a pointer back
// to the pool that owns their destination device, never a direct pointer to
// another Device, so the device graph cannot form reference cycles.
type DevicePool struct {
	devices map[common.DeviceId]*Device
}

// NewDevicePool returns an empty pool.
func NewDevicePool() *DevicePool {
	return &DevicePool{devices: make(map[common.DeviceId]*Device)}
}

// GetOrCreate returns the device with the given id, creating it (with no
// outbound links) if it doesn't exist yet.
func (p *DevicePool) GetOrCreate(id common.DeviceId) *Device {
	if d, ok := p.devices[id]; ok {
		return d
	}
	d := &Device{id: id, pool: p, outbound: make(map[common.DeviceId]*Link)}
	p.devices[id] = d
	return d
}

// Device looks up a device by id. It panics if the device does not exist:
// a route referencing an unknown device is a programmer error (§7 Runtime
// invariants).
func (p *DevicePool) Device(id common.DeviceId) *Device {
	d, ok := p.devices[id]
	if !ok {
		panic(fmt.Sprintf("congestionaware: no device with id %d in pool", id))
	}
	return d
}

// Clone deep-copies every device and link in the pool into a fresh pool.
// Congestion state (busy flags, pending queues) is NOT copied — a clone
// starts from a cold, idle network, matching the teacher's multi-dim
// per-slice topology cloning which re-instantiates devices rather than
// snapshotting in-flight state.
func (p *DevicePool) Clone() *DevicePool {
	out := NewDevicePool()
	for id, d := range p.devices {
		nd := out.GetOrCreate(id)
		for to, link := range d.outbound {
			nd.outbound[to] = link.cloneFor(out)
		}
	}
	return out
}
