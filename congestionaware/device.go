package congestionaware

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/iti/netanalytical/common"
)

// Device is an endpoint in a congestion-aware topology: an NPU, switch,
// leaf, spine, or core. A Device owns the outbound half of every Link
// incident on it; the inbound half is the neighboring Device's own outbound
// Link back.
type Device struct {
	id       common.DeviceId
	pool     *DevicePool
	outbound map[common.DeviceId]*Link
}

// ID returns the device's identity within its pool.
func (d *Device) ID() common.DeviceId {
	return d.id
}

// Connect installs an outbound link from d to the device named by to.
// Re-connecting a pair that already has an outbound link is a no-op: it
// logs a warning and leaves the existing link in place rather than
// silently replacing it. Callers building bidirectional topologies call
// Connect on both endpoints, once each.
func (d *Device) Connect(to common.DeviceId, link *Link) {
	if d.Connected(to) {
		logrus.WithFields(logrus.Fields{"from": d.id, "to": to}).
			Warn("congestionaware: ignoring re-connect of an already-linked device pair")
		return
	}
	link.to = to
	link.pool = d.pool
	d.outbound[to] = link
}

// Connected reports whether d has a direct outbound link to the device
// named by to.
func (d *Device) Connected(to common.DeviceId) bool {
	_, ok := d.outbound[to]
	return ok
}

// Send hands chunk to the outbound link toward the next hop in its route.
// A chunk that has already arrived (its route named only this device)
// completes immediately instead of being sent anywhere. Otherwise it
// panics if chunk is not actually positioned at this device, or if there
// is no link from this device to the chunk's next hop — both are routing
// preconditions a caller must have satisfied (§7 Runtime invariants).
func (d *Device) Send(chunk *Chunk) {
	if chunk.Current() != d.id {
		panic(fmt.Sprintf("congestionaware: chunk positioned at device %d sent from device %d", chunk.Current(), d.id))
	}
	next, ok := chunk.Next()
	if !ok {
		if chunk.OnComplete != nil {
			chunk.OnComplete(chunk)
		}
		return
	}
	link, ok := d.outbound[next]
	if !ok {
		panic(fmt.Sprintf("congestionaware: device %d has no link to device %d", d.id, next))
	}
	link.Send(chunk)
}
