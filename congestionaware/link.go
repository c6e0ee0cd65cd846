package congestionaware

import (
	"fmt"

	"github.com/iti/rngstream"
	"github.com/sirupsen/logrus"

	"github.com/iti/netanalytical/common"
	"github.com/iti/netanalytical/eventqueue"
)

// QueueDiscipline selects how a Link picks the next chunk to serve once it
// frees up while chunks are waiting. It is set once per topology at
// construction time, not changed mid-run.
type QueueDiscipline int

const (
	// FIFO serves pending chunks in arrival order.
	FIFO QueueDiscipline = iota
	// Random serves a uniformly chosen pending chunk, independent of
	// arrival order.
	Random
)

// Link is the directed, half-duplex transmission medium from one Device to
// another. A Link serializes exactly one Chunk at a time; chunks that
// arrive while it is busy wait in a pending queue until it frees.
type Link struct {
	bandwidthBpns common.Bandwidth
	latency       common.Latency

	eq         *eventqueue.EventQueue
	pool       *DevicePool
	to         common.DeviceId
	discipline QueueDiscipline
	rng        *rngstream.RngStream

	busy    bool
	pending []*Chunk
}

// NewLink constructs a free Link with the given bandwidth (decimal GB/s)
// and latency (ns). The link is not usable until a Device calls Connect,
// which fills in its destination and owning pool.
func NewLink(eq *eventqueue.EventQueue, bandwidth common.Bandwidth, latency common.Latency, discipline QueueDiscipline, rng *rngstream.RngStream) *Link {
	if bandwidth <= 0 {
		panic("congestionaware: link bandwidth must be positive")
	}
	if latency < 0 {
		panic("congestionaware: link latency must be non-negative")
	}
	return &Link{
		bandwidthBpns: common.BandwidthBpns(bandwidth),
		latency:       latency,
		eq:            eq,
		discipline:    discipline,
		rng:           rng,
	}
}

// serializationDelay is the time the link itself is occupied pushing size
// bytes onto the wire: size / bandwidth.
func (l *Link) serializationDelay(size common.ChunkSize) common.EventTime {
	return common.EventTime(float64(size) / float64(l.bandwidthBpns))
}

// communicationDelay is the time until the chunk arrives at the far end:
// propagation latency plus serialization delay.
func (l *Link) communicationDelay(size common.ChunkSize) common.EventTime {
	return common.EventTime(l.latency) + l.serializationDelay(size)
}

// Send enqueues chunk for transmission. If the link is idle, transmission
// starts immediately; otherwise the chunk waits in the pending queue.
func (l *Link) Send(chunk *Chunk) {
	if l.busy {
		l.pending = append(l.pending, chunk)
		logrus.WithFields(logrus.Fields{
			"from":    chunk.Current(),
			"to":      l.to,
			"pending": len(l.pending),
		}).Debug("congestionaware: link busy, chunk queued")
		return
	}
	l.scheduleTransmission(chunk)
}

func (l *Link) scheduleTransmission(chunk *Chunk) {
	if l.busy {
		panic(fmt.Sprintf("congestionaware: scheduleTransmission called while link to %d is busy", l.to))
	}
	l.busy = true

	now := l.eq.CurrentTime()
	size := chunk.Size

	arrival := now + l.communicationDelay(size)
	l.eq.Schedule(arrival, func(payload any) {
		l.deliverNextHop(payload.(*Chunk))
	}, chunk)

	free := now + l.serializationDelay(size)
	l.eq.Schedule(free, func(any) {
		l.becomeFree()
	}, nil)
}

// deliverNextHop advances chunk past this link and either hands it to its
// next hop's outbound link or, if it has arrived, fires its completion
// callback.
func (l *Link) deliverNextHop(chunk *Chunk) {
	chunk.Advance()
	if chunk.Arrived() {
		if chunk.OnComplete != nil {
			chunk.OnComplete(chunk)
		}
		return
	}
	l.pool.Device(chunk.Current()).Send(chunk)
}

func (l *Link) becomeFree() {
	l.busy = false
	if len(l.pending) == 0 {
		return
	}
	chunk := l.popPending()
	l.scheduleTransmission(chunk)
}

func (l *Link) popPending() *Chunk {
	var idx int
	switch l.discipline {
	case Random:
		idx = int(l.rng.RandU01() * float64(len(l.pending)))
		if idx >= len(l.pending) {
			idx = len(l.pending) - 1
		}
	default:
		idx = 0
	}
	chunk := l.pending[idx]
	l.pending = append(l.pending[:idx], l.pending[idx+1:]...)
	return chunk
}

// cloneFor returns a fresh, idle Link with the same bandwidth, latency,
// discipline and rng, registered against pool instead of l's pool. Used by
// DevicePool.Clone.
func (l *Link) cloneFor(pool *DevicePool) *Link {
	return &Link{
		bandwidthBpns: l.bandwidthBpns,
		latency:       l.latency,
		eq:            l.eq,
		pool:          pool,
		to:            l.to,
		discipline:    l.discipline,
		rng:           l.rng,
	}
}
