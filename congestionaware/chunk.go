package congestionaware

import (
	"fmt"

	"github.com/iti/netanalytical/common"
)

// Route is a non-empty ordered sequence of devices a Chunk travels through,
// from the originating NPU to its final destination. Route[0] is where a
// freshly constructed Chunk sits before it is ever sent.
type Route []common.DeviceId

// Hops reports the number of link traversals this route represents.
func (r Route) Hops() int {
	if len(r) == 0 {
		return 0
	}
	return len(r) - 1
}

func (r Route) validate() {
	if len(r) < 1 {
		panic("congestionaware: route must name at least a device")
	}
}

// Chunk is a quantity of data in flight across a topology. It tracks its own
// position within Route via cursor and invokes OnComplete once it has been
// delivered to Route's final device.
type Chunk struct {
	Size       common.ChunkSize
	Route      Route
	cursor     int
	OnComplete func(*Chunk)
}

// NewChunk constructs a Chunk positioned at the first device of route.
// route must name at least one device; onComplete may be nil. A
// single-device route is already Arrived: the chunk completes at its
// current simulated time without ever being handed to a Link.
func NewChunk(size common.ChunkSize, route Route, onComplete func(*Chunk)) *Chunk {
	if size <= 0 {
		panic("congestionaware: chunk size must be positive")
	}
	route.validate()
	return &Chunk{Size: size, Route: route, cursor: 0, OnComplete: onComplete}
}

// Current returns the id of the device the chunk currently sits at.
func (c *Chunk) Current() common.DeviceId {
	return c.Route[c.cursor]
}

// Next returns the id of the device the chunk will travel to next, and
// whether the chunk has not yet reached the end of its route.
func (c *Chunk) Next() (common.DeviceId, bool) {
	if c.cursor+1 >= len(c.Route) {
		return 0, false
	}
	return c.Route[c.cursor+1], true
}

// Arrived reports whether the chunk has reached the final device of its
// route.
func (c *Chunk) Arrived() bool {
	return c.cursor == len(c.Route)-1
}

// Advance moves the chunk's cursor one hop forward. It panics if the chunk
// has already arrived.
func (c *Chunk) Advance() {
	if c.Arrived() {
		panic(fmt.Sprintf("congestionaware: chunk already arrived at device %d", c.Current()))
	}
	c.cursor++
}
