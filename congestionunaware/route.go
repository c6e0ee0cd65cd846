package congestionunaware

import "github.com/iti/netanalytical/common"

// Route is an ordered sequence of devices a chunk traverses, src first and
// dst last.
type Route []common.DeviceId

// Hops is the number of links in the route: len(route)-1. A same-device
// route has length 1 and zero hops.
func (r Route) Hops() int {
	if len(r) == 0 {
		return 0
	}
	return len(r) - 1
}
