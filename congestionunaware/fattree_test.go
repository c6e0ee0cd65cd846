package congestionunaware

import (
	"testing"

	"github.com/iti/rngstream"
	"github.com/stretchr/testify/require"

	"github.com/iti/netanalytical/common"
)

func TestFatTreeSameLeafIsThreeDevices(t *testing.T) {
	rng := rngstream.New("fattree-cu-test")
	ft := NewFatTree(8, 4, 50, 500, FatTreeDeterministic, rng)

	route := ft.Route(0, 1)
	require.Len(t, route, 3)
}

func TestFatTreeCrossPodIsSevenDevices(t *testing.T) {
	rng := rngstream.New("fattree-cu-test-2")
	ft := NewFatTree(16, 4, 50, 500, FatTreeDeterministic, rng)

	route := ft.Route(0, 8)
	require.Len(t, route, 7)
}

func TestFatTreeSendGrowsWithHops(t *testing.T) {
	rng := rngstream.New("fattree-cu-test-3")
	ft := NewFatTree(16, 4, 50, 500, FatTreeDeterministic, rng)
	size := common.ChunkSize(1048576)

	sameLeaf := ft.Send(0, 1, size)
	crossPod := ft.Send(0, 8, size)
	require.Less(t, sameLeaf, crossPod)
}

func TestFatTreeRejectsOddRadix(t *testing.T) {
	rng := rngstream.New("fattree-cu-odd")
	require.Panics(t, func() {
		NewFatTree(8, 3, 50, 500, FatTreeDeterministic, rng)
	})
}

func TestFatTreeCrossPodRouteUsesMatchingSpineGroupForMismatchedLeafInPod(t *testing.T) {
	rng := rngstream.New("fattree-cu-mismatched-leaf-in-pod")
	ft := NewFatTree(16, 4, 50, 500, FatTreeDeterministic, rng)

	// NPU 0 -> leaf 0 (pod 0, position 0 in pod); NPU 11 -> leaf 5 (pod 2,
	// position 1 in pod). The src-side and dst-side spine must sit at the
	// same position within their pod, since that position is what ties
	// them to a common core.
	route := ft.Route(0, 11)
	require.Len(t, route, 7)
	require.Equal(t, common.DeviceId(0), route[0])
	require.Equal(t, common.DeviceId(11), route[6])

	srcSpine, dstSpine := route[2], route[4]
	require.Equal(t, int(srcSpine-common.DeviceId(ft.spineOffset))%(ft.k/2), int(dstSpine-common.DeviceId(ft.spineOffset))%(ft.k/2))
}

func TestFatTreeRouteSameDeviceIsSingleElement(t *testing.T) {
	rng := rngstream.New("fattree-cu-same")
	ft := NewFatTree(16, 4, 50, 500, FatTreeDeterministic, rng)

	require.Equal(t, Route{5}, ft.Route(5, 5))
	require.Equal(t, 0, ft.Hops(5, 5))
	require.Equal(t, common.EventTime(0), ft.Send(5, 5, 1048576))
}
