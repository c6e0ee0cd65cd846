package eventqueue

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iti/netanalytical/common"
)

func TestProceedOrdersByTimeThenFIFO(t *testing.T) {
	eq := New()
	var order []string

	eq.Schedule(10, func(p any) { order = append(order, p.(string)) }, "b")
	eq.Schedule(5, func(p any) { order = append(order, p.(string)) }, "a")
	eq.Schedule(10, func(p any) { order = append(order, p.(string)) }, "c")

	eq.Run()

	require.Equal(t, []string{"a", "b", "c"}, order)
	require.True(t, eq.Finished())
	require.Equal(t, common.EventTime(10), eq.CurrentTime())
}

func TestCurrentTimeMonotonic(t *testing.T) {
	eq := New()
	var times []common.EventTime

	eq.Schedule(3, func(any) { times = append(times, eq.CurrentTime()) }, nil)
	eq.Schedule(7, func(any) { times = append(times, eq.CurrentTime()) }, nil)
	eq.Schedule(7, func(any) { times = append(times, eq.CurrentTime()) }, nil)

	eq.Run()
	require.Equal(t, []common.EventTime{3, 7, 7}, times)
}

func TestScheduleInPastPanics(t *testing.T) {
	eq := New()
	eq.Schedule(5, func(any) {}, nil)
	eq.Proceed()

	require.Panics(t, func() {
		eq.Schedule(4, func(any) {}, nil)
	})
}

func TestProceedOnEmptyQueuePanics(t *testing.T) {
	eq := New()
	require.Panics(t, func() {
		eq.Proceed()
	})
}

func TestCallbackCanScheduleFurtherEvents(t *testing.T) {
	eq := New()
	var fired []int
	var schedule func(n int)
	schedule = func(n int) {
		fired = append(fired, n)
		if n < 3 {
			eq.Schedule(eq.CurrentTime()+1, func(any) { schedule(n + 1) }, nil)
		}
	}
	eq.Schedule(0, func(any) { schedule(0) }, nil)
	eq.Run()
	require.Equal(t, []int{0, 1, 2, 3}, fired)
}
