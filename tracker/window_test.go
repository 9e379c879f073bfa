package tracker

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (w *hourWindow) recomputedSum() uint32 {
	var s uint32
	for _, b := range w.buckets {
		s += uint32(b)
	}
	return s
}

func TestHourWindow_FirstAdvanceOnlyAnchors(t *testing.T) {
	var w hourWindow
	w.advance(123456)
	assert.Equal(t, uint32(123456), w.startMS)
	assert.Equal(t, 0, w.cursor)
	assert.Zero(t, w.sum)
}

func TestHourWindow_RotationEvictsOldest(t *testing.T) {
	var w hourWindow
	w.advance(0)
	w.addStep()
	w.addStep()
	require.EqualValues(t, 2, w.total())

	// 59 rotations keep minute 0 inside the window.
	w.advance(59 * 60000)
	assert.EqualValues(t, 2, w.total())

	// The 60th rotation closes the window over minute 0.
	w.advance(60 * 60000)
	assert.EqualValues(t, 0, w.total())
}

func TestHourWindow_SubMinuteAdvanceDoesNotRotate(t *testing.T) {
	var w hourWindow
	w.advance(0)
	w.addStep()
	w.advance(59999)
	assert.Equal(t, 0, w.cursor)
	assert.EqualValues(t, 1, w.total())
	w.advance(60000)
	assert.Equal(t, 1, w.cursor)
}

func TestHourWindow_BackwardClockHoldsPosition(t *testing.T) {
	var w hourWindow
	w.advance(120000)
	w.addStep()
	w.advance(30000) // earlier than the bucket start
	assert.Equal(t, uint32(120000), w.startMS)
	assert.EqualValues(t, 1, w.total())
}

// A gap longer than the window takes the bounded fast path. It must agree
// with the minute-by-minute slow path on everything observable: total,
// bucket phase, and subsequent rotation behavior.
func TestHourWindow_LongGapFastPathMatchesSlowPath(t *testing.T) {
	const gap = uint32(61*60000 + 30000) // 61.5 minutes

	var fast hourWindow
	fast.advance(0)
	fast.addStep()
	fast.advance(gap)

	var slow hourWindow
	slow.advance(0)
	slow.addStep()
	for ts := uint32(60000); ts <= gap; ts += 60000 {
		slow.advance(ts) // one rotation at a time
	}
	slow.advance(gap)

	assert.Equal(t, slow.cursor, fast.cursor)
	assert.Equal(t, slow.startMS, fast.startMS)
	assert.Equal(t, slow.total(), fast.total())

	// Phase is preserved: the current bucket opened at the 61-minute mark,
	// so the next rotation happens 30 s after the gap, not 60.
	assert.Equal(t, uint32(61*60000), fast.startMS)
	fast.addStep()
	fast.advance(gap + 29999)
	assert.EqualValues(t, 1, fast.total())
	require.Equal(t, uint32(61*60000), fast.startMS)
	fast.advance(gap + 30000)
	assert.Equal(t, uint32(62*60000), fast.startMS)
}

func TestHourWindow_DayLongStallClearsEverything(t *testing.T) {
	var w hourWindow
	w.advance(0)
	for i := 0; i < 500; i++ {
		w.addStep()
	}
	w.advance(48 * 3600 * 1000) // two days
	assert.Zero(t, w.total())
	assert.Equal(t, w.recomputedSum(), w.sum)
}

func TestHourWindow_SumMatchesBucketsUnderMixedTraffic(t *testing.T) {
	var w hourWindow
	w.advance(0)
	now := uint32(0)
	for i := 0; i < 5000; i++ {
		// Irregular cadence: sometimes fast ticks, sometimes multi-minute
		// stalls, occasionally a whole-window gap.
		switch i % 13 {
		case 3:
			now += 170000
		case 7:
			now += 65 * 60000
		default:
			now += 40
		}
		w.advance(now)
		if i%3 == 0 {
			w.addStep()
		}
		require.Equal(t, w.recomputedSum(), w.sum, "tick %d", i)
	}
}

func TestHourWindow_BucketSaturatesWithoutBreakingSum(t *testing.T) {
	var w hourWindow
	w.advance(0)
	for i := 0; i < math.MaxUint16+500; i++ {
		w.addStep()
	}
	assert.EqualValues(t, math.MaxUint16, w.buckets[0])
	assert.EqualValues(t, math.MaxUint16, w.total())
	assert.Equal(t, w.recomputedSum(), w.sum)

	// The saturated minute rotates out like any other.
	w.advance(60 * 60000)
	assert.Zero(t, w.total())
}

func TestHourWindow_ResetClearsEverything(t *testing.T) {
	var w hourWindow
	w.advance(5000)
	w.addStep()
	w.reset()
	assert.False(t, w.started)
	assert.Zero(t, w.total())
	assert.Equal(t, 0, w.cursor)
}
