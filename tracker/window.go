package tracker

import "math"

const (
	historyMinutes = 60
	bucketSpanMS   = 60000
	windowSpanMS   = historyMinutes * bucketSpanMS
)

// hourWindow is a ring of one step counter per minute for the trailing hour.
// The sum is maintained incrementally: rotating a bucket in subtracts the
// count it evicts, so reading the trailing-hour total is O(1).
type hourWindow struct {
	buckets [historyMinutes]uint16
	cursor  int    // index of the current, still-open bucket
	started bool   // startMS is only meaningful after the first advance
	startMS uint32 // time the current bucket opened
	sum     uint32 // invariant: sum == Σ buckets
}

func (w *hourWindow) reset() {
	*w = hourWindow{}
}

// advance rotates buckets until the cursor's bucket covers now. The first
// call only anchors the bucket clock; it does not rotate.
func (w *hourWindow) advance(now uint32) {
	if !w.started {
		w.started = true
		w.startMS = now
		return
	}
	if now < w.startMS {
		// Backward clock from a misbehaving caller: hold position rather
		// than treating the unsigned gap as an enormous forward jump.
		return
	}
	elapsed := now - w.startMS
	if elapsed < bucketSpanMS {
		return
	}
	if elapsed >= windowSpanMS {
		// The gap spans the whole window, so every bucket rotates out.
		// Clearing wholesale is equivalent to rotating once per elapsed
		// minute and keeps the cost bounded for arbitrarily long stalls.
		minutes := elapsed / bucketSpanMS
		w.buckets = [historyMinutes]uint16{}
		w.sum = 0
		w.cursor = (w.cursor + int(minutes%historyMinutes)) % historyMinutes
		w.startMS += minutes * bucketSpanMS
		return
	}
	for now-w.startMS >= bucketSpanMS {
		w.startMS += bucketSpanMS
		w.cursor = (w.cursor + 1) % historyMinutes
		w.sum -= uint32(w.buckets[w.cursor])
		w.buckets[w.cursor] = 0
	}
}

// addStep counts one step into the current bucket. A saturated minute bucket
// stops counting so that sum == Σ buckets continues to hold.
func (w *hourWindow) addStep() {
	if w.buckets[w.cursor] == math.MaxUint16 {
		return
	}
	w.buckets[w.cursor]++
	w.sum++
}

// total returns the trailing-hour count clamped to uint16.
func (w *hourWindow) total() uint16 {
	if w.sum > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(w.sum)
}
