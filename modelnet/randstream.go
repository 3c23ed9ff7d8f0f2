package modelnet

import "math/rand"

// RandStream is a source of floating-point jitter a base-LP consumes when
// scheduling NIC sequencing delays and node-copy completions. A forward
// handler that calls Float64 must call Reverse an equal number of times
// while undoing that handler's effects, in the reverse order, so replay
// after a rollback reproduces the same sequence of values.
type RandStream interface {
	Float64() float64
	Reverse()
}

// replayStream is a RandStream backed by a deterministic pseudo-random
// generator. Every draw is appended to a log; Reverse rewinds the cursor
// instead of discarding the draw, so a value consumed, reverted, and
// re-consumed on replay is identical both times — required for
// optimistic rollback to be safe against PDES replay.
type replayStream struct {
	src    *rand.Rand
	log    []float64
	cursor int
}

// NewReplayStream creates a RandStream seeded deterministically, matching
// the PDES runtime's per-LP seeding convention (spec §6.1).
func NewReplayStream(seed int64) RandStream {
	return &replayStream{src: rand.New(rand.NewSource(seed))}
}

// Float64 returns the next jitter value, drawing a fresh one only past the
// end of the replay log.
func (r *replayStream) Float64() float64 {
	if r.cursor < len(r.log) {
		v := r.log[r.cursor]
		r.cursor++
		return v
	}
	v := r.src.Float64()
	r.log = append(r.log, v)
	r.cursor++
	return v
}

// Reverse rewinds the cursor by one draw without truncating the log, so a
// later replay of the same forward path reproduces the same value.
func (r *replayStream) Reverse() {
	if r.cursor > 0 {
		r.cursor--
	}
}
