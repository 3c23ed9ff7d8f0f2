package modelnet

// EventType names the six event kinds the base-LP scheduler dispatches,
// per spec §4.3.
type EventType int

const (
	EvNewMsg EventType = iota
	EvSchedNext
	EvSample
	EvPass
	EvEndNotif
	EvCongestion
)

func (t EventType) String() string {
	switch t {
	case EvNewMsg:
		return "NEW_MSG"
	case EvSchedNext:
		return "SCHED_NEXT"
	case EvSample:
		return "SAMPLE"
	case EvPass:
		return "PASS"
	case EvEndNotif:
		return "END_NOTIF"
	case EvCongestion:
		return "CONGESTION"
	default:
		return "UNKNOWN"
	}
}

// Request describes the message a NEW_MSG event is carrying through the
// base-LP pipeline.
type Request struct {
	SrcGID       int
	DestGID      int // base-LP handling this message, not necessarily FinalDestGID
	FinalDestGID int // the LP the payload is ultimately destined for
	MsgSize      uint64
	Category     string
	PacketID     uint64 // assigned by the base-LP on first admission
}

// BaseMsg is the base-LP-owned payload of a NEW_MSG/SCHED_NEXT/SAMPLE
// event — the part of the envelope the sub-model never inspects directly.
type BaseMsg struct {
	Req          Request
	QueueIndex   int
	IsFromRemote bool
	IsQueueReq bool // true once the NIC-sequencing self-send has fired
}

// ReverseBits records, one flag per side effect, what a forward handler
// did so the matching reverse handler knows exactly what to undo. Kept
// under 32 bits per spec §4.3's reverse-state budget.
type ReverseBits uint32

const (
	RBQueueWasIdle ReverseBits = 1 << iota
	RBJitterConsumed
	RBAssignedMsgID
	RBNodeCopy
	RBSampleRearmed
	RBSchedNextFollowUp
	RBSchedNextEmpty
)

func (b ReverseBits) Has(flag ReverseBits) bool { return b&flag != 0 }

// Envelope is the message type every base-LP handler receives. At most
// one of Base or Sub is meaningful for a given Type: Base for
// NEW_MSG/SCHED_NEXT, Sub for PASS/END_NOTIF/CONGESTION, which carry a
// sub-model-defined payload the base-LP does not interpret. A SAMPLE
// envelope carries neither.
type Envelope struct {
	Type    EventType
	Base    *BaseMsg
	Sub     any
	Reverse ReverseBits

	// dequeued holds the packet a SCHED_NEXT forward handler removed from
	// its send queue, so the mirrored reverse handler can restore it via
	// Scheduler.UndoDequeue without reconstructing it from scratch.
	dequeued *packet

	// prevQueueTime holds a node-copy queue's nextAvailableTime from before
	// a NEW_MSG forward handler advanced it, so the reverse handler can
	// restore the exact prior value instead of guessing at a decrement.
	prevQueueTime *float64
}

// Clone returns a shallow copy of the envelope with its own BaseMsg, so a
// handler that mutates fields before re-sending does not alias the
// original the PDES runtime may still hold for rollback.
func (e *Envelope) Clone() *Envelope {
	clone := *e
	if e.Base != nil {
		b := *e.Base
		clone.Base = &b
	}
	clone.Reverse = 0
	clone.dequeued = nil
	clone.prevQueueTime = nil
	return &clone
}
