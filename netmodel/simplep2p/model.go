// Package simplep2p implements the "simplep2p" network family: every
// packet occupies its link exclusively for its transmit time, with no
// sharing between packets addressed to different destinations. It is the
// concrete sub-model grounded on spec §6.2's point-to-point family and
// the original's dedicated-link network-model variant.
package simplep2p

import (
	"github.com/sarchlab/modelnet/modelnet"
	"github.com/sarchlab/modelnet/registry"
)

// LinkParams configures the per-packet link delay and bandwidth this
// family charges a packet for occupying a link.
type LinkParams struct {
	StartupNs float64
	BWMbps    float64
}

// transmitTime returns how long a packetBytes-byte packet occupies the
// link, combining a fixed startup cost with a size-proportional transfer
// cost.
func (p LinkParams) transmitTime(packetBytes uint64) float64 {
	if p.BWMbps <= 0 {
		return p.StartupNs
	}
	bitsPerNs := p.BWMbps * 1e6 / 1e9
	return p.StartupNs + float64(packetBytes*8)/bitsPerNs
}

// state is the per-LP data this family keeps, returned from Init and
// passed back to every other SubModel method unchanged. busyUntil is
// keyed by destination gid so packets addressed to different
// destinations never contend for the same link's exclusivity, while
// back-to-back packets to the same destination still serialize.
type state struct {
	params    LinkParams
	busyUntil map[int]float64

	// lastDest/lastPrevBusy remember the single most recent mutation of
	// busyUntil, so Revent can restore it without reconstructing history;
	// valid only because Event/Revent calls are never interleaved across
	// different envelopes for the same state.
	lastDest     int
	lastPrevBusy float64

	sent     uint64
	received uint64
}

// Model implements modelnet.SubModel for the simplep2p family.
type Model struct {
	params LinkParams
}

// New creates a simplep2p Model with the given link parameters.
func New(params LinkParams) *Model {
	return &Model{params: params}
}

// Register installs this family under the known FamilySimpleP2P slot, the
// two-argument shape spec §4.5's registry expects from a known family.
func Register(reg *registry.Registry, m *Model, onNetworkID func(id int)) {
	reg.RegisterKnown(registry.FamilySimpleP2P, func() {}, onNetworkID)
}

func (m *Model) Init(lp *modelnet.BaseLP) any {
	return &state{params: m.params, busyUntil: make(map[int]float64)}
}

func (m *Model) Event(lp *modelnet.BaseLP, raw any, env *modelnet.Envelope) {
	st := raw.(*state)
	req, ok := env.Sub.(modelnet.Request)
	if !ok {
		return
	}
	queueDelay := st.busyUntil[req.FinalDestGID]
	xmit := st.params.transmitTime(req.MsgSize)
	st.lastDest = req.FinalDestGID
	st.lastPrevBusy = queueDelay
	st.busyUntil[req.FinalDestGID] = queueDelay + xmit

	lp.Send(req.FinalDestGID, queueDelay+xmit, req)
	st.sent++
}

func (m *Model) Revent(lp *modelnet.BaseLP, raw any, env *modelnet.Envelope) {
	st := raw.(*state)
	st.busyUntil[st.lastDest] = st.lastPrevBusy
	if st.sent > 0 {
		st.sent--
	}
}

func (m *Model) Commit(lp *modelnet.BaseLP, raw any, env *modelnet.Envelope) {}

func (m *Model) Final(lp *modelnet.BaseLP, raw any) {}

func (m *Model) StateSize() int { return 0 }

// EndNotif implements modelnet.EndNotifier: simplep2p has no outstanding
// in-flight bookkeeping to flush, so it only counts the notification.
func (m *Model) EndNotif(lp *modelnet.BaseLP, raw any, env *modelnet.Envelope) {
	st := raw.(*state)
	st.received++
}

func (m *Model) EndNotifRevert(lp *modelnet.BaseLP, raw any, env *modelnet.Envelope) {
	st := raw.(*state)
	if st.received > 0 {
		st.received--
	}
}
