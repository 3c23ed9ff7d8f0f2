// Package simplechannel implements the "simplenet"/"simplechannel"
// network family: all packets leaving an LP share one outgoing channel,
// so a packet must wait for the channel to be free before its own
// transmission time starts — grounded on spec §6.2's shared-channel
// family and the original's simplenet model.
package simplechannel

import (
	"github.com/sarchlab/modelnet/modelnet"
	"github.com/sarchlab/modelnet/registry"
)

// ChannelParams configures the shared channel's per-byte cost.
type ChannelParams struct {
	StartupNs float64
	BWMbps    float64
}

func (p ChannelParams) transmitTime(packetBytes uint64) float64 {
	if p.BWMbps <= 0 {
		return p.StartupNs
	}
	bitsPerNs := p.BWMbps * 1e6 / 1e9
	return p.StartupNs + float64(packetBytes*8)/bitsPerNs
}

// state tracks when this LP's single shared channel next becomes free, so
// back-to-back sends serialize instead of overlapping.
type state struct {
	params         ChannelParams
	channelFreeAt  float64
	lastQueueDelay float64
}

// Model implements modelnet.SubModel for the simplechannel family.
type Model struct {
	params ChannelParams
}

// New creates a simplechannel Model with the given channel parameters.
func New(params ChannelParams) *Model {
	return &Model{params: params}
}

// Register installs this family under the known FamilySimpleChannel slot.
func Register(reg *registry.Registry, m *Model, onNetworkID func(id int)) {
	reg.RegisterKnown(registry.FamilySimpleChannel, func() {}, onNetworkID)
}

func (m *Model) Init(lp *modelnet.BaseLP) any {
	return &state{params: m.params}
}

func (m *Model) Event(lp *modelnet.BaseLP, raw any, env *modelnet.Envelope) {
	st := raw.(*state)
	req, ok := env.Sub.(modelnet.Request)
	if !ok {
		return
	}
	xmit := st.params.transmitTime(req.MsgSize)
	queueDelay := 0.0
	if st.channelFreeAt > 0 {
		queueDelay = st.channelFreeAt
	}
	st.lastQueueDelay = queueDelay
	st.channelFreeAt = queueDelay + xmit

	lp.Send(req.FinalDestGID, queueDelay+xmit, req)
}

func (m *Model) Revent(lp *modelnet.BaseLP, raw any, env *modelnet.Envelope) {
	st := raw.(*state)
	st.channelFreeAt = st.lastQueueDelay
}

func (m *Model) Commit(lp *modelnet.BaseLP, raw any, env *modelnet.Envelope) {}

func (m *Model) Final(lp *modelnet.BaseLP, raw any) {}

func (m *Model) StateSize() int { return 0 }
