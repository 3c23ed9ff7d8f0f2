package simplep2p

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/modelnet/modelnet"
)

var _ = Describe("LinkParams.transmitTime", func() {
	It("charges only startup cost when bandwidth is unset", func() {
		p := LinkParams{StartupNs: 100}
		Expect(p.transmitTime(1000)).To(Equal(100.0))
	})

	It("adds a size-proportional term when bandwidth is set", func() {
		p := LinkParams{StartupNs: 10, BWMbps: 1000}
		Expect(p.transmitTime(1000)).To(BeNumerically(">", 10.0))
	})
})

var _ = Describe("Model", func() {
	It("tracks sent/received counts through Event and EndNotif", func() {
		m := New(LinkParams{StartupNs: 1})
		lp, st := newTestLP(m)
		Expect(st.sent).To(Equal(uint64(0)))

		m.Event(lp, st, &modelnet.Envelope{Type: modelnet.EvPass, Sub: modelnet.Request{FinalDestGID: 10, MsgSize: 100}})
		Expect(st.sent).To(Equal(uint64(1)))

		m.EndNotif(lp, st, &modelnet.Envelope{Type: modelnet.EvEndNotif})
		Expect(st.received).To(Equal(uint64(1)))
	})
})

type fakeOutbox struct{}

func (fakeOutbox) Send(destGID int, timestamp float64, env *modelnet.Envelope) {}

type fakeNeighbors struct{}

func (fakeNeighbors) NeighborCount(sender int, destType string) int { return 1 }

type noopSubModel struct{}

func (noopSubModel) Init(lp *modelnet.BaseLP) any                                 { return nil }
func (noopSubModel) Event(lp *modelnet.BaseLP, state any, env *modelnet.Envelope)  {}
func (noopSubModel) Revent(lp *modelnet.BaseLP, state any, env *modelnet.Envelope) {}
func (noopSubModel) Commit(lp *modelnet.BaseLP, state any, env *modelnet.Envelope) {}
func (noopSubModel) Final(lp *modelnet.BaseLP, state any)                         {}
func (noopSubModel) StateSize() int                                               { return 0 }

func newTestLP(m *Model) (*modelnet.BaseLP, *state) {
	lp := modelnet.NewBaseLP(modelnet.Config{
		GID:       1,
		Params:    modelnet.NewParams(modelnet.SchedConfig{Policy: modelnet.FCFS}, 1, 0, 0, 0),
		SubModel:  noopSubModel{},
		Neighbors: fakeNeighbors{},
		Outbox:    fakeOutbox{},
		Rand:      modelnet.NewReplayStream(1),
		Now:       func() float64 { return 0 },
	})
	return lp, m.Init(lp).(*state)
}

var _ = Describe("Model link exclusivity", func() {
	It("serializes back-to-back packets to the same destination but not to different ones", func() {
		m := New(LinkParams{StartupNs: 0, BWMbps: 1000})
		lp, st := newTestLP(m)

		toA1 := &modelnet.Envelope{Type: modelnet.EvPass, Sub: modelnet.Request{FinalDestGID: 10, MsgSize: 1000}}
		m.Event(lp, st, toA1)
		firstBusy := st.busyUntil[10]
		Expect(firstBusy).To(BeNumerically(">", 0))

		toB := &modelnet.Envelope{Type: modelnet.EvPass, Sub: modelnet.Request{FinalDestGID: 20, MsgSize: 1000}}
		m.Event(lp, st, toB)
		Expect(st.busyUntil[20]).To(Equal(firstBusy), "a different destination must not inherit the first link's occupancy")

		toA2 := &modelnet.Envelope{Type: modelnet.EvPass, Sub: modelnet.Request{FinalDestGID: 10, MsgSize: 1000}}
		m.Event(lp, st, toA2)
		Expect(st.busyUntil[10]).To(BeNumerically(">", firstBusy), "a second packet to the same destination must queue behind the first")

		m.Revent(lp, st, toA2)
		Expect(st.busyUntil[10]).To(Equal(firstBusy))
	})
})
