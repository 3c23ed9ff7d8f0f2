package orchestrator_test

import (
	"os"
	"path/filepath"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/modelnet/config"
	"github.com/sarchlab/modelnet/modelnet"
	"github.com/sarchlab/modelnet/orchestrator"
	"github.com/sarchlab/modelnet/pdesrt"
)

// fakeRuntime is an in-process pdesrt.Runtime good enough to exercise
// orchestrator.Runtime's wiring without a real akita engine: a single
// shared timer queue every LP's handle schedules into and drains from.
type fakeRuntime struct {
	clock   float64
	pending []fakeEvent
	byGID   map[int]*fakeHandle
}

type fakeEvent struct {
	ts      float64
	destGID int
	payload any
}

func (f *fakeRuntime) Now() float64 { return f.clock }

func (f *fakeRuntime) NewLP(gid int, name string) pdesrt.LPHandle {
	if f.byGID == nil {
		f.byGID = make(map[int]*fakeHandle)
	}
	h := &fakeHandle{gid: gid, rt: f}
	f.byGID[gid] = h
	return h
}

func (f *fakeRuntime) Connect(a, b pdesrt.LPHandle) {}

func (f *fakeRuntime) Run() {
	for len(f.pending) > 0 {
		sort.SliceStable(f.pending, func(i, j int) bool { return f.pending[i].ts < f.pending[j].ts })
		ev := f.pending[0]
		f.pending = f.pending[1:]
		f.clock = ev.ts
		if h, ok := f.byGID[ev.destGID]; ok {
			h.deliver(ev.destGID, ev.payload)
		}
	}
}

type fakeHandle struct {
	gid      int
	rt       *fakeRuntime
	callback func(srcGID int, payload any)
}

func (h *fakeHandle) ScheduleAt(ts float64, fn func()) {
	h.rt.pending = append(h.rt.pending, fakeEvent{ts: ts, destGID: h.gid, payload: fn})
}

func (h *fakeHandle) Send(destGID int, ts float64, payload any) {
	h.rt.pending = append(h.rt.pending, fakeEvent{ts: ts, destGID: destGID, payload: payload})
}

func (h *fakeHandle) OnDeliver(fn func(srcGID int, payload any)) { h.callback = fn }

func (h *fakeHandle) deliver(srcGID int, payload any) {
	if fn, ok := payload.(func()); ok {
		fn()
		return
	}
	if h.callback != nil {
		h.callback(srcGID, payload)
	}
}

var _ = Describe("Runtime.Configure", func() {
	It("instantiates one base-LP per vertex for a ring of three hosts", func() {
		dir := GinkgoT().TempDir()
		Expect(os.WriteFile(filepath.Join(dir, "topo.yaml"), []byte(`
subgraphs:
  - name: hosts
    vertices:
      - name: host0
        edges: [host1]
      - name: host1
        edges: [host2]
      - name: host2
        edges: [host0]
`), 0o644)).To(Succeed())
		Expect(os.WriteFile(filepath.Join(dir, "sim.yaml"), []byte(`
simulation: {}
topology:
  filename: topo.yaml
host:
  type: host
  model: simplenet
  vertices: [host0, host1, host2]
`), 0o644)).To(Succeed())

		rt := orchestrator.New(&fakeRuntime{})
		rt.RegisterFamily(config.ModelSimpleChannel, func(lt config.LPTypeConfig) modelnet.SubModel {
			return &noopSubModel{}
		})

		Expect(rt.Configure(filepath.Join(dir, "sim.yaml"))).To(Succeed())
		Expect(rt.LPCount()).To(Equal(3))
	})
})

type noopSubModel struct{}

func (noopSubModel) Init(lp *modelnet.BaseLP) any                                      { return nil }
func (noopSubModel) Event(lp *modelnet.BaseLP, state any, env *modelnet.Envelope)       {}
func (noopSubModel) Revent(lp *modelnet.BaseLP, state any, env *modelnet.Envelope)      {}
func (noopSubModel) Commit(lp *modelnet.BaseLP, state any, env *modelnet.Envelope)      {}
func (noopSubModel) Final(lp *modelnet.BaseLP, state any)                               {}
func (noopSubModel) StateSize() int                                                     { return 0 }
