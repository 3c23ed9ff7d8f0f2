package pdesrt

import (
	"container/heap"
	"fmt"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/akita/v4/sim/directconnection"
)

// timerItem is one scheduled callback in an lpComponent's pending-event
// heap, ordered by Timestamp.
type timerItem struct {
	timestamp float64
	seq       uint64 // breaks ties in FIFO order, matching a PDES tie-break rule
	fn        func()
}

type timerHeap []timerItem

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].timestamp != h[j].timestamp {
		return h[i].timestamp < h[j].timestamp
	}
	return h[i].seq < h[j].seq
}
func (h timerHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)        { *h = append(*h, x.(timerItem)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// lpComponent is the akita-side half of one base-LP: a TickingComponent
// whose Tick drains any self-scheduled timers that have come due, and
// delivers anything pending on its incoming port. It is deliberately
// generic over payload (any) — package modelnet's Envelope travels
// through it without pdesrt needing to import package modelnet.
type lpComponent struct {
	*sim.TickingComponent

	gid       int
	port      sim.Port
	lookup    func(gid int) sim.RemotePort
	timers    timerHeap
	seq       uint64
	onDeliver func(srcGID int, payload any)
}

// wireMsg adapts an arbitrary payload to satisfy sim.Msg, since akita
// ports only carry sim.Msg values.
type wireMsg struct {
	sim.MsgMeta
	srcGID  int
	payload any
}

func (m *wireMsg) Meta() *sim.MsgMeta { return &m.MsgMeta }
func (m *wireMsg) Clone() sim.Msg {
	clone := *m
	clone.ID = sim.GetIDGenerator().Generate()
	return &clone
}

// Tick drains due timers, then drains the incoming port, each tick. It
// reports progress whenever it did either, matching the TickingComponent
// convention package core.Core.Tick follows.
func (c *lpComponent) Tick(now sim.VTimeInSec) bool {
	progress := false
	t := float64(now)

	for c.timers.Len() > 0 && c.timers[0].timestamp <= t {
		item := heap.Pop(&c.timers).(timerItem)
		item.fn()
		progress = true
	}

	for {
		msg := c.port.PeekIncoming()
		if msg == nil {
			break
		}
		c.port.RetrieveIncoming()
		if wm, ok := msg.(*wireMsg); ok && c.onDeliver != nil {
			c.onDeliver(wm.srcGID, wm.payload)
		}
		progress = true
	}

	return progress || c.timers.Len() > 0
}

// ScheduleAt implements EventSink by pushing onto this LP's own timer
// heap; the engine keeps ticking this component as long as a timer or
// incoming message is pending.
func (c *lpComponent) ScheduleAt(timestamp float64, fn func()) {
	c.seq++
	heap.Push(&c.timers, timerItem{timestamp: timestamp, seq: c.seq, fn: fn})
}

// Send implements LPHandle.Send: a self-send is just another timer: a
// cross-LP send goes out the port so the destination's Tick picks it up.
func (c *lpComponent) Send(destGID int, timestamp float64, payload any) {
	if destGID == c.gid {
		c.ScheduleAt(timestamp, func() {
			if c.onDeliver != nil {
				c.onDeliver(c.gid, payload)
			}
		})
		return
	}
	c.ScheduleAt(timestamp, func() {
		msg := &wireMsg{srcGID: c.gid, payload: payload}
		msg.ID = sim.GetIDGenerator().Generate()
		msg.Src = c.port.AsRemote()
		msg.Dst = c.lookup(destGID)
		c.port.Send(msg)
	})
}

func (c *lpComponent) OnDeliver(fn func(srcGID int, payload any)) {
	c.onDeliver = fn
}

// AkitaRuntime is the concrete Runtime backed by
// github.com/sarchlab/akita/v4's serial engine, matching the
// engine/monitor wiring every sample under the teacher's samples/
// directory follows.
type AkitaRuntime struct {
	engine  sim.Engine
	monitor *monitoring.Monitor
	freq    sim.Freq
	conn    sim.Connection
	lps     map[int]*lpComponent
}

// NewAkitaRuntime creates a runtime with a fresh serial engine, monitor,
// and a single shared bus connection every LP's network port is plugged
// into — one connection carrying every LP pair, routed by the Dst field
// on each wireMsg, rather than one connection per topology edge, since
// the topology graph (package mapper) already owns adjacency and a
// second, akita-level adjacency graph would only have to agree with it.
func NewAkitaRuntime(freq sim.Freq) *AkitaRuntime {
	engine := sim.NewSerialEngine()
	monitor := monitoring.NewMonitor()
	monitor.RegisterEngine(engine)
	conn := directconnection.MakeBuilder().WithEngine(engine).Build("net")
	return &AkitaRuntime{engine: engine, monitor: monitor, freq: freq, conn: conn, lps: make(map[int]*lpComponent)}
}

// Now returns the engine's current virtual time.
func (r *AkitaRuntime) Now() float64 {
	return float64(r.engine.CurrentTime())
}

// NewLP creates and registers a new LP component, plugs it into the
// shared bus, and schedules its first tick so it starts participating in
// the simulation.
func (r *AkitaRuntime) NewLP(gid int, name string) LPHandle {
	c := &lpComponent{gid: gid, lookup: r.portOf}
	c.TickingComponent = sim.NewTickingComponent(name, r.engine, r.freq, c)
	c.port = sim.NewLimitNumMsgPort(c, 64, name+".Net")
	c.AddPort("Net", c.port)
	c.port.SetConnection(r.conn)
	r.conn.PlugIn(c.port)

	r.monitor.RegisterComponent(c)
	r.lps[gid] = c
	r.engine.Schedule(sim.MakeTickEvent(c.TickingComponent, 0))
	return c
}

func (r *AkitaRuntime) portOf(gid int) sim.RemotePort {
	c, ok := r.lps[gid]
	if !ok {
		panic(fmt.Sprintf("pdesrt: no LP registered for gid %d", gid))
	}
	return c.port.AsRemote()
}

// Connect is a no-op: every LP shares one bus connection (see
// NewAkitaRuntime), so there is nothing left to wire per pair. The method
// still exists to satisfy Runtime, since a future per-edge connection
// topology (e.g. to model differing per-link latency in pdesrt itself
// rather than in the sub-model) would need it.
func (r *AkitaRuntime) Connect(a, b LPHandle) {}

// Run executes the engine to completion.
func (r *AkitaRuntime) Run() {
	r.engine.Run()
}
