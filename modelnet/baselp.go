package modelnet

import "fmt"

// Outbox is how a BaseLP hands an envelope to the PDES runtime for
// delivery at a future timestamp. Kept as a narrow interface (the same
// dependency-inversion idiom package mctx uses against package mapper) so
// this package never imports the akita wiring in package pdesrt.
type Outbox interface {
	Send(destGID int, timestamp float64, env *Envelope)
}

// NeighborLookup is the slice of the mapper's query API a BaseLP needs to
// resolve which send queue an outgoing packet belongs to, without
// importing package mapper directly.
type NeighborLookup interface {
	NeighborCount(sender int, destType string) int
}

// Config is everything the PDES runtime must supply when instantiating a
// base-LP for one vertex, per spec §4.3's per-LP init responsibilities.
type Config struct {
	GID             int
	NetID           int
	NicsPerRouter   int
	Params          Params
	SubModel        SubModel
	Neighbors       NeighborLookup
	NeighborType    string // the graph-side LP-type name NEW_MSG queue offsets are computed against
	Outbox          Outbox
	Rand            RandStream
	Now             func() float64
}

// BaseLP is the base-LP packet scheduler spec §4.3 describes: it owns no
// network-family-specific behavior itself, only the queueing, msg-id
// assignment, and dispatch machinery every family shares.
type BaseLP struct {
	gid           int
	netID         int
	nicsPerRouter int
	params        Params

	msgID uint64

	sendQueues     []queueState
	sendSched      []*Scheduler
	nodeCopyQueues []queueState

	sub      SubModel
	subState any
	hooks    optionalHooks

	neighbors    NeighborLookup
	neighborType string
	outbox       Outbox
	rnd          RandStream
	now          func() float64
}

type queueState struct {
	nextAvailableTime float64
	loopRunning       bool
}

// NewBaseLP constructs and initializes a base-LP, calling the sub-model's
// Init exactly once, matching spec §4.3's per-LP init sequence.
func NewBaseLP(cfg Config) *BaseLP {
	lp := &BaseLP{
		gid:            cfg.GID,
		netID:          cfg.NetID,
		nicsPerRouter:  cfg.NicsPerRouter,
		params:         cfg.Params,
		sendQueues:     make([]queueState, cfg.Params.NumQueues),
		sendSched:      make([]*Scheduler, cfg.Params.NumQueues),
		nodeCopyQueues: make([]queueState, cfg.Params.NodeCopyQueues),
		sub:            cfg.SubModel,
		neighbors:      cfg.Neighbors,
		neighborType:   cfg.NeighborType,
		outbox:         cfg.Outbox,
		rnd:            cfg.Rand,
		now:            cfg.Now,
	}
	for i := range lp.sendSched {
		lp.sendSched[i] = NewScheduler(cfg.Params.Sched)
	}
	lp.hooks = resolveOptionalHooks(lp.sub)
	lp.subState = lp.sub.Init(lp)

	if sr, ok := lp.sub.(StatRegistrar); ok {
		sr.ModelStatRegister()
	}
	if cr, ok := lp.sub.(CustomRegistrar); ok {
		cr.Register()
	}
	if lp.hooks.sampler != nil {
		lp.hooks.sampler.SampleInit(lp, lp.subState)
		lp.sendNextSample()
	}
	return lp
}

// GID returns this base-LP's global id.
func (lp *BaseLP) GID() int { return lp.gid }

// NetID returns the network family id this base-LP belongs to.
func (lp *BaseLP) NetID() int { return lp.netID }

// Send is the handle a sub-model uses to emit an event from inside Event,
// Sample, or any other callback it receives lp through.
func (lp *BaseLP) Send(destGID int, delay float64, payload any) {
	lp.outbox.Send(destGID, lp.now()+delay, &Envelope{Type: EvPass, Sub: payload})
}

// Dispatch routes one incoming envelope to the matching forward handler,
// per spec §4.3.
func (lp *BaseLP) Dispatch(env *Envelope) {
	switch env.Type {
	case EvNewMsg:
		lp.handleNewMsg(env)
	case EvSchedNext:
		lp.handleSchedNext(env)
	case EvSample:
		lp.handleSample(env)
	case EvPass:
		lp.sub.Event(lp, lp.subState, env)
	case EvEndNotif:
		if lp.hooks.endNotifier != nil {
			lp.hooks.endNotifier.EndNotif(lp, lp.subState, env)
		}
	case EvCongestion:
		if lp.hooks.congestion != nil {
			lp.hooks.congestion.CongestionEvent(lp, lp.subState, env)
		}
	default:
		panic(fmt.Sprintf("modelnet: unknown event type %v", env.Type))
	}
}

// Revert undoes the effect of the forward handler Dispatch most recently
// ran for this envelope, per spec §4.3's mirrored reverse handlers.
func (lp *BaseLP) Revert(env *Envelope) {
	switch env.Type {
	case EvNewMsg:
		lp.revertNewMsg(env)
	case EvSchedNext:
		lp.revertSchedNext(env)
	case EvSample:
		lp.revertSample(env)
	case EvPass:
		lp.sub.Revent(lp, lp.subState, env)
	case EvEndNotif:
		if lp.hooks.endNotifier != nil {
			lp.hooks.endNotifier.EndNotifRevert(lp, lp.subState, env)
		}
	case EvCongestion:
		if lp.hooks.congestion != nil {
			lp.hooks.congestion.CongestionEventRevert(lp, lp.subState, env)
		}
	default:
		panic(fmt.Sprintf("modelnet: unknown event type %v", env.Type))
	}
}

// Commit tells the sub-model (and this LP's own irreversible bookkeeping)
// that env will not be rolled back.
func (lp *BaseLP) Commit(env *Envelope) {
	if env.Type == EvPass {
		lp.sub.Commit(lp, lp.subState, env)
	}
	if env.Type == EvCongestion && lp.hooks.congestion != nil {
		lp.hooks.congestion.CongestionEventCommit(lp, lp.subState, env)
	}
}

// Final tears this base-LP down at simulation end.
func (lp *BaseLP) Final() {
	if lp.hooks.sampler != nil {
		lp.hooks.sampler.SampleFini(lp, lp.subState)
	}
	lp.sub.Final(lp, lp.subState)
}

// --- NEW_MSG ---

func (lp *BaseLP) queueIndexFor(req Request, destType string) int {
	if lp.params.NumQueues <= 0 {
		return 0
	}
	n := lp.neighbors.NeighborCount(req.SrcGID, destType)
	if n == 0 {
		n = 1
	}
	return n % lp.params.NumQueues
}

func (lp *BaseLP) handleNewMsg(env *Envelope) {
	base := env.Base
	req := base.Req

	if req.DestGID == lp.gid && len(lp.nodeCopyQueues) > 0 {
		qi := int(req.PacketID) % len(lp.nodeCopyQueues)
		q := &lp.nodeCopyQueues[qi]
		prev := q.nextAvailableTime
		env.prevQueueTime = &prev
		base.QueueIndex = qi

		jitter := lp.rnd.Float64()
		q.nextAvailableTime = maxF(q.nextAvailableTime, lp.now()) + float64(req.MsgSize)
		finish := q.nextAvailableTime + jitter
		lp.outbox.Send(req.FinalDestGID, finish, &Envelope{Type: EvPass, Sub: req})
		env.Reverse |= RBNodeCopy
		return
	}

	if !base.IsQueueReq {
		jitter := lp.rnd.Float64()
		next := env.Clone()
		next.Type = EvNewMsg
		next.Base.IsQueueReq = true
		lp.outbox.Send(lp.gid, lp.now()+lp.params.NicSeqDelay+jitter, next)
		env.Reverse |= RBJitterConsumed
		return
	}

	lp.msgID++
	base.Req.PacketID = lp.msgID
	env.Reverse |= RBAssignedMsgID

	qi := lp.queueIndexFor(req, lp.neighborType)
	base.QueueIndex = qi
	q := &lp.sendQueues[qi]
	wasIdle := !q.loopRunning

	lp.sendSched[qi].Enqueue(packet{Env: env.Clone(), Timestamp: lp.now()})
	if wasIdle {
		q.loopRunning = true
		env.Reverse |= RBQueueWasIdle
		lp.scheduleNext(qi)
	}
}

func (lp *BaseLP) revertNewMsg(env *Envelope) {
	if env.Reverse.Has(RBNodeCopy) {
		lp.rnd.Reverse()
		if env.prevQueueTime != nil {
			lp.nodeCopyQueues[env.Base.QueueIndex].nextAvailableTime = *env.prevQueueTime
		}
		return
	}
	if env.Reverse.Has(RBJitterConsumed) {
		lp.rnd.Reverse()
		return
	}
	if env.Reverse.Has(RBAssignedMsgID) {
		lp.msgID--
		qi := env.Base.QueueIndex
		lp.sendSched[qi].UndoEnqueue()
		if env.Reverse.Has(RBQueueWasIdle) {
			lp.sendQueues[qi].loopRunning = false
		}
	}
}

// --- SCHED_NEXT ---

func (lp *BaseLP) scheduleNext(qi int) {
	lp.outbox.Send(lp.gid, lp.now(), &Envelope{Type: EvSchedNext, Base: &BaseMsg{QueueIndex: qi}})
}

func (lp *BaseLP) handleSchedNext(env *Envelope) {
	qi := env.Base.QueueIndex
	p, ok := lp.sendSched[qi].Dequeue()
	if !ok {
		env.Reverse |= RBSchedNextEmpty
		lp.sendQueues[qi].loopRunning = false
		return
	}
	env.dequeued = &p
	lp.sub.Event(lp, lp.subState, &Envelope{Type: EvPass, Sub: p.Env.Base.Req})

	if lp.sendSched[qi].Len() > 0 {
		lp.scheduleNext(qi)
		env.Reverse |= RBSchedNextFollowUp
	} else {
		lp.sendQueues[qi].loopRunning = false
	}
}

func (lp *BaseLP) revertSchedNext(env *Envelope) {
	qi := env.Base.QueueIndex
	if env.Reverse.Has(RBSchedNextEmpty) {
		lp.sendQueues[qi].loopRunning = true
		return
	}
	if env.dequeued != nil {
		lp.sendSched[qi].UndoDequeue(*env.dequeued)
	}
	if !env.Reverse.Has(RBSchedNextFollowUp) {
		lp.sendQueues[qi].loopRunning = true
	}
}

// --- SAMPLE ---

func (lp *BaseLP) sendNextSample() {
	lp.outbox.Send(lp.gid, lp.now(), &Envelope{Type: EvSample})
}

func (lp *BaseLP) handleSample(env *Envelope) {
	if lp.hooks.sampler == nil {
		return
	}
	lp.hooks.sampler.Sample(lp, lp.subState)
	lp.sendNextSample()
	env.Reverse |= RBSampleRearmed
}

func (lp *BaseLP) revertSample(env *Envelope) {
	if lp.hooks.sampler == nil {
		return
	}
	lp.hooks.sampler.SampleRevert(lp, lp.subState)
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
