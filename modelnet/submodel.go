package modelnet

// SubModel is the interface spec §6.2 requires every network family to
// implement. The base-LP scheduler calls Init once per LP, then routes
// every PASS event for that LP through Event/Revent/Commit, and Final
// once at simulation teardown.
//
// SubModel intentionally carries only the handlers every family needs.
// Sample, end-notification, congestion handling, custom registration, and
// model-statistics registration are each their own optional interface
// below, so a family that does not use one pays nothing for it — the
// base-LP resolves which optional interfaces a SubModel satisfies once,
// at Init, instead of type-switching on every event.
type SubModel interface {
	// Init receives the owning base-LP and returns the family's opaque
	// per-LP state, later passed back unchanged to every other method.
	Init(lp *BaseLP) any

	// Event handles a PASS-dispatched, sub-model-owned envelope.
	Event(lp *BaseLP, state any, env *Envelope)

	// Revent undoes the most recent Event call for this state.
	Revent(lp *BaseLP, state any, env *Envelope)

	// Commit finalizes an event once the PDES runtime knows it will not
	// be rolled back (GVT has passed it).
	Commit(lp *BaseLP, state any, env *Envelope)

	// Final runs once at teardown, for stats flushing.
	Final(lp *BaseLP, state any)

	// StateSize reports the size in bytes the family wants counted against
	// the PDES runtime's memory accounting, per spec §6.2.
	StateSize() int
}

// Sampler is implemented by families that support periodic statistics
// sampling (spec §4.3's SAMPLE event).
type Sampler interface {
	SampleInit(lp *BaseLP, state any)
	Sample(lp *BaseLP, state any)
	SampleRevert(lp *BaseLP, state any)
	SampleFini(lp *BaseLP, state any)
}

// EndNotifier is implemented by families that react to the
// end-of-simulation broadcast (spec §4.3's END_NOTIF event).
type EndNotifier interface {
	EndNotif(lp *BaseLP, state any, env *Envelope)
	EndNotifRevert(lp *BaseLP, state any, env *Envelope)
}

// CongestionHandler is implemented by families that react to congestion
// feedback (spec §4.3's CONGESTION event).
type CongestionHandler interface {
	CongestionEvent(lp *BaseLP, state any, env *Envelope)
	CongestionEventRevert(lp *BaseLP, state any, env *Envelope)
	CongestionEventCommit(lp *BaseLP, state any, env *Envelope)
}

// CustomRegistrar lets a family not known to the built-in registry run
// extra LP-type setup the way registry.RegisterCustom's RegisterFunc does
// (spec §4.5), without forcing every family to implement a no-op.
// NewBaseLP calls Register on every base-LP it constructs, right after
// that LP's Init, so a SubModel shared by several LPs receives one call
// per LP, not one per family.
type CustomRegistrar interface {
	Register()
}

// StatRegistrar lets a family register model-level (not per-LP)
// statistics. NewBaseLP calls ModelStatRegister on every base-LP it
// constructs, right after that LP's Init; it is not called once ahead of
// all LPs, so a SubModel shared by several LPs receives one call per LP.
type StatRegistrar interface {
	ModelStatRegister()
}

// optionalHooks caches, once per LP at Init time, which optional
// interfaces a SubModel satisfies, so dispatch never needs a type switch
// on the simulation hot path.
type optionalHooks struct {
	sampler     Sampler
	endNotifier EndNotifier
	congestion  CongestionHandler
}

func resolveOptionalHooks(sm SubModel) optionalHooks {
	var h optionalHooks
	if s, ok := sm.(Sampler); ok {
		h.sampler = s
	}
	if e, ok := sm.(EndNotifier); ok {
		h.endNotifier = e
	}
	if c, ok := sm.(CongestionHandler); ok {
		h.congestion = c
	}
	return h
}
