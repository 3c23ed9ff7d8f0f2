// Package pdesrt defines the PDES runtime collaborator spec §6.1
// describes: the orchestrator drives simulation setup and teardown
// through this narrow interface, and package modelnet drives event
// delivery through it, so neither package needs to import a concrete
// simulation engine directly. AkitaRuntime (in this package's file
// akita.go) is the one concrete implementation, wired to
// github.com/sarchlab/akita/v4.
package pdesrt

// Clock reports simulated time, matching akita's VTimeInSec convention of
// a monotonically increasing float64 seconds value.
type Clock interface {
	Now() float64
}

// EventSink is how a component schedules a callback to run at a future
// simulated time — the same role package modelnet.Outbox plays one layer
// up, except EventSink carries a plain callback instead of an envelope,
// so this package has no dependency on package modelnet's types.
type EventSink interface {
	ScheduleAt(timestamp float64, fn func())
}

// Runtime is the full PDES runtime collaborator surface the orchestrator
// needs: build LPs, wire them to their neighbors, and run the engine to
// completion.
type Runtime interface {
	Clock

	// NewLP creates the runtime-side component for gid and returns its
	// handle — package orchestrator binds a modelnet.BaseLP to a gid
	// through that handle's OnDeliver and Send.
	NewLP(gid int, name string) LPHandle

	// Connect wires two LPs' ports together so envelopes sent from one
	// reach the other, per the topology the mapper derived.
	Connect(a, b LPHandle)

	// Run executes the simulation until no component can make further
	// progress, matching akita's "run the engine until nothing is
	// pending" convention (spec §6.1's "run the simulation to
	// completion").
	Run()
}

// LPHandle is an opaque handle to one base-LP's runtime-side component.
// Code outside this package never looks inside it; it is a symbol to
// thread through Connect and Send calls.
type LPHandle interface {
	EventSink

	// Send delivers payload at timestamp to the OnDeliver callback of the
	// LP with gid destGID, which may be this LP itself — used by package
	// orchestrator's modelnet.Outbox adapter.
	Send(destGID int, timestamp float64, payload any)

	// OnDeliver registers the callback invoked whenever another LP (or
	// this LP itself) sends this handle a payload.
	OnDeliver(fn func(srcGID int, payload any))
}
