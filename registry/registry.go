// Package registry implements the LP-type registry of spec §4.5: a
// two-tier mapping from LP-type name to a handler table, with a fixed
// enumeration of known network families and an open-ended table of custom
// names.
package registry

import "fmt"

// Family enumerates the known network sub-model families the base LP
// (package modelnet) can wrap. Family(-1)-equivalent "unknown"/"custom"
// LP types are addressed by name only, never by Family.
type Family int

// The fixed enumeration of known handler families (spec §4.5 "Known
// types"). Keep in sync with config.ModelFamily.
const (
	FamilySimpleP2P Family = iota
	FamilySimpleChannel
	numKnownFamilies
)

// RegisterFunc installs an LP type's handler table with the PDES runtime
// adapter. What "handler table" means is owned by the caller (modelnet,
// orchestrator); the registry only remembers which function to call.
type RegisterFunc func()

// NetworkIDFunc notifies a family of the network id the orchestrator
// assigned it (spec §4.4 step 5).
type NetworkIDFunc func(id int)

type entry struct {
	register  RegisterFunc
	networkID NetworkIDFunc
}

// Registry is the process-wide (but no longer global — owned by the
// orchestrator's Runtime value) LP-type lookup table.
type Registry struct {
	known  [numKnownFamilies]entry
	custom map[string]entry
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{custom: make(map[string]entry)}
}

// RegisterKnown installs the handler table for a known network family.
func (r *Registry) RegisterKnown(f Family, register RegisterFunc, networkID NetworkIDFunc) {
	r.known[f] = entry{register: register, networkID: networkID}
}

// RegisterCustom installs the handler table for a custom (non-enumerated)
// LP-type name. Re-registering an already-registered name is a no-op; the
// caller is expected to log the spec's required warning.
func (r *Registry) RegisterCustom(name string, register RegisterFunc, networkID NetworkIDFunc) (warning string) {
	if _, dup := r.custom[name]; dup {
		return fmt.Sprintf("registry: LP type %q already registered, ignoring duplicate registration", name)
	}
	r.custom[name] = entry{register: register, networkID: networkID}
	return ""
}

// LookupKnown returns the registered entry for a known family.
func (r *Registry) LookupKnown(f Family) (register RegisterFunc, networkID NetworkIDFunc, ok bool) {
	e := r.known[f]
	if e.register == nil {
		return nil, nil, false
	}
	return e.register, e.networkID, true
}

// LookupCustom returns the registered entry for a custom name.
func (r *Registry) LookupCustom(name string) (register RegisterFunc, networkID NetworkIDFunc, ok bool) {
	e, ok := r.custom[name]
	if !ok {
		return nil, nil, false
	}
	return e.register, e.networkID, true
}

// MustLookupCustom looks up name and panics (spec §4.5: "fatal at
// configuration time") if it was declared in the configuration but never
// registered.
func (r *Registry) MustLookupCustom(name string) (RegisterFunc, NetworkIDFunc) {
	register, networkID, ok := r.LookupCustom(name)
	if !ok {
		panic(fmt.Sprintf("registry: LP type %q was declared in the configuration but never registered", name))
	}
	return register, networkID
}
