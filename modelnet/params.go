// Package modelnet implements the base-LP packet pipeline of spec §4.3:
// every LP whose model matches a known network family is instantiated as a
// BaseLP wrapping a SubModel (§6.2), which sequences outgoing messages
// through per-queue schedulers and forwards them to their sub-model, with
// a matching reverse handler for every forward effect so an optimistic
// caller can undo a rolled-back event. Params.FragmentCount computes how
// many packets a message would split into; the BaseLP itself enqueues each
// admitted message as a single packet and does not split it.
package modelnet

// SchedPolicy is the packet-scheduling discipline a queue runs.
type SchedPolicy int

// The three scheduling disciplines spec §4.3 names.
const (
	FCFS SchedPolicy = iota
	FCFSFullPacket
	Priority
)

// SchedConfig names the scheduling policy for a queue, plus the
// sub-policy Priority delegates ties to.
type SchedConfig struct {
	Policy    SchedPolicy
	SubPolicy SchedPolicy // only meaningful when Policy == Priority
}

// fcfsFullPacketSize is the "very large value" spec §4.3 forces packet
// size to under the FCFS-FULL policy, so the scheduler treats whole
// messages as a single atomic packet instead of fragmenting them.
const fcfsFullPacketSize = uint64(1) << 40

// defaultPacketSize is used when the configuration does not supply one
// and the policy is not FCFS-FULL.
const defaultPacketSize = uint64(512)

// Params is the per-annotation parameter record spec §4.3 builds for each
// base-LP annotation discovered in the configuration.
type Params struct {
	Sched          SchedConfig
	NumQueues      int
	NicSeqDelay    float64
	NodeCopyQueues int
	PacketSize     uint64
}

// NewParams builds a Params record, applying the packet-size override rule:
// FCFS-FULL forces PacketSize to fcfsFullPacketSize regardless of what the
// caller requested; otherwise an unset (zero) packetSize defaults to 512.
func NewParams(sched SchedConfig, numQueues, nodeCopyQueues int, nicSeqDelay float64, packetSize uint64) Params {
	switch {
	case sched.Policy == FCFSFullPacket:
		packetSize = fcfsFullPacketSize
	case packetSize == 0:
		packetSize = defaultPacketSize
	}

	return Params{
		Sched:          sched,
		NumQueues:      numQueues,
		NicSeqDelay:    nicSeqDelay,
		NodeCopyQueues: nodeCopyQueues,
		PacketSize:     packetSize,
	}
}

// FragmentCount returns how many packets a msgSize-byte message fragments
// into under these parameters. FCFS-FULL's oversized packet size always
// yields exactly 1 (spec §8 scenario 5: "messages are not split").
func (p Params) FragmentCount(msgSize uint64) int {
	if msgSize == 0 {
		return 1
	}
	n := int(msgSize / p.PacketSize)
	if msgSize%p.PacketSize != 0 {
		n++
	}
	if n == 0 {
		n = 1
	}
	return n
}

// ParamTable resolves a Params record by (network family name, annotation)
// per the annotation-qualified lookup spec §4.3/§9 describes — exercised
// here only for the single unannotated default slot, per spec §9's open
// question, but the two-level lookup is implemented so a richer caller can
// register more than one.
type ParamTable struct {
	entries map[string]map[string]Params
}

// NewParamTable creates an empty parameter table.
func NewParamTable() *ParamTable {
	return &ParamTable{entries: make(map[string]map[string]Params)}
}

// Set installs the Params for (family, annotation). An empty annotation is
// the default slot every unannotated lookup resolves to.
func (t *ParamTable) Set(family, annotation string, p Params) {
	if t.entries[family] == nil {
		t.entries[family] = make(map[string]Params)
	}
	t.entries[family][annotation] = p
}

// Lookup returns the Params for (family, annotation), falling back to the
// unannotated default for that family when no exact match exists.
func (t *ParamTable) Lookup(family, annotation string) (Params, bool) {
	byAnno, ok := t.entries[family]
	if !ok {
		return Params{}, false
	}
	if p, ok := byAnno[annotation]; ok {
		return p, true
	}
	p, ok := byAnno[""]
	return p, ok
}

// LookupOrDefault returns the unannotated Params for family, or a
// single-queue FCFS default built from package defaults when the caller
// never registered one — used when the configuration names a model but
// never calls NewParams for it explicitly.
func (t *ParamTable) LookupOrDefault(family string) Params {
	if p, ok := t.Lookup(family, ""); ok {
		return p
	}
	return NewParams(SchedConfig{Policy: FCFS}, 1, 0, 0, 0)
}
