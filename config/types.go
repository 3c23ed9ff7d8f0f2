package config

import "github.com/sarchlab/modelnet/prop"

// Kind is the component kind of an LP type (spec §3).
type Kind string

// The three component kinds a config file may declare.
const (
	KindSwitch Kind = "switch"
	KindRouter Kind = "router"
	KindHost   Kind = "host"
)

// ModelFamily is the resolved model-type tag for an LP type's `model`
// value: one of the known handler families, `custom` for an unrecognized
// but present name, or `unknown` when no model name was given at all.
type ModelFamily int

// The known model families plus the two fallbacks spec §3 requires.
const (
	ModelUnknown ModelFamily = iota
	ModelCustom
	ModelSimpleP2P
	ModelSimpleChannel
)

func (m ModelFamily) String() string {
	switch m {
	case ModelSimpleP2P:
		return "simplep2p"
	case ModelSimpleChannel:
		return "simplechannel"
	case ModelCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// knownModels maps a `model` value to its ModelFamily. Any name absent
// from this table resolves to ModelCustom rather than failing — spec §3
// requires a "falling back to custom when unmatched" lookup.
var knownModels = map[string]ModelFamily{
	"simplenet":  ModelSimpleChannel,
	"simplep2p":  ModelSimpleP2P,
}

// LookupModelFamily resolves a configured model name to its family tag.
func LookupModelFamily(name string) ModelFamily {
	if name == "" {
		return ModelUnknown
	}
	if f, ok := knownModels[name]; ok {
		return f
	}
	return ModelCustom
}

// LPTypeConfig is one per distinct LP type declared in the configuration
// (spec §3). Name is the top-level key under which the type was declared
// in the config file, which doubles as the type's graph-side label and is
// the string every mapper query keys on (type_name, count_of_type, ...).
type LPTypeConfig struct {
	Name      string
	Kind      Kind
	Model     string
	ModelType ModelFamily
	Vertices  []string // declaration order == relative id
	Props     *prop.Bag
}

// SimConfig is the `simulation` section's property bag plus the
// strongly-typed accessors for the recognized keys spec §3 lists.
type SimConfig struct {
	Bag *prop.Bag
}

// PacketSize returns `packet_size` in bytes, defaulting to 512 when unset
// (spec §4.3 parameter defaulting rule).
func (s SimConfig) PacketSize() int64 { return s.Bag.IntOr("packet_size", 512) }

// RossMessageSize returns `ross_message_size` in bytes.
func (s SimConfig) RossMessageSize() int64 { return s.Bag.IntOr("ross_message_size", 0) }

// Scheduler returns the chosen `modelnet_scheduler` policy name.
func (s SimConfig) Scheduler() string { return s.Bag.StringOr("modelnet_scheduler", "fcfs") }

// NetLatencyNsFile returns the p2p model's per-pair latency file path.
func (s SimConfig) NetLatencyNsFile() string { return s.Bag.StringOr("net_latency_ns_file", "") }

// NetBWMbpsFile returns the p2p model's per-pair bandwidth file path.
func (s SimConfig) NetBWMbpsFile() string { return s.Bag.StringOr("net_bw_mbps_file", "") }

// NetStartupNs returns the shared-channel model's fixed startup latency.
func (s SimConfig) NetStartupNs() float64 { return s.Bag.DoubleOr("net_startup_ns", 0) }

// NetBWMbps returns the shared-channel model's fixed bandwidth.
func (s SimConfig) NetBWMbps() float64 { return s.Bag.DoubleOr("net_bw_mbps", 0) }

// ModelNetOrder returns the declared order of network-type names used to
// assign stable network ids (spec §4.4 step 5).
func (s SimConfig) ModelNetOrder() []string { return s.Bag.StringsOr("modelnet_order", nil) }
