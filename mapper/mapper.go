// Package mapper builds the vertex table from a parsed topology and a list
// of LP-type configs, computes the LP-to-execution-unit partitioning, and
// answers every identity/neighbor query the rest of the orchestrator needs
// at runtime (spec §4.2).
package mapper

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/modelnet/config"
	"github.com/sarchlab/modelnet/topology"
)

// VertexRecord is the mapper's per-vertex entry. Neighbors are non-owning
// global ids into the same table (spec §9: "neighbors are integer indices
// into that container").
type VertexRecord struct {
	GID        int
	Name       string
	TypeIndex  int
	RelativeID int
	Neighbors  []int
}

// Mapper owns the immutable vertex table and the partitioning derived from
// it. It is built once, after config parsing and before any LP runs, and
// is read-only for the remainder of the run.
type Mapper struct {
	types    []config.LPTypeConfig
	vertices []VertexRecord

	nameToGID       map[string]int
	typeNameToIndex map[string]int
	typeGIDs        [][]int // [typeIndex][relativeID] -> gid

	p, floor, rem int
	mynode        int
}

// Build walks the topology graph and the LP-type configs to populate the
// vertex table, following the declaration-order traversal spec §4.2
// mandates: subgraphs in order, vertices within a subgraph in order, and
// for each newly seen vertex its outgoing edges in declaration order.
func Build(graph *topology.Graph, types []config.LPTypeConfig) (*Mapper, error) {
	m := &Mapper{
		types:           types,
		nameToGID:       make(map[string]int),
		typeNameToIndex: make(map[string]int),
	}

	nameToType := make(map[string]int, graph.VertexCount())
	for i, t := range types {
		m.typeNameToIndex[t.Name] = i
		for _, v := range t.Vertices {
			nameToType[v] = i
		}
	}

	touch := func(name string) {
		if _, seen := m.nameToGID[name]; seen {
			return
		}
		gid := len(m.vertices)
		m.nameToGID[name] = gid
		m.vertices = append(m.vertices, VertexRecord{GID: gid, Name: name})
	}

	for _, sg := range graph.SubgraphIter() {
		for _, v := range graph.VertexIter(sg) {
			touch(v)
			for _, n := range graph.OutEdgeIter(v) {
				touch(n)
			}
		}
	}

	if len(m.vertices) != graph.VertexCount() {
		return nil, fmt.Errorf("mapper: processed %d of %d vertices during traversal",
			len(m.vertices), graph.VertexCount())
	}

	if err := m.assignTypes(nameToType); err != nil {
		return nil, err
	}

	m.buildNeighborSequences(graph)

	return m, nil
}

func (m *Mapper) assignTypes(nameToType map[string]int) error {
	m.typeGIDs = make([][]int, len(m.types))
	for i, t := range m.types {
		m.typeGIDs[i] = make([]int, len(t.Vertices))
		for rel, name := range t.Vertices {
			gid, ok := m.nameToGID[name]
			if !ok {
				return fmt.Errorf("mapper: LP type %q names unknown vertex %q", t.Name, name)
			}
			m.typeGIDs[i][rel] = gid
			m.vertices[gid].TypeIndex = i
			m.vertices[gid].RelativeID = rel
		}
	}
	for gid, rec := range m.vertices {
		if _, ok := nameToType[rec.Name]; !ok {
			return fmt.Errorf("mapper: vertex %q (gid %d) belongs to no LP type", rec.Name, gid)
		}
	}
	return nil
}

// buildNeighborSequences performs the second declaration-order walk,
// appending each endpoint of every undirected edge to the other's
// neighbor sequence exactly once. The offset a neighbor receives in this
// pass is the stable handle schedulers use later (spec §4.2 "Neighbor
// ordering").
func (m *Mapper) buildNeighborSequences(graph *topology.Graph) {
	type pair struct{ a, b int }
	seen := make(map[pair]bool)

	edgeKey := func(a, b int) pair {
		if a > b {
			a, b = b, a
		}
		return pair{a, b}
	}

	for _, sg := range graph.SubgraphIter() {
		for _, v := range graph.VertexIter(sg) {
			uGID := m.nameToGID[v]
			for _, n := range graph.OutEdgeIter(v) {
				vGID := m.nameToGID[n]
				key := edgeKey(uGID, vGID)
				if seen[key] {
					continue
				}
				seen[key] = true
				m.vertices[uGID].Neighbors = append(m.vertices[uGID].Neighbors, vGID)
				if vGID != uGID {
					m.vertices[vGID].Neighbors = append(m.vertices[vGID].Neighbors, uGID)
				}
			}
		}
	}
}

// VertexCount returns N, the total number of LPs (vertices).
func (m *Mapper) VertexCount() int { return len(m.vertices) }

// Vertex returns the vertex record for gid.
func (m *Mapper) Vertex(gid int) VertexRecord { return m.vertices[gid] }

// TypeName returns the owning LP type's name for gid.
func (m *Mapper) TypeName(gid int) string { return m.types[m.vertices[gid].TypeIndex].Name }

// TypeInfo returns the owning LP type's name and the vertex's offset
// (relative id) within that type.
func (m *Mapper) TypeInfo(gid int) (string, int) {
	rec := m.vertices[gid]
	return m.types[rec.TypeIndex].Name, rec.RelativeID
}

// TypeConfig returns the LP-type config that owns gid.
func (m *Mapper) TypeConfig(gid int) config.LPTypeConfig { return m.types[m.vertices[gid].TypeIndex] }

// CountOfType returns how many vertices belong to the named LP type.
func (m *Mapper) CountOfType(typeName string) int {
	i, ok := m.typeNameToIndex[typeName]
	if !ok {
		return 0
	}
	return len(m.typeGIDs[i])
}

// GIDOf returns the global id of the relativeID-th vertex of typeName.
func (m *Mapper) GIDOf(typeName string, relativeID int) (int, error) {
	i, ok := m.typeNameToIndex[typeName]
	if !ok {
		return 0, fmt.Errorf("mapper: unknown LP type %q", typeName)
	}
	gids := m.typeGIDs[i]
	if relativeID < 0 || relativeID >= len(gids) {
		return 0, fmt.Errorf("mapper: relative id %d out of range [0,%d) for type %q",
			relativeID, len(gids), typeName)
	}
	return gids[relativeID], nil
}

// RelativeIDOf returns gid's position within its own LP type's vertex list.
func (m *Mapper) RelativeIDOf(gid int) int { return m.vertices[gid].RelativeID }

// NeighborCount returns how many of sender's neighbors belong to destType.
func (m *Mapper) NeighborCount(sender int, destType string) int {
	return len(m.neighborsOfType(sender, destType))
}

// NeighborGID returns the k-th neighbor of sender whose type is destType.
// k is used as a direct index, never modulo-reduced here — spec §4.2
// assigns that responsibility to the mapping context.
func (m *Mapper) NeighborGID(sender int, destType string, k int) (int, error) {
	ns := m.neighborsOfType(sender, destType)
	if k < 0 || k >= len(ns) {
		return 0, fmt.Errorf("mapper: neighbor index %d out of range [0,%d) for gid %d, type %q",
			k, len(ns), sender, destType)
	}
	return ns[k], nil
}

func (m *Mapper) neighborsOfType(sender int, destType string) []int {
	var out []int
	for _, n := range m.vertices[sender].Neighbors {
		if m.TypeName(n) == destType {
			out = append(out, n)
		}
	}
	return out
}

// SetupPartition computes per-unit LP counts for P execution units and
// records which unit this process is (mynode), per the partition formula
// of spec §4.2.
func (m *Mapper) SetupPartition(p, mynode int) error {
	if p <= 0 {
		return fmt.Errorf("mapper: execution unit count must be positive, got %d", p)
	}
	if mynode < 0 || mynode >= p {
		return fmt.Errorf("mapper: mynode %d out of range [0,%d)", mynode, p)
	}
	m.p = p
	m.floor = len(m.vertices) / p
	m.rem = len(m.vertices) % p
	m.mynode = mynode
	return nil
}

// GlobalToUnit returns the execution unit that owns gid.
func (m *Mapper) GlobalToUnit(gid int) int {
	cut := m.rem * (m.floor + 1)
	if gid < cut {
		return gid / (m.floor + 1)
	}
	return m.rem + (gid-cut)/m.floor
}

// UnitRange returns the contiguous [start,end) global id range unit u owns.
func (m *Mapper) UnitRange(u int) (start, end int) {
	lo := func(unit int) int {
		if unit < m.rem {
			return unit * (m.floor + 1)
		}
		return unit*m.floor + m.rem
	}
	return lo(u), lo(u + 1)
}

// GIDToLocalSlot converts a global id into its slot index on its owning unit.
func (m *Mapper) GIDToLocalSlot(gid int) int {
	unit := m.GlobalToUnit(gid)
	start, _ := m.UnitRange(unit)
	return gid - start
}

// LocalLPCount returns how many LPs this process's unit owns.
func (m *Mapper) LocalLPCount() int {
	start, end := m.UnitRange(m.mynode)
	return end - start
}

// DumpYAML writes a YAML document describing every vertex: its id, name,
// type, and resolved neighbor ids. This is the narrow debug-dump
// supplement described in SPEC_FULL.md, standing in for the original's
// GraphViz/CodesYAML export without pulling in any graphical tooling.
func (m *Mapper) DumpYAML(w io.Writer) error {
	type neighborDump struct {
		GID  int    `yaml:"gid"`
		Name string `yaml:"name"`
	}
	type vertexDump struct {
		GID        int            `yaml:"gid"`
		Name       string         `yaml:"name"`
		Type       string         `yaml:"type"`
		RelativeID int            `yaml:"relative_id"`
		Neighbors  []neighborDump `yaml:"neighbors"`
	}

	dump := make([]vertexDump, len(m.vertices))
	for i, rec := range m.vertices {
		nd := make([]neighborDump, len(rec.Neighbors))
		for j, n := range rec.Neighbors {
			nd[j] = neighborDump{GID: n, Name: m.vertices[n].Name}
		}
		dump[i] = vertexDump{
			GID:        rec.GID,
			Name:       rec.Name,
			Type:       m.types[rec.TypeIndex].Name,
			RelativeID: rec.RelativeID,
			Neighbors:  nd,
		}
	}

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(dump)
}
