// Package topology parses and exposes the undirected topology graph that
// drives LP placement (spec §3 "Topology graph", §6.4). The file format is
// a YAML document; the package exposes the five primitives spec §6.4
// requires of a topology source — vertex_count, subgraph_iter,
// vertex_iter(subgraph), out_edge_iter(vertex), vertex_name(node) — plus
// a name-to-node lookup and edge- and vertex-existence checks backed by
// github.com/katalvlaran/lvlath/graph, whose undirected auto-mirroring
// makes HasEdge symmetric.
package topology

import (
	"fmt"
	"os"

	lv "github.com/katalvlaran/lvlath/graph"
	"gopkg.in/yaml.v3"
)

// vertexFile is the on-disk shape of one vertex entry. Edges names other
// vertices this one declares an outgoing connection to; subgraphs are a
// visual grouping hint only (spec §3) and never affect identity.
type vertexFile struct {
	Name  string   `yaml:"name"`
	Edges []string `yaml:"edges"`
}

type subgraphFile struct {
	Name     string       `yaml:"name"`
	Vertices []vertexFile `yaml:"vertices"`
}

type topologyFile struct {
	Subgraphs []subgraphFile `yaml:"subgraphs"`
}

// Subgraph is a declaration-order group of vertices. It carries no
// semantics beyond grouping — two vertices in different subgraphs may
// still be joined by an edge.
type Subgraph struct {
	Name     string
	Vertices []string
}

// Graph is the parsed, declaration-order-preserving topology. Node ids
// are assigned in vertex declaration order, walking subgraphs in order.
// The mapper's global LP ids (spec §4.2) come from its own walk, which
// also takes in edge targets on first sight, so the two numberings can
// differ.
type Graph struct {
	subgraphs  []Subgraph
	nodeName   []string
	nameToNode map[string]int
	outEdges   map[string][]string // declared out-edges per vertex name, in file order
	lv         *lv.Graph
}

// Parse reads a topology file from path and builds a Graph.
func Parse(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("topology: opening %q: %w", path, err)
	}

	var tf topologyFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("topology: parsing %q: %w", path, err)
	}

	g := &Graph{
		nameToNode: make(map[string]int),
		outEdges:   make(map[string][]string),
		lv:         lv.NewGraph(false, false),
	}

	for _, sgf := range tf.Subgraphs {
		sg := Subgraph{Name: sgf.Name}
		for _, vf := range sgf.Vertices {
			if _, dup := g.nameToNode[vf.Name]; dup {
				return nil, fmt.Errorf("topology: vertex %q declared more than once", vf.Name)
			}
			g.addVertex(vf.Name)
			sg.Vertices = append(sg.Vertices, vf.Name)
			g.outEdges[vf.Name] = append([]string(nil), vf.Edges...)
		}
		g.subgraphs = append(g.subgraphs, sg)
	}

	// Validate and register every declared edge, including endpoints that
	// were not declared as a vertex of their own (a malformed file), and
	// feed lvlath so HasEdge/HasVertex are backed by its undirected
	// auto-mirroring instead of a second hand-rolled adjacency map.
	for _, name := range g.nodeName {
		for _, dst := range g.outEdges[name] {
			if _, ok := g.nameToNode[dst]; !ok {
				return nil, fmt.Errorf("topology: vertex %q references undeclared vertex %q", name, dst)
			}
			g.lv.AddEdge(name, dst, 1)
		}
	}

	return g, nil
}

func (g *Graph) addVertex(name string) int {
	id := len(g.nodeName)
	g.nodeName = append(g.nodeName, name)
	g.nameToNode[name] = id
	g.lv.AddVertex(&lv.Vertex{ID: name, Metadata: map[string]interface{}{}})
	return id
}

// VertexCount returns the total number of declared vertices.
func (g *Graph) VertexCount() int { return len(g.nodeName) }

// SubgraphIter returns the subgraphs in declaration order.
func (g *Graph) SubgraphIter() []Subgraph { return g.subgraphs }

// VertexIter returns the vertex names of a subgraph, in declaration order.
func (g *Graph) VertexIter(sg Subgraph) []string { return sg.Vertices }

// OutEdgeIter returns the vertices that name declares an outgoing edge to,
// in the order they were declared in the file.
func (g *Graph) OutEdgeIter(name string) []string { return g.outEdges[name] }

// VertexName maps a node handle back to its declared name.
func (g *Graph) VertexName(node int) string {
	if node < 0 || node >= len(g.nodeName) {
		return ""
	}
	return g.nodeName[node]
}

// NodeOf returns the node handle for a vertex name.
func (g *Graph) NodeOf(name string) (int, bool) {
	id, ok := g.nameToNode[name]
	return id, ok
}

// HasEdge reports whether two vertices are connected, using lvlath's
// undirected adjacency store.
func (g *Graph) HasEdge(a, b string) bool { return g.lv.HasEdge(a, b) }

// HasVertex reports whether name was declared as a vertex.
func (g *Graph) HasVertex(name string) bool { return g.lv.HasVertex(name) }
