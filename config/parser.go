// Package config implements the declarative configuration parser of spec
// §4.1: it reads the nested-mapping config file plus, through its
// `topology.filename` key, the sibling topology graph file, and produces a
// Simulation config bag, an ordered list of LP-type configs, and a handle
// to the parsed graph.
//
// Top-level key order matters (it fixes LP-type declaration order, which
// in turn fixes relative ids within a type), so the top-level mapping is
// walked as a gopkg.in/yaml.v3 Node tree instead of being decoded into a
// plain Go map, which would lose that order.
package config

import (
	"fmt"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/sarchlab/modelnet/prop"
	"github.com/sarchlab/modelnet/topology"
)

const vertexListKey = "vertices"

var reservedTopKeys = map[string]bool{
	"simulation": true,
	"topology":   true,
	"site":       true,
}

// Config is the fully parsed, immutable-for-the-run configuration.
type Config struct {
	Sim          SimConfig
	Types        []LPTypeConfig
	TopologyPath string
	Graph        *topology.Graph
}

// Parse reads the config file at path and the topology file it references.
func Parse(path string) (*Config, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parsing %q: %w", path, err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("config: %q is empty", path)
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config: %q: top level must be a mapping", path)
	}

	cfg := &Config{}
	var topologyFilename string
	var sawTopology bool

	for i := 0; i+1 < len(root.Content); i += 2 {
		key := root.Content[i].Value
		val := root.Content[i+1]

		switch key {
		case "simulation":
			bag, err := bagFromMapping(key, val)
			if err != nil {
				return nil, err
			}
			cfg.Sim = SimConfig{Bag: bag}
		case "topology":
			sawTopology = true
			name, err := topologyFilenameFrom(val)
			if err != nil {
				return nil, fmt.Errorf("config: %q: %w", path, err)
			}
			topologyFilename = name
		case "site":
			// Reserved, optional, no ascribed semantics beyond reservation.
		default:
			lt, err := parseLPType(key, val)
			if err != nil {
				return nil, fmt.Errorf("config: %q: %w", path, err)
			}
			cfg.Types = append(cfg.Types, lt)
		}
	}

	if !sawTopology {
		return nil, fmt.Errorf("config: %q: missing required \"topology\" section", path)
	}

	cfg.TopologyPath = filepath.Join(filepath.Dir(path), topologyFilename)
	graph, err := topology.Parse(cfg.TopologyPath)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Graph = graph

	if err := validateVertexOwnership(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func topologyFilenameFrom(val *yaml.Node) (string, error) {
	if val.Kind != yaml.MappingNode {
		return "", fmt.Errorf("\"topology\" must be a mapping with a \"filename\" key")
	}
	for i := 0; i+1 < len(val.Content); i += 2 {
		if val.Content[i].Value == "filename" {
			return val.Content[i+1].Value, nil
		}
	}
	return "", fmt.Errorf("\"topology\" section is missing required \"filename\" key")
}

func parseLPType(name string, val *yaml.Node) (LPTypeConfig, error) {
	if val.Kind != yaml.MappingNode {
		return LPTypeConfig{}, fmt.Errorf("LP type %q must be a mapping", name)
	}

	lt := LPTypeConfig{
		Name:  name,
		Props: prop.NewBag(name),
	}

	var sawType, sawModel bool

	for i := 0; i+1 < len(val.Content); i += 2 {
		k := val.Content[i].Value
		v := val.Content[i+1]

		switch k {
		case "type":
			sawType = true
			lt.Kind = Kind(v.Value)
		case "model":
			sawModel = true
			lt.Model = v.Value
			lt.ModelType = LookupModelFamily(v.Value)
		case vertexListKey:
			for _, n := range v.Content {
				lt.Vertices = append(lt.Vertices, n.Value)
			}
		default:
			p, err := propertyFromNode(v)
			if err != nil {
				return LPTypeConfig{}, fmt.Errorf("LP type %q, key %q: %w", name, k, err)
			}
			lt.Props.Set(k, p)
		}
	}

	if !sawModel && !sawType {
		return LPTypeConfig{}, fmt.Errorf("LP type %q declares neither \"model\" nor \"type\"", name)
	}

	return lt, nil
}

func bagFromMapping(name string, val *yaml.Node) (*prop.Bag, error) {
	if val.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config: %q section must be a mapping", name)
	}
	bag := prop.NewBag(name)
	for i := 0; i+1 < len(val.Content); i += 2 {
		k := val.Content[i].Value
		v := val.Content[i+1]
		p, err := propertyFromNode(v)
		if err != nil {
			return nil, fmt.Errorf("config: %q.%s: %w", name, k, err)
		}
		bag.Set(k, p)
	}
	return bag, nil
}

// propertyFromNode infers a Property's kind from a YAML scalar or
// sequence-of-scalars node, per spec §4.1's type-inference rule: integer
// if every element parses as an integer, double if every element parses
// as numeric, string otherwise.
func propertyFromNode(v *yaml.Node) (prop.Property, error) {
	switch v.Kind {
	case yaml.ScalarNode:
		return scalarProperty(v), nil
	case yaml.SequenceNode:
		vals := make([]string, len(v.Content))
		for i, n := range v.Content {
			if n.Kind != yaml.ScalarNode {
				return prop.Property{}, fmt.Errorf("sequence elements must be scalars")
			}
			vals[i] = n.Value
		}
		return vectorProperty(vals), nil
	default:
		return prop.Property{}, fmt.Errorf("unsupported YAML node kind %v", v.Kind)
	}
}

// scalarProperty infers a scalar Property's kind. Spec §4.1's inference
// rule only distinguishes integer/double/string, with no boolean clause,
// so a value is only classified as Bool when YAML itself resolved the
// node's tag to !!bool (i.e. a literal "true"/"false") rather than by
// string-sniffing the value, which would otherwise misclassify a literal
// 0 or 1 as a boolean instead of an integer.
func scalarProperty(v *yaml.Node) prop.Property {
	if v.Tag == "!!bool" {
		if b, err := strconv.ParseBool(v.Value); err == nil {
			return prop.NewBool(b)
		}
	}
	if i, err := strconv.ParseInt(v.Value, 10, 64); err == nil {
		return prop.NewInt(i)
	}
	if f, err := strconv.ParseFloat(v.Value, 64); err == nil {
		return prop.NewDouble(f)
	}
	return prop.NewString(v.Value)
}

func vectorProperty(vals []string) prop.Property {
	ints := make([]int64, len(vals))
	allInt := true
	for i, s := range vals {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			allInt = false
			break
		}
		ints[i] = n
	}
	if allInt {
		return prop.NewIntVector(ints)
	}

	doubles := make([]float64, len(vals))
	allDouble := true
	for i, s := range vals {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			allDouble = false
			break
		}
		doubles[i] = f
	}
	if allDouble {
		return prop.NewDoubleVector(doubles)
	}

	return prop.NewStringVector(vals)
}

func validateVertexOwnership(cfg *Config) error {
	owner := make(map[string]string, cfg.Graph.VertexCount())
	for _, lt := range cfg.Types {
		for _, v := range lt.Vertices {
			if prev, dup := owner[v]; dup {
				return fmt.Errorf("config: vertex %q belongs to both LP type %q and %q", v, prev, lt.Name)
			}
			owner[v] = lt.Name
			if !cfg.Graph.HasVertex(v) {
				return fmt.Errorf("config: LP type %q lists vertex %q, which is not in the topology", lt.Name, v)
			}
		}
	}
	for _, sg := range cfg.Graph.SubgraphIter() {
		for _, v := range cfg.Graph.VertexIter(sg) {
			if _, ok := owner[v]; !ok {
				return fmt.Errorf("config: topology vertex %q is not declared under any LP type", v)
			}
		}
	}
	return nil
}
