package syncgraph

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"syncreach/petrinet"
	"syncreach/segment"
)

// Render writes the human-readable textual dump of g described in spec.md
// §6 (Output): one line per sync node listing its per-module segment ids,
// followed by its outgoing edges labeled by extern transition name, then
// per-module segment listings (markings with place-name/count pairs,
// internal edges labeled by transition name, and the extern-edge ledger).
func Render(w io.Writer, net *petrinet.Net, g *Graph) error {
	for id, sm := range g.SyncNodes {
		if _, err := fmt.Fprintf(w, "sync %d: segments=%v\n", id, sm.SegmentIDs); err != nil {
			return err
		}
		for _, e := range sm.Edges {
			name := externName(net, e.Transition)
			if _, err := fmt.Fprintf(w, "  -- %s --> sync %d\n", name, e.Target); err != nil {
				return err
			}
		}
	}

	for mi, state := range g.Modules {
		module := &net.Modules[mi]
		if _, err := fmt.Fprintf(w, "module %d (%s):\n", mi, module.Name); err != nil {
			return err
		}
		for _, seg := range state.Segments.Installed() {
			if err := renderSegment(w, net, module, seg); err != nil {
				return err
			}
		}
	}

	return nil
}

func renderSegment(w io.Writer, net *petrinet.Net, module *petrinet.Module, seg *segment.Segment) error {
	if _, err := fmt.Fprintf(w, "  segment %d:\n", seg.ID); err != nil {
		return err
	}
	for _, gm := range seg.Markings {
		if _, err := fmt.Fprintf(w, "    marking %d: %s\n", gm.ID, formatMarking(module, gm)); err != nil {
			return err
		}
		for _, e := range gm.Edges {
			if _, err := fmt.Fprintf(w, "      -- %s --> %d\n", module.Transition(e.Transition).Name, e.Target); err != nil {
				return err
			}
		}
	}
	for _, entry := range seg.ExternLedger {
		name := externName(net, entry.Transition)
		if _, err := fmt.Fprintf(w, "    extern %s: %v\n", name, entry.Seeds); err != nil {
			return err
		}
	}
	return nil
}

func formatMarking(module *petrinet.Module, gm segment.GraphMarking) string {
	counts := gm.Marking.Counts()
	parts := make([]string, len(counts))
	for i, pc := range counts {
		parts[i] = fmt.Sprintf("%s(%d)", module.Place(uint32(pc.Place)).Name, pc.Count)
	}
	return strings.Join(parts, ", ")
}

func externName(net *petrinet.Net, t petrinet.TransitionID) string {
	if int(t) < len(net.ExternNames) && net.ExternNames[t] != "" {
		return net.ExternNames[t]
	}
	return fmt.Sprintf("t%d", t)
}

// yamlSyncNode and yamlGraph are the optional export shapes for -dump-yaml
// (SPEC_FULL.md DOMAIN STACK): a serialization-friendly mirror of Graph,
// since Graph itself embeds unexported fields inside segment.Index.
type yamlEdge struct {
	Transition string `yaml:"transition"`
	Target     uint32 `yaml:"target"`
}

type yamlSyncNode struct {
	ID       uint32     `yaml:"id"`
	Segments []uint32   `yaml:"segments"`
	Edges    []yamlEdge `yaml:"edges,omitempty"`
}

type yamlModule struct {
	Segments int `yaml:"segments"`
}

type yamlGraph struct {
	SyncNodes []yamlSyncNode `yaml:"sync_nodes"`
	Modules   []yamlModule   `yaml:"modules"`
}

// EncodeYAML writes a YAML export of g to w, for downstream tooling that
// prefers a structured format over the textual dump (spec.md §6 leaves the
// output format to the implementation beyond the minimum textual dump).
func EncodeYAML(w io.Writer, net *petrinet.Net, g *Graph) error {
	out := yamlGraph{}
	for id, sm := range g.SyncNodes {
		node := yamlSyncNode{ID: uint32(id), Segments: sm.SegmentIDs}
		for _, e := range sm.Edges {
			node.Edges = append(node.Edges, yamlEdge{Transition: externName(net, e.Transition), Target: e.Target})
		}
		out.SyncNodes = append(out.SyncNodes, node)
	}
	for _, ms := range g.Modules {
		out.Modules = append(out.Modules, yamlModule{Segments: len(ms.Segments.Installed())})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(out)
}
