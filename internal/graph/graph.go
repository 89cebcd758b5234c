// Package graph generates DOT and Mermaid format dependency diagrams from
// validated resource graphs.
package graph

import (
	"io"
	"strings"

	"github.com/emicklei/dot"

	tfdraft "github.com/tfdraft/tfdraft-go"
)

// Format specifies the output format for the diagram.
type Format string

const (
	// FormatDOT outputs Graphviz DOT format.
	FormatDOT Format = "dot"
	// FormatMermaid outputs Mermaid format for GitHub/markdown rendering.
	FormatMermaid Format = "mermaid"
)

// Generator creates dependency diagrams from resource graphs.
type Generator struct {
	// Format specifies the output format (dot or mermaid). Defaults to dot.
	Format Format

	// ClusterByModule groups resources into subgraphs by resource type.
	ClusterByModule bool

	// LabelEdges annotates each edge with the attribute that produced it.
	LabelEdges bool
}

// Generate creates a dependency diagram and writes it to w.
func (g *Generator) Generate(graph *tfdraft.Graph, w io.Writer) error {
	diagram := g.buildDiagram(graph)

	format := g.Format
	if format == "" {
		format = FormatDOT
	}

	var output string
	if format == FormatMermaid {
		output = dot.MermaidGraph(diagram, dot.MermaidTopToBottom)
	} else {
		output = diagram.String()
	}

	_, err := w.Write([]byte(output))
	return err
}

// GenerateString is a convenience method that returns the diagram as a string.
func (g *Generator) GenerateString(graph *tfdraft.Graph) (string, error) {
	var sb strings.Builder
	if err := g.Generate(graph, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// buildDiagram creates the dot.Graph structure from the resource graph.
func (g *Generator) buildDiagram(graph *tfdraft.Graph) *dot.Graph {
	diagram := dot.NewGraph(dot.Directed)
	diagram.Attr("rankdir", "TB")

	diagram.NodeInitializer(func(n dot.Node) {
		n.Attr("shape", "box")
		n.Attr("fontname", "Arial")
	})

	diagram.EdgeInitializer(func(e dot.Edge) {
		e.Attr("fontname", "Arial")
		e.Attr("fontsize", "10")
	})

	if g.ClusterByModule {
		g.addClusteredNodes(diagram, graph)
	} else {
		g.addNodes(diagram, graph)
	}

	for _, ref := range graph.References {
		from := diagram.Node(ref.From)
		to := diagram.Node(ref.To)
		e := diagram.Edge(from, to)
		if g.LabelEdges {
			e.Attr("label", ref.Attribute)
		}
	}

	return diagram
}

// addNodes adds resource nodes without clustering.
func (g *Generator) addNodes(diagram *dot.Graph, graph *tfdraft.Graph) {
	for _, r := range graph.Resources {
		n := diagram.Node(r.ID)
		n.Label(r.ID + "\\n[" + string(r.Type) + "]")
	}
}

// addClusteredNodes adds resource nodes grouped by resource type.
func (g *Generator) addClusteredNodes(diagram *dot.Graph, graph *tfdraft.Graph) {
	// Group resources by type, preserving graph order within a group.
	groups := make(map[tfdraft.ResourceType][]tfdraft.Resource)
	var order []tfdraft.ResourceType
	for _, r := range graph.Resources {
		if _, seen := groups[r.Type]; !seen {
			order = append(order, r.Type)
		}
		groups[r.Type] = append(groups[r.Type], r)
	}

	for _, typ := range order {
		members := groups[typ]
		if len(members) > 1 {
			cluster := diagram.Subgraph("cluster_"+string(typ), dot.ClusterOption{})
			cluster.Attr("label", string(typ))
			cluster.Attr("style", "rounded")
			cluster.Attr("bgcolor", "lightyellow")

			for _, r := range members {
				n := cluster.Node(r.ID)
				n.Label(r.ID + "\\n[" + string(r.Type) + "]")
			}
		} else {
			// Single resource, no cluster needed
			for _, r := range members {
				n := diagram.Node(r.ID)
				n.Label(r.ID + "\\n[" + string(r.Type) + "]")
			}
		}
	}
}
