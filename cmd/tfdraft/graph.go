package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tfdraft/tfdraft-go/internal/depgraph"
	"github.com/tfdraft/tfdraft-go/internal/graph"
	"github.com/tfdraft/tfdraft-go/internal/planner"
)

func newGraphCmd() *cobra.Command {
	var (
		outputFormat  string
		clusterByType bool
		labelEdges    bool
		outputFile    string
	)

	cmd := &cobra.Command{
		Use:   "graph <resources.json>",
		Short: "Generate DOT graph of resource dependencies",
		Long: `Generate a DOT or Mermaid format graph showing resource dependencies.

The output can be rendered with Graphviz:
    tfdraft graph resources.json | dot -Tpng -o deps.png

Or used in GitHub markdown (Mermaid format):
    tfdraft graph resources.json -f mermaid

Examples:
    tfdraft graph resources.json
    tfdraft graph resources.json -c              # cluster by resource type
    tfdraft graph resources.json -l              # label edges with attributes
    tfdraft graph resources.json -f mermaid      # mermaid format`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraphCmd(args[0], outputFormat, clusterByType, labelEdges, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "dot", "Output format: dot or mermaid")
	cmd.Flags().BoolVarP(&clusterByType, "cluster", "c", false, "Cluster resources by type")
	cmd.Flags().BoolVarP(&labelEdges, "label-edges", "l", false, "Label edges with the referencing attribute")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runGraphCmd(path, format string, cluster, labelEdges bool, outputFile string) error {
	c, err := loadCatalog(path)
	if err != nil {
		return err
	}

	g, err := depgraph.Build(c)
	if err != nil {
		return err
	}
	if err := planner.CheckAcyclic(g); err != nil {
		return err
	}

	var graphFormat graph.Format
	switch format {
	case "dot":
		graphFormat = graph.FormatDOT
	case "mermaid":
		graphFormat = graph.FormatMermaid
	default:
		return fmt.Errorf("unknown format: %s (use 'dot' or 'mermaid')", format)
	}

	gen := &graph.Generator{
		Format:          graphFormat,
		ClusterByModule: cluster,
		LabelEdges:      labelEdges,
	}

	if outputFile == "" {
		return gen.Generate(g, os.Stdout)
	}

	out, err := gen.GenerateString(g)
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, []byte(out), 0644)
}
