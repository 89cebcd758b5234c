// Command design provides AI-assisted infrastructure design.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tfdraft/tfdraft-go/internal/diagram"
	"github.com/tfdraft/tfdraft-go/internal/interpret"
	"github.com/tfdraft/tfdraft-go/internal/pipeline"
	"github.com/tfdraft/tfdraft-go/internal/providers/gemini"
	"github.com/tfdraft/tfdraft-go/internal/providers/openai"
)

func newDesignCmd() *cobra.Command {
	var outputDir string
	var provider string
	var model string
	var skipRender bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "design <prompt>",
		Short: "AI-assisted infrastructure design",
		Long: `Design runs the full pipeline from a natural-language intent:

1. Requirements and planning documents
2. Architecture diagram (Mermaid, rendered to PNG when mmdc is installed)
3. Resource extraction and dependency-ordered plan
4. Terraform module sources

Providers:
    openai (default) - requires OPENAI_API_KEY
    gemini           - requires GEMINI_API_KEY

Example:
    tfdraft design "Create a web app with a VM, a database and a bucket"
    tfdraft design --provider gemini "Serverless image thumbnailer"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intent := strings.Join(args, " ")
			return runDesign(intent, outputDir, provider, model, skipRender, verbose)
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "output", "Output directory for generated files")
	cmd.Flags().StringVar(&provider, "provider", "openai", "AI provider: 'openai' or 'gemini'")
	cmd.Flags().StringVar(&model, "model", "", "Override the provider's default model")
	cmd.Flags().BoolVar(&skipRender, "skip-render", false, "Skip diagram PNG rendering")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline stage progress")

	return cmd
}

func runDesign(intent, outputDir, provider, model string, skipRender, verbose bool) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cleaning up...")
		cancel()
	}()

	completer, closer, err := newCompleter(ctx, provider, model)
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() {
			_ = closer()
		}()
	}

	logger := zap.NewNop()
	if verbose {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() {
			_ = logger.Sync()
		}()
	}

	config := pipeline.Config{
		OutputDir:   outputDir,
		Interpreter: interpret.New(completer),
		Logger:      logger,
	}
	if !skipRender {
		config.Renderer = &diagram.Renderer{
			OutputDir: filepath.Join(outputDir, "final"),
		}
	}

	fmt.Printf("Designing with %s...\n", provider)

	result, err := config.Run(ctx, intent)
	if err != nil {
		return fmt.Errorf("design failed: %w", err)
	}

	fmt.Println("\n--- Design Summary ---")
	fmt.Printf("Run ID: %s\n", result.RunID)
	fmt.Printf("Plan: %d modules\n", len(result.Plan.Modules))
	fmt.Println("Generated files:")
	for _, f := range []string{
		result.RequirementsPath,
		result.PlanningPath,
		result.DesignPath,
		result.ResourcesPath,
		result.PlanPath,
	} {
		fmt.Printf("  - %s\n", f)
	}
	fmt.Printf("  - %s\n", result.TerraformDir)
	for _, f := range result.DiagramPaths {
		fmt.Printf("  - %s\n", f)
	}

	return nil
}

// newCompleter builds the requested provider. The returned close function
// is nil for providers that hold no connection.
func newCompleter(ctx context.Context, provider, model string) (interpret.Completer, func() error, error) {
	switch provider {
	case "openai":
		p, err := openai.New(openai.Config{Model: model})
		if err != nil {
			return nil, nil, err
		}
		return p, nil, nil
	case "gemini":
		p, err := gemini.New(ctx, gemini.Config{Model: model})
		if err != nil {
			return nil, nil, err
		}
		return p, p.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown provider: %s (use 'openai' or 'gemini')", provider)
	}
}
