// Package pipeline runs the end-to-end design flow: natural-language
// intent in, planning documents, dependency-ordered plan, diagrams and
// Terraform sources out.
//
// Stages run sequentially and synchronously. Language understanding goes
// through the interpret capability; planning, grouping and code generation
// are local, deterministic functions. All configuration is passed in
// explicitly; the pipeline keeps no process-wide state between runs.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	tfdraft "github.com/tfdraft/tfdraft-go"
	"github.com/tfdraft/tfdraft-go/internal/catalog"
	"github.com/tfdraft/tfdraft-go/internal/diagram"
	"github.com/tfdraft/tfdraft-go/internal/hclgen"
	"github.com/tfdraft/tfdraft-go/internal/interpret"
	"github.com/tfdraft/tfdraft-go/internal/planner"
	"github.com/tfdraft/tfdraft-go/internal/serialize"
)

// Config carries everything a run needs. Nothing is read from globals.
type Config struct {
	// OutputDir is the root of all generated artifacts. Defaults to "output".
	OutputDir string

	// Interpreter supplies the language-understanding stages.
	Interpreter *interpret.Interpreter

	// Renderer converts mermaid diagrams to images. Nil skips rendering,
	// as does an unavailable renderer binary.
	Renderer *diagram.Renderer

	// Logger receives stage progress. Defaults to a no-op logger.
	Logger *zap.Logger
}

// Result collects the artifacts of one pipeline run.
type Result struct {
	RunID            string
	Provider         string
	RequirementsPath string
	PlanningPath     string
	DesignPath       string
	ResourcesPath    string
	PlanPath         string
	TerraformDir     string
	DiagramPaths     []string
	Plan             *tfdraft.Plan
}

// Run executes the full design pipeline for one intent statement.
// Any stage failure aborts the run; later stages never see partial input.
func (c Config) Run(ctx context.Context, intent string) (*Result, error) {
	if c.Interpreter == nil {
		return nil, fmt.Errorf("pipeline: interpreter is required")
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	result := &Result{
		RunID:    uuid.NewString(),
		Provider: c.Interpreter.Provider(),
	}
	logger = logger.With(zap.String("run_id", result.RunID), zap.String("provider", result.Provider))

	finalDir := filepath.Join(c.OutputDir, "final")
	terraformDir := filepath.Join(finalDir, "terraform")
	for _, dir := range []string{c.OutputDir, finalDir, terraformDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	// Stage 1: requirements document.
	requirements, err := c.Interpreter.Document(ctx, interpret.RequirementsSystemPrompt,
		fmt.Sprintf(interpret.RequirementsPrompt, intent))
	if err != nil {
		return nil, fmt.Errorf("requirements stage: %w", err)
	}
	result.RequirementsPath = filepath.Join(c.OutputDir, "customer_requirement.md")
	if err := os.WriteFile(result.RequirementsPath, []byte(requirements), 0644); err != nil {
		return nil, fmt.Errorf("writing requirements: %w", err)
	}
	logger.Info("requirements document written", zap.String("path", result.RequirementsPath))

	// Stage 2: planning document.
	planning, err := c.Interpreter.Document(ctx, interpret.PlanningSystemPrompt,
		fmt.Sprintf(interpret.PlanningPrompt, intent))
	if err != nil {
		return nil, fmt.Errorf("planning stage: %w", err)
	}
	result.PlanningPath = filepath.Join(finalDir, "planning_output.md")
	if err := os.WriteFile(result.PlanningPath, []byte(planning), 0644); err != nil {
		return nil, fmt.Errorf("writing planning document: %w", err)
	}
	logger.Info("planning document written", zap.String("path", result.PlanningPath))

	// Stage 3: architecture design document with mermaid diagram.
	design, err := c.Interpreter.Document(ctx, interpret.DesignSystemPrompt,
		fmt.Sprintf(interpret.DesignPrompt, planning))
	if err != nil {
		return nil, fmt.Errorf("design stage: %w", err)
	}
	result.DesignPath = filepath.Join(finalDir, "design_output.md")
	if err := os.WriteFile(result.DesignPath, []byte(design), 0644); err != nil {
		return nil, fmt.Errorf("writing design document: %w", err)
	}
	logger.Info("design document written", zap.String("path", result.DesignPath))

	// Stage 4: structured resource extraction.
	resources, err := c.Interpreter.Interpret(ctx, intent)
	if err != nil {
		return nil, fmt.Errorf("resource extraction stage: %w", err)
	}
	logger.Info("resources extracted", zap.Int("count", len(resources)))

	resourcesJSON, err := serialize.ResourcesToJSON(resources)
	if err != nil {
		return nil, err
	}
	result.ResourcesPath = filepath.Join(c.OutputDir, "infra_plan.json")
	if err := os.WriteFile(result.ResourcesPath, resourcesJSON, 0644); err != nil {
		return nil, fmt.Errorf("writing resource descriptions: %w", err)
	}

	// Stage 5: deterministic dependency planning. This stage is pure:
	// it never consults the model and fails hard on structural problems.
	cat, err := catalog.FromResources(resources)
	if err != nil {
		return nil, fmt.Errorf("planning stage: %w", err)
	}
	plan, graph, err := planner.Plan(cat)
	if err != nil {
		return nil, fmt.Errorf("planning stage: %w", err)
	}
	result.Plan = plan

	planJSON, err := serialize.ToJSON(plan)
	if err != nil {
		return nil, err
	}
	result.PlanPath = filepath.Join(c.OutputDir, "infra_plan_with_dependencies.json")
	if err := os.WriteFile(result.PlanPath, planJSON, 0644); err != nil {
		return nil, fmt.Errorf("writing plan: %w", err)
	}
	logger.Info("dependency plan written",
		zap.String("path", result.PlanPath),
		zap.Int("modules", len(plan.Modules)))

	// Stage 6: Terraform sources, root and module implementations.
	files, err := hclgen.Generate(plan, graph)
	if err != nil {
		return nil, fmt.Errorf("terraform stage: %w", err)
	}
	result.TerraformDir = terraformDir
	if err := files.WriteTree(terraformDir); err != nil {
		return nil, fmt.Errorf("terraform stage: %w", err)
	}
	logger.Info("terraform sources written",
		zap.String("dir", terraformDir),
		zap.Int("modules", len(files.Modules)))

	// Stage 7: diagram rendering, best effort. A missing renderer leaves
	// the mermaid source in the design document untouched.
	if c.Renderer != nil {
		if !c.Renderer.Available() {
			logger.Warn("diagram renderer not available, skipping",
				zap.String("command", "mmdc"))
		} else {
			paths, err := c.Renderer.RenderMarkdown("design", design)
			if err != nil {
				return nil, fmt.Errorf("diagram stage: %w", err)
			}
			result.DiagramPaths = paths
			logger.Info("diagrams rendered", zap.Int("count", len(paths)))
		}
	}

	return result, nil
}
