// Package diagram converts Mermaid diagrams embedded in markdown into
// images via the mermaid-cli (mmdc) external renderer.
package diagram

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// mermaidFence matches fenced mermaid blocks in markdown.
var mermaidFence = regexp.MustCompile("(?s)```mermaid\\s*\n(.*?)\n```")

// Renderer shells out to mmdc to turn mermaid sources into PNG files.
type Renderer struct {
	// OutputDir receives the generated .mmd and .png files.
	OutputDir string

	// Command is the renderer binary. Defaults to "mmdc".
	Command string
}

func (r *Renderer) command() string {
	if r.Command == "" {
		return "mmdc"
	}
	return r.Command
}

// Available reports whether the renderer binary is on PATH.
// Install with: npm install -g @mermaid-js/mermaid-cli
func (r *Renderer) Available() bool {
	_, err := exec.LookPath(r.command())
	return err == nil
}

// ExtractBlocks returns the mermaid sources found in a markdown document.
func ExtractBlocks(markdown string) []string {
	var blocks []string
	for _, match := range mermaidFence.FindAllStringSubmatch(markdown, -1) {
		src := strings.TrimSpace(match[1])
		if src != "" {
			blocks = append(blocks, src)
		}
	}
	return blocks
}

// Render writes a mermaid source to disk and converts it to a PNG.
// It returns the path of the generated image.
func (r *Renderer) Render(name, src string) (string, error) {
	if err := os.MkdirAll(r.OutputDir, 0755); err != nil {
		return "", fmt.Errorf("creating diagram directory: %w", err)
	}

	mmdPath := filepath.Join(r.OutputDir, name+".mmd")
	pngPath := filepath.Join(r.OutputDir, name+".png")

	if err := os.WriteFile(mmdPath, []byte(src+"\n"), 0644); err != nil {
		return "", fmt.Errorf("writing diagram source: %w", err)
	}

	cmd := exec.Command(r.command(), "-i", mmdPath, "-o", pngPath)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("rendering %s: %w: %s", name, err, strings.TrimSpace(stderr.String()))
	}

	return pngPath, nil
}

// RenderMarkdown extracts every mermaid block from a markdown document and
// renders each to a PNG named after the document. It returns the generated
// image paths.
func (r *Renderer) RenderMarkdown(name, markdown string) ([]string, error) {
	blocks := ExtractBlocks(markdown)
	if len(blocks) == 0 {
		return nil, nil
	}

	var paths []string
	for i, src := range blocks {
		diagramName := name
		if len(blocks) > 1 {
			diagramName = fmt.Sprintf("%s_%d", name, i+1)
		}
		path, err := r.Render(diagramName, src)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
