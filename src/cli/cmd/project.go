package cmd

import (
	"fmt"
	"os"

	"github.com/sailkite/dockyard/src/config"
	"github.com/sailkite/dockyard/src/gitver"
	"github.com/sailkite/dockyard/src/graph"
	"github.com/sailkite/dockyard/src/model"
	"github.com/sailkite/dockyard/src/workspace"
)

// project is the fully wired task graph for the current directory.
type project struct {
	rootDir    string
	images     *model.Container[*model.Image]
	registries *model.Container[*model.Registry]
	tasks      *graph.Registry
}

// buildProject applies the loaded manifest to fresh entity containers and
// synthesizes the task graph.
func buildProject() (*project, error) {
	rootDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	p := &project{
		rootDir:    rootDir,
		images:     model.NewImages(),
		registries: model.NewRegistries(),
		tasks:      graph.NewRegistry(),
	}

	defaults := config.Defaults{
		ProjectName:    func() string { return projectName(rootDir) },
		ProjectVersion: func() string { return projectVersion(rootDir) },
	}
	if err := cfg.Apply(p.images, p.registries, defaults); err != nil {
		return nil, fmt.Errorf("applying config: %w", err)
	}

	engine := graph.NewEngine(p.images, p.registries, p.tasks, workspace.New(rootDir))
	if err := engine.Synthesize(); err != nil {
		return nil, fmt.Errorf("synthesizing tasks: %w", err)
	}
	return p, nil
}

func projectName(rootDir string) string {
	if cfg.Project != "" {
		return cfg.Project
	}
	return gitver.ProjectName(rootDir)
}

func projectVersion(rootDir string) string {
	if cfg.Version != "" {
		return cfg.Version
	}
	v, err := gitver.DetectVersion(rootDir)
	if err != nil {
		// Outside a repository there is nothing to derive from.
		return "latest"
	}
	return v.Version
}
