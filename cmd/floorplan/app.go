package main

import (
	"context"
	"fmt"
	"log"

	"github.com/chazu/floorplan/pkg/config"
	"github.com/chazu/floorplan/pkg/engine"
	"github.com/chazu/floorplan/pkg/kernel"
	"github.com/chazu/floorplan/pkg/kernel/prism"
	"github.com/chazu/floorplan/pkg/kernel/sdfx"
	"github.com/chazu/floorplan/pkg/plan"
	"github.com/chazu/floorplan/pkg/tessellate"
)

// wallPalette assigns distinct colors to walls.
var wallPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Surface colors.
const (
	groundColor  = "#C8B79E"
	ceilingColor = "#F5F5F5"
)

// App ties the engine, the kernel and the scene pipeline together.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	cfg    config.Config
	logger *log.Logger
}

// MeshData is the JSON-serializable mesh format written by `build`.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Name     string    `json:"name"`
	Kind     string    `json:"kind"`
	Color    string    `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error or warning.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result of one evaluation.
type EvalResult struct {
	Meshes   []MeshData        `json:"meshes"`
	Rooms    []tessellate.Room `json:"rooms"`
	Errors   []EvalErrorData   `json:"errors"`
	Warnings []EvalErrorData   `json:"warnings"`

	Plan *plan.Plan `json:"-"`
}

// NewApp creates an App for cfg.
func NewApp(cfg config.Config, logger *log.Logger) (*App, error) {
	k, err := newKernel(cfg)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &App{
		engine: engine.NewEngineWithDefaults(cfg.Plan),
		kernel: k,
		cfg:    cfg,
		logger: logger,
	}, nil
}

func newKernel(cfg config.Config) (kernel.Kernel, error) {
	switch cfg.Kernel {
	case config.KernelPrism, "":
		return prism.New(), nil
	case config.KernelSdfx:
		return sdfx.New(cfg.MeshCells), nil
	default:
		return nil, fmt.Errorf("unknown kernel %q", cfg.Kernel)
	}
}

// Evaluate takes plan source and returns mesh data, rooms and errors.
func (a *App) Evaluate(ctx context.Context, source string) EvalResult {
	result := EvalResult{
		Meshes:   []MeshData{},
		Rooms:    []tessellate.Room{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	// Step 1: Evaluate the source into a plan.
	res, err := a.engine.Run(source)
	if err != nil {
		a.logger.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		return result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}
	result.Plan = res.Plan

	// Step 2: Build the scene.
	scene, err := tessellate.Build(ctx, res.Plan, a.kernel, tessellate.Options{Logger: a.logger})
	if err != nil {
		a.logger.Printf("Build error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: "build failed: " + err.Error()})
		return result
	}
	for _, w := range scene.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w})
	}

	// Step 3: Convert kernel meshes to the output format.
	walls := 0
	for _, m := range scene.Meshes {
		color := groundColor
		switch m.Kind {
		case tessellate.KindWall:
			color = wallPalette[walls%len(wallPalette)]
			walls++
		case tessellate.KindCeiling:
			color = ceilingColor
		}
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Name:     m.Name,
			Kind:     m.Kind,
			Color:    color,
		})
	}
	result.Rooms = append(result.Rooms, scene.Rooms...)
	return result
}
