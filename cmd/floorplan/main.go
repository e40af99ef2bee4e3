// Command floorplan builds 3D interior scenes from floor-plan scripts.
//
// Usage:
//
//	floorplan build [-kernel prism|sdfx] [-o scene.json] plan.fp
//	floorplan rooms [-simplify tol] [-walls] [-o rooms.geojson] plan.fp
//	floorplan preview plan.fp
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chazu/floorplan/internal/telemetry"
	"github.com/chazu/floorplan/pkg/config"
	"github.com/chazu/floorplan/pkg/export"
	"github.com/chazu/floorplan/pkg/preview"
)

// errUsage reports bad command-line arguments.
var errUsage = errors.New("usage: floorplan build|rooms|preview [flags] plan.fp")

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	if telemetry.Enabled() {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("Warning: telemetry setup failed: %v", err)
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down telemetry: %v", err)
				}
			}()
		}
	}

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		log.Print(err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// run dispatches a subcommand. Output goes to stdout unless -o names a file.
func run(ctx context.Context, cfg config.Config, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	out := fs.String("o", "", "output file (default stdout)")

	switch cmd {
	case "build":
		k := fs.String("kernel", cfg.Kernel, "geometry kernel: prism or sdfx")
		if err := fs.Parse(args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		cfg.Kernel = *k
		res, err := evaluateFile(ctx, cfg, fs)
		if err != nil {
			return err
		}
		return writeJSON(*out, stdout, res)

	case "rooms":
		tol := fs.Float64("simplify", cfg.Simplify, "Douglas-Peucker tolerance, 0 disables")
		walls := fs.Bool("walls", false, "include wall footprints")
		if err := fs.Parse(args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		res, err := evaluateFile(ctx, cfg, fs)
		if err != nil {
			return err
		}
		fc := export.Rooms(res.Rooms, *tol)
		if *walls {
			fc = export.Walls(fc, res.Plan)
		}
		return writeJSON(*out, stdout, fc)

	case "preview":
		if err := fs.Parse(args); err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		res, err := evaluateFile(ctx, cfg, fs)
		if err != nil {
			return err
		}
		screen, err := preview.NewScreen()
		if err != nil {
			return fmt.Errorf("preview: %w", err)
		}
		defer screen.Close()
		r := preview.NewRenderer(screen.Canvas())
		draw := func() {
			r.Render(res.Plan, res.Rooms)
			screen.Show()
		}
		draw()
		screen.WaitKey(draw)
		return nil

	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

// evaluateFile reads the single positional argument and evaluates it.
func evaluateFile(ctx context.Context, cfg config.Config, fs *flag.FlagSet) (EvalResult, error) {
	if fs.NArg() != 1 {
		return EvalResult{}, errUsage
	}
	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return EvalResult{}, fmt.Errorf("read plan: %w", err)
	}
	app, err := NewApp(cfg, nil)
	if err != nil {
		return EvalResult{}, err
	}
	res := app.Evaluate(ctx, string(src))
	for _, w := range res.Warnings {
		log.Printf("warning: %s", w.Message)
	}
	if len(res.Errors) > 0 {
		errs := make([]error, 0, len(res.Errors))
		for _, e := range res.Errors {
			if e.Line > 0 {
				errs = append(errs, fmt.Errorf("%s:%d: %s", fs.Arg(0), e.Line, e.Message))
			} else {
				errs = append(errs, fmt.Errorf("%s: %s", fs.Arg(0), e.Message))
			}
		}
		return EvalResult{}, errors.Join(errs...)
	}
	return res, nil
}

func writeJSON(path string, stdout io.Writer, v any) error {
	w := stdout
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
